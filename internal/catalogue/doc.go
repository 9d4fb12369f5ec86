// ArtLens - Museum Artwork Recognition and Visitor Analytics
// Copyright 2026 ArtLens Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/artlens/artlens

/*
Package catalogue manages the artwork catalogue and serves scan candidates.

DuckDB holds the durable catalogue; this package keeps an in-memory view of
it for the scan hot path so resolving a scan never issues a query:

  - snapshot: every artwork row, in catalogue insertion order. The scan
    resolver breaks equal similarity scores by catalogue position, so the
    snapshot must hand out candidates in exactly the order artworks entered
    the catalogue.

  - spatialIndex: an R-tree over the geofence bounding boxes of on-display
    artworks. A visitor position is shortlisted against the boxes first;
    the exact great-circle check happens in the resolver.

Writes go through Service (Create, Update, Delete), which updates DuckDB
and the in-memory view together. The fingerprint pipeline runs at write
time: a reference image is decoded and fingerprinted once, on upload, with
a content-addressed BadgerDB cache (ExtractionCache) in front so identical
bytes are never fingerprinted twice. Scans only read stored fingerprints.

Fingerprints handed out by the snapshot are shared, not copied. They are
treated as immutable everywhere: updates replace the pointer, never the
pointed-to data.

# Seeding

Seed inserts a small deterministic sample catalogue. Reference images are
generated procedurally, so the seeded fingerprints are identical on every
run and the sample catalogue is usable in scan tests and demos without
binary fixtures. Seeding is idempotent by (title, artist).
*/
package catalogue
