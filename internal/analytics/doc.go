// ArtLens - Museum Artwork Recognition and Visitor Analytics
// Copyright 2026 ArtLens Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/artlens/artlens

// Package analytics serves museum engagement reporting and visitor-facing
// discovery.
//
// Reporting (summary, per-artwork insights, heatmap) aggregates the
// interaction log in DuckDB. Responses are cached in-process for the
// configured TTL; the event pipeline clears the cache after every matched
// scan, so dashboards stay at most one request behind reality without
// hammering the database.
//
// Discovery (recommendations, similar artworks) never touches the database
// for artwork data: candidates and fingerprints come from the catalogue
// snapshot. A recommendation score is the mean fingerprint similarity
// between a candidate and the artworks the session has scanned; sessions
// with no usable history fall back to popularity ranking with a neutral
// score.
package analytics
