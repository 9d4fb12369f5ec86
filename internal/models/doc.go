// ArtLens - Museum Artwork Recognition and Visitor Analytics
// Copyright 2026 ArtLens Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/artlens/artlens

// Package models defines the data structures shared across the ArtLens
// application: catalogued artworks, anonymous visitor sessions and their
// interactions, analytics results, and the API request/response envelope.
//
// Models are plain data carriers. Behavior lives in the packages that own
// it: geofence math in internal/geo, fingerprint comparison in
// internal/fingerprint, scan resolution in internal/scan.
package models
