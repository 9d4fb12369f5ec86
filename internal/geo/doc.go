// ArtLens - Museum Artwork Recognition and Visitor Analytics
// Copyright 2026 ArtLens Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/artlens/artlens

// Package geo implements the geofence evaluator that gates artwork scanning
// by visitor proximity.
//
// Every scannable artwork carries a reachability zone: a coordinate and a
// radius in meters. The evaluator computes the great-circle distance between
// the visitor and the artwork on the mean-Earth-radius sphere and decides
// accessibility with an inclusive boundary (a visitor standing exactly on
// the radius is in range).
//
// Evaluation is a pure function: no side effects, symmetric distance, and
// zero distance for identical coordinates. Invalid input never degrades to
// a default location; it fails with *InvalidLocationError so callers can
// surface the offending field.
package geo
