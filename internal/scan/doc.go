// ArtLens - Museum Artwork Recognition and Visitor Analytics
// Copyright 2026 ArtLens Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/artlens/artlens

// Package scan resolves a visitor's camera frame against the artwork
// catalogue.
//
// Resolution runs as a three-stage pipeline:
//
//	locating:  validate the request (image present, coordinates valid)
//	filtering: keep only candidates whose geofence contains the visitor
//	matching:  fingerprint the frame, score every in-range candidate,
//	           and accept the best score at or above the acceptance
//	           threshold
//
// Each stage either advances or terminates the scan with a typed error:
// filtering terminates with NoTargetsInRangeError, matching with
// NoConfidentMatchError. Unexpected failures are wrapped in ScanFailedError
// with the stage that was running; a scan never returns partial results.
//
// The pipeline is pure: it performs no I/O and touches no storage, so a
// scan is exactly reproducible from its inputs. Callers load candidates
// from the catalogue and record outcomes.
package scan
