// ArtLens - Museum Artwork Recognition and Visitor Analytics
// Copyright 2026 ArtLens Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/artlens/artlens

package scan

import "fmt"

// InvalidRequestError reports a scan request rejected during the locating
// stage, before any candidate work began.
type InvalidRequestError struct {
	// Field names the offending request field, e.g. "image".
	Field string

	// Reason is a short human-readable description.
	Reason string
}

func (e *InvalidRequestError) Error() string {
	return fmt.Sprintf("invalid scan request: %s: %s", e.Field, e.Reason)
}

func invalidRequest(field, reason string) *InvalidRequestError {
	return &InvalidRequestError{Field: field, Reason: reason}
}

// NoTargetsInRangeError terminates a scan during the filtering stage: no
// catalogued artwork's geofence contains the visitor's position.
type NoTargetsInRangeError struct {
	// NearestDistanceMeters is the distance to the closest catalogued
	// artwork, or -1 when the catalogue held no candidates at all.
	NearestDistanceMeters float64

	// Message is visitor-facing guidance toward the nearest artwork.
	Message string
}

func (e *NoTargetsInRangeError) Error() string {
	if e.NearestDistanceMeters < 0 {
		return "no artworks in range"
	}
	return fmt.Sprintf("no artworks in range (nearest %.0fm away)", e.NearestDistanceMeters)
}

// NoConfidentMatchError terminates a scan during the matching stage: every
// in-range candidate scored below the acceptance threshold.
type NoConfidentMatchError struct {
	// BestScore is the highest similarity observed.
	BestScore float64

	// Suggestions holds the top-scoring candidates (at most MaxSuggestions),
	// best first, so the visitor can pick manually.
	Suggestions []Match
}

func (e *NoConfidentMatchError) Error() string {
	return fmt.Sprintf("no confident match (best score %.2f)", e.BestScore)
}

// ScanFailedError wraps an unexpected failure inside the resolution
// pipeline. Expected outcomes (invalid request, nothing in range, no
// confident match) use their own types; everything else surfaces here with
// the stage that was running. The cause is reachable through errors.As,
// which callers use to map, for example, an undecodable image to a client
// error.
type ScanFailedError struct {
	Stage Stage
	cause error
}

func (e *ScanFailedError) Error() string {
	return fmt.Sprintf("scan failed during %s: %v", e.Stage, e.cause)
}

func (e *ScanFailedError) Unwrap() error { return e.cause }

func scanFailed(stage Stage, cause error) *ScanFailedError {
	return &ScanFailedError{Stage: stage, cause: cause}
}
