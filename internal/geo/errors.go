// ArtLens - Museum Artwork Recognition and Visitor Analytics
// Copyright 2026 ArtLens Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/artlens/artlens

package geo

import "fmt"

// InvalidLocationError reports a coordinate or radius that cannot be
// evaluated. Field names the offending input ("user.latitude",
// "target.longitude", "radius_meters") so API layers can attach it to the
// request field that needs correcting.
type InvalidLocationError struct {
	Field  string
	Reason string
}

// Error implements the error interface.
func (e *InvalidLocationError) Error() string {
	return fmt.Sprintf("invalid location: %s %s", e.Field, e.Reason)
}

// invalidLocation builds an *InvalidLocationError for a named field.
func invalidLocation(field, reason string) *InvalidLocationError {
	return &InvalidLocationError{Field: field, Reason: reason}
}
