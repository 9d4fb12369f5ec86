// ArtLens - Museum Artwork Recognition and Visitor Analytics
// Copyright 2026 ArtLens Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/artlens/artlens

package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/artlens/artlens/internal/fingerprint"
)

// DefaultGeofenceRadiusM is the activation radius applied when a catalogue
// entry is created without one. It matches the column default in the
// artworks schema.
const DefaultGeofenceRadiusM = 100.0

// Artwork is a catalogued museum piece: descriptive metadata, the geofenced
// location it is displayed at, and the reference fingerprint scans are
// matched against.
//
// The fingerprint is never serialized into API responses; clients interact
// with it only indirectly through scan results. Latitude/Longitude use WGS84
// decimal degrees and GeofenceRadiusM is the activation radius in meters
// around the display location.
type Artwork struct {
	ID              uuid.UUID                `json:"id"`
	Title           string                   `json:"title"`
	Artist          string                   `json:"artist"`
	Description     string                   `json:"description,omitempty"`
	Category        string                   `json:"category,omitempty"`
	YearCreated     *int                     `json:"year_created,omitempty"`
	ImagePath       string                   `json:"image_path,omitempty"`
	Latitude        float64                  `json:"latitude"`
	Longitude       float64                  `json:"longitude"`
	GeofenceRadiusM float64                  `json:"geofence_radius_m"`
	Fingerprint     *fingerprint.Fingerprint `json:"-"`
	IsOnDisplay     bool                     `json:"is_on_display"`
	ScanCount       int64                    `json:"scan_count"`
	CreatedAt       time.Time                `json:"created_at"`
	UpdatedAt       time.Time                `json:"updated_at"`
}

// ArtworkFilter restricts artwork listings. Zero values mean "no
// restriction"; OnDisplay is a tri-state pointer so callers can ask for
// displayed, hidden, or all artworks.
type ArtworkFilter struct {
	Category  string
	Artist    string
	OnDisplay *bool
	Search    string
	Limit     int
	Offset    int
}
