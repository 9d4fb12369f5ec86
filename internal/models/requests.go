// ArtLens - Museum Artwork Recognition and Visitor Analytics
// Copyright 2026 ArtLens Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/artlens/artlens

package models

// GeofenceCheckRequest asks whether a visitor position can reach a target
// position within an activation radius. The target is explicit rather than
// an artwork reference so curators can probe a geofence before the artwork
// is catalogued.
type GeofenceCheckRequest struct {
	UserLatitude    float64 `json:"user_latitude" validate:"latitude"`
	UserLongitude   float64 `json:"user_longitude" validate:"longitude"`
	TargetLatitude  float64 `json:"target_latitude" validate:"latitude"`
	TargetLongitude float64 `json:"target_longitude" validate:"longitude"`
	RadiusMeters    float64 `json:"radius_m" validate:"required,min=1,max=10000"`
}

// CreateArtworkRequest registers a new catalogue entry. The reference image
// is uploaded separately as multipart form data alongside this payload; the
// fingerprint is extracted server-side.
type CreateArtworkRequest struct {
	Title           string  `json:"title" validate:"required,min=1,max=200"`
	Artist          string  `json:"artist" validate:"required,min=1,max=200"`
	Description     string  `json:"description,omitempty" validate:"max=5000"`
	Category        string  `json:"category,omitempty" validate:"max=100"`
	YearCreated     *int    `json:"year_created,omitempty" validate:"omitempty,min=-3000,max=2100"`
	Latitude        float64 `json:"latitude" validate:"min=-90,max=90"`
	Longitude       float64 `json:"longitude" validate:"min=-180,max=180"`
	GeofenceRadiusM float64 `json:"geofence_radius_m" validate:"min=1,max=10000"`
	IsOnDisplay     *bool   `json:"is_on_display,omitempty"`
}

// UpdateArtworkRequest modifies an existing catalogue entry. All fields are
// optional; only non-nil fields are applied.
type UpdateArtworkRequest struct {
	Title           *string  `json:"title,omitempty" validate:"omitempty,min=1,max=200"`
	Artist          *string  `json:"artist,omitempty" validate:"omitempty,min=1,max=200"`
	Description     *string  `json:"description,omitempty" validate:"omitempty,max=5000"`
	Category        *string  `json:"category,omitempty" validate:"omitempty,max=100"`
	YearCreated     *int     `json:"year_created,omitempty" validate:"omitempty,min=-3000,max=2100"`
	Latitude        *float64 `json:"latitude,omitempty" validate:"omitempty,min=-90,max=90"`
	Longitude       *float64 `json:"longitude,omitempty" validate:"omitempty,min=-180,max=180"`
	GeofenceRadiusM *float64 `json:"geofence_radius_m,omitempty" validate:"omitempty,min=1,max=10000"`
	IsOnDisplay     *bool    `json:"is_on_display,omitempty"`
}

// CreateSessionRequest starts an anonymous visitor session. Consent defaults
// to true when the field is omitted, same as sessions minted lazily by the
// scan endpoint; an explicit false creates a session whose interactions are
// never recorded.
type CreateSessionRequest struct {
	AnalyticsConsent *bool  `json:"analytics_consent"`
	DeviceType       string `json:"device_type,omitempty" validate:"omitempty,oneof=phone tablet other"`
	Language         string `json:"language,omitempty" validate:"omitempty,bcp47_language_tag"`
}

// InteractionRequest records a visitor action on an artwork. Scan
// interactions are created internally by the scan pipeline and cannot be
// submitted through this request.
type InteractionRequest struct {
	SessionID       string `json:"session_id" validate:"required,uuid4"`
	ArtworkID       string `json:"artwork_id" validate:"required,uuid4"`
	InteractionType string `json:"interaction_type" validate:"required,oneof=view_details play_audio watch_video view_related"`
}

// FeedbackRequest submits or replaces a visitor's reaction to an artwork.
type FeedbackRequest struct {
	SessionID string `json:"session_id" validate:"required,uuid4"`
	ArtworkID string `json:"artwork_id" validate:"required,uuid4"`
	Reaction  string `json:"reaction" validate:"required,oneof=love like neutral dislike"`
	Comment   string `json:"comment,omitempty" validate:"max=2000"`
}
