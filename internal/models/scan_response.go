// ArtLens - Museum Artwork Recognition and Visitor Analytics
// Copyright 2026 ArtLens Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/artlens/artlens

package models

import (
	"github.com/google/uuid"

	"github.com/artlens/artlens/internal/scan"
)

// ScanResponse is the payload returned for a successful match: the resolved
// artwork's full catalogue detail plus the match metrics, the proximity
// message, runner-up alternatives, and the session the scan was recorded
// under (minted server-side when the client did not supply one).
type ScanResponse struct {
	Artwork        *Artwork     `json:"artwork"`
	Score          float64      `json:"score"`
	Confidence     string       `json:"confidence"`
	DistanceMeters float64      `json:"distance_meters"`
	Message        string       `json:"message"`
	Alternatives   []scan.Match `json:"alternatives,omitempty"`
	SessionID      uuid.UUID    `json:"session_id"`
}
