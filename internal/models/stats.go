// ArtLens - Museum Artwork Recognition and Visitor Analytics
// Copyright 2026 ArtLens Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/artlens/artlens

package models

import "time"

// HealthStatus is the health check response.
type HealthStatus struct {
	Status            string    `json:"status"`
	Version           string    `json:"version"`
	DatabaseConnected bool      `json:"database_connected"`
	CatalogueLoaded   bool      `json:"catalogue_loaded"`
	ArtworkCount      int64     `json:"artwork_count"`
	Uptime            float64   `json:"uptime_seconds"`
	Timestamp         time.Time `json:"timestamp"`
}
