// ArtLens - Museum Artwork Recognition and Visitor Analytics
// Copyright 2026 ArtLens Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/artlens/artlens

package models

import (
	"time"

	"github.com/google/uuid"
)

// MuseumSummary aggregates museum-wide engagement over a reporting window.
type MuseumSummary struct {
	WindowDays        int          `json:"window_days"`
	TotalScans        int64        `json:"total_scans"`
	UniqueSessions    int64        `json:"unique_sessions"`
	TotalInteractions int64        `json:"total_interactions"`
	UniqueArtworks    int64        `json:"unique_artworks_scanned"`
	AvgSimilarity     float64      `json:"avg_similarity_score"`
	DailyScans        []DailyCount `json:"daily_scans"`
	TopArtworks       []TopArtwork `json:"top_artworks"`
	GeneratedAt       time.Time    `json:"generated_at"`
}

// DailyCount is one day of a time series.
type DailyCount struct {
	Date  string `json:"date"`
	Count int64  `json:"count"`
}

// TopArtwork ranks an artwork by scan volume within a reporting window.
type TopArtwork struct {
	ArtworkID uuid.UUID `json:"artwork_id"`
	Title     string    `json:"title"`
	Artist    string    `json:"artist"`
	ScanCount int64     `json:"scan_count"`
}

// ReactionCount is the volume of one feedback reaction.
type ReactionCount struct {
	Reaction string `json:"reaction"`
	Count    int64  `json:"count"`
}

// ArtworkInsights is per-artwork engagement detail: scan volume, similarity
// score spread, when visitors scan it, and what they think of it.
// HourlyScans[h] counts scans at hour h across the window.
type ArtworkInsights struct {
	ArtworkID      uuid.UUID       `json:"artwork_id"`
	Title          string          `json:"title"`
	WindowDays     int             `json:"window_days"`
	ScanCount      int64           `json:"scan_count"`
	UniqueSessions int64           `json:"unique_sessions"`
	AvgScore       float64         `json:"avg_similarity_score"`
	MinScore       float64         `json:"min_similarity_score"`
	MaxScore       float64         `json:"max_similarity_score"`
	DailyScans     []DailyCount    `json:"daily_scans"`
	HourlyScans    [24]int64       `json:"hourly_scans"`
	Reactions      []ReactionCount `json:"reactions"`
	GeneratedAt    time.Time       `json:"generated_at"`
}

// Heatmap is interaction volume bucketed by day of week and hour of day.
// Cells[d][h] holds the count for weekday d (0=Sunday, matching
// time.Weekday) at hour h.
type Heatmap struct {
	WindowDays  int          `json:"window_days"`
	Cells       [7][24]int64 `json:"cells"`
	PeakWeekday time.Weekday `json:"peak_weekday"`
	PeakHour    int          `json:"peak_hour"`
	Total       int64        `json:"total"`
	GeneratedAt time.Time    `json:"generated_at"`
}

// RecommendedArtwork is a catalogue entry surfaced to a visitor, scored by
// fingerprint similarity against what the session has already scanned.
// Score is the mean similarity to the session's interaction history; sessions
// without consent or history receive popularity-ranked entries with a
// neutral 0.5 score.
type RecommendedArtwork struct {
	Artwork Artwork `json:"artwork"`
	Score   float64 `json:"score"`
	Reason  string  `json:"reason"`
}

// SimilarArtwork pairs a catalogue entry with its fingerprint similarity to
// a reference artwork.
type SimilarArtwork struct {
	Artwork Artwork `json:"artwork"`
	Score   float64 `json:"score"`
}
