// ArtLens - Museum Artwork Recognition and Visitor Analytics
// Copyright 2026 ArtLens Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/artlens/artlens

package models

import (
	"time"

	"github.com/google/uuid"
)

// VisitorSession is an anonymous visit. Sessions carry no personal data:
// the ID is a random UUID minted on first contact and everything recorded
// against it is aggregate interaction history.
//
// AnalyticsConsent gates whether interactions are recorded at all; OptedOut
// marks a session whose visitor later withdrew consent (existing rows are
// deleted at opt-out, the flag prevents new ones).
type VisitorSession struct {
	ID                uuid.UUID `json:"id"`
	StartedAt         time.Time `json:"started_at"`
	LastActivity      time.Time `json:"last_activity"`
	AnalyticsConsent  bool      `json:"analytics_consent"`
	OptedOut          bool      `json:"opted_out"`
	ArtworksScanned   int64     `json:"artworks_scanned"`
	TotalInteractions int64     `json:"total_interactions"`
	DeviceType        string    `json:"device_type,omitempty"`
	Language          string    `json:"language,omitempty"`
}

// Interaction types recorded against a session. "scan" is created by the
// scan pipeline itself; the rest are reported by the client as the visitor
// uses artwork detail screens.
const (
	InteractionScan        = "scan"
	InteractionViewDetails = "view_details"
	InteractionPlayAudio   = "play_audio"
	InteractionWatchVideo  = "watch_video"
	InteractionViewRelated = "view_related"
)

// ValidInteractionType reports whether t is one of the recognized
// interaction type constants.
func ValidInteractionType(t string) bool {
	switch t {
	case InteractionScan, InteractionViewDetails, InteractionPlayAudio,
		InteractionWatchVideo, InteractionViewRelated:
		return true
	}
	return false
}

// ArtworkInteraction is one recorded visitor action on an artwork.
// SimilarityScore and DistanceMeters are populated only for scan
// interactions.
type ArtworkInteraction struct {
	ID              uuid.UUID `json:"id"`
	SessionID       uuid.UUID `json:"session_id"`
	ArtworkID       uuid.UUID `json:"artwork_id"`
	InteractionType string    `json:"interaction_type"`
	SimilarityScore *float64  `json:"similarity_score,omitempty"`
	DistanceMeters  *float64  `json:"distance_meters,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}

// Feedback reactions a visitor can leave on an artwork.
const (
	ReactionLove    = "love"
	ReactionLike    = "like"
	ReactionNeutral = "neutral"
	ReactionDislike = "dislike"
)

// ValidReaction reports whether r is one of the recognized reaction
// constants.
func ValidReaction(r string) bool {
	switch r {
	case ReactionLove, ReactionLike, ReactionNeutral, ReactionDislike:
		return true
	}
	return false
}

// VisitorFeedback is a per-session, per-artwork reaction with an optional
// free-text comment. One row per (session, artwork); resubmitting replaces
// the earlier reaction.
type VisitorFeedback struct {
	ID        uuid.UUID `json:"id"`
	SessionID uuid.UUID `json:"session_id"`
	ArtworkID uuid.UUID `json:"artwork_id"`
	Reaction  string    `json:"reaction"`
	Comment   string    `json:"comment,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
