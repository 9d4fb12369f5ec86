// ArtLens - Museum Artwork Recognition and Visitor Analytics
// Copyright 2026 ArtLens Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/artlens/artlens

package events

import (
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/artlens/artlens/internal/scan"
)

// TopicScanMatched carries one event per accepted scan.
const TopicScanMatched = "scan.matched"

// ScanMatchedEvent records one accepted scan: which session matched which
// artwork, how strong the match was, and how far the visitor stood from it.
type ScanMatchedEvent struct {
	ScanID         uuid.UUID       `json:"scan_id"`
	SessionID      uuid.UUID       `json:"session_id"`
	ArtworkID      uuid.UUID       `json:"artwork_id"`
	Score          float64         `json:"score"`
	DistanceMeters float64         `json:"distance_meters"`
	Confidence     scan.Confidence `json:"confidence"`
	OccurredAt     time.Time       `json:"occurred_at"`
}

// NewScanMatched stamps a fresh scan ID and UTC timestamp onto the match
// facts produced by the resolver.
func NewScanMatched(sessionID, artworkID uuid.UUID, score, distanceMeters float64, confidence scan.Confidence) *ScanMatchedEvent {
	return &ScanMatchedEvent{
		ScanID:         uuid.New(),
		SessionID:      sessionID,
		ArtworkID:      artworkID,
		Score:          score,
		DistanceMeters: distanceMeters,
		Confidence:     confidence,
		OccurredAt:     time.Now().UTC(),
	}
}

// Validate checks the fields consumers rely on. Events are produced
// in-process, so a failure here means a programming error or a foreign
// payload on the topic.
func (e *ScanMatchedEvent) Validate() error {
	if e.ScanID == uuid.Nil {
		return fmt.Errorf("scan_id: required")
	}
	if e.SessionID == uuid.Nil {
		return fmt.Errorf("session_id: required")
	}
	if e.ArtworkID == uuid.Nil {
		return fmt.Errorf("artwork_id: required")
	}
	if e.Score < 0 || e.Score > 1 {
		return fmt.Errorf("score: must be within [0, 1], got %v", e.Score)
	}
	return nil
}

// Message marshals the event into a Watermill message. The scan ID doubles
// as the message UUID, which is the key the router's deduplicator claims.
func (e *ScanMatchedEvent) Message() (*message.Message, error) {
	payload, err := json.Marshal(e)
	if err != nil {
		return nil, fmt.Errorf("marshal scan event: %w", err)
	}

	msg := message.NewMessage(e.ScanID.String(), payload)
	msg.Metadata.Set("session_id", e.SessionID.String())
	msg.Metadata.Set("artwork_id", e.ArtworkID.String())
	msg.Metadata.Set("confidence", string(e.Confidence))
	return msg, nil
}

// DecodeScanMatched unmarshals a message payload back into an event.
func DecodeScanMatched(msg *message.Message) (*ScanMatchedEvent, error) {
	var event ScanMatchedEvent
	if err := json.Unmarshal(msg.Payload, &event); err != nil {
		return nil, fmt.Errorf("unmarshal scan event: %w", err)
	}
	return &event, nil
}
