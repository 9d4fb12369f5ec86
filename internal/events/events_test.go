// ArtLens - Museum Artwork Recognition and Visitor Analytics
// Copyright 2026 ArtLens Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/artlens/artlens

package events

import (
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/artlens/artlens/internal/scan"
)

func TestNewScanMatched_StampsIdentityAndTime(t *testing.T) {
	t.Parallel()

	sessionID := uuid.New()
	artworkID := uuid.New()

	before := time.Now().UTC()
	event := NewScanMatched(sessionID, artworkID, 0.91, 12.4, scan.ConfidenceHigh)
	after := time.Now().UTC()

	if event.ScanID == uuid.Nil {
		t.Error("ScanID should be generated")
	}
	if event.SessionID != sessionID {
		t.Errorf("SessionID = %s, want %s", event.SessionID, sessionID)
	}
	if event.ArtworkID != artworkID {
		t.Errorf("ArtworkID = %s, want %s", event.ArtworkID, artworkID)
	}
	if event.Score != 0.91 {
		t.Errorf("Score = %v, want 0.91", event.Score)
	}
	if event.DistanceMeters != 12.4 {
		t.Errorf("DistanceMeters = %v, want 12.4", event.DistanceMeters)
	}
	if event.Confidence != scan.ConfidenceHigh {
		t.Errorf("Confidence = %q, want %q", event.Confidence, scan.ConfidenceHigh)
	}
	if event.OccurredAt.Before(before) || event.OccurredAt.After(after) {
		t.Errorf("OccurredAt = %v, want within [%v, %v]", event.OccurredAt, before, after)
	}
}

func TestScanMatchedEvent_MessageRoundTrip(t *testing.T) {
	t.Parallel()

	event := NewScanMatched(uuid.New(), uuid.New(), 0.87, 4.2, scan.ConfidenceHigh)

	msg, err := event.Message()
	if err != nil {
		t.Fatalf("Message() error: %v", err)
	}

	if msg.UUID != event.ScanID.String() {
		t.Errorf("message UUID = %q, want scan ID %q", msg.UUID, event.ScanID)
	}
	if got := msg.Metadata.Get("session_id"); got != event.SessionID.String() {
		t.Errorf("session_id metadata = %q, want %q", got, event.SessionID)
	}
	if got := msg.Metadata.Get("artwork_id"); got != event.ArtworkID.String() {
		t.Errorf("artwork_id metadata = %q, want %q", got, event.ArtworkID)
	}
	if got := msg.Metadata.Get("confidence"); got != "high" {
		t.Errorf("confidence metadata = %q, want %q", got, "high")
	}

	decoded, err := DecodeScanMatched(msg)
	if err != nil {
		t.Fatalf("DecodeScanMatched error: %v", err)
	}
	if decoded.ScanID != event.ScanID {
		t.Errorf("decoded ScanID = %s, want %s", decoded.ScanID, event.ScanID)
	}
	if decoded.SessionID != event.SessionID {
		t.Errorf("decoded SessionID = %s, want %s", decoded.SessionID, event.SessionID)
	}
	if decoded.ArtworkID != event.ArtworkID {
		t.Errorf("decoded ArtworkID = %s, want %s", decoded.ArtworkID, event.ArtworkID)
	}
	if decoded.Score != event.Score {
		t.Errorf("decoded Score = %v, want %v", decoded.Score, event.Score)
	}
	if decoded.DistanceMeters != event.DistanceMeters {
		t.Errorf("decoded DistanceMeters = %v, want %v", decoded.DistanceMeters, event.DistanceMeters)
	}
	if decoded.Confidence != event.Confidence {
		t.Errorf("decoded Confidence = %q, want %q", decoded.Confidence, event.Confidence)
	}
	if !decoded.OccurredAt.Equal(event.OccurredAt) {
		t.Errorf("decoded OccurredAt = %v, want %v", decoded.OccurredAt, event.OccurredAt)
	}
}

func TestScanMatchedEvent_WireFieldNames(t *testing.T) {
	t.Parallel()

	event := NewScanMatched(uuid.New(), uuid.New(), 0.75, 8.0, scan.ConfidenceMedium)

	payload, err := json.Marshal(event)
	if err != nil {
		t.Fatalf("Marshal error: %v", err)
	}

	var wire map[string]any
	if err := json.Unmarshal(payload, &wire); err != nil {
		t.Fatalf("Unmarshal error: %v", err)
	}

	for _, key := range []string{
		"scan_id", "session_id", "artwork_id",
		"score", "distance_meters", "confidence", "occurred_at",
	} {
		if _, ok := wire[key]; !ok {
			t.Errorf("wire payload missing %q: %s", key, payload)
		}
	}
	if wire["confidence"] != "medium" {
		t.Errorf("confidence = %v, want %q", wire["confidence"], "medium")
	}
}

func TestScanMatchedEvent_Validate(t *testing.T) {
	t.Parallel()

	valid := func() *ScanMatchedEvent {
		return NewScanMatched(uuid.New(), uuid.New(), 0.8, 5.0, scan.ConfidenceMedium)
	}

	tests := []struct {
		name    string
		mutate  func(*ScanMatchedEvent)
		wantErr bool
	}{
		{"valid", func(*ScanMatchedEvent) {}, false},
		{"zero score is valid", func(e *ScanMatchedEvent) { e.Score = 0 }, false},
		{"perfect score is valid", func(e *ScanMatchedEvent) { e.Score = 1 }, false},
		{"missing scan id", func(e *ScanMatchedEvent) { e.ScanID = uuid.Nil }, true},
		{"missing session id", func(e *ScanMatchedEvent) { e.SessionID = uuid.Nil }, true},
		{"missing artwork id", func(e *ScanMatchedEvent) { e.ArtworkID = uuid.Nil }, true},
		{"score above one", func(e *ScanMatchedEvent) { e.Score = 1.01 }, true},
		{"negative score", func(e *ScanMatchedEvent) { e.Score = -0.01 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			event := valid()
			tt.mutate(event)

			err := event.Validate()
			if tt.wantErr && err == nil {
				t.Error("Validate() = nil, want error")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("Validate() = %v, want nil", err)
			}
		})
	}
}

func TestDecodeScanMatched_MalformedPayload(t *testing.T) {
	t.Parallel()

	msg := message.NewMessage(uuid.New().String(), []byte("{not json"))

	if _, err := DecodeScanMatched(msg); err == nil {
		t.Error("DecodeScanMatched should reject a malformed payload")
	}
}
