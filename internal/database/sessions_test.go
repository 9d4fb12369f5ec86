// ArtLens - Museum Artwork Recognition and Visitor Analytics
// Copyright 2026 ArtLens Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/artlens/artlens

package database

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/artlens/artlens/internal/models"
)

func TestInsertSession_GetRoundtrip(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	want := &models.VisitorSession{
		AnalyticsConsent: true,
		DeviceType:       "tablet",
		Language:         "fr",
	}
	checkNoError(t, db.InsertSession(context.Background(), want))

	if want.ID == uuid.Nil {
		t.Fatal("InsertSession should assign an ID")
	}
	if want.StartedAt.IsZero() || want.LastActivity.IsZero() {
		t.Fatal("InsertSession should assign timestamps")
	}

	got, err := db.GetSession(context.Background(), want.ID)
	checkNoError(t, err)

	if !got.AnalyticsConsent {
		t.Error("AnalyticsConsent should be true")
	}
	if got.OptedOut {
		t.Error("OptedOut should be false for a new session")
	}
	checkStringEqual(t, "DeviceType", got.DeviceType, "tablet")
	checkStringEqual(t, "Language", got.Language, "fr")
	checkInt64Equal(t, "ArtworksScanned", got.ArtworksScanned, 0)
	checkInt64Equal(t, "TotalInteractions", got.TotalInteractions, 0)
}

func TestInsertSession_OptionalFieldsAbsent(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	s := &models.VisitorSession{AnalyticsConsent: false}
	checkNoError(t, db.InsertSession(context.Background(), s))

	got, err := db.GetSession(context.Background(), s.ID)
	checkNoError(t, err)
	checkStringEqual(t, "DeviceType", got.DeviceType, "")
	checkStringEqual(t, "Language", got.Language, "")
	if got.AnalyticsConsent {
		t.Error("AnalyticsConsent should stay false")
	}
}

func TestGetSession_NotFound(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	_, err := db.GetSession(context.Background(), uuid.New())
	if !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("expected ErrSessionNotFound, got %v", err)
	}
}

func TestTouchSession(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	s := &models.VisitorSession{
		AnalyticsConsent: true,
		StartedAt:        time.Now().UTC().Add(-time.Hour),
	}
	checkNoError(t, db.InsertSession(context.Background(), s))

	checkNoError(t, db.TouchSession(context.Background(), s.ID))

	got, err := db.GetSession(context.Background(), s.ID)
	checkNoError(t, err)
	if !got.LastActivity.After(got.StartedAt) {
		t.Errorf("LastActivity (%v) should advance past StartedAt (%v)", got.LastActivity, got.StartedAt)
	}
}

func TestTouchSession_NotFound(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	err := db.TouchSession(context.Background(), uuid.New())
	if !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("expected ErrSessionNotFound, got %v", err)
	}
}

// TestOptOutSession verifies opt-out wipes the session's recorded history
// and zeroes its counters while keeping the session row itself, flagged.
func TestOptOutSession(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	artworks := insertTestArtworks(t, db)
	session := insertTestSession(t, db)
	bystander := insertTestSession(t, db)

	for _, s := range []*models.VisitorSession{session, bystander} {
		checkNoError(t, db.InsertInteraction(context.Background(), &models.ArtworkInteraction{
			SessionID:       s.ID,
			ArtworkID:       artworks[0].ID,
			InteractionType: models.InteractionScan,
			SimilarityScore: floatPtr(0.88),
		}))
		checkNoError(t, db.UpsertFeedback(context.Background(), &models.VisitorFeedback{
			SessionID: s.ID,
			ArtworkID: artworks[0].ID,
			Reaction:  models.ReactionLike,
		}))
	}

	checkNoError(t, db.OptOutSession(context.Background(), session.ID))

	got, err := db.GetSession(context.Background(), session.ID)
	checkNoError(t, err)
	if !got.OptedOut {
		t.Error("OptedOut should be set")
	}
	if got.AnalyticsConsent {
		t.Error("AnalyticsConsent should be revoked")
	}
	checkInt64Equal(t, "ArtworksScanned", got.ArtworksScanned, 0)
	checkInt64Equal(t, "TotalInteractions", got.TotalInteractions, 0)

	ids, err := db.ListSessionArtworkIDs(context.Background(), session.ID)
	checkNoError(t, err)
	checkSliceEmpty(t, "opted-out history", len(ids))

	fb, err := db.GetFeedback(context.Background(), session.ID, artworks[0].ID)
	checkNoError(t, err)
	if fb != nil {
		t.Error("feedback should be deleted at opt-out")
	}

	// The other visitor's history is untouched.
	ids, err = db.ListSessionArtworkIDs(context.Background(), bystander.ID)
	checkNoError(t, err)
	checkSliceLen(t, "bystander history", len(ids), 1)
}

func TestOptOutSession_NotFound(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	err := db.OptOutSession(context.Background(), uuid.New())
	if !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("expected ErrSessionNotFound, got %v", err)
	}
}
