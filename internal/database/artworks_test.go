// ArtLens - Museum Artwork Recognition and Visitor Analytics
// Copyright 2026 ArtLens Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/artlens/artlens

package database

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/artlens/artlens/internal/models"
)

func TestInsertArtwork_GetRoundtrip(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	year := 1889
	want := &models.Artwork{
		Title:           "The Starry Night",
		Artist:          "Vincent van Gogh",
		Description:     "Oil on canvas, June 1889",
		Category:        "painting",
		YearCreated:     &year,
		ImagePath:       "images/starry-night.png",
		Latitude:        40.7794,
		Longitude:       -73.9632,
		GeofenceRadiusM: 50,
		Fingerprint:     testFingerprint(0xBEEF),
		IsOnDisplay:     true,
	}
	checkNoError(t, db.InsertArtwork(context.Background(), want))

	if want.ID == uuid.Nil {
		t.Fatal("InsertArtwork should assign an ID")
	}
	if want.CreatedAt.IsZero() || want.UpdatedAt.IsZero() {
		t.Fatal("InsertArtwork should assign timestamps")
	}

	got, err := db.GetArtwork(context.Background(), want.ID)
	checkNoError(t, err)

	checkStringEqual(t, "Title", got.Title, want.Title)
	checkStringEqual(t, "Artist", got.Artist, want.Artist)
	checkStringEqual(t, "Description", got.Description, want.Description)
	checkStringEqual(t, "Category", got.Category, want.Category)
	checkStringEqual(t, "ImagePath", got.ImagePath, want.ImagePath)
	if got.YearCreated == nil || *got.YearCreated != year {
		t.Errorf("YearCreated: expected %d, got %v", year, got.YearCreated)
	}
	checkFloatNear(t, "Latitude", got.Latitude, want.Latitude, 1e-9)
	checkFloatNear(t, "Longitude", got.Longitude, want.Longitude, 1e-9)
	checkFloatNear(t, "GeofenceRadiusM", got.GeofenceRadiusM, 50, 1e-9)
	if !got.IsOnDisplay {
		t.Error("IsOnDisplay should be true")
	}
	checkInt64Equal(t, "ScanCount", got.ScanCount, 0)

	if got.Fingerprint == nil {
		t.Fatal("Fingerprint should survive the roundtrip")
	}
	checkSliceLen(t, "Fingerprint.Hashes", len(got.Fingerprint.Hashes), 3)
	for i, h := range want.Fingerprint.Hashes {
		if got.Fingerprint.Hashes[i] != h {
			t.Errorf("Hashes[%d]: expected %v, got %v", i, h, got.Fingerprint.Hashes[i])
		}
	}
	checkSliceLen(t, "Fingerprint.Histogram", len(got.Fingerprint.Histogram), len(want.Fingerprint.Histogram))
	for i, v := range want.Fingerprint.Histogram {
		checkFloatNear(t, "Histogram bin", got.Fingerprint.Histogram[i], v, 1e-12)
	}
}

func TestInsertArtwork_OptionalFieldsAbsent(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	a := &models.Artwork{
		Title:           "Untitled",
		Artist:          "Unknown",
		Latitude:        40.0,
		Longitude:       -73.0,
		GeofenceRadiusM: 100,
	}
	checkNoError(t, db.InsertArtwork(context.Background(), a))

	got, err := db.GetArtwork(context.Background(), a.ID)
	checkNoError(t, err)

	if got.YearCreated != nil {
		t.Errorf("YearCreated should be nil, got %v", *got.YearCreated)
	}
	if got.Fingerprint != nil {
		t.Error("Fingerprint should be nil for an artwork inserted without one")
	}
	checkStringEqual(t, "Description", got.Description, "")
	checkStringEqual(t, "Category", got.Category, "")
}

func TestGetArtwork_NotFound(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	_, err := db.GetArtwork(context.Background(), uuid.New())
	if !errors.Is(err, ErrArtworkNotFound) {
		t.Errorf("expected ErrArtworkNotFound, got %v", err)
	}
}

// TestListArtworks_InsertionOrder verifies the catalogue lists in insertion
// order. Scan resolution breaks score ties by catalogue position, so the
// order must be stable.
func TestListArtworks_InsertionOrder(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	inserted := insertTestArtworks(t, db)

	listed, err := db.ListAllArtworks(context.Background())
	checkNoError(t, err)
	checkSliceLen(t, "artworks", len(listed), len(inserted))

	for i := range inserted {
		if listed[i].ID != inserted[i].ID {
			t.Errorf("position %d: expected %s (%s), got %s",
				i, inserted[i].ID, inserted[i].Title, listed[i].ID)
		}
	}
}

func TestListArtworks_CategoryFilter(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()
	insertTestArtworks(t, db)

	listed, err := db.ListArtworks(context.Background(), models.ArtworkFilter{Category: "sculpture"})
	checkNoError(t, err)
	checkSliceLen(t, "sculptures", len(listed), 1)
	checkStringEqual(t, "Title", listed[0].Title, "Bird in Space")
}

func TestListArtworks_ArtistFilter(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()
	insertTestArtworks(t, db)

	listed, err := db.ListArtworks(context.Background(), models.ArtworkFilter{Artist: "Vincent van Gogh"})
	checkNoError(t, err)
	checkSliceLen(t, "van Goghs", len(listed), 2)
}

func TestListArtworks_OnDisplayFilter(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()
	insertTestArtworks(t, db)

	onDisplay := true
	listed, err := db.ListArtworks(context.Background(), models.ArtworkFilter{OnDisplay: &onDisplay})
	checkNoError(t, err)
	checkSliceLen(t, "on display", len(listed), 4)

	offDisplay := false
	listed, err = db.ListArtworks(context.Background(), models.ArtworkFilter{OnDisplay: &offDisplay})
	checkNoError(t, err)
	checkSliceLen(t, "off display", len(listed), 1)
	checkStringEqual(t, "Title", listed[0].Title, "Study in Gray")
}

func TestListArtworks_Search(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()
	insertTestArtworks(t, db)

	// Case-insensitive across title, artist, and description.
	listed, err := db.ListArtworks(context.Background(), models.ArtworkFilter{Search: "starry"})
	checkNoError(t, err)
	checkSliceLen(t, "starry matches", len(listed), 1)

	listed, err = db.ListArtworks(context.Background(), models.ArtworkFilter{Search: "DALI"})
	checkNoError(t, err)
	checkSliceLen(t, "dali matches", len(listed), 1)

	listed, err = db.ListArtworks(context.Background(), models.ArtworkFilter{Search: "no such artwork"})
	checkNoError(t, err)
	checkSliceEmpty(t, "nonsense matches", len(listed))
}

// TestListArtworks_SearchEscapesWildcards feeds LIKE metacharacters through
// the search filter; they must match literally, not as patterns.
func TestListArtworks_SearchEscapesWildcards(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()
	insertTestArtworks(t, db)

	a := &models.Artwork{
		Title:     "100% Cotton",
		Artist:    "Textile Collective",
		Latitude:  40.0,
		Longitude: -73.0,
	}
	checkNoError(t, db.InsertArtwork(context.Background(), a))

	// An unescaped "%" would match every row.
	listed, err := db.ListArtworks(context.Background(), models.ArtworkFilter{Search: "100%"})
	checkNoError(t, err)
	checkSliceLen(t, "percent matches", len(listed), 1)
	checkStringEqual(t, "Title", listed[0].Title, "100% Cotton")

	// An unescaped "_" matches any single character.
	listed, err = db.ListArtworks(context.Background(), models.ArtworkFilter{Search: "_otton"})
	checkNoError(t, err)
	checkSliceEmpty(t, "underscore matches", len(listed))
}

func TestListArtworks_LimitOffset(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()
	inserted := insertTestArtworks(t, db)

	page, err := db.ListArtworks(context.Background(), models.ArtworkFilter{Limit: 2})
	checkNoError(t, err)
	checkSliceLen(t, "first page", len(page), 2)
	if page[0].ID != inserted[0].ID {
		t.Errorf("first page should start at the first insert, got %s", page[0].Title)
	}

	page, err = db.ListArtworks(context.Background(), models.ArtworkFilter{Limit: 2, Offset: 2})
	checkNoError(t, err)
	checkSliceLen(t, "second page", len(page), 2)
	if page[0].ID != inserted[2].ID {
		t.Errorf("second page should start at the third insert, got %s", page[0].Title)
	}
}

func TestUpdateArtwork(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	inserted := insertTestArtworks(t, db)
	a := inserted[0]
	checkNoError(t, db.IncrementScanCount(context.Background(), a.ID))

	a.Title = "The Starry Night (restored)"
	a.IsOnDisplay = false
	a.GeofenceRadiusM = 75
	checkNoError(t, db.UpdateArtwork(context.Background(), a))

	got, err := db.GetArtwork(context.Background(), a.ID)
	checkNoError(t, err)
	checkStringEqual(t, "Title", got.Title, "The Starry Night (restored)")
	if got.IsOnDisplay {
		t.Error("IsOnDisplay should be false after update")
	}
	checkFloatNear(t, "GeofenceRadiusM", got.GeofenceRadiusM, 75, 1e-9)
	// Updates never touch the scan counter.
	checkInt64Equal(t, "ScanCount", got.ScanCount, 1)
	if !got.UpdatedAt.After(got.CreatedAt) {
		t.Error("UpdatedAt should advance past CreatedAt on update")
	}
}

func TestUpdateArtwork_NotFound(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	ghost := &models.Artwork{ID: uuid.New(), Title: "Ghost", Artist: "Nobody"}
	err := db.UpdateArtwork(context.Background(), ghost)
	if !errors.Is(err, ErrArtworkNotFound) {
		t.Errorf("expected ErrArtworkNotFound, got %v", err)
	}
}

func TestUpdateArtworkFingerprint(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	inserted := insertTestArtworks(t, db)
	a := inserted[0]

	replacement := testFingerprint(0xF00D)
	checkNoError(t, db.UpdateArtworkFingerprint(context.Background(), a.ID, replacement))

	got, err := db.GetArtwork(context.Background(), a.ID)
	checkNoError(t, err)
	if got.Fingerprint == nil {
		t.Fatal("Fingerprint should be present after update")
	}
	if got.Fingerprint.Hashes[0] != replacement.Hashes[0] {
		t.Errorf("Hashes[0]: expected %v, got %v", replacement.Hashes[0], got.Fingerprint.Hashes[0])
	}
}

func TestUpdateArtworkFingerprint_NotFound(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	err := db.UpdateArtworkFingerprint(context.Background(), uuid.New(), testFingerprint(1))
	if !errors.Is(err, ErrArtworkNotFound) {
		t.Errorf("expected ErrArtworkNotFound, got %v", err)
	}
}

// TestDeleteArtwork_CascadesHistory verifies a delete removes the artwork's
// interactions and feedback without touching other artworks' history.
func TestDeleteArtwork_CascadesHistory(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	inserted := insertTestArtworks(t, db)
	doomed, kept := inserted[0], inserted[1]
	session := insertTestSession(t, db)

	for _, artworkID := range []uuid.UUID{doomed.ID, kept.ID} {
		checkNoError(t, db.InsertInteraction(context.Background(), &models.ArtworkInteraction{
			SessionID:       session.ID,
			ArtworkID:       artworkID,
			InteractionType: models.InteractionScan,
			SimilarityScore: floatPtr(0.9),
		}))
		checkNoError(t, db.UpsertFeedback(context.Background(), &models.VisitorFeedback{
			SessionID: session.ID,
			ArtworkID: artworkID,
			Reaction:  models.ReactionLove,
		}))
	}

	checkNoError(t, db.DeleteArtwork(context.Background(), doomed.ID))

	_, err := db.GetArtwork(context.Background(), doomed.ID)
	if !errors.Is(err, ErrArtworkNotFound) {
		t.Fatalf("expected ErrArtworkNotFound after delete, got %v", err)
	}

	_, _, interactions, err := db.GetRecordCounts(context.Background())
	checkNoError(t, err)
	checkInt64Equal(t, "surviving interactions", interactions, 1)

	fb, err := db.GetFeedback(context.Background(), session.ID, doomed.ID)
	checkNoError(t, err)
	if fb != nil {
		t.Error("feedback for the deleted artwork should be gone")
	}

	fb, err = db.GetFeedback(context.Background(), session.ID, kept.ID)
	checkNoError(t, err)
	if fb == nil {
		t.Error("feedback for the surviving artwork should remain")
	}
}

func TestDeleteArtwork_NotFound(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	err := db.DeleteArtwork(context.Background(), uuid.New())
	if !errors.Is(err, ErrArtworkNotFound) {
		t.Errorf("expected ErrArtworkNotFound, got %v", err)
	}
}

func TestIncrementScanCount(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	inserted := insertTestArtworks(t, db)
	a := inserted[0]

	checkNoError(t, db.IncrementScanCount(context.Background(), a.ID))
	checkNoError(t, db.IncrementScanCount(context.Background(), a.ID))

	got, err := db.GetArtwork(context.Background(), a.ID)
	checkNoError(t, err)
	checkInt64Equal(t, "ScanCount", got.ScanCount, 2)
}

func TestIncrementScanCount_NotFound(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	err := db.IncrementScanCount(context.Background(), uuid.New())
	if !errors.Is(err, ErrArtworkNotFound) {
		t.Errorf("expected ErrArtworkNotFound, got %v", err)
	}
}
