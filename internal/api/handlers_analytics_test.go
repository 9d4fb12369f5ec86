// ArtLens - Museum Artwork Recognition and Visitor Analytics
// Copyright 2026 ArtLens Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/artlens/artlens

package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	"github.com/artlens/artlens/internal/models"
)

func TestAnalyticsSummary(t *testing.T) {
	t.Parallel()

	h, _, _, analytics, _, _ := testHandler()

	analytics.SummaryFunc = func(ctx context.Context, days int) (*models.MuseumSummary, bool, error) {
		if days != 30 {
			t.Errorf("days = %d, want 30", days)
		}
		return &models.MuseumSummary{WindowDays: 30, TotalScans: 1234}, false, nil
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/analytics/summary?days=30", nil)
	w := httptest.NewRecorder()
	h.AnalyticsSummary(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}

	var resp models.APIResponse
	decodeTestResponse(t, w, &resp)

	if resp.Metadata.Cached {
		t.Error("metadata.cached = true, want false for a fresh computation")
	}
	data := resp.Data.(map[string]interface{})
	if data["total_scans"] != float64(1234) {
		t.Errorf("total_scans = %v, want 1234", data["total_scans"])
	}
}

func TestAnalyticsSummary_DefaultWindow(t *testing.T) {
	t.Parallel()

	h, _, _, analytics, _, _ := testHandler()

	analytics.SummaryFunc = func(ctx context.Context, days int) (*models.MuseumSummary, bool, error) {
		// Zero means the service applies its own default window.
		if days != 0 {
			t.Errorf("days = %d, want 0 when the parameter is absent", days)
		}
		return &models.MuseumSummary{WindowDays: 30}, false, nil
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/analytics/summary", nil)
	w := httptest.NewRecorder()
	h.AnalyticsSummary(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}
}

func TestAnalyticsSummary_Cached(t *testing.T) {
	t.Parallel()

	h, _, _, analytics, _, _ := testHandler()

	analytics.SummaryFunc = func(ctx context.Context, days int) (*models.MuseumSummary, bool, error) {
		return &models.MuseumSummary{WindowDays: 30}, true, nil
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/analytics/summary", nil)
	w := httptest.NewRecorder()
	h.AnalyticsSummary(w, req)

	var resp models.APIResponse
	decodeTestResponse(t, w, &resp)

	if !resp.Metadata.Cached {
		t.Error("metadata.cached = false, want true for a cache hit")
	}
	if resp.Metadata.QueryTimeMS != 0 {
		t.Errorf("query_time_ms = %d, want 0 for a cache hit", resp.Metadata.QueryTimeMS)
	}
}

func TestAnalyticsSummary_WindowValidation(t *testing.T) {
	t.Parallel()

	h, _, _, _, _, _ := testHandler()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/analytics/summary?days=400", nil)
	w := httptest.NewRecorder()
	h.AnalyticsSummary(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusBadRequest)
	}
}

func TestAnalyticsSummary_StoreError(t *testing.T) {
	t.Parallel()

	h, _, _, analytics, _, _ := testHandler()

	analytics.SummaryFunc = func(ctx context.Context, days int) (*models.MuseumSummary, bool, error) {
		return nil, false, errors.New("query failed")
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/analytics/summary", nil)
	w := httptest.NewRecorder()
	h.AnalyticsSummary(w, req)

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusInternalServerError)
	}

	var resp models.APIResponse
	decodeTestResponse(t, w, &resp)
	if resp.Error == nil || resp.Error.Code != "DATABASE_ERROR" {
		t.Errorf("error = %+v, want DATABASE_ERROR", resp.Error)
	}
}

func TestAnalyticsHeatmap(t *testing.T) {
	t.Parallel()

	h, _, _, analytics, _, _ := testHandler()

	analytics.HeatmapFunc = func(ctx context.Context, days int) (*models.Heatmap, bool, error) {
		if days != 7 {
			t.Errorf("days = %d, want 7", days)
		}
		heatmap := &models.Heatmap{WindowDays: 7, Total: 99}
		heatmap.Cells[2][14] = 42
		return heatmap, false, nil
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/analytics/heatmap?days=7", nil)
	w := httptest.NewRecorder()
	h.AnalyticsHeatmap(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}

	var resp models.APIResponse
	decodeTestResponse(t, w, &resp)
	data := resp.Data.(map[string]interface{})
	if data["total"] != float64(99) {
		t.Errorf("total = %v, want 99", data["total"])
	}
	if data["cells"] == nil {
		t.Error("cells grid missing")
	}
}

func TestRecommendations(t *testing.T) {
	t.Parallel()

	h, _, _, analytics, _, _ := testHandler()

	sessionID := uuid.New()
	analytics.RecommendationsFunc = func(ctx context.Context, got uuid.UUID) ([]models.RecommendedArtwork, error) {
		if got != sessionID {
			t.Errorf("sessionID = %s, want %s", got, sessionID)
		}
		return []models.RecommendedArtwork{
			{Artwork: models.Artwork{ID: uuid.New(), Title: "Poppies"}, Score: 0.77, Reason: "similar to artworks you scanned"},
		}, nil
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/recommendations?session_id="+sessionID.String(), nil)
	w := httptest.NewRecorder()
	h.Recommendations(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}

	var resp models.APIResponse
	decodeTestResponse(t, w, &resp)
	data := resp.Data.(map[string]interface{})
	recs, ok := data["recommendations"].([]interface{})
	if !ok || len(recs) != 1 {
		t.Errorf("recommendations = %v, want one entry", data["recommendations"])
	}
}

func TestRecommendations_MissingSessionID(t *testing.T) {
	t.Parallel()

	h, _, _, _, _, _ := testHandler()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/recommendations", nil)
	w := httptest.NewRecorder()
	h.Recommendations(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusBadRequest)
	}

	var resp models.APIResponse
	decodeTestResponse(t, w, &resp)
	if resp.Error == nil || resp.Error.Code != "VALIDATION_ERROR" {
		t.Errorf("error = %+v, want VALIDATION_ERROR", resp.Error)
	}
}

func TestRecommendations_MalformedSessionID(t *testing.T) {
	t.Parallel()

	h, _, _, _, _, _ := testHandler()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/recommendations?session_id=not-a-uuid", nil)
	w := httptest.NewRecorder()
	h.Recommendations(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusBadRequest)
	}
}

func TestRecommendations_ServiceError(t *testing.T) {
	t.Parallel()

	h, _, _, analytics, _, _ := testHandler()

	analytics.RecommendationsFunc = func(ctx context.Context, sessionID uuid.UUID) ([]models.RecommendedArtwork, error) {
		return nil, errors.New("similarity matrix unavailable")
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/recommendations?session_id="+uuid.New().String(), nil)
	w := httptest.NewRecorder()
	h.Recommendations(w, req)

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusInternalServerError)
	}
}
