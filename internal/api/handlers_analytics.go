// ArtLens - Museum Artwork Recognition and Visitor Analytics
// Copyright 2026 ArtLens Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/artlens/artlens

package api

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/artlens/artlens/internal/models"
)

// analyticsWindowParams validates the rolling-window size shared by the
// analytics endpoints. Zero means "use the service default window".
type analyticsWindowParams struct {
	Days int `validate:"min=0,max=365"`
}

// AnalyticsSummary returns museum-wide engagement over the requested
// window: scans, sessions, top artworks, hourly distribution.
func (h *Handler) AnalyticsSummary(w http.ResponseWriter, r *http.Request) {
	params := analyticsWindowParams{Days: getIntParam(r, "days", 0)}
	if apiErr := validateRequest(&params); apiErr != nil {
		respondErrorDetails(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, apiErr.Details, nil)
		return
	}

	started := time.Now()
	summary, cached, err := h.analytics.Summary(r.Context(), params.Days)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to compute museum summary", err)
		return
	}

	respondCached(w, summary, cached, started)
}

// AnalyticsHeatmap returns the weekday-by-hour scan grid used for floor
// staffing and tour scheduling.
func (h *Handler) AnalyticsHeatmap(w http.ResponseWriter, r *http.Request) {
	params := analyticsWindowParams{Days: getIntParam(r, "days", 0)}
	if apiErr := validateRequest(&params); apiErr != nil {
		respondErrorDetails(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, apiErr.Details, nil)
		return
	}

	started := time.Now()
	heatmap, cached, err := h.analytics.Heatmap(r.Context(), params.Days)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to compute scan heatmap", err)
		return
	}

	respondCached(w, heatmap, cached, started)
}

// Recommendations suggests artworks for the visitor identified by the
// session_id query parameter. Sessions with no usable history fall back to
// museum-wide popularity, so the endpoint always has something to offer.
func (h *Handler) Recommendations(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("session_id")
	if raw == "" {
		respondErrorDetails(w, http.StatusBadRequest, "VALIDATION_ERROR", "session_id is required",
			map[string]interface{}{"field": "session_id"}, nil)
		return
	}
	sessionID, err := uuid.Parse(raw)
	if err != nil {
		respondErrorDetails(w, http.StatusBadRequest, "VALIDATION_ERROR", "session_id must be a valid UUID",
			map[string]interface{}{"field": "session_id"}, nil)
		return
	}

	recommendations, err := h.analytics.Recommendations(r.Context(), sessionID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to compute recommendations", err)
		return
	}

	respondSuccess(w, http.StatusOK, map[string]interface{}{
		"session_id":      sessionID,
		"recommendations": recommendations,
	})
}

// respondCached wraps an analytics payload with cache provenance. Cached
// responses report zero query time since no computation happened on this
// request.
func respondCached(w http.ResponseWriter, data interface{}, cached bool, started time.Time) {
	metadata := models.Metadata{
		Timestamp: time.Now(),
		Cached:    cached,
	}
	if !cached {
		metadata.QueryTimeMS = time.Since(started).Milliseconds()
	}

	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status:   "success",
		Data:     data,
		Metadata: metadata,
	})
}
