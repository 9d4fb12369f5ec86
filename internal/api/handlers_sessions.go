// ArtLens - Museum Artwork Recognition and Visitor Analytics
// Copyright 2026 ArtLens Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/artlens/artlens

package api

import (
	"errors"
	"net/http"

	"github.com/google/uuid"

	"github.com/artlens/artlens/internal/database"
	"github.com/artlens/artlens/internal/models"
	"github.com/artlens/artlens/internal/session"
)

// CreateSession explicitly opens a visitor session. Most sessions are
// minted implicitly by the first scan; this endpoint exists for clients
// that want to set consent, device type, or language up front.
func (h *Handler) CreateSession(w http.ResponseWriter, r *http.Request) {
	var req models.CreateSessionRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid JSON body: "+err.Error(), err)
		return
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondErrorDetails(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, apiErr.Details, nil)
		return
	}

	sess, err := h.sessions.Create(r.Context(), req)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to create session", err)
		return
	}

	respondSuccess(w, http.StatusCreated, sess)
}

// GetSession returns the visitor session with its activity counters.
func (h *Handler) GetSession(w http.ResponseWriter, r *http.Request) {
	id, ok := urlUUID(w, r, "id")
	if !ok {
		return
	}

	sess, err := h.sessions.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, database.ErrSessionNotFound) {
			respondError(w, http.StatusNotFound, "NOT_FOUND", "Session not found", nil)
			return
		}
		respondError(w, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to load session", err)
		return
	}

	respondSuccess(w, http.StatusOK, sess)
}

// OptOutSession withdraws the session from analytics. The flip is
// permanent for the session's lifetime; subsequent interaction and
// feedback writes are refused.
func (h *Handler) OptOutSession(w http.ResponseWriter, r *http.Request) {
	id, ok := urlUUID(w, r, "id")
	if !ok {
		return
	}

	if err := h.sessions.OptOut(r.Context(), id); err != nil {
		if errors.Is(err, database.ErrSessionNotFound) {
			respondError(w, http.StatusNotFound, "NOT_FOUND", "Session not found", nil)
			return
		}
		respondError(w, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to opt out session", err)
		return
	}

	respondSuccess(w, http.StatusOK, map[string]interface{}{
		"id":        id,
		"opted_out": true,
	})
}

// RecordInteraction stores a client-reported engagement event such as
// opening artwork details or playing the audio guide. Scan interactions
// are recorded by the scan pipeline, not through this endpoint.
func (h *Handler) RecordInteraction(w http.ResponseWriter, r *http.Request) {
	var req models.InteractionRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid JSON body: "+err.Error(), err)
		return
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondErrorDetails(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, apiErr.Details, nil)
		return
	}

	sessionID, artworkID, apiErr := parseSessionArtworkIDs(req.SessionID, req.ArtworkID)
	if apiErr != nil {
		respondErrorDetails(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, apiErr.Details, nil)
		return
	}

	interaction, err := h.sessions.RecordInteraction(r.Context(), sessionID, artworkID, req.InteractionType)
	if err != nil {
		h.respondSessionWriteError(w, err, "Failed to record interaction")
		return
	}

	respondSuccess(w, http.StatusCreated, interaction)
}

// SubmitFeedback stores or replaces the visitor's reaction to an artwork.
func (h *Handler) SubmitFeedback(w http.ResponseWriter, r *http.Request) {
	var req models.FeedbackRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid JSON body: "+err.Error(), err)
		return
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondErrorDetails(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, apiErr.Details, nil)
		return
	}

	sessionID, artworkID, apiErr := parseSessionArtworkIDs(req.SessionID, req.ArtworkID)
	if apiErr != nil {
		respondErrorDetails(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, apiErr.Details, nil)
		return
	}

	feedback, err := h.sessions.SubmitFeedback(r.Context(), sessionID, artworkID, req.Reaction, req.Comment)
	if err != nil {
		h.respondSessionWriteError(w, err, "Failed to submit feedback")
		return
	}

	respondSuccess(w, http.StatusCreated, feedback)
}

// respondSessionWriteError maps interaction/feedback failures onto the API
// contract: withheld consent is the visitor's choice (403), a missing
// session means the client lost its ID (404), anything else is ours.
func (h *Handler) respondSessionWriteError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, session.ErrConsentWithheld):
		respondError(w, http.StatusForbidden, "CONSENT_WITHHELD",
			"The session has withheld analytics consent", nil)
	case errors.Is(err, database.ErrSessionNotFound):
		respondError(w, http.StatusNotFound, "NOT_FOUND", "Session not found", nil)
	case errors.Is(err, database.ErrArtworkNotFound):
		respondError(w, http.StatusNotFound, "NOT_FOUND", "Artwork not found", nil)
	default:
		respondError(w, http.StatusInternalServerError, "DATABASE_ERROR", fallback, err)
	}
}

// parseSessionArtworkIDs converts the validated string IDs. The uuid4
// validation tag has already run, so failures here mean the validator and
// parser disagree on UUID shape, which is worth a precise message.
func parseSessionArtworkIDs(rawSession, rawArtwork string) (uuid.UUID, uuid.UUID, *models.APIError) {
	sessionID, err := uuid.Parse(rawSession)
	if err != nil {
		return uuid.Nil, uuid.Nil, fieldError("session_id", "session_id must be a valid UUID")
	}
	artworkID, err := uuid.Parse(rawArtwork)
	if err != nil {
		return uuid.Nil, uuid.Nil, fieldError("artwork_id", "artwork_id must be a valid UUID")
	}
	return sessionID, artworkID, nil
}
