// ArtLens - Museum Artwork Recognition and Visitor Analytics
// Copyright 2026 ArtLens Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/artlens/artlens

package api

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/artlens/artlens/internal/database"
	"github.com/artlens/artlens/internal/fingerprint"
	"github.com/artlens/artlens/internal/models"
)

// maxArtworkUploadBytes caps reference image uploads on catalogue writes.
const maxArtworkUploadBytes = 10 << 20 // 10 MiB

// listArtworksParams validates the catalogue listing query parameters.
type listArtworksParams struct {
	Limit  int `validate:"min=1,max=500"`
	Offset int `validate:"min=0"`
}

// ListArtworks returns catalogue entries matching the query filters:
// category, artist, search (title/artist substring), on_display.
func (h *Handler) ListArtworks(w http.ResponseWriter, r *http.Request) {
	params := listArtworksParams{
		Limit:  getIntParam(r, "limit", 100),
		Offset: getIntParam(r, "offset", 0),
	}
	if apiErr := validateRequest(&params); apiErr != nil {
		respondErrorDetails(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, apiErr.Details, nil)
		return
	}

	filter := models.ArtworkFilter{
		Category:  r.URL.Query().Get("category"),
		Artist:    r.URL.Query().Get("artist"),
		Search:    r.URL.Query().Get("search"),
		OnDisplay: parseBoolParam(r, "on_display"),
		Limit:     params.Limit,
		Offset:    params.Offset,
	}

	artworks, err := h.catalogue.List(r.Context(), filter)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to list artworks", err)
		return
	}

	respondSuccess(w, http.StatusOK, map[string]interface{}{
		"artworks": artworks,
		"count":    len(artworks),
	})
}

// CreateArtwork registers a catalogue entry from a multipart form. The
// "image" part is optional: without it the artwork exists but cannot be
// matched until an image is supplied through an update.
func (h *Handler) CreateArtwork(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxArtworkUploadBytes)
	if err := r.ParseMultipartForm(maxArtworkUploadBytes); err != nil {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Failed to parse upload: "+err.Error(), err)
		return
	}

	req, apiErr := parseCreateArtworkForm(r)
	if apiErr != nil {
		respondErrorDetails(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, apiErr.Details, nil)
		return
	}
	if apiErr := validateRequest(req); apiErr != nil {
		respondErrorDetails(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, apiErr.Details, nil)
		return
	}

	image, apiErr := formImage(r)
	if apiErr != nil {
		respondErrorDetails(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, apiErr.Details, nil)
		return
	}

	artwork := &models.Artwork{
		Title:           req.Title,
		Artist:          req.Artist,
		Description:     req.Description,
		Category:        req.Category,
		YearCreated:     req.YearCreated,
		Latitude:        req.Latitude,
		Longitude:       req.Longitude,
		GeofenceRadiusM: req.GeofenceRadiusM,
		IsOnDisplay:     true,
	}
	if req.IsOnDisplay != nil {
		artwork.IsOnDisplay = *req.IsOnDisplay
	}

	if err := h.catalogue.Create(r.Context(), artwork, image); err != nil {
		h.respondArtworkWriteError(w, err)
		return
	}

	respondSuccess(w, http.StatusCreated, artwork)
}

// GetArtwork returns one catalogue entry.
func (h *Handler) GetArtwork(w http.ResponseWriter, r *http.Request) {
	id, ok := urlUUID(w, r, "id")
	if !ok {
		return
	}

	artwork, err := h.catalogue.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, database.ErrArtworkNotFound) {
			respondError(w, http.StatusNotFound, "NOT_FOUND", "Artwork not found", nil)
			return
		}
		respondError(w, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to load artwork", err)
		return
	}

	respondSuccess(w, http.StatusOK, artwork)
}

// UpdateArtwork applies a partial multipart update. Only form fields that
// are present change the entry; a new "image" part re-runs the fingerprint
// pipeline, everything else keeps the stored fingerprint.
func (h *Handler) UpdateArtwork(w http.ResponseWriter, r *http.Request) {
	id, ok := urlUUID(w, r, "id")
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxArtworkUploadBytes)
	if err := r.ParseMultipartForm(maxArtworkUploadBytes); err != nil {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Failed to parse upload: "+err.Error(), err)
		return
	}

	req, apiErr := parseUpdateArtworkForm(r)
	if apiErr != nil {
		respondErrorDetails(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, apiErr.Details, nil)
		return
	}
	if apiErr := validateRequest(req); apiErr != nil {
		respondErrorDetails(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, apiErr.Details, nil)
		return
	}

	image, apiErr := formImage(r)
	if apiErr != nil {
		respondErrorDetails(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, apiErr.Details, nil)
		return
	}

	artwork, err := h.catalogue.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, database.ErrArtworkNotFound) {
			respondError(w, http.StatusNotFound, "NOT_FOUND", "Artwork not found", nil)
			return
		}
		respondError(w, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to load artwork", err)
		return
	}

	applyArtworkUpdate(artwork, req)

	if err := h.catalogue.Update(r.Context(), artwork, image); err != nil {
		if errors.Is(err, database.ErrArtworkNotFound) {
			respondError(w, http.StatusNotFound, "NOT_FOUND", "Artwork not found", nil)
			return
		}
		h.respondArtworkWriteError(w, err)
		return
	}

	respondSuccess(w, http.StatusOK, artwork)
}

// DeleteArtwork removes the artwork and its interaction history.
func (h *Handler) DeleteArtwork(w http.ResponseWriter, r *http.Request) {
	id, ok := urlUUID(w, r, "id")
	if !ok {
		return
	}

	if err := h.catalogue.Delete(r.Context(), id); err != nil {
		if errors.Is(err, database.ErrArtworkNotFound) {
			respondError(w, http.StatusNotFound, "NOT_FOUND", "Artwork not found", nil)
			return
		}
		respondError(w, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to delete artwork", err)
		return
	}

	respondSuccess(w, http.StatusOK, map[string]interface{}{
		"deleted": true,
		"id":      id,
	})
}

// ArtworkInsights returns per-artwork engagement over the requested window.
func (h *Handler) ArtworkInsights(w http.ResponseWriter, r *http.Request) {
	id, ok := urlUUID(w, r, "id")
	if !ok {
		return
	}

	params := analyticsWindowParams{Days: getIntParam(r, "days", 0)}
	if apiErr := validateRequest(&params); apiErr != nil {
		respondErrorDetails(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, apiErr.Details, nil)
		return
	}

	started := time.Now()
	insights, cached, err := h.analytics.ArtworkInsights(r.Context(), id, params.Days)
	if err != nil {
		if errors.Is(err, database.ErrArtworkNotFound) {
			respondError(w, http.StatusNotFound, "NOT_FOUND", "Artwork not found", nil)
			return
		}
		respondError(w, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to compute artwork insights", err)
		return
	}

	respondCached(w, insights, cached, started)
}

// SimilarArtworks ranks on-display artworks by fingerprint similarity to
// the referenced one.
func (h *Handler) SimilarArtworks(w http.ResponseWriter, r *http.Request) {
	id, ok := urlUUID(w, r, "id")
	if !ok {
		return
	}

	params := similarParams{Limit: getIntParam(r, "limit", 0)}
	if apiErr := validateRequest(&params); apiErr != nil {
		respondErrorDetails(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, apiErr.Details, nil)
		return
	}

	similar, err := h.analytics.SimilarArtworks(r.Context(), id, params.Limit)
	if err != nil {
		if errors.Is(err, database.ErrArtworkNotFound) {
			respondError(w, http.StatusNotFound, "NOT_FOUND", "Artwork not found", nil)
			return
		}
		respondError(w, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to rank similar artworks", err)
		return
	}

	respondSuccess(w, http.StatusOK, map[string]interface{}{
		"artwork_id": id,
		"similar":    similar,
	})
}

// similarParams validates the similar-artworks limit. Zero means "use the
// service default".
type similarParams struct {
	Limit int `validate:"min=0,max=50"`
}

// respondArtworkWriteError maps catalogue write failures: an undecodable
// reference image is the curator's upload, everything else is the store.
func (h *Handler) respondArtworkWriteError(w http.ResponseWriter, err error) {
	var decodeErr *fingerprint.ImageDecodeError
	if errors.As(err, &decodeErr) {
		respondError(w, http.StatusBadRequest, "IMAGE_DECODE_ERROR",
			"The uploaded image could not be decoded", err)
		return
	}
	respondError(w, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to write artwork", err)
}

// parseCreateArtworkForm builds the creation payload from multipart form
// values. Numeric conversions fail with field-specific messages; range
// checks belong to the struct validator.
func parseCreateArtworkForm(r *http.Request) (*models.CreateArtworkRequest, *models.APIError) {
	req := &models.CreateArtworkRequest{
		Title:       r.FormValue("title"),
		Artist:      r.FormValue("artist"),
		Description: r.FormValue("description"),
		Category:    r.FormValue("category"),
	}

	var apiErr *models.APIError
	if req.Latitude, apiErr = formFloat(r, "latitude"); apiErr != nil {
		return nil, apiErr
	}
	if req.Longitude, apiErr = formFloat(r, "longitude"); apiErr != nil {
		return nil, apiErr
	}

	req.GeofenceRadiusM = models.DefaultGeofenceRadiusM
	if hasFormValue(r, "geofence_radius_m") {
		if req.GeofenceRadiusM, apiErr = formFloat(r, "geofence_radius_m"); apiErr != nil {
			return nil, apiErr
		}
	}

	if hasFormValue(r, "year_created") {
		year, err := strconv.Atoi(r.FormValue("year_created"))
		if err != nil {
			return nil, fieldError("year_created", "year_created must be an integer")
		}
		req.YearCreated = &year
	}

	if hasFormValue(r, "is_on_display") {
		display, err := strconv.ParseBool(r.FormValue("is_on_display"))
		if err != nil {
			return nil, fieldError("is_on_display", "is_on_display must be a boolean")
		}
		req.IsOnDisplay = &display
	}

	return req, nil
}

// parseUpdateArtworkForm builds the partial update payload. A field changes
// only when its form key is present, so an empty form is a valid no-op
// update (commonly an image-only re-fingerprint).
func parseUpdateArtworkForm(r *http.Request) (*models.UpdateArtworkRequest, *models.APIError) {
	req := &models.UpdateArtworkRequest{}

	if hasFormValue(r, "title") {
		v := r.FormValue("title")
		req.Title = &v
	}
	if hasFormValue(r, "artist") {
		v := r.FormValue("artist")
		req.Artist = &v
	}
	if hasFormValue(r, "description") {
		v := r.FormValue("description")
		req.Description = &v
	}
	if hasFormValue(r, "category") {
		v := r.FormValue("category")
		req.Category = &v
	}
	if hasFormValue(r, "latitude") {
		v, apiErr := formFloat(r, "latitude")
		if apiErr != nil {
			return nil, apiErr
		}
		req.Latitude = &v
	}
	if hasFormValue(r, "longitude") {
		v, apiErr := formFloat(r, "longitude")
		if apiErr != nil {
			return nil, apiErr
		}
		req.Longitude = &v
	}
	if hasFormValue(r, "geofence_radius_m") {
		v, apiErr := formFloat(r, "geofence_radius_m")
		if apiErr != nil {
			return nil, apiErr
		}
		req.GeofenceRadiusM = &v
	}
	if hasFormValue(r, "year_created") {
		year, err := strconv.Atoi(r.FormValue("year_created"))
		if err != nil {
			return nil, fieldError("year_created", "year_created must be an integer")
		}
		req.YearCreated = &year
	}
	if hasFormValue(r, "is_on_display") {
		display, err := strconv.ParseBool(r.FormValue("is_on_display"))
		if err != nil {
			return nil, fieldError("is_on_display", "is_on_display must be a boolean")
		}
		req.IsOnDisplay = &display
	}

	return req, nil
}

// applyArtworkUpdate copies the present update fields onto the stored row.
func applyArtworkUpdate(artwork *models.Artwork, req *models.UpdateArtworkRequest) {
	if req.Title != nil {
		artwork.Title = *req.Title
	}
	if req.Artist != nil {
		artwork.Artist = *req.Artist
	}
	if req.Description != nil {
		artwork.Description = *req.Description
	}
	if req.Category != nil {
		artwork.Category = *req.Category
	}
	if req.YearCreated != nil {
		artwork.YearCreated = req.YearCreated
	}
	if req.Latitude != nil {
		artwork.Latitude = *req.Latitude
	}
	if req.Longitude != nil {
		artwork.Longitude = *req.Longitude
	}
	if req.GeofenceRadiusM != nil {
		artwork.GeofenceRadiusM = *req.GeofenceRadiusM
	}
	if req.IsOnDisplay != nil {
		artwork.IsOnDisplay = *req.IsOnDisplay
	}
}

// hasFormValue reports whether a multipart form key was supplied at all,
// distinguishing "absent" from "present and empty".
func hasFormValue(r *http.Request, key string) bool {
	if r.MultipartForm == nil {
		return false
	}
	_, ok := r.MultipartForm.Value[key]
	return ok
}

// formFloat parses a required float form value.
func formFloat(r *http.Request, key string) (float64, *models.APIError) {
	raw := r.FormValue(key)
	if raw == "" {
		return 0, fieldError(key, key+" is required")
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fieldError(key, key+" must be a decimal number")
	}
	return v, nil
}

// formImage reads the optional "image" multipart part. No part at all is
// fine; a part that cannot be read is an error.
func formImage(r *http.Request) ([]byte, *models.APIError) {
	file, _, err := r.FormFile("image")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return nil, nil
		}
		return nil, fieldError("image", "Failed to read image upload: "+err.Error())
	}
	defer file.Close()

	image, err := io.ReadAll(file)
	if err != nil {
		return nil, fieldError("image", "Failed to read image upload: "+err.Error())
	}
	return image, nil
}

// fieldError builds a single-field VALIDATION_ERROR payload.
func fieldError(field, message string) *models.APIError {
	return &models.APIError{
		Code:    "VALIDATION_ERROR",
		Message: message,
		Details: map[string]interface{}{"field": field},
	}
}
