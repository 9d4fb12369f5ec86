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

	"github.com/google/uuid"

	"github.com/artlens/artlens/internal/events"
	"github.com/artlens/artlens/internal/fingerprint"
	"github.com/artlens/artlens/internal/geo"
	"github.com/artlens/artlens/internal/logging"
	"github.com/artlens/artlens/internal/metrics"
	"github.com/artlens/artlens/internal/models"
	"github.com/artlens/artlens/internal/scan"
)

// maxScanUploadBytes caps the multipart scan upload. Phone cameras produce
// JPEG frames well under this.
const maxScanUploadBytes = 10 << 20 // 10 MiB

// Scan identifies the artwork in front of the visitor. The multipart form
// carries the camera frame ("image"), the GPS fix ("latitude"/"longitude"),
// and optionally the visitor's session ("session_id").
//
// The pipeline: resolve the session, shortlist candidates around the fix,
// run geofence filtering and fingerprint matching, answer the visitor, and
// only then publish the match for asynchronous recording. Expected non-match
// outcomes return 404-class envelopes whose details the client can act on.
func (h *Handler) Scan(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	r.Body = http.MaxBytesReader(w, r.Body, maxScanUploadBytes)
	if err := r.ParseMultipartForm(maxScanUploadBytes); err != nil {
		metrics.RecordScan(metrics.ScanOutcomeInvalid, time.Since(start), 0)
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Failed to parse upload: "+err.Error(), err)
		return
	}

	user, apiErr := scanLocation(r)
	if apiErr != nil {
		metrics.RecordScan(metrics.ScanOutcomeInvalid, time.Since(start), 0)
		respondErrorDetails(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, apiErr.Details, nil)
		return
	}

	image, apiErr := scanImage(r)
	if apiErr != nil {
		metrics.RecordScan(metrics.ScanOutcomeInvalid, time.Since(start), 0)
		respondErrorDetails(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, apiErr.Details, nil)
		return
	}

	// Session continuity comes first: an empty, malformed, or stale ID
	// mints a fresh session, and a store failure aborts before any
	// matching work.
	sess, _, err := h.sessions.EnsureSession(r.Context(), r.FormValue("session_id"))
	if err != nil {
		metrics.RecordScan(metrics.ScanOutcomeFailed, time.Since(start), 0)
		respondError(w, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to resolve visitor session", err)
		return
	}

	candidates := h.catalogue.CandidatesNear(user)
	result, err := h.resolver.Resolve(scan.Request{Image: image, Location: user}, candidates)
	if err != nil {
		h.respondScanError(w, err, time.Since(start))
		return
	}

	metrics.RecordScan(metrics.ScanOutcomeMatched, time.Since(start), result.Score)

	artworkID, err := uuid.Parse(result.ArtworkID)
	if err != nil {
		// Candidate IDs come from the catalogue as UUID strings; this is
		// catalogue corruption, not visitor error.
		respondError(w, http.StatusInternalServerError, "SCAN_FAILED", "Scan failed unexpectedly", err)
		return
	}

	var artwork *models.Artwork
	if a, ok := h.catalogue.CachedArtwork(artworkID); ok {
		artwork = &a
	}

	h.publishScanMatched(r, sess.ID, artworkID, result)

	respondSuccess(w, http.StatusOK, models.ScanResponse{
		Artwork:        artwork,
		Score:          result.Score,
		Confidence:     string(result.Confidence),
		DistanceMeters: result.DistanceMeters,
		Message:        result.Message,
		Alternatives:   result.Alternatives,
		SessionID:      sess.ID,
	})
}

// scanLocation parses the GPS fix from the multipart form. An absent or
// unparseable fix is a malformed request and answers VALIDATION_ERROR, the
// same class as a missing image; INVALID_LOCATION is reserved for
// coordinates that parse but fail the resolver's range check.
func scanLocation(r *http.Request) (geo.Coordinate, *models.APIError) {
	rawLat := r.FormValue("latitude")
	rawLon := r.FormValue("longitude")
	if rawLat == "" || rawLon == "" {
		return geo.Coordinate{}, &models.APIError{
			Code:    "VALIDATION_ERROR",
			Message: "GPS location required",
			Details: map[string]interface{}{"field": "location"},
		}
	}

	lat, latErr := strconv.ParseFloat(rawLat, 64)
	lon, lonErr := strconv.ParseFloat(rawLon, 64)
	if latErr != nil || lonErr != nil {
		return geo.Coordinate{}, &models.APIError{
			Code:    "VALIDATION_ERROR",
			Message: "latitude and longitude must be decimal degrees",
			Details: map[string]interface{}{"field": "location"},
		}
	}

	return geo.Coordinate{Latitude: lat, Longitude: lon}, nil
}

// scanImage reads the uploaded camera frame out of the multipart form.
func scanImage(r *http.Request) ([]byte, *models.APIError) {
	file, _, err := r.FormFile("image")
	if err != nil {
		return nil, &models.APIError{
			Code:    "VALIDATION_ERROR",
			Message: "image required",
			Details: map[string]interface{}{"field": "image"},
		}
	}
	defer file.Close()

	image, err := io.ReadAll(file)
	if err != nil {
		return nil, &models.APIError{
			Code:    "VALIDATION_ERROR",
			Message: "Failed to read image upload: " + err.Error(),
			Details: map[string]interface{}{"field": "image"},
		}
	}
	return image, nil
}

// respondScanError maps resolver outcomes onto the API error envelope.
// NO_TARGETS_IN_RANGE and NO_CONFIDENT_MATCH are expected terminal states
// carrying actionable payloads; only ScanFailedError is a real fault.
func (h *Handler) respondScanError(w http.ResponseWriter, err error, elapsed time.Duration) {
	var invalidReq *scan.InvalidRequestError
	var invalidLoc *geo.InvalidLocationError
	var noTargets *scan.NoTargetsInRangeError
	var noMatch *scan.NoConfidentMatchError
	var decodeErr *fingerprint.ImageDecodeError

	switch {
	case errors.As(err, &invalidReq):
		metrics.RecordScan(metrics.ScanOutcomeInvalid, elapsed, 0)
		respondErrorDetails(w, http.StatusBadRequest, "VALIDATION_ERROR",
			invalidReq.Field+" "+invalidReq.Reason,
			map[string]interface{}{"field": invalidReq.Field}, nil)

	case errors.As(err, &invalidLoc):
		metrics.RecordScan(metrics.ScanOutcomeInvalid, elapsed, 0)
		respondErrorDetails(w, http.StatusBadRequest, "INVALID_LOCATION",
			invalidLoc.Field+" "+invalidLoc.Reason,
			map[string]interface{}{"field": invalidLoc.Field}, nil)

	case errors.As(err, &noTargets):
		metrics.RecordScan(metrics.ScanOutcomeNoTargetsInRange, elapsed, 0)
		details := map[string]interface{}{
			"nearest_distance_meters": noTargets.NearestDistanceMeters,
		}
		respondErrorDetails(w, http.StatusNotFound, "NO_TARGETS_IN_RANGE",
			noTargets.Message, details, nil)

	case errors.As(err, &noMatch):
		metrics.RecordScan(metrics.ScanOutcomeNoConfidentMatch, elapsed, 0)
		respondErrorDetails(w, http.StatusNotFound, "NO_CONFIDENT_MATCH",
			"No artwork matched with enough confidence. Move closer or reduce glare and try again.",
			map[string]interface{}{
				"best_score":  noMatch.BestScore,
				"suggestions": noMatch.Suggestions,
			}, nil)

	// An undecodable upload surfaces as a matching-stage failure with the
	// decode error as its cause; it is the visitor's upload, not a fault.
	case errors.As(err, &decodeErr):
		metrics.RecordScan(metrics.ScanOutcomeInvalid, elapsed, 0)
		respondError(w, http.StatusBadRequest, "IMAGE_DECODE_ERROR",
			"The uploaded image could not be decoded", err)

	default:
		metrics.RecordScan(metrics.ScanOutcomeFailed, elapsed, 0)
		respondError(w, http.StatusInternalServerError, "SCAN_FAILED",
			"Scan failed unexpectedly", err)
	}
}

// publishScanMatched hands the accepted match to the event pipeline. The
// visitor already has their response by the time this runs, so a publish
// failure is logged and the hourly reconciliation job levels the counters.
func (h *Handler) publishScanMatched(r *http.Request, sessionID, artworkID uuid.UUID, result *scan.Result) {
	if h.publisher == nil {
		return
	}

	event := events.NewScanMatched(sessionID, artworkID, result.Score, result.DistanceMeters, result.Confidence)
	if err := h.publisher.PublishScanMatched(r.Context(), event); err != nil {
		logging.Error().Err(err).
			Str("scan_id", event.ScanID.String()).
			Str("artwork_id", artworkID.String()).
			Msg("Failed to publish scan event")
	}
}
