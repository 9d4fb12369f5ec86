// ArtLens - Museum Artwork Recognition and Visitor Analytics
// Copyright 2026 ArtLens Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/artlens/artlens

package api

import (
	"errors"
	"net/http"

	"github.com/artlens/artlens/internal/geo"
	"github.com/artlens/artlens/internal/metrics"
	"github.com/artlens/artlens/internal/models"
)

// GeofenceCheck evaluates one visitor-to-target reachability question
// without touching the catalogue: explicit target coordinates let curators
// probe a fence before the artwork exists.
func (h *Handler) GeofenceCheck(w http.ResponseWriter, r *http.Request) {
	var req models.GeofenceCheckRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body", err)
		return
	}

	if apiErr := validateRequest(&req); apiErr != nil {
		respondErrorDetails(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, apiErr.Details, nil)
		return
	}

	eval, err := geo.Evaluate(
		geo.Coordinate{Latitude: req.UserLatitude, Longitude: req.UserLongitude},
		geo.Coordinate{Latitude: req.TargetLatitude, Longitude: req.TargetLongitude},
		req.RadiusMeters,
	)
	if err != nil {
		// Evaluate rejects what the struct validator cannot see, NaN and
		// infinity foremost.
		var invalidLoc *geo.InvalidLocationError
		if errors.As(err, &invalidLoc) {
			respondErrorDetails(w, http.StatusBadRequest, "INVALID_LOCATION",
				invalidLoc.Field+" "+invalidLoc.Reason,
				map[string]interface{}{"field": invalidLoc.Field}, nil)
			return
		}
		respondError(w, http.StatusBadRequest, "INVALID_LOCATION", "Coordinates could not be evaluated", err)
		return
	}

	metrics.RecordGeofenceEvaluation(eval.Accessible)

	respondSuccess(w, http.StatusOK, map[string]interface{}{
		"accessible":      eval.Accessible,
		"distance_meters": eval.DistanceMeters,
		"message":         geo.ProximityMessage(eval.DistanceMeters, req.RadiusMeters),
	})
}
