// ArtLens - Museum Artwork Recognition and Visitor Analytics
// Copyright 2026 ArtLens Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/artlens/artlens

package api

import (
	"net/http"
	"time"

	"github.com/artlens/artlens/internal/models"
)

// apiVersion is reported by the health endpoint.
const apiVersion = "1.0.0"

// Health returns overall service health: database connectivity, catalogue
// view state, and uptime. A reachable process with an unreachable database
// reports "degraded" rather than failing the request, so dashboards can
// tell the two apart.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	// Check database connectivity (nil means not connected)
	dbConnected := h.db != nil && h.db.Ping(r.Context()) == nil

	catalogueLoaded := h.catalogue != nil
	var artworkCount int64
	if catalogueLoaded {
		artworkCount = int64(h.catalogue.Size())
	}

	status := "healthy"
	if !dbConnected {
		status = "degraded"
	}

	health := models.HealthStatus{
		Status:            status,
		Version:           apiVersion,
		DatabaseConnected: dbConnected,
		CatalogueLoaded:   catalogueLoaded,
		ArtworkCount:      artworkCount,
		Uptime:            time.Since(h.startTime).Seconds(),
		Timestamp:         time.Now(),
	}

	respondSuccess(w, http.StatusOK, health)
}

// HealthLive handles liveness probe requests (Kubernetes-style).
// Returns 200 OK if the process is alive, regardless of dependencies.
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	respondSuccess(w, http.StatusOK, map[string]interface{}{
		"alive":  true,
		"uptime": time.Since(h.startTime).Seconds(),
	})
}

// HealthReady handles readiness probe requests (Kubernetes-style).
// Returns 200 OK only when the service can serve traffic, which for
// ArtLens means the database answers a ping. Returns 503 otherwise.
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	dbConnected := h.db != nil && h.db.Ping(r.Context()) == nil
	ready := dbConnected

	statusCode := http.StatusOK
	status := "ready"
	if !ready {
		statusCode = http.StatusServiceUnavailable
		status = "not_ready"
	}

	respondJSON(w, statusCode, &models.APIResponse{
		Status: status,
		Data: map[string]interface{}{
			"database_connected": dbConnected,
			"ready_to_serve":     ready,
			"uptime":             time.Since(h.startTime).Seconds(),
		},
		Metadata: models.Metadata{
			Timestamp: time.Now(),
		},
	})
}
