// ArtLens - Museum Artwork Recognition and Visitor Analytics
// Copyright 2026 ArtLens Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/artlens/artlens

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/artlens/artlens/internal/middleware"
)

// Router sets up HTTP routes using the Chi router.
type Router struct {
	handler       *Handler
	chiMiddleware *ChiMiddleware
}

// NewRouter creates a new router around the handler. A nil middleware
// factory gets the defaults, which is what tests want.
func NewRouter(handler *Handler, chiMw *ChiMiddleware) *Router {
	if chiMw == nil {
		chiMw = NewChiMiddleware(nil)
	}
	return &Router{
		handler:       handler,
		chiMiddleware: chiMw,
	}
}

// SetupChi configures all HTTP routes.
func (router *Router) SetupChi() http.Handler {
	r := chi.NewRouter()

	// ========================
	// Global Middleware Stack
	// ========================
	// Applied to ALL routes in order
	r.Use(middleware.RequestID)        // X-Request-ID header plus logging context
	r.Use(chimiddleware.RealIP)        // Extract real IP from X-Forwarded-For
	r.Use(chimiddleware.Recoverer)     // Recover from panics
	r.Use(router.chiMiddleware.CORS()) // CORS must be global to handle OPTIONS preflight
	r.Use(middleware.Compression)      // gzip for clients that accept it
	r.Use(middleware.SlowRequestLog(middleware.DefaultSlowRequestThreshold))

	// ========================
	// Health Endpoints
	// ========================
	// Permissive rate limiting: monitoring tools poll these frequently.
	r.Route("/health", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimitHealth())
		r.Use(APISecurityHeaders())
		r.Get("/", router.handler.Health)
		r.Get("/live", router.handler.HealthLive)
		r.Get("/ready", router.handler.HealthReady)
	})

	// Prometheus scrape endpoint.
	r.Handle("/metrics", promhttp.Handler())

	// ========================
	// Visitor API
	// ========================
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimit())
		r.Use(APISecurityHeaders())
		r.Use(middleware.PrometheusMetrics)

		// Scanning. The scan limit replaces the group default because each
		// request runs image decode plus fingerprint extraction.
		r.With(router.chiMiddleware.RateLimitScan()).Post("/scan", router.handler.Scan)
		r.Post("/geofence/check", router.handler.GeofenceCheck)

		// Catalogue.
		r.Get("/artworks", router.handler.ListArtworks)
		r.With(router.chiMiddleware.RateLimitWrite()).Post("/artworks", router.handler.CreateArtwork)
		r.Get("/artworks/{id}", router.handler.GetArtwork)
		r.With(router.chiMiddleware.RateLimitWrite()).Put("/artworks/{id}", router.handler.UpdateArtwork)
		r.With(router.chiMiddleware.RateLimitWrite()).Delete("/artworks/{id}", router.handler.DeleteArtwork)
		r.Get("/artworks/{id}/insights", router.handler.ArtworkInsights)
		r.Get("/artworks/{id}/similar", router.handler.SimilarArtworks)

		// Sessions and engagement.
		r.With(router.chiMiddleware.RateLimitWrite()).Post("/sessions", router.handler.CreateSession)
		r.Get("/sessions/{id}", router.handler.GetSession)
		r.With(router.chiMiddleware.RateLimitWrite()).Post("/sessions/{id}/opt-out", router.handler.OptOutSession)
		r.With(router.chiMiddleware.RateLimitWrite()).Post("/interactions", router.handler.RecordInteraction)
		r.With(router.chiMiddleware.RateLimitWrite()).Post("/feedback", router.handler.SubmitFeedback)

		// Recommendations ride the default limit: they are computed from
		// the in-memory catalogue view.
		r.Get("/recommendations", router.handler.Recommendations)

		// Live feed.
		r.With(router.chiMiddleware.RateLimitWebSocket()).Get("/ws", router.handler.WebSocket)
	})

	// ========================
	// Analytics Endpoints
	// ========================
	// Read-only cached endpoints with a permissive limit.
	r.Route("/api/v1/analytics", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimitAnalytics())
		r.Use(APISecurityHeaders())
		r.Use(middleware.PrometheusMetrics)

		r.Get("/summary", router.handler.AnalyticsSummary)
		r.Get("/heatmap", router.handler.AnalyticsHeatmap)
	})

	return r
}
