// ArtLens - Museum Artwork Recognition and Visitor Analytics
// Copyright 2026 ArtLens Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/artlens/artlens

package api

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/artlens/artlens/internal/config"
	"github.com/artlens/artlens/internal/events"
	"github.com/artlens/artlens/internal/geo"
	"github.com/artlens/artlens/internal/logging"
	"github.com/artlens/artlens/internal/models"
	"github.com/artlens/artlens/internal/scan"
	ws "github.com/artlens/artlens/internal/websocket"
)

// Catalogue is the artwork surface the handlers serve from. Reads for the
// scan hot path (CandidatesNear, CachedArtwork) come from the in-memory
// spatial view; everything else goes through to the store.
type Catalogue interface {
	Create(ctx context.Context, a *models.Artwork, image []byte) error
	Get(ctx context.Context, id uuid.UUID) (*models.Artwork, error)
	List(ctx context.Context, filter models.ArtworkFilter) ([]models.Artwork, error)
	Update(ctx context.Context, a *models.Artwork, image []byte) error
	Delete(ctx context.Context, id uuid.UUID) error
	CandidatesNear(user geo.Coordinate) []scan.Candidate
	CachedArtwork(id uuid.UUID) (models.Artwork, bool)
	Size() int
}

// Sessions owns the visitor session lifecycle and the consent gate.
type Sessions interface {
	Create(ctx context.Context, req models.CreateSessionRequest) (*models.VisitorSession, error)
	EnsureSession(ctx context.Context, rawID string) (*models.VisitorSession, bool, error)
	Get(ctx context.Context, id uuid.UUID) (*models.VisitorSession, error)
	OptOut(ctx context.Context, id uuid.UUID) error
	RecordInteraction(ctx context.Context, sessionID, artworkID uuid.UUID, interactionType string) (*models.ArtworkInteraction, error)
	SubmitFeedback(ctx context.Context, sessionID, artworkID uuid.UUID, reaction, comment string) (*models.VisitorFeedback, error)
}

// Analytics serves the reporting and recommendation endpoints. The bool
// results report whether the payload came from the response cache.
type Analytics interface {
	Summary(ctx context.Context, days int) (*models.MuseumSummary, bool, error)
	ArtworkInsights(ctx context.Context, artworkID uuid.UUID, days int) (*models.ArtworkInsights, bool, error)
	Heatmap(ctx context.Context, days int) (*models.Heatmap, bool, error)
	Recommendations(ctx context.Context, sessionID uuid.UUID) ([]models.RecommendedArtwork, error)
	SimilarArtworks(ctx context.Context, artworkID uuid.UUID, limit int) ([]models.SimilarArtwork, error)
}

// Resolver runs one scan against geofence-shortlisted candidates.
type Resolver interface {
	Resolve(req scan.Request, candidates []scan.Candidate) (*scan.Result, error)
}

// EventPublisher hands accepted scans to the recording pipeline. Publishing
// happens after the visitor already has their answer, so handlers log
// publish failures instead of failing the response.
type EventPublisher interface {
	PublishScanMatched(ctx context.Context, event *events.ScanMatchedEvent) error
}

// Pinger reports data store connectivity for the health endpoints.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Handler contains dependencies for API handlers.
//
// Handler methods are split across multiple files:
//   - handlers.go: Handler struct, constructor, WebSocket upgrader (this file)
//   - handlers_helpers.go: shared response/parsing helpers
//   - handlers_health.go: health and readiness endpoints
//   - handlers_scan.go: the scan endpoint and its error mapping
//   - handlers_geofence.go: standalone geofence evaluation
//   - handlers_artworks.go: catalogue CRUD, insights, similar
//   - handlers_sessions.go: sessions, interactions, feedback
//   - handlers_analytics.go: summary, heatmap, recommendations
//   - handlers_websocket.go: live feed upgrade
type Handler struct {
	db        Pinger
	catalogue Catalogue
	sessions  Sessions
	analytics Analytics
	resolver  Resolver
	publisher EventPublisher
	hub       *ws.Hub
	config    *config.Config
	startTime time.Time
}

// NewHandler creates the API handler. The hub and publisher may be nil in
// reduced deployments (CLI tools, tests); the affected endpoints degrade
// explicitly rather than panic.
func NewHandler(db Pinger, catalogue Catalogue, sessions Sessions, analytics Analytics, resolver Resolver, publisher EventPublisher, hub *ws.Hub, cfg *config.Config) *Handler {
	return &Handler{
		db:        db,
		catalogue: catalogue,
		sessions:  sessions,
		analytics: analytics,
		resolver:  resolver,
		publisher: publisher,
		hub:       hub,
		config:    cfg,
		startTime: time.Now(),
	}
}

// getUpgrader creates a WebSocket upgrader with origin checking and a
// handshake timeout against slow-client attacks.
func (h *Handler) getUpgrader() websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:   1024,
		WriteBufferSize:  1024,
		CheckOrigin:      h.checkWebSocketOrigin,
		HandshakeTimeout: 10 * time.Second,
	}
}

// checkWebSocketOrigin validates WebSocket connection origins.
func (h *Handler) checkWebSocketOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")

	// Browsers always send Origin on WebSocket upgrades; an empty value
	// means a non-browser client trying to sidestep CORS.
	if origin == "" {
		logging.Warn().Msg("WebSocket connection rejected: missing Origin header")
		return false
	}

	// If config is nil, allow by default (fail open for tests/development)
	if h.config == nil {
		return true
	}

	for _, allowedOrigin := range h.config.Security.CORSOrigins {
		if allowedOrigin == "*" || allowedOrigin == origin {
			return true
		}
	}

	logging.Warn().Str("origin", sanitizeLogValue(origin)).Msg("WebSocket connection rejected from unauthorized origin")
	return false
}
