// ArtLens - Museum Artwork Recognition and Visitor Analytics
// Copyright 2026 ArtLens Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/artlens/artlens

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/artlens/artlens/internal/analytics"
	"github.com/artlens/artlens/internal/api"
	"github.com/artlens/artlens/internal/catalogue"
	"github.com/artlens/artlens/internal/config"
	"github.com/artlens/artlens/internal/database"
	"github.com/artlens/artlens/internal/events"
	"github.com/artlens/artlens/internal/logging"
	"github.com/artlens/artlens/internal/maintenance"
	"github.com/artlens/artlens/internal/scan"
	"github.com/artlens/artlens/internal/session"
	"github.com/artlens/artlens/internal/supervisor"
	"github.com/artlens/artlens/internal/supervisor/services"
	ws "github.com/artlens/artlens/internal/websocket"
)

// pipelineReadyTimeout bounds the wait for the event consumers to subscribe.
// The GoChannel transport drops messages published to a topic with no
// subscribers, so scans matched before this would lose their interaction row.
const pipelineReadyTimeout = 5 * time.Second

func main() {
	// Load configuration first to get logging settings
	cfg, err := config.Load()
	if err != nil {
		// Use default logger for config errors (config not yet available)
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// Initialize zerolog with configuration
	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	logging.Info().Msg("Starting ArtLens with supervisor tree")
	logging.Info().
		Str("db_path", cfg.Database.Path).
		Str("fingerprint_cache", cacheLocation(cfg.FingerprintCache)).
		Int("retention_days", cfg.Retention.SessionDays).
		Bool("seed", cfg.Seed.Enabled).
		Msg("Configuration loaded")

	db, err := database.New(&cfg.Database)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize database")
	}
	defer func() {
		if err := db.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing database")
		}
	}()
	logging.Info().Msg("Database initialized successfully")

	// BadgerDB cache of image SHA-256 -> fingerprint. Survives restarts so
	// the catalogue does not re-extract unchanged reference images.
	extractionCache, err := catalogue.NewExtractionCache(cfg.FingerprintCache)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to open fingerprint extraction cache")
	}
	defer func() {
		if err := extractionCache.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing fingerprint extraction cache")
		}
	}()

	// Create context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	catalogueSvc := catalogue.NewService(db, extractionCache)

	if cfg.Seed.Enabled {
		inserted, err := catalogueSvc.Seed(ctx)
		if err != nil {
			logging.Fatal().Err(err).Msg("Failed to seed sample catalogue")
		}
		logging.Info().Int("inserted", inserted).Msg("Sample catalogue seeded (SEED_SAMPLE_DATA=true)")
	}

	// The spatial index and artwork view are memory-resident; scans never
	// touch DuckDB on the read path.
	if err := catalogueSvc.Load(ctx); err != nil {
		logging.Fatal().Err(err).Msg("Failed to load catalogue into memory")
	}
	logging.Info().Int("artworks", catalogueSvc.Size()).Msg("Catalogue loaded")

	sessionSvc := session.NewService(db)
	analyticsSvc := analytics.NewService(db, catalogueSvc, cfg.Analytics.CacheTTL)

	// Create WebSocket hub for the live feed (before the event pipeline,
	// which broadcasts matched scans through it)
	wsHub := ws.NewHub()

	pipeline, err := events.NewPipeline(cfg.Events, sessionSvc, catalogueSvc, analyticsSvc, wsHub, events.NewLogger())
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to build scan event pipeline")
	}
	defer func() {
		if err := pipeline.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing scan event pipeline")
		}
	}()

	resolver := scan.NewResolver()

	handler := api.NewHandler(db, catalogueSvc, sessionSvc, analyticsSvc, resolver, pipeline.Bus, wsHub, cfg)
	router := api.NewRouter(handler, api.NewChiMiddlewareFromSecurity(cfg.Security))

	if cfg.Security.RateLimitDisabled {
		logging.Warn().Msg("Rate limiting is DISABLED (DISABLE_RATE_LIMIT=true)")
		logging.Warn().Msg("This should only be used for load testing!")
	}

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router.SetupChi(),
		ReadTimeout:  cfg.Server.Timeout,
		WriteTimeout: cfg.Server.Timeout,
		IdleTimeout:  60 * time.Second,
	}

	// Create structured logger for supervisor using our slog adapter
	// This bridges zerolog to slog for sutureslog compatibility
	slogLogger := logging.NewSlogLogger()

	tree, err := supervisor.NewSupervisorTree(slogLogger, supervisor.DefaultTreeConfig())
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create supervisor tree")
	}

	// === ADD SERVICES TO SUPERVISOR TREE ===

	// Data layer: background maintenance jobs
	sweeper, err := maintenance.NewRetentionSweeper(db, analyticsSvc, cfg.Retention)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create retention sweeper")
	}
	tree.AddDataService(sweeper)

	refresher, err := maintenance.NewStatsRefresher(db, catalogueSvc, analyticsSvc, cfg.Analytics)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create stats refresher")
	}
	tree.AddDataService(refresher)
	logging.Info().
		Dur("cleanup_interval", cfg.Retention.CleanupInterval).
		Dur("stats_refresh_interval", cfg.Analytics.StatsRefreshInterval).
		Msg("Maintenance services added to supervisor tree")

	// Messaging layer: live feed hub and the scan event pipeline
	tree.AddMessagingService(services.NewWebSocketHubService(wsHub))
	tree.AddMessagingService(pipeline)
	logging.Info().Msg("WebSocket hub and event pipeline added to supervisor tree")

	// API layer
	tree.AddAPIService(services.NewHTTPServerService(server, 10*time.Second))
	logging.Info().Str("addr", server.Addr).Msg("HTTP server service added")

	// === START SUPERVISOR TREE ===

	// Setup signal handling
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
	}()

	logging.Info().Msg("Starting supervisor tree...")
	errCh := tree.ServeBackground(ctx)

	// Matched scans published before the consumers subscribe are dropped
	// by the transport, so surface a late pipeline loudly.
	select {
	case <-pipeline.Running():
		logging.Info().Msg("Scan event pipeline running")
	case <-time.After(pipelineReadyTimeout):
		logging.Warn().Dur("waited", pipelineReadyTimeout).Msg("Scan event pipeline not ready, scans may not be recorded")
	case <-ctx.Done():
	}

	// Wait for supervisor to finish (either from signal or error)
	select {
	case <-ctx.Done():
		logging.Info().Msg("Context canceled, waiting for supervisor to finish...")
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor tree error")
		}
	}

	// Wait for the error channel to close (supervisor finished)
	for err := range errCh {
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor shutdown error")
		}
	}

	// Report any services that failed to stop within timeout
	unstopped, _ := tree.UnstoppedServiceReport()
	if len(unstopped) > 0 {
		logging.Warn().Int("count", len(unstopped)).Msg("Services failed to stop within timeout")
		for _, svc := range unstopped {
			logging.Warn().Str("service", svc.Name).Msg("Service failed to stop")
		}
	}

	logging.Info().Msg("Application stopped gracefully")
}

// cacheLocation renders the fingerprint cache destination for the startup
// log line.
func cacheLocation(cfg config.FingerprintCacheConfig) string {
	if cfg.InMemory {
		return ":memory:"
	}
	return cfg.Path
}
