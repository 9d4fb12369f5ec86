// ArtLens - Museum Artwork Recognition and Visitor Analytics
// Copyright 2026 ArtLens Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/artlens/artlens

// Package database provides data access and analytics for the ArtLens
// application.
//
// # Overview
//
// This package is the data layer between the application and DuckDB. It
// persists the artwork catalogue, visitor sessions, the interaction log,
// and visitor feedback, and runs the aggregate queries behind the
// analytics endpoints.
//
// # Architecture
//
// The package is organized into domain-specific files:
//
// Core database operations:
//   - database.go: Lifecycle (connection, initialization, cleanup)
//   - database_extensions.go: DuckDB JSON extension installation
//   - database_schema.go: Table creation and index management
//   - database_utils.go: Profiling, context management, checkpointing
//   - errors.go: Sentinel errors and transaction helpers
//
// Entity operations:
//   - artworks.go: Artwork CRUD, filtering, and scan counter
//   - sessions.go: Visitor session CRUD and privacy opt-out
//   - interactions.go: Interaction log and session counters
//   - feedback.go: One-reaction-per-visitor feedback upsert
//
// Analytics and maintenance:
//   - analytics.go: Museum summary, artwork insights, visit heatmap
//   - stats.go: Session retention sweep and scan count reconciliation
//
// # Database Technology
//
// The package uses DuckDB (not SQLite) as its analytics database:
//   - OLAP-optimized for the aggregate queries analytics needs
//   - JSON extension for fingerprint storage (TEXT fallback when absent)
//   - Advanced SQL features (FILTER clauses, DATE_TRUNC, EXTRACT)
//   - CGO-based driver (github.com/duckdb/duckdb-go/v2)
//
// Geospatial matching does not happen here: candidate lookup is served by
// the in-process spatial index in internal/catalogue, so no spatial
// extension is loaded.
//
// # Usage
//
// Basic CRUD:
//
//	db, err := database.New(cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer db.Close()
//
//	artwork := &models.Artwork{...}
//	if err := db.InsertArtwork(ctx, artwork); err != nil {
//	    log.Printf("Insert failed: %v", err)
//	}
//
// Analytics:
//
//	summary, err := db.GetMuseumSummary(ctx, 30)
//	if err != nil {
//	    log.Printf("Summary failed: %v", err)
//	}
//
// # Concurrency
//
// All exported methods are safe for concurrent use. Queries run through
// database/sql's connection pool with context-based cancellation; callers
// that pass a context without a deadline get a 30-second default.
//
// # Error Handling
//
// Errors are wrapped with fmt.Errorf and %w. Lookups and updates against
// missing rows return ErrArtworkNotFound or ErrSessionNotFound so callers
// can map them to 404-class responses with errors.Is.
//
// # Maintainer Notes
//
// When adding queries:
//  1. Use parameterized queries (? placeholders) only
//  2. Compute time windows in Go and bind them; never interpolate NOW()
//     arithmetic into SQL strings
//  3. Wrap multi-statement writes in a transaction with rollbackQuietly
//  4. Record timing through observeQuery so the Prometheus histogram
//     stays complete
//  5. Add indexes for frequently filtered columns
package database
