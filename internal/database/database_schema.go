// ArtLens - Museum Artwork Recognition and Visitor Analytics
// Copyright 2026 ArtLens Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/artlens/artlens

/*
database_schema.go - Database Schema Management

Tables:
  - artworks: the catalogue — descriptive metadata, display location with
    geofence radius, the reference fingerprint (JSON), and a denormalized
    scan counter
  - visitor_sessions: anonymous visit state with consent flags and
    engagement counters
  - artwork_interactions: append-only visitor actions (scan, view_details,
    play_audio, watch_video, view_related); scans carry similarity score and
    geofence distance
  - visitor_feedback: one reaction per (session, artwork), upserted

Schema Strategy (Pre-Release):
All columns are defined in the initial CREATE TABLE statements. Single
source of truth, no migrations to run at startup. Versioned migrations come
back once released databases exist in the wild.

Index Strategy:
The feedback uniqueness index is created alongside the tables because the
reaction upsert depends on it as its ON CONFLICT target. The remaining
indexes cover the analytics access paths: interactions by artwork, by
session, by type over time windows, and session expiry sweeps.
*/

//nolint:staticcheck // File documentation, not package doc
package database

import (
	"context"
	"fmt"
	"time"
)

// schemaContext returns a context with timeout for schema operations
func schemaContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 60*time.Second)
}

// createTables creates the core database tables
func (db *DB) createTables() error {
	ctx, cancel := schemaContext()
	defer cancel()

	queries := db.getTableCreationQueries()

	for _, query := range queries {
		if _, err := db.conn.ExecContext(ctx, query); err != nil {
			return fmt.Errorf("failed to execute query: %s: %w", query, err)
		}
	}

	return nil
}

// getTableCreationQueries returns the table creation SQL statements
func (db *DB) getTableCreationQueries() []string {
	// The fingerprint column type degrades to TEXT when the json extension
	// is unavailable; both store the serialized wire form unchanged.
	fingerprintType := "JSON"
	if !db.jsonAvailable {
		fingerprintType = "TEXT"
	}

	queries := []string{
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS artworks (
			id UUID PRIMARY KEY,
			title TEXT NOT NULL,
			artist TEXT NOT NULL,
			description TEXT,
			category TEXT,
			year_created INTEGER,
			image_path TEXT,
			latitude DOUBLE NOT NULL,
			longitude DOUBLE NOT NULL,
			geofence_radius_m DOUBLE NOT NULL DEFAULT 100,
			fingerprint %s,
			is_on_display BOOLEAN NOT NULL DEFAULT TRUE,
			scan_count INTEGER NOT NULL DEFAULT 0,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		);`, fingerprintType),

		`CREATE TABLE IF NOT EXISTS visitor_sessions (
			id UUID PRIMARY KEY,
			started_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			last_activity TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			analytics_consent BOOLEAN NOT NULL DEFAULT TRUE,
			opted_out BOOLEAN NOT NULL DEFAULT FALSE,
			artworks_scanned INTEGER NOT NULL DEFAULT 0,
			total_interactions INTEGER NOT NULL DEFAULT 0,
			device_type TEXT,
			language TEXT
		);`,

		`CREATE TABLE IF NOT EXISTS artwork_interactions (
			id UUID PRIMARY KEY,
			session_id UUID NOT NULL,
			artwork_id UUID NOT NULL,
			interaction_type TEXT NOT NULL,
			similarity_score DOUBLE,
			distance_meters DOUBLE,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		);`,

		`CREATE TABLE IF NOT EXISTS visitor_feedback (
			id UUID PRIMARY KEY,
			session_id UUID NOT NULL,
			artwork_id UUID NOT NULL,
			reaction TEXT NOT NULL,
			comment TEXT,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		);`,
	}

	// Created with the tables, not in createIndexes: the one-reaction-per-
	// (session, artwork) upsert uses this as its ON CONFLICT target, so it is
	// part of the schema contract rather than an optimization.
	queries = append(queries,
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_feedback_session_artwork ON visitor_feedback(session_id, artwork_id);`,
	)

	return queries
}

// createIndexes creates database indexes for query optimization
func (db *DB) createIndexes() error {
	ctx, cancel := schemaContext()
	defer cancel()

	indexes := db.getIndexQueries()

	for _, query := range indexes {
		if _, err := db.conn.ExecContext(ctx, query); err != nil {
			return fmt.Errorf("failed to execute index query: %s: %w", query, err)
		}
	}

	return nil
}

// getIndexQueries returns index creation SQL statements
func (db *DB) getIndexQueries() []string {
	return []string{
		// Catalogue listing filters
		`CREATE INDEX IF NOT EXISTS idx_artworks_category ON artworks(category);`,
		`CREATE INDEX IF NOT EXISTS idx_artworks_on_display ON artworks(is_on_display);`,
		`CREATE INDEX IF NOT EXISTS idx_artworks_created_at ON artworks(created_at);`,

		// Retention sweep scans sessions by idle time
		`CREATE INDEX IF NOT EXISTS idx_sessions_last_activity ON visitor_sessions(last_activity);`,

		// Interaction access paths: per-session history, per-artwork
		// insights, windowed museum-wide aggregates
		`CREATE INDEX IF NOT EXISTS idx_interactions_session ON artwork_interactions(session_id);`,
		`CREATE INDEX IF NOT EXISTS idx_interactions_artwork ON artwork_interactions(artwork_id);`,
		`CREATE INDEX IF NOT EXISTS idx_interactions_created_at ON artwork_interactions(created_at DESC);`,
		`CREATE INDEX IF NOT EXISTS idx_interactions_type_created ON artwork_interactions(interaction_type, created_at DESC);`,

		// Feedback breakdown per artwork
		`CREATE INDEX IF NOT EXISTS idx_feedback_artwork ON visitor_feedback(artwork_id);`,
		`CREATE INDEX IF NOT EXISTS idx_feedback_session ON visitor_feedback(session_id);`,
	}
}
