// ArtLens - Museum Artwork Recognition and Visitor Analytics
// Copyright 2026 ArtLens Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/artlens/artlens

package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/artlens/artlens/internal/models"
)

// InsertSession persists a new anonymous visitor session. A nil ID and zero
// timestamps are filled in on the struct.
func (db *DB) InsertSession(ctx context.Context, s *models.VisitorSession) error {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	now := time.Now().UTC()
	if s.StartedAt.IsZero() {
		s.StartedAt = now
	}
	if s.LastActivity.IsZero() {
		s.LastActivity = s.StartedAt
	}

	query := `INSERT INTO visitor_sessions (
		id, started_at, last_activity, analytics_consent, opted_out,
		artworks_scanned, total_interactions, device_type, language
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`

	start := time.Now()
	_, err := db.conn.ExecContext(ctx, query,
		s.ID, s.StartedAt, s.LastActivity, s.AnalyticsConsent, s.OptedOut,
		s.ArtworksScanned, s.TotalInteractions, s.DeviceType, s.Language,
	)
	observeQuery("insert", "visitor_sessions", start, err)
	if err != nil {
		return fmt.Errorf("failed to insert session: %w", err)
	}
	return nil
}

// GetSession retrieves one visitor session by ID. Returns
// ErrSessionNotFound when no row exists.
func (db *DB) GetSession(ctx context.Context, id uuid.UUID) (*models.VisitorSession, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	query := `SELECT id, started_at, last_activity, analytics_consent,
		opted_out, artworks_scanned, total_interactions,
		COALESCE(device_type, ''), COALESCE(language, '')
	FROM visitor_sessions WHERE id = ?`

	var s models.VisitorSession
	start := time.Now()
	err := db.conn.QueryRowContext(ctx, query, id).Scan(
		&s.ID, &s.StartedAt, &s.LastActivity, &s.AnalyticsConsent,
		&s.OptedOut, &s.ArtworksScanned, &s.TotalInteractions,
		&s.DeviceType, &s.Language,
	)
	observeQuery("select", "visitor_sessions", start, err)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	return &s, nil
}

// TouchSession advances last_activity so the retention sweep sees the
// session as live. Interaction inserts do this implicitly; this covers
// reads like session lookups and recommendation requests.
func (db *DB) TouchSession(ctx context.Context, id uuid.UUID) error {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	query := `UPDATE visitor_sessions SET last_activity = ? WHERE id = ?`

	start := time.Now()
	result, err := db.conn.ExecContext(ctx, query, time.Now().UTC(), id)
	observeQuery("update", "visitor_sessions", start, err)
	if err != nil {
		return fmt.Errorf("failed to touch session: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrSessionNotFound
	}

	return nil
}

// OptOutSession withdraws analytics consent for a session: flips the consent
// flags, deletes the session's recorded history, and zeroes its counters,
// all in one transaction. Artwork scan counters deflated by the deletion are
// left to the reconciliation job.
func (db *DB) OptOutSession(ctx context.Context, id uuid.UUID) error {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer rollbackQuietly(tx)

	query := `UPDATE visitor_sessions SET
		opted_out = TRUE,
		analytics_consent = FALSE,
		artworks_scanned = 0,
		total_interactions = 0,
		last_activity = ?
	WHERE id = ?`

	start := time.Now()
	result, err := tx.ExecContext(ctx, query, time.Now().UTC(), id)
	observeQuery("update", "visitor_sessions", start, err)
	if err != nil {
		return fmt.Errorf("failed to opt out session: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrSessionNotFound
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM artwork_interactions WHERE session_id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete session interactions: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM visitor_feedback WHERE session_id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete session feedback: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit opt-out: %w", err)
	}
	return nil
}
