// ArtLens - Museum Artwork Recognition and Visitor Analytics
// Copyright 2026 ArtLens Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/artlens/artlens

/*
stats.go - Maintenance Queries

Housekeeping run by the background maintenance services rather than by
request handlers: expiring idle visitor sessions with their history, and
reconciling the advisory per-artwork scan counters against the
interaction log they denormalize.
*/

//nolint:staticcheck // File documentation, not package doc
package database

import (
	"context"
	"fmt"
	"time"

	"github.com/artlens/artlens/internal/models"
)

// RetentionResult reports how many rows a retention sweep removed.
type RetentionResult struct {
	Sessions     int64
	Interactions int64
	Feedback     int64
}

// DeleteExpiredSessions removes sessions whose last_activity predates the
// cutoff, together with their interactions and feedback. The three deletes
// share one transaction so a session never survives without its history or
// vice versa.
func (db *DB) DeleteExpiredSessions(ctx context.Context, cutoff time.Time) (*RetentionResult, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer rollbackQuietly(tx)

	result := &RetentionResult{}
	start := time.Now()

	res, err := tx.ExecContext(ctx,
		`DELETE FROM artwork_interactions WHERE session_id IN (
			SELECT id FROM visitor_sessions WHERE last_activity < ?)`, cutoff)
	if err != nil {
		observeQuery("delete", "artwork_interactions", start, err)
		return nil, fmt.Errorf("failed to delete expired interactions: %w", err)
	}
	result.Interactions, _ = res.RowsAffected()

	res, err = tx.ExecContext(ctx,
		`DELETE FROM visitor_feedback WHERE session_id IN (
			SELECT id FROM visitor_sessions WHERE last_activity < ?)`, cutoff)
	if err != nil {
		observeQuery("delete", "visitor_feedback", start, err)
		return nil, fmt.Errorf("failed to delete expired feedback: %w", err)
	}
	result.Feedback, _ = res.RowsAffected()

	res, err = tx.ExecContext(ctx,
		`DELETE FROM visitor_sessions WHERE last_activity < ?`, cutoff)
	if err != nil {
		observeQuery("delete", "visitor_sessions", start, err)
		return nil, fmt.Errorf("failed to delete expired sessions: %w", err)
	}
	result.Sessions, _ = res.RowsAffected()

	if err := tx.Commit(); err != nil {
		observeQuery("delete", "visitor_sessions", start, err)
		return nil, fmt.Errorf("failed to commit retention sweep: %w", err)
	}
	observeQuery("delete", "visitor_sessions", start, nil)

	return result, nil
}

// ReconcileScanCounts rewrites artworks.scan_count from the interaction log
// wherever the two disagree, returning the number of corrected rows. The
// counter drifts when an increment lands without its interaction (or the
// reverse), and when retention or opt-out deletes interactions out from
// under it.
func (db *DB) ReconcileScanCounts(ctx context.Context) (int64, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	query := `UPDATE artworks SET scan_count = (
		SELECT COUNT(*) FROM artwork_interactions ai
		WHERE ai.artwork_id = artworks.id AND ai.interaction_type = ?)
	WHERE scan_count <> (
		SELECT COUNT(*) FROM artwork_interactions ai
		WHERE ai.artwork_id = artworks.id AND ai.interaction_type = ?)`

	start := time.Now()
	res, err := db.conn.ExecContext(ctx, query, models.InteractionScan, models.InteractionScan)
	observeQuery("update", "artworks", start, err)
	if err != nil {
		return 0, fmt.Errorf("failed to reconcile scan counts: %w", err)
	}

	corrected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to read reconcile row count: %w", err)
	}

	return corrected, nil
}
