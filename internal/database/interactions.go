// ArtLens - Museum Artwork Recognition and Visitor Analytics
// Copyright 2026 ArtLens Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/artlens/artlens

package database

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/artlens/artlens/internal/models"
)

// InsertInteraction appends one interaction and bumps the owning session's
// counters in the same transaction: total_interactions always, and
// artworks_scanned for scan interactions. The session's last_activity moves
// to the interaction time.
//
// The artwork-side scan counter is deliberately not part of the transaction;
// the catalogue bumps it on the event path and the hourly reconciliation job
// corrects any drift.
func (db *DB) InsertInteraction(ctx context.Context, in *models.ArtworkInteraction) error {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	if in.ID == uuid.Nil {
		in.ID = uuid.New()
	}
	if in.CreatedAt.IsZero() {
		in.CreatedAt = time.Now().UTC()
	}

	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer rollbackQuietly(tx)

	insertQuery := `INSERT INTO artwork_interactions (
		id, session_id, artwork_id, interaction_type, similarity_score,
		distance_meters, created_at
	) VALUES (?, ?, ?, ?, ?, ?, ?)`

	start := time.Now()
	_, err = tx.ExecContext(ctx, insertQuery,
		in.ID, in.SessionID, in.ArtworkID, in.InteractionType,
		in.SimilarityScore, in.DistanceMeters, in.CreatedAt,
	)
	observeQuery("insert", "artwork_interactions", start, err)
	if err != nil {
		return fmt.Errorf("failed to insert interaction: %w", err)
	}

	scanDelta := 0
	if in.InteractionType == models.InteractionScan {
		scanDelta = 1
	}

	counterQuery := `UPDATE visitor_sessions SET
		total_interactions = total_interactions + 1,
		artworks_scanned = artworks_scanned + ?,
		last_activity = ?
	WHERE id = ?`

	result, err := tx.ExecContext(ctx, counterQuery, scanDelta, in.CreatedAt, in.SessionID)
	if err != nil {
		return fmt.Errorf("failed to update session counters: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrSessionNotFound
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit interaction: %w", err)
	}
	return nil
}

// ListSessionArtworkIDs returns the distinct artworks a session has
// interacted with, most recently touched first. Recommendation scoring
// resolves fingerprints for these IDs from the in-memory catalogue, so only
// the IDs leave the database.
func (db *DB) ListSessionArtworkIDs(ctx context.Context, sessionID uuid.UUID) ([]uuid.UUID, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	query := `SELECT artwork_id
	FROM artwork_interactions
	WHERE session_id = ?
	GROUP BY artwork_id
	ORDER BY MAX(created_at) DESC`

	start := time.Now()
	rows, err := db.conn.QueryContext(ctx, query, sessionID)
	observeQuery("select", "artwork_interactions", start, err)
	if err != nil {
		return nil, fmt.Errorf("failed to query session artworks: %w", err)
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan artwork id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating session artworks: %w", err)
	}

	return ids, nil
}
