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

// UpsertFeedback records a visitor's reaction to an artwork. One row per
// (session, artwork): resubmitting replaces the earlier reaction and
// comment, keeping the original row ID.
func (db *DB) UpsertFeedback(ctx context.Context, fb *models.VisitorFeedback) error {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	if fb.ID == uuid.Nil {
		fb.ID = uuid.New()
	}
	if fb.CreatedAt.IsZero() {
		fb.CreatedAt = time.Now().UTC()
	}

	query := `INSERT INTO visitor_feedback (
		id, session_id, artwork_id, reaction, comment, created_at
	) VALUES (?, ?, ?, ?, ?, ?)
	ON CONFLICT (session_id, artwork_id) DO UPDATE SET
		reaction = EXCLUDED.reaction,
		comment = EXCLUDED.comment,
		created_at = EXCLUDED.created_at`

	start := time.Now()
	_, err := db.conn.ExecContext(ctx, query,
		fb.ID, fb.SessionID, fb.ArtworkID, fb.Reaction, fb.Comment, fb.CreatedAt,
	)
	observeQuery("upsert", "visitor_feedback", start, err)
	if err != nil {
		return fmt.Errorf("failed to upsert feedback: %w", err)
	}
	return nil
}

// GetFeedback fetches the reaction a session left on an artwork.
// Returns nil with no error when the session never reacted.
func (db *DB) GetFeedback(ctx context.Context, sessionID, artworkID uuid.UUID) (*models.VisitorFeedback, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	query := `SELECT id, session_id, artwork_id, reaction,
		COALESCE(comment, ''), created_at
	FROM visitor_feedback
	WHERE session_id = ? AND artwork_id = ?`

	var fb models.VisitorFeedback
	start := time.Now()
	err := db.conn.QueryRowContext(ctx, query, sessionID, artworkID).Scan(
		&fb.ID, &fb.SessionID, &fb.ArtworkID, &fb.Reaction,
		&fb.Comment, &fb.CreatedAt,
	)
	observeQuery("select", "visitor_feedback", start, err)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get feedback: %w", err)
	}

	return &fb, nil
}
