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
	"strings"
	"time"

	json "github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/artlens/artlens/internal/fingerprint"
	"github.com/artlens/artlens/internal/metrics"
	"github.com/artlens/artlens/internal/models"
)

// artworkSelectColumns is the shared SELECT list for artwork rows. Optional
// text columns are coalesced so rows written with NULLs (hand-edited
// databases, older seeds) scan cleanly into plain string fields.
const artworkSelectColumns = `id, title, artist, COALESCE(description, ''),
	COALESCE(category, ''), year_created, COALESCE(image_path, ''),
	latitude, longitude, geofence_radius_m, fingerprint, is_on_display,
	scan_count, created_at, updated_at`

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// scanArtwork reads one artworkSelectColumns row, decoding the stored
// fingerprint wire form when present.
func scanArtwork(row rowScanner) (*models.Artwork, error) {
	var (
		a      models.Artwork
		fpJSON sql.NullString
	)
	err := row.Scan(
		&a.ID, &a.Title, &a.Artist, &a.Description,
		&a.Category, &a.YearCreated, &a.ImagePath,
		&a.Latitude, &a.Longitude, &a.GeofenceRadiusM, &fpJSON, &a.IsOnDisplay,
		&a.ScanCount, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if fpJSON.Valid && fpJSON.String != "" {
		var fp fingerprint.Fingerprint
		if err := json.Unmarshal([]byte(fpJSON.String), &fp); err != nil {
			return nil, fmt.Errorf("failed to decode stored fingerprint for artwork %s: %w", a.ID, err)
		}
		a.Fingerprint = &fp
	}

	return &a, nil
}

// marshalFingerprint renders the nullable fingerprint column value.
func marshalFingerprint(fp *fingerprint.Fingerprint) (any, error) {
	if fp == nil {
		return nil, nil
	}
	data, err := json.Marshal(fp)
	if err != nil {
		return nil, fmt.Errorf("failed to encode fingerprint: %w", err)
	}
	return string(data), nil
}

// observeQuery records the query duration metric. A row miss is a routine
// outcome, not a query error, so sql.ErrNoRows is not counted as one.
func observeQuery(operation, table string, start time.Time, err error) {
	if errors.Is(err, sql.ErrNoRows) {
		err = nil
	}
	metrics.RecordDBQuery(operation, table, time.Since(start), err)
}

// InsertArtwork persists a new catalogue entry. A nil ID and zero timestamps
// are filled in on the struct so the caller sees exactly what was stored.
func (db *DB) InsertArtwork(ctx context.Context, a *models.Artwork) error {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	now := time.Now().UTC()
	if a.CreatedAt.IsZero() {
		a.CreatedAt = now
	}
	if a.UpdatedAt.IsZero() {
		a.UpdatedAt = a.CreatedAt
	}

	fpValue, err := marshalFingerprint(a.Fingerprint)
	if err != nil {
		return err
	}

	query := `INSERT INTO artworks (
		id, title, artist, description, category, year_created,
		image_path, latitude, longitude, geofence_radius_m, fingerprint,
		is_on_display, scan_count, created_at, updated_at
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	start := time.Now()
	_, err = db.conn.ExecContext(ctx, query,
		a.ID, a.Title, a.Artist, a.Description, a.Category, a.YearCreated,
		a.ImagePath, a.Latitude, a.Longitude, a.GeofenceRadiusM, fpValue,
		a.IsOnDisplay, a.ScanCount, a.CreatedAt, a.UpdatedAt,
	)
	observeQuery("insert", "artworks", start, err)
	if err != nil {
		return fmt.Errorf("failed to insert artwork: %w", err)
	}
	return nil
}

// GetArtwork retrieves one artwork by ID. Returns ErrArtworkNotFound when no
// row exists.
func (db *DB) GetArtwork(ctx context.Context, id uuid.UUID) (*models.Artwork, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	query := `SELECT ` + artworkSelectColumns + ` FROM artworks WHERE id = ?`

	start := time.Now()
	a, err := scanArtwork(db.conn.QueryRowContext(ctx, query, id))
	observeQuery("select", "artworks", start, err)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrArtworkNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get artwork: %w", err)
	}
	return a, nil
}

// ListArtworks retrieves artworks matching the filter, ordered by catalogue
// insertion order (creation time). That ordering is load-bearing: the
// in-memory candidate snapshot is built from it and the resolver breaks
// score ties by it.
func (db *DB) ListArtworks(ctx context.Context, filter models.ArtworkFilter) ([]models.Artwork, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	query := `SELECT ` + artworkSelectColumns + ` FROM artworks`

	clauses, args := buildArtworkFilter(filter)
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}
	query += " ORDER BY created_at ASC, id ASC"

	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
		if filter.Offset > 0 {
			query += " OFFSET ?"
			args = append(args, filter.Offset)
		}
	}

	start := time.Now()
	rows, err := db.conn.QueryContext(ctx, query, args...)
	observeQuery("select", "artworks", start, err)
	if err != nil {
		return nil, fmt.Errorf("failed to query artworks: %w", err)
	}
	defer rows.Close()

	var artworks []models.Artwork
	for rows.Next() {
		a, err := scanArtwork(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan artwork: %w", err)
		}
		artworks = append(artworks, *a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating artworks: %w", err)
	}

	return artworks, nil
}

// ListAllArtworks returns the full catalogue in insertion order, fingerprints
// included. The catalogue builds its startup snapshot from this.
func (db *DB) ListAllArtworks(ctx context.Context) ([]models.Artwork, error) {
	return db.ListArtworks(ctx, models.ArtworkFilter{})
}

// buildArtworkFilter renders an ArtworkFilter into WHERE clauses and args
func buildArtworkFilter(filter models.ArtworkFilter) ([]string, []any) {
	var clauses []string
	var args []any

	if filter.Category != "" {
		clauses = append(clauses, "category = ?")
		args = append(args, filter.Category)
	}
	if filter.Artist != "" {
		clauses = append(clauses, "artist = ?")
		args = append(args, filter.Artist)
	}
	if filter.OnDisplay != nil {
		clauses = append(clauses, "is_on_display = ?")
		args = append(args, *filter.OnDisplay)
	}
	if filter.Search != "" {
		pattern := "%" + escapeLike(filter.Search) + "%"
		clauses = append(clauses, `(title ILIKE ? ESCAPE '\' OR artist ILIKE ? ESCAPE '\' OR description ILIKE ? ESCAPE '\')`)
		args = append(args, pattern, pattern, pattern)
	}

	return clauses, args
}

// escapeLike escapes LIKE wildcards in user-supplied search text so a search
// for "100%" matches the literal string.
func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `%`, `\%`)
	s = strings.ReplaceAll(s, `_`, `\_`)
	return s
}

// UpdateArtwork rewrites an artwork's descriptive fields, location, and
// fingerprint. The scan counter is owned by IncrementScanCount and the
// reconciliation job and is never touched here.
func (db *DB) UpdateArtwork(ctx context.Context, a *models.Artwork) error {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	a.UpdatedAt = time.Now().UTC()

	fpValue, err := marshalFingerprint(a.Fingerprint)
	if err != nil {
		return err
	}

	query := `UPDATE artworks SET
		title = ?, artist = ?, description = ?, category = ?, year_created = ?,
		image_path = ?, latitude = ?, longitude = ?, geofence_radius_m = ?,
		fingerprint = ?, is_on_display = ?, updated_at = ?
	WHERE id = ?`

	start := time.Now()
	result, err := db.conn.ExecContext(ctx, query,
		a.Title, a.Artist, a.Description, a.Category, a.YearCreated,
		a.ImagePath, a.Latitude, a.Longitude, a.GeofenceRadiusM,
		fpValue, a.IsOnDisplay, a.UpdatedAt, a.ID,
	)
	observeQuery("update", "artworks", start, err)
	if err != nil {
		return fmt.Errorf("failed to update artwork: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrArtworkNotFound
	}

	return nil
}

// UpdateArtworkFingerprint replaces only the stored fingerprint, used when
// reindexing detects that an artwork's image bytes changed on disk.
func (db *DB) UpdateArtworkFingerprint(ctx context.Context, id uuid.UUID, fp *fingerprint.Fingerprint) error {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	fpValue, err := marshalFingerprint(fp)
	if err != nil {
		return err
	}

	query := `UPDATE artworks SET fingerprint = ?, updated_at = ? WHERE id = ?`

	start := time.Now()
	result, err := db.conn.ExecContext(ctx, query, fpValue, time.Now().UTC(), id)
	observeQuery("update", "artworks", start, err)
	if err != nil {
		return fmt.Errorf("failed to update artwork fingerprint: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrArtworkNotFound
	}

	return nil
}

// DeleteArtwork removes an artwork together with its interactions and
// feedback. The tables have no foreign keys; deleting in one transaction
// keeps the insight queries from ever seeing orphaned rows.
func (db *DB) DeleteArtwork(ctx context.Context, id uuid.UUID) error {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer rollbackQuietly(tx)

	start := time.Now()
	result, err := tx.ExecContext(ctx, `DELETE FROM artworks WHERE id = ?`, id)
	observeQuery("delete", "artworks", start, err)
	if err != nil {
		return fmt.Errorf("failed to delete artwork: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrArtworkNotFound
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM artwork_interactions WHERE artwork_id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete artwork interactions: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM visitor_feedback WHERE artwork_id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete artwork feedback: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit artwork deletion: %w", err)
	}
	return nil
}

// IncrementScanCount bumps the denormalized artwork scan counter. The
// counter is advisory: the hourly reconciliation job rewrites it from the
// recorded scan interactions, so a lost increment self-heals.
func (db *DB) IncrementScanCount(ctx context.Context, id uuid.UUID) error {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	query := `UPDATE artworks SET scan_count = scan_count + 1 WHERE id = ?`

	start := time.Now()
	result, err := db.conn.ExecContext(ctx, query, id)
	observeQuery("update", "artworks", start, err)
	if err != nil {
		return fmt.Errorf("failed to increment scan count: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrArtworkNotFound
	}

	return nil
}
