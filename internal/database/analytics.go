// ArtLens - Museum Artwork Recognition and Visitor Analytics
// Copyright 2026 ArtLens Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/artlens/artlens

/*
analytics.go - Visitor Engagement Analytics

Aggregate queries over artwork_interactions and visitor_feedback. All
windows are computed in Go as UTC cutoff timestamps and bound as
parameters; buckets use DuckDB's DATE_TRUNC / EXTRACT so the daily and
hourly grouping happens in the database, with derived values (peaks,
matrices) assembled in Go.

The serving layer caches these responses; nothing here is on the scan hot
path.
*/

//nolint:staticcheck // File documentation, not package doc
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

// windowCutoff validates a day window and returns its UTC start.
func windowCutoff(days int) (time.Time, error) {
	if days <= 0 {
		return time.Time{}, fmt.Errorf("invalid window: days must be positive, got %d", days)
	}
	return time.Now().UTC().AddDate(0, 0, -days), nil
}

// GetMuseumSummary aggregates museum-wide engagement over the trailing
// window: scan volume, session reach, similarity quality, the daily scan
// timeline, and the ten most-scanned artworks.
func (db *DB) GetMuseumSummary(ctx context.Context, days int) (*models.MuseumSummary, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	cutoff, err := windowCutoff(days)
	if err != nil {
		return nil, err
	}

	summary := &models.MuseumSummary{
		WindowDays:  days,
		GeneratedAt: time.Now().UTC(),
	}

	totalsQuery := `SELECT
		COUNT(*) FILTER (WHERE interaction_type = ?) AS total_scans,
		COUNT(DISTINCT session_id) AS unique_sessions,
		COUNT(*) AS total_interactions,
		COUNT(DISTINCT artwork_id) FILTER (WHERE interaction_type = ?) AS unique_artworks,
		COALESCE(AVG(similarity_score) FILTER (WHERE interaction_type = ?), 0) AS avg_similarity
	FROM artwork_interactions
	WHERE created_at >= ?`

	start := time.Now()
	err = db.conn.QueryRowContext(ctx, totalsQuery,
		models.InteractionScan, models.InteractionScan, models.InteractionScan, cutoff,
	).Scan(
		&summary.TotalScans, &summary.UniqueSessions, &summary.TotalInteractions,
		&summary.UniqueArtworks, &summary.AvgSimilarity,
	)
	observeQuery("select", "artwork_interactions", start, err)
	if err != nil {
		return nil, fmt.Errorf("failed to query summary totals: %w", err)
	}

	summary.DailyScans, err = db.queryDailyScans(ctx, cutoff, uuid.Nil)
	if err != nil {
		return nil, err
	}

	summary.TopArtworks, err = db.queryTopArtworks(ctx, cutoff, 10)
	if err != nil {
		return nil, err
	}

	return summary, nil
}

// queryDailyScans returns the daily scan timeline since cutoff, optionally
// restricted to one artwork (uuid.Nil means museum-wide). Days without scans
// are absent from the result.
func (db *DB) queryDailyScans(ctx context.Context, cutoff time.Time, artworkID uuid.UUID) ([]models.DailyCount, error) {
	query := `SELECT DATE_TRUNC('day', created_at) AS day, COUNT(*) AS scans
	FROM artwork_interactions
	WHERE interaction_type = ? AND created_at >= ?`
	args := []any{models.InteractionScan, cutoff}

	if artworkID != uuid.Nil {
		query += ` AND artwork_id = ?`
		args = append(args, artworkID)
	}
	query += ` GROUP BY day ORDER BY day`

	start := time.Now()
	rows, err := db.conn.QueryContext(ctx, query, args...)
	observeQuery("select", "artwork_interactions", start, err)
	if err != nil {
		return nil, fmt.Errorf("failed to query daily scans: %w", err)
	}
	defer rows.Close()

	var daily []models.DailyCount
	for rows.Next() {
		var (
			day   time.Time
			count int64
		)
		if err := rows.Scan(&day, &count); err != nil {
			return nil, fmt.Errorf("failed to scan daily count: %w", err)
		}
		daily = append(daily, models.DailyCount{
			Date:  day.Format("2006-01-02"),
			Count: count,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating daily scans: %w", err)
	}

	return daily, nil
}

// queryTopArtworks ranks artworks by scan volume since cutoff. Ties break
// alphabetically by title so the ranking is stable across refreshes.
func (db *DB) queryTopArtworks(ctx context.Context, cutoff time.Time, limit int) ([]models.TopArtwork, error) {
	query := `SELECT ai.artwork_id, a.title, a.artist, COUNT(*) AS scans
	FROM artwork_interactions ai
	JOIN artworks a ON a.id = ai.artwork_id
	WHERE ai.interaction_type = ? AND ai.created_at >= ?
	GROUP BY ai.artwork_id, a.title, a.artist
	ORDER BY scans DESC, a.title ASC
	LIMIT ?`

	start := time.Now()
	rows, err := db.conn.QueryContext(ctx, query, models.InteractionScan, cutoff, limit)
	observeQuery("select", "artwork_interactions", start, err)
	if err != nil {
		return nil, fmt.Errorf("failed to query top artworks: %w", err)
	}
	defer rows.Close()

	var top []models.TopArtwork
	for rows.Next() {
		var t models.TopArtwork
		if err := rows.Scan(&t.ArtworkID, &t.Title, &t.Artist, &t.ScanCount); err != nil {
			return nil, fmt.Errorf("failed to scan top artwork: %w", err)
		}
		top = append(top, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating top artworks: %w", err)
	}

	return top, nil
}

// GetArtworkInsights aggregates per-artwork engagement: scan volume and
// similarity spread over the window, when visitors scan it (daily and by
// hour of day), and the all-time feedback reaction breakdown.
func (db *DB) GetArtworkInsights(ctx context.Context, artworkID uuid.UUID, days int) (*models.ArtworkInsights, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	cutoff, err := windowCutoff(days)
	if err != nil {
		return nil, err
	}

	insights := &models.ArtworkInsights{
		ArtworkID:   artworkID,
		WindowDays:  days,
		GeneratedAt: time.Now().UTC(),
	}

	err = db.conn.QueryRowContext(ctx, `SELECT title FROM artworks WHERE id = ?`, artworkID).Scan(&insights.Title)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrArtworkNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get artwork title: %w", err)
	}

	scoreQuery := `SELECT
		COUNT(*) AS scans,
		COUNT(DISTINCT session_id) AS unique_sessions,
		COALESCE(AVG(similarity_score), 0) AS avg_score,
		COALESCE(MIN(similarity_score), 0) AS min_score,
		COALESCE(MAX(similarity_score), 0) AS max_score
	FROM artwork_interactions
	WHERE artwork_id = ? AND interaction_type = ? AND created_at >= ?`

	start := time.Now()
	err = db.conn.QueryRowContext(ctx, scoreQuery, artworkID, models.InteractionScan, cutoff).Scan(
		&insights.ScanCount, &insights.UniqueSessions,
		&insights.AvgScore, &insights.MinScore, &insights.MaxScore,
	)
	observeQuery("select", "artwork_interactions", start, err)
	if err != nil {
		return nil, fmt.Errorf("failed to query artwork score stats: %w", err)
	}

	insights.DailyScans, err = db.queryDailyScans(ctx, cutoff, artworkID)
	if err != nil {
		return nil, err
	}

	if err := db.queryHourlyScans(ctx, artworkID, cutoff, &insights.HourlyScans); err != nil {
		return nil, err
	}

	insights.Reactions, err = db.queryReactionBreakdown(ctx, artworkID)
	if err != nil {
		return nil, err
	}

	return insights, nil
}

// queryHourlyScans fills hourly[h] with the artwork's scan count at hour h
// (UTC) across the window.
func (db *DB) queryHourlyScans(ctx context.Context, artworkID uuid.UUID, cutoff time.Time, hourly *[24]int64) error {
	query := `SELECT EXTRACT(hour FROM created_at) AS hour, COUNT(*) AS scans
	FROM artwork_interactions
	WHERE artwork_id = ? AND interaction_type = ? AND created_at >= ?
	GROUP BY hour`

	start := time.Now()
	rows, err := db.conn.QueryContext(ctx, query, artworkID, models.InteractionScan, cutoff)
	observeQuery("select", "artwork_interactions", start, err)
	if err != nil {
		return fmt.Errorf("failed to query hourly scans: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			hour  int
			count int64
		)
		if err := rows.Scan(&hour, &count); err != nil {
			return fmt.Errorf("failed to scan hourly count: %w", err)
		}
		if hour >= 0 && hour < 24 {
			hourly[hour] = count
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("error iterating hourly scans: %w", err)
	}

	return nil
}

// queryReactionBreakdown counts feedback reactions for an artwork, largest
// group first. Feedback is an opinion, not a time series, so it is not
// windowed.
func (db *DB) queryReactionBreakdown(ctx context.Context, artworkID uuid.UUID) ([]models.ReactionCount, error) {
	query := `SELECT reaction, COUNT(*) AS votes
	FROM visitor_feedback
	WHERE artwork_id = ?
	GROUP BY reaction
	ORDER BY votes DESC, reaction ASC`

	start := time.Now()
	rows, err := db.conn.QueryContext(ctx, query, artworkID)
	observeQuery("select", "visitor_feedback", start, err)
	if err != nil {
		return nil, fmt.Errorf("failed to query reactions: %w", err)
	}
	defer rows.Close()

	var reactions []models.ReactionCount
	for rows.Next() {
		var rc models.ReactionCount
		if err := rows.Scan(&rc.Reaction, &rc.Count); err != nil {
			return nil, fmt.Errorf("failed to scan reaction count: %w", err)
		}
		reactions = append(reactions, rc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating reactions: %w", err)
	}

	return reactions, nil
}

// GetHeatmap buckets all interactions since the window start into a
// weekday-by-hour matrix. DuckDB's EXTRACT(dow ...) numbers Sunday as 0,
// matching time.Weekday, so the cells line up without translation.
func (db *DB) GetHeatmap(ctx context.Context, days int) (*models.Heatmap, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	cutoff, err := windowCutoff(days)
	if err != nil {
		return nil, err
	}

	query := `SELECT
		EXTRACT(dow FROM created_at) AS weekday,
		EXTRACT(hour FROM created_at) AS hour,
		COUNT(*) AS interactions
	FROM artwork_interactions
	WHERE created_at >= ?
	GROUP BY weekday, hour`

	start := time.Now()
	rows, err := db.conn.QueryContext(ctx, query, cutoff)
	observeQuery("select", "artwork_interactions", start, err)
	if err != nil {
		return nil, fmt.Errorf("failed to query heatmap: %w", err)
	}
	defer rows.Close()

	heatmap := &models.Heatmap{
		WindowDays:  days,
		GeneratedAt: time.Now().UTC(),
	}

	for rows.Next() {
		var (
			weekday, hour int
			count         int64
		)
		if err := rows.Scan(&weekday, &hour, &count); err != nil {
			return nil, fmt.Errorf("failed to scan heatmap cell: %w", err)
		}
		if weekday < 0 || weekday > 6 || hour < 0 || hour > 23 {
			continue
		}
		heatmap.Cells[weekday][hour] = count
		heatmap.Total += count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating heatmap cells: %w", err)
	}

	// Peak cell scanned row-major so equal counts resolve to the earliest
	// weekday/hour and the answer is stable across refreshes.
	var peakCount int64 = -1
	for d := 0; d < 7; d++ {
		for h := 0; h < 24; h++ {
			if heatmap.Cells[d][h] > peakCount {
				peakCount = heatmap.Cells[d][h]
				heatmap.PeakWeekday = time.Weekday(d)
				heatmap.PeakHour = h
			}
		}
	}

	return heatmap, nil
}
