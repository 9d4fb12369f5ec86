// ArtLens - Museum Artwork Recognition and Visitor Analytics
// Copyright 2026 ArtLens Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/artlens/artlens

package maintenance

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"github.com/artlens/artlens/internal/config"
	"github.com/artlens/artlens/internal/database"
	"github.com/artlens/artlens/internal/logging"
	"github.com/artlens/artlens/internal/metrics"
)

// RetentionStore deletes expired sessions with their history.
type RetentionStore interface {
	DeleteExpiredSessions(ctx context.Context, cutoff time.Time) (*database.RetentionResult, error)
}

// CacheInvalidator drops cached analytics responses after the underlying
// rows change.
type CacheInvalidator interface {
	InvalidateCache()
}

// RetentionSweeper periodically removes visitor sessions idle past the
// retention age. Interactions and feedback go with their session; the
// stats refresher reconciles the artwork scan counters afterwards.
type RetentionSweeper struct {
	store    RetentionStore
	cache    CacheInvalidator
	maxIdle  time.Duration
	interval time.Duration

	runs            atomic.Int64
	failures        atomic.Int64
	sessionsRemoved atomic.Int64
}

// NewRetentionSweeper builds a sweeper from the retention config. The cache
// invalidator may be nil when no analytics cache is wired in.
func NewRetentionSweeper(store RetentionStore, cache CacheInvalidator, cfg config.RetentionConfig) (*RetentionSweeper, error) {
	if store == nil {
		return nil, errors.New("retention store required")
	}
	return &RetentionSweeper{
		store:    store,
		cache:    cache,
		maxIdle:  time.Duration(cfg.SessionDays) * 24 * time.Hour,
		interval: cfg.CleanupInterval,
	}, nil
}

// Serve sweeps once immediately, then on every interval tick until the
// context is canceled. Satisfies the supervisor's service contract.
func (s *RetentionSweeper) Serve(ctx context.Context) error {
	s.sweep(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			s.sweep(ctx)
		}
	}
}

func (s *RetentionSweeper) sweep(ctx context.Context) {
	s.runs.Add(1)
	cutoff := time.Now().UTC().Add(-s.maxIdle)

	result, err := s.store.DeleteExpiredSessions(ctx, cutoff)
	if err != nil {
		s.failures.Add(1)
		logging.Error().Err(err).Time("cutoff", cutoff).Msg("Retention sweep failed")
		return
	}

	metrics.SessionsExpired.Add(float64(result.Sessions))
	s.sessionsRemoved.Add(result.Sessions)

	if result.Sessions == 0 {
		logging.Debug().Time("cutoff", cutoff).Msg("Retention sweep found nothing to remove")
		return
	}

	// Deleted interactions change the aggregates behind cached reports.
	if s.cache != nil {
		s.cache.InvalidateCache()
	}

	logging.Info().
		Int64("sessions", result.Sessions).
		Int64("interactions", result.Interactions).
		Int64("feedback", result.Feedback).
		Time("cutoff", cutoff).
		Msg("Retention sweep removed expired sessions")
}

// RetentionStats reports sweeper activity since startup.
type RetentionStats struct {
	Runs            int64
	Failures        int64
	SessionsRemoved int64
}

// Stats returns a point-in-time snapshot of sweeper counters.
func (s *RetentionSweeper) Stats() RetentionStats {
	return RetentionStats{
		Runs:            s.runs.Load(),
		Failures:        s.failures.Load(),
		SessionsRemoved: s.sessionsRemoved.Load(),
	}
}

func (s *RetentionSweeper) String() string {
	return "retention-sweeper"
}
