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
	"github.com/artlens/artlens/internal/logging"
	"github.com/artlens/artlens/internal/metrics"
)

// ReconcileStore rewrites drifted scan counters from the interaction log.
type ReconcileStore interface {
	ReconcileScanCounts(ctx context.Context) (int64, error)
}

// SnapshotReloader rebuilds the in-memory catalogue view from storage.
type SnapshotReloader interface {
	Load(ctx context.Context) error
}

// StatsRefresher periodically reconciles artworks.scan_count against the
// interaction log. The counter drifts when an increment lands without its
// interaction row, and when opt-out wipes or retention sweeps delete
// interactions out from under it.
type StatsRefresher struct {
	store    ReconcileStore
	view     SnapshotReloader
	cache    CacheInvalidator
	interval time.Duration

	runs          atomic.Int64
	failures      atomic.Int64
	rowsCorrected atomic.Int64
}

// NewStatsRefresher builds a refresher from the analytics config. The view
// and cache may be nil; corrections then stay in storage until the next
// catalogue load.
func NewStatsRefresher(store ReconcileStore, view SnapshotReloader, cache CacheInvalidator, cfg config.AnalyticsConfig) (*StatsRefresher, error) {
	if store == nil {
		return nil, errors.New("reconcile store required")
	}
	return &StatsRefresher{
		store:    store,
		view:     view,
		cache:    cache,
		interval: cfg.StatsRefreshInterval,
	}, nil
}

// Serve reconciles once immediately, then on every interval tick until the
// context is canceled. Satisfies the supervisor's service contract.
func (s *StatsRefresher) Serve(ctx context.Context) error {
	s.refresh(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			s.refresh(ctx)
		}
	}
}

func (s *StatsRefresher) refresh(ctx context.Context) {
	s.runs.Add(1)
	metrics.StatsReconciliations.Inc()

	corrected, err := s.store.ReconcileScanCounts(ctx)
	if err != nil {
		s.failures.Add(1)
		logging.Error().Err(err).Msg("Scan counter reconciliation failed")
		return
	}
	s.rowsCorrected.Add(corrected)

	if corrected == 0 {
		logging.Debug().Msg("Scan counters already consistent")
		return
	}

	// The in-memory catalogue mirrors the counters it serves; corrected
	// rows leave it stale until reloaded.
	if s.view != nil {
		if err := s.view.Load(ctx); err != nil {
			s.failures.Add(1)
			logging.Error().Err(err).Msg("Catalogue reload after reconciliation failed")
		}
	}
	if s.cache != nil {
		s.cache.InvalidateCache()
	}

	logging.Info().Int64("corrected", corrected).Msg("Scan counters reconciled")
}

// RefreshStats reports refresher activity since startup.
type RefreshStats struct {
	Runs          int64
	Failures      int64
	RowsCorrected int64
}

// Stats returns a point-in-time snapshot of refresher counters.
func (s *StatsRefresher) Stats() RefreshStats {
	return RefreshStats{
		Runs:          s.runs.Load(),
		Failures:      s.failures.Load(),
		RowsCorrected: s.rowsCorrected.Load(),
	}
}

func (s *StatsRefresher) String() string {
	return "stats-refresher"
}
