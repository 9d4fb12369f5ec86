// ArtLens - Museum Artwork Recognition and Visitor Analytics
// Copyright 2026 ArtLens Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/artlens/artlens

package maintenance

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/thejerf/suture/v4"

	"github.com/artlens/artlens/internal/config"
)

var _ suture.Service = (*StatsRefresher)(nil)

type fakeReconcileStore struct {
	mu        sync.Mutex
	calls     int
	corrected int64
	err       error
}

func (f *fakeReconcileStore) ReconcileScanCounts(context.Context) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return f.corrected, f.err
}

func (f *fakeReconcileStore) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type fakeReloader struct {
	mu    sync.Mutex
	loads int
	err   error
}

func (f *fakeReloader) Load(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.loads++
	return f.err
}

func (f *fakeReloader) loadCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.loads
}

func TestNewStatsRefresher_RequiresStore(t *testing.T) {
	t.Parallel()

	if _, err := NewStatsRefresher(nil, nil, nil, config.AnalyticsConfig{}); err == nil {
		t.Error("nil store should be rejected")
	}
}

func TestStatsRefresher_RefreshesOnStartAndTick(t *testing.T) {
	t.Parallel()

	store := &fakeReconcileStore{}
	refresher, err := NewStatsRefresher(store, nil, nil, config.AnalyticsConfig{
		CacheTTL:             time.Hour,
		StatsRefreshInterval: 10 * time.Millisecond,
	})
	if err != nil {
		t.Fatalf("NewStatsRefresher error: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- refresher.Serve(ctx) }()

	pollUntil(t, func() bool { return store.callCount() >= 2 },
		"refresher should run at startup and again on the tick")

	cancel()
	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Serve returned %v, want context.Canceled", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Serve did not stop")
	}
}

func TestStatsRefresher_CorrectionReloadsViewAndCache(t *testing.T) {
	t.Parallel()

	store := &fakeReconcileStore{corrected: 4}
	view := &fakeReloader{}
	cache := &fakeCache{}
	refresher, err := NewStatsRefresher(store, view, cache, config.AnalyticsConfig{StatsRefreshInterval: time.Hour})
	if err != nil {
		t.Fatalf("NewStatsRefresher error: %v", err)
	}

	refresher.refresh(context.Background())

	if got := view.loadCount(); got != 1 {
		t.Errorf("view Load called %d times, want 1", got)
	}
	if got := cache.invalidations(); got != 1 {
		t.Errorf("InvalidateCache called %d times, want 1", got)
	}
	stats := refresher.Stats()
	if stats.Runs != 1 || stats.Failures != 0 || stats.RowsCorrected != 4 {
		t.Errorf("Stats = %+v, want Runs=1 Failures=0 RowsCorrected=4", stats)
	}
}

func TestStatsRefresher_ConsistentCountersLeaveViewAlone(t *testing.T) {
	t.Parallel()

	store := &fakeReconcileStore{}
	view := &fakeReloader{}
	cache := &fakeCache{}
	refresher, err := NewStatsRefresher(store, view, cache, config.AnalyticsConfig{StatsRefreshInterval: time.Hour})
	if err != nil {
		t.Fatalf("NewStatsRefresher error: %v", err)
	}

	refresher.refresh(context.Background())

	if got := view.loadCount(); got != 0 {
		t.Errorf("view Load called %d times, want 0", got)
	}
	if got := cache.invalidations(); got != 0 {
		t.Errorf("InvalidateCache called %d times, want 0", got)
	}
}

func TestStatsRefresher_StoreFailureCountsAndContinues(t *testing.T) {
	t.Parallel()

	store := &fakeReconcileStore{err: errors.New("duckdb busy")}
	view := &fakeReloader{}
	cache := &fakeCache{}
	refresher, err := NewStatsRefresher(store, view, cache, config.AnalyticsConfig{StatsRefreshInterval: time.Hour})
	if err != nil {
		t.Fatalf("NewStatsRefresher error: %v", err)
	}

	refresher.refresh(context.Background())
	refresher.refresh(context.Background())

	if got := view.loadCount(); got != 0 {
		t.Errorf("view Load called %d times, want 0", got)
	}
	if got := cache.invalidations(); got != 0 {
		t.Errorf("InvalidateCache called %d times, want 0", got)
	}
	stats := refresher.Stats()
	if stats.Runs != 2 || stats.Failures != 2 {
		t.Errorf("Stats = %+v, want Runs=2 Failures=2", stats)
	}
}

func TestStatsRefresher_ReloadFailureStillDropsCache(t *testing.T) {
	t.Parallel()

	store := &fakeReconcileStore{corrected: 1}
	view := &fakeReloader{err: errors.New("load failed")}
	cache := &fakeCache{}
	refresher, err := NewStatsRefresher(store, view, cache, config.AnalyticsConfig{StatsRefreshInterval: time.Hour})
	if err != nil {
		t.Fatalf("NewStatsRefresher error: %v", err)
	}

	refresher.refresh(context.Background())

	// The database rows changed even though the snapshot reload failed, so
	// cached reports built from the old rows must still be dropped.
	if got := cache.invalidations(); got != 1 {
		t.Errorf("InvalidateCache called %d times, want 1", got)
	}
	stats := refresher.Stats()
	if stats.Failures != 1 || stats.RowsCorrected != 1 {
		t.Errorf("Stats = %+v, want Failures=1 RowsCorrected=1", stats)
	}
}

func TestStatsRefresher_NilCollaborators(t *testing.T) {
	t.Parallel()

	store := &fakeReconcileStore{corrected: 2}
	refresher, err := NewStatsRefresher(store, nil, nil, config.AnalyticsConfig{StatsRefreshInterval: time.Hour})
	if err != nil {
		t.Fatalf("NewStatsRefresher error: %v", err)
	}

	refresher.refresh(context.Background())

	if stats := refresher.Stats(); stats.RowsCorrected != 2 {
		t.Errorf("RowsCorrected = %d, want 2", stats.RowsCorrected)
	}
}
