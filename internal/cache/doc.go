// ArtLens - Museum Artwork Recognition and Visitor Analytics
// Copyright 2026 ArtLens Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/artlens/artlens

/*
Package cache provides thread-safe in-memory caching and windowed counters.

Three structures cover the platform's in-memory state that does not belong
in DuckDB or badger:

  - Cache: TTL key-value cache for analytics responses. Museum summaries,
    artwork insights, heatmaps, and recommendations are DuckDB aggregations
    over the full interaction history; they change slowly and are requested
    often by gallery dashboards. TTL comes from analytics.cache_ttl
    (default 1h); the event pipeline clears the cache after every matched
    scan so fresh interactions appear on the next request.

  - DedupWindow: capacity-bounded recency window with TTL, used by the
    event router to deduplicate scan.matched deliveries by message UUID.
    The interaction recorder bumps session and artwork counters, so a
    retried message must be detected and dropped rather than recorded
    twice.

  - SlidingWindowCounter / UniqueValueCounter: bucketed window counters
    feeding the WebSocket stats_update frame (scans and distinct sessions
    in the last hour) without a database query per broadcast.

# Usage Example

Analytics caching pattern:

	key := cache.GenerateKey("summary", struct{ Days int }{30})
	if cached, ok := s.cache.Get(key); ok {
	    return cached.(*models.MuseumSummary), nil
	}
	summary, err := s.store.MuseumSummary(ctx, 30)
	if err != nil {
	    return nil, err
	}
	s.cache.Set(key, summary)

# Invalidation

TTL expiration happens lazily on Get plus a 5-minute background sweep.
Manual invalidation (Clear) runs after writes that change analytics:
recorded scan interactions, feedback submissions, artwork mutations, and
retention cleanup.

# Thread Safety

All structures are safe for concurrent use. Cache uses sync.RWMutex,
DedupWindow guards its list+map with a single mutex, and the window
counters advance their circular buffers under a mutex on every operation.

# Limitations

Cache has no capacity bound; the key space (analytics endpoints times
filter combinations) is small and self-limiting. DedupWindow bounds memory
by entry count, not bytes. All state is per-process, which matches the
single-instance deployment.
*/
package cache
