// ArtLens - Museum Artwork Recognition and Visitor Analytics
// Copyright 2026 ArtLens Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/artlens/artlens

package config

import (
	"time"
)

// Config holds all application configuration loaded from defaults, an
// optional YAML config file, and environment variables (in that order of
// precedence, environment highest).
//
// Configuration Categories:
//
//  1. Infrastructure:
//     - Server: HTTP listener (host, port, request timeout)
//     - Database: DuckDB catalogue and analytics store
//     - FingerprintCache: Badger store for extracted fingerprints
//     - Events: in-process scan event routing
//
//  2. Platform behavior:
//     - Retention: visitor session retention and cleanup cadence
//     - Analytics: response cache TTL and stats reconciliation cadence
//     - Seed: sample catalogue loading for demos and development
//
//  3. API & Security:
//     - Security: CORS origins and rate limiting
//
//  4. Observability:
//     - Logging: log level and output format
//
// Thread Safety:
// Config is immutable after Load() and safe for concurrent read access.
type Config struct {
	Server           ServerConfig           `koanf:"server"`
	Database         DatabaseConfig         `koanf:"database"`
	FingerprintCache FingerprintCacheConfig `koanf:"fingerprint_cache"`
	Events           EventsConfig           `koanf:"events"`
	Retention        RetentionConfig        `koanf:"retention"`
	Analytics        AnalyticsConfig        `koanf:"analytics"`
	Security         SecurityConfig         `koanf:"security"`
	Logging          LoggingConfig          `koanf:"logging"`
	Seed             SeedConfig             `koanf:"seed"`
}

// ServerConfig holds HTTP server settings.
//
// Environment Variables:
//   - HTTP_HOST: Listen address (default: 0.0.0.0)
//   - HTTP_PORT: Listen port (default: 8521)
//   - HTTP_TIMEOUT: Read/write timeout (default: 30s)
type ServerConfig struct {
	Host    string        `koanf:"host"`
	Port    int           `koanf:"port"`
	Timeout time.Duration `koanf:"timeout"`
}

// DatabaseConfig holds DuckDB settings. DuckDB is embedded; Path is a local
// file (":memory:" is accepted for tests and one-shot CLI runs).
//
// Environment Variables:
//   - DUCKDB_PATH: Database file path (default: /data/artlens.duckdb)
//   - DUCKDB_MAX_MEMORY: Memory limit, e.g. "2GB" (default: 2GB)
//   - DUCKDB_THREADS: Worker threads, 0 = number of CPUs (default: 0)
type DatabaseConfig struct {
	Path                   string `koanf:"path"`
	MaxMemory              string `koanf:"max_memory"`
	Threads                int    `koanf:"threads"`
	PreserveInsertionOrder bool   `koanf:"preserve_insertion_order"`
}

// FingerprintCacheConfig holds the Badger store that caches extracted
// fingerprints keyed by image content hash, so re-uploading or re-indexing
// an unchanged image skips the extraction pipeline.
//
// Environment Variables:
//   - FINGERPRINT_CACHE_PATH: Badger directory (default: /data/fingerprints)
//   - FINGERPRINT_CACHE_IN_MEMORY: Keep the cache in memory only, useful
//     for tests and ephemeral deployments (default: false)
type FingerprintCacheConfig struct {
	Path     string `koanf:"path"`
	InMemory bool   `koanf:"in_memory"`
}

// EventsConfig tunes the in-process scan event router.
//
// Environment Variables:
//   - EVENTS_BUFFER_SIZE: Publish channel buffer (default: 256)
//   - EVENTS_RETRY_COUNT: Handler retry attempts (default: 3)
//   - EVENTS_RETRY_INTERVAL: Initial retry backoff (default: 100ms)
//   - EVENTS_CLOSE_TIMEOUT: Router drain timeout on shutdown (default: 30s)
type EventsConfig struct {
	BufferSize           int64         `koanf:"buffer_size"`
	RetryCount           int           `koanf:"retry_count"`
	RetryInitialInterval time.Duration `koanf:"retry_interval"`
	CloseTimeout         time.Duration `koanf:"close_timeout"`
}

// RetentionConfig controls how long anonymous visitor sessions are kept.
// Sessions idle longer than SessionDays are deleted together with their
// interactions and feedback by the maintenance job.
//
// Environment Variables:
//   - RETENTION_SESSION_DAYS: Idle session lifetime in days (default: 90)
//   - RETENTION_CLEANUP_INTERVAL: Sweep cadence (default: 24h)
type RetentionConfig struct {
	SessionDays     int           `koanf:"session_days"`
	CleanupInterval time.Duration `koanf:"cleanup_interval"`
}

// AnalyticsConfig tunes analytics serving.
//
// Environment Variables:
//   - ANALYTICS_CACHE_TTL: Summary/heatmap cache lifetime (default: 1h)
//   - STATS_REFRESH_INTERVAL: Scan counter reconciliation cadence
//     (default: 1h)
type AnalyticsConfig struct {
	CacheTTL             time.Duration `koanf:"cache_ttl"`
	StatsRefreshInterval time.Duration `koanf:"stats_refresh_interval"`
}

// SecurityConfig holds CORS and rate limiting settings. ArtLens exposes an
// anonymous visitor API; there is no authentication layer.
//
// Environment Variables:
//   - CORS_ORIGINS: Comma-separated allowed origins (default: *)
//   - RATE_LIMIT_REQUESTS: Requests per window per IP (default: 100)
//   - RATE_LIMIT_WINDOW: Rate limit window (default: 1m)
//   - DISABLE_RATE_LIMIT: Turn rate limiting off entirely (default: false)
type SecurityConfig struct {
	CORSOrigins       []string      `koanf:"cors_origins"`
	RateLimitReqs     int           `koanf:"rate_limit_requests"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
}

// LoggingConfig holds logging settings.
//
// Environment Variables:
//   - LOG_LEVEL: trace, debug, info, warn, error (default: info)
//   - LOG_FORMAT: json or console (default: json)
//   - LOG_CALLER: Include caller file:line (default: false)
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// SeedConfig controls sample catalogue seeding on startup. Seeding is
// idempotent: artworks already present (by title+artist) are left alone.
//
// Environment Variables:
//   - SEED_SAMPLE_DATA: Insert the sample catalogue at startup
//     (default: false)
type SeedConfig struct {
	Enabled bool `koanf:"enabled"`
}

// Load is the entry point for configuration loading. It is a thin alias for
// LoadWithKoanf kept for call-site readability.
func Load() (*Config, error) {
	return LoadWithKoanf()
}
