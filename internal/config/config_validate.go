// ArtLens - Museum Artwork Recognition and Visitor Analytics
// Copyright 2026 ArtLens Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/artlens/artlens

package config

import (
	"fmt"
	"strings"
	"time"
)

// Validate checks that required configuration is present and valid.
func (c *Config) Validate() error {
	if err := c.validateServer(); err != nil {
		return err
	}

	if err := c.validateDatabase(); err != nil {
		return err
	}

	if err := c.validateFingerprintCache(); err != nil {
		return err
	}

	if err := c.validateEvents(); err != nil {
		return err
	}

	if err := c.validateRetention(); err != nil {
		return err
	}

	if err := c.validateAnalytics(); err != nil {
		return err
	}

	if err := c.validateSecurity(); err != nil {
		return err
	}

	return c.validateLogging()
}

// validateServer validates HTTP server settings.
func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535, got %d", c.Server.Port)
	}
	if c.Server.Timeout < time.Second || c.Server.Timeout > 10*time.Minute {
		return fmt.Errorf("HTTP_TIMEOUT must be between 1s and 10m, got %s", c.Server.Timeout)
	}
	return nil
}

// validateDatabase validates DuckDB settings.
func (c *Config) validateDatabase() error {
	if c.Database.Path == "" {
		return fmt.Errorf("DUCKDB_PATH must not be empty")
	}
	if c.Database.Threads < 0 {
		return fmt.Errorf("DUCKDB_THREADS must be >= 0 (0 = all CPUs), got %d", c.Database.Threads)
	}
	if c.Database.MaxMemory != "" && !validMemoryLimit(c.Database.MaxMemory) {
		return fmt.Errorf("DUCKDB_MAX_MEMORY must look like '2GB' or '512MB', got %q", c.Database.MaxMemory)
	}
	return nil
}

// validMemoryLimit accepts DuckDB-style memory limits: a positive integer
// followed by KB/MB/GB/TB.
func validMemoryLimit(s string) bool {
	s = strings.ToUpper(strings.TrimSpace(s))
	var unit string
	for _, u := range []string{"KB", "MB", "GB", "TB"} {
		if strings.HasSuffix(s, u) {
			unit = u
			break
		}
	}
	if unit == "" {
		return false
	}
	num := strings.TrimSuffix(s, unit)
	if num == "" {
		return false
	}
	for _, r := range num {
		if r < '0' || r > '9' {
			return false
		}
	}
	return num != "0" && !strings.HasPrefix(num, "0")
}

// validateFingerprintCache validates the Badger cache settings.
func (c *Config) validateFingerprintCache() error {
	if !c.FingerprintCache.InMemory && c.FingerprintCache.Path == "" {
		return fmt.Errorf("FINGERPRINT_CACHE_PATH is required unless FINGERPRINT_CACHE_IN_MEMORY=true")
	}
	return nil
}

// validateEvents validates the event router settings.
func (c *Config) validateEvents() error {
	if c.Events.BufferSize < 0 {
		return fmt.Errorf("EVENTS_BUFFER_SIZE must be >= 0, got %d", c.Events.BufferSize)
	}
	if c.Events.RetryCount < 0 || c.Events.RetryCount > 100 {
		return fmt.Errorf("EVENTS_RETRY_COUNT must be between 0 and 100, got %d", c.Events.RetryCount)
	}
	if c.Events.RetryInitialInterval < time.Millisecond || c.Events.RetryInitialInterval > time.Minute {
		return fmt.Errorf("EVENTS_RETRY_INTERVAL must be between 1ms and 1m, got %s", c.Events.RetryInitialInterval)
	}
	if c.Events.CloseTimeout < time.Second || c.Events.CloseTimeout > 5*time.Minute {
		return fmt.Errorf("EVENTS_CLOSE_TIMEOUT must be between 1s and 5m, got %s", c.Events.CloseTimeout)
	}
	return nil
}

// validateRetention validates session retention settings.
func (c *Config) validateRetention() error {
	if c.Retention.SessionDays < 1 || c.Retention.SessionDays > 3650 {
		return fmt.Errorf("RETENTION_SESSION_DAYS must be between 1 and 3650, got %d", c.Retention.SessionDays)
	}
	if c.Retention.CleanupInterval < time.Minute || c.Retention.CleanupInterval > 7*24*time.Hour {
		return fmt.Errorf("RETENTION_CLEANUP_INTERVAL must be between 1m and 168h, got %s", c.Retention.CleanupInterval)
	}
	return nil
}

// validateAnalytics validates analytics serving settings.
func (c *Config) validateAnalytics() error {
	if c.Analytics.CacheTTL < 0 {
		return fmt.Errorf("ANALYTICS_CACHE_TTL must be >= 0 (0 disables caching), got %s", c.Analytics.CacheTTL)
	}
	if c.Analytics.StatsRefreshInterval < time.Minute || c.Analytics.StatsRefreshInterval > 7*24*time.Hour {
		return fmt.Errorf("STATS_REFRESH_INTERVAL must be between 1m and 168h, got %s", c.Analytics.StatsRefreshInterval)
	}
	return nil
}

// validateSecurity validates CORS and rate limit settings.
func (c *Config) validateSecurity() error {
	if len(c.Security.CORSOrigins) == 0 {
		return fmt.Errorf("CORS_ORIGINS must not be empty (use '*' to allow all)")
	}
	for _, origin := range c.Security.CORSOrigins {
		if origin == "*" {
			continue
		}
		if !strings.HasPrefix(origin, "http://") && !strings.HasPrefix(origin, "https://") {
			return fmt.Errorf("CORS_ORIGINS entry %q must be '*' or start with http:// or https://", origin)
		}
	}

	if c.Security.RateLimitDisabled {
		return nil
	}
	if c.Security.RateLimitReqs < 1 {
		return fmt.Errorf("RATE_LIMIT_REQUESTS must be >= 1, got %d", c.Security.RateLimitReqs)
	}
	if c.Security.RateLimitWindow < time.Second || c.Security.RateLimitWindow > time.Hour {
		return fmt.Errorf("RATE_LIMIT_WINDOW must be between 1s and 1h, got %s", c.Security.RateLimitWindow)
	}
	return nil
}

// validLogLevels are the accepted LOG_LEVEL values.
var validLogLevels = map[string]bool{
	"trace": true,
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// validateLogging validates logging settings.
func (c *Config) validateLogging() error {
	if !validLogLevels[strings.ToLower(c.Logging.Level)] {
		return fmt.Errorf("LOG_LEVEL must be one of trace, debug, info, warn, error; got %q", c.Logging.Level)
	}
	switch strings.ToLower(c.Logging.Format) {
	case "json", "console":
	default:
		return fmt.Errorf("LOG_FORMAT must be 'json' or 'console', got %q", c.Logging.Format)
	}
	return nil
}
