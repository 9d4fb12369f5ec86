// ArtLens - Museum Artwork Recognition and Visitor Analytics
// Copyright 2026 ArtLens Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/artlens/artlens

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists the paths where config files are searched in
// order of priority. The first file found wins.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/artlens/config.yaml",
	"/etc/artlens/config.yml",
}

// ConfigPathEnvVar is the environment variable that can override the config
// file path.
const ConfigPathEnvVar = "CONFIG_PATH"

// defaultConfig returns a Config with all default values. These are applied
// first, then overridden by the config file and environment variables.
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:    "0.0.0.0",
			Port:    8521,
			Timeout: 30 * time.Second,
		},
		Database: DatabaseConfig{
			Path:                   "/data/artlens.duckdb",
			MaxMemory:              "2GB",
			Threads:                0,    // 0 = use runtime.NumCPU()
			PreserveInsertionOrder: true, // DuckDB default
		},
		FingerprintCache: FingerprintCacheConfig{
			Path:     "/data/fingerprints",
			InMemory: false,
		},
		Events: EventsConfig{
			BufferSize:           256,
			RetryCount:           3,
			RetryInitialInterval: 100 * time.Millisecond,
			CloseTimeout:         30 * time.Second,
		},
		Retention: RetentionConfig{
			SessionDays:     90,
			CleanupInterval: 24 * time.Hour,
		},
		Analytics: AnalyticsConfig{
			CacheTTL:             1 * time.Hour,
			StatsRefreshInterval: 1 * time.Hour,
		},
		Security: SecurityConfig{
			CORSOrigins:       []string{"*"},
			RateLimitReqs:     100,
			RateLimitWindow:   1 * time.Minute,
			RateLimitDisabled: false,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
		Seed: SeedConfig{
			Enabled: false,
		},
	}
}

// LoadWithKoanf loads configuration using Koanf v2 with layered sources:
//  1. Defaults: built-in values
//  2. Config File: optional YAML config file (if exists)
//  3. Environment Variables: override any setting
//
// Precedence is ENV > File > Defaults. Environment variable names map to
// koanf paths through an explicit table (see envTransformFunc); unmapped
// variables are ignored.
func LoadWithKoanf() (*Config, error) {
	k := koanf.New(".")

	// Layer 1: defaults from struct
	defaults := defaultConfig()
	if err := k.Load(structs.Provider(defaults, "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// Layer 2: config file (optional)
	configPath := findConfigFile()
	if configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	// Layer 3: environment variables (highest priority)
	envProvider := env.Provider("", ".", envTransformFunc)
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	// Post-process slice fields from comma-separated strings
	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// findConfigFile searches for a config file: the CONFIG_PATH environment
// variable first, then the default paths. Returns empty string when no file
// exists, which is not an error.
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}

	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// sliceConfigPaths defines which config paths are parsed as comma-separated
// slices when they arrive as strings from the environment.
var sliceConfigPaths = []string{
	"security.cors_origins",
}

// processSliceFields converts comma-separated string values to slices for
// known slice fields. Env vars come in as strings but the config expects
// slices; YAML-sourced slices pass through untouched.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		val := k.Get(path)
		if val == nil {
			continue
		}

		if _, ok := val.([]interface{}); ok {
			continue
		}
		if _, ok := val.([]string); ok {
			continue
		}

		if strVal, ok := val.(string); ok {
			if strVal == "" {
				continue
			}
			parts := strings.Split(strVal, ",")
			trimmed := make([]string, 0, len(parts))
			for _, p := range parts {
				p = strings.TrimSpace(p)
				if p != "" {
					trimmed = append(trimmed, p)
				}
			}
			if len(trimmed) > 0 {
				if err := k.Set(path, trimmed); err != nil {
					return fmt.Errorf("failed to set %s: %w", path, err)
				}
			}
		}
	}
	return nil
}

// envTransformFunc maps environment variable names to koanf config paths.
//
// Examples:
//   - HTTP_PORT -> server.port
//   - DUCKDB_PATH -> database.path
//   - RETENTION_SESSION_DAYS -> retention.session_days
//
// Unmapped keys return the empty string and are skipped, so arbitrary
// environment variables never pollute the configuration.
func envTransformFunc(key string) string {
	key = strings.ToLower(key)

	envMappings := map[string]string{
		// Server mappings
		"http_host":    "server.host",
		"http_port":    "server.port",
		"http_timeout": "server.timeout",

		// Database mappings
		"duckdb_path":                     "database.path",
		"duckdb_max_memory":               "database.max_memory",
		"duckdb_threads":                  "database.threads",
		"duckdb_preserve_insertion_order": "database.preserve_insertion_order",

		// Fingerprint cache mappings
		"fingerprint_cache_path":      "fingerprint_cache.path",
		"fingerprint_cache_in_memory": "fingerprint_cache.in_memory",

		// Event router mappings
		"events_buffer_size":    "events.buffer_size",
		"events_retry_count":    "events.retry_count",
		"events_retry_interval": "events.retry_interval",
		"events_close_timeout":  "events.close_timeout",

		// Retention mappings
		"retention_session_days":     "retention.session_days",
		"retention_cleanup_interval": "retention.cleanup_interval",

		// Analytics mappings
		"analytics_cache_ttl":    "analytics.cache_ttl",
		"stats_refresh_interval": "analytics.stats_refresh_interval",

		// Security mappings
		"cors_origins":        "security.cors_origins",
		"rate_limit_requests": "security.rate_limit_requests",
		"rate_limit_window":   "security.rate_limit_window",
		"disable_rate_limit":  "security.rate_limit_disabled",

		// Logging mappings
		"log_level":  "logging.level",
		"log_format": "logging.format",
		"log_caller": "logging.caller",

		// Seed mappings
		"seed_sample_data": "seed.enabled",
	}

	if mapped, ok := envMappings[key]; ok {
		return mapped
	}

	// Unmapped keys are skipped
	return ""
}

// GetKoanfInstance returns a fresh Koanf instance for advanced usage such
// as testing with mock configuration sources.
func GetKoanfInstance() *koanf.Koanf {
	return koanf.New(".")
}

// WatchConfigFile sets up a file watcher for hot-reload capability. The
// caller is responsible for mutex protection when swapping configuration
// during reloads.
func WatchConfigFile(path string, callback func()) error {
	provider := file.Provider(path)

	return provider.Watch(func(event interface{}, err error) {
		if err != nil {
			return
		}
		callback()
	})
}
