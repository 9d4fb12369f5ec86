// ArtLens - Museum Artwork Recognition and Visitor Analytics
// Copyright 2026 ArtLens Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/artlens/artlens

package config

import (
	"strings"
	"testing"
	"time"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:    "defaults are valid",
			mutate:  func(c *Config) {},
			wantErr: "",
		},
		{
			name:    "port zero",
			mutate:  func(c *Config) { c.Server.Port = 0 },
			wantErr: "HTTP_PORT",
		},
		{
			name:    "port too high",
			mutate:  func(c *Config) { c.Server.Port = 70000 },
			wantErr: "HTTP_PORT",
		},
		{
			name:    "timeout too short",
			mutate:  func(c *Config) { c.Server.Timeout = 10 * time.Millisecond },
			wantErr: "HTTP_TIMEOUT",
		},
		{
			name:    "empty database path",
			mutate:  func(c *Config) { c.Database.Path = "" },
			wantErr: "DUCKDB_PATH",
		},
		{
			name:    "negative database threads",
			mutate:  func(c *Config) { c.Database.Threads = -1 },
			wantErr: "DUCKDB_THREADS",
		},
		{
			name:    "bad memory limit",
			mutate:  func(c *Config) { c.Database.MaxMemory = "lots" },
			wantErr: "DUCKDB_MAX_MEMORY",
		},
		{
			name:    "memory limit without unit",
			mutate:  func(c *Config) { c.Database.MaxMemory = "2048" },
			wantErr: "DUCKDB_MAX_MEMORY",
		},
		{
			name: "empty cache path without in-memory",
			mutate: func(c *Config) {
				c.FingerprintCache.Path = ""
				c.FingerprintCache.InMemory = false
			},
			wantErr: "FINGERPRINT_CACHE_PATH",
		},
		{
			name: "empty cache path allowed in memory",
			mutate: func(c *Config) {
				c.FingerprintCache.Path = ""
				c.FingerprintCache.InMemory = true
			},
			wantErr: "",
		},
		{
			name:    "retry count out of range",
			mutate:  func(c *Config) { c.Events.RetryCount = 500 },
			wantErr: "EVENTS_RETRY_COUNT",
		},
		{
			name:    "retention too short",
			mutate:  func(c *Config) { c.Retention.SessionDays = 0 },
			wantErr: "RETENTION_SESSION_DAYS",
		},
		{
			name:    "cleanup interval too aggressive",
			mutate:  func(c *Config) { c.Retention.CleanupInterval = time.Second },
			wantErr: "RETENTION_CLEANUP_INTERVAL",
		},
		{
			name:    "negative analytics TTL",
			mutate:  func(c *Config) { c.Analytics.CacheTTL = -time.Minute },
			wantErr: "ANALYTICS_CACHE_TTL",
		},
		{
			name:    "zero analytics TTL disables caching",
			mutate:  func(c *Config) { c.Analytics.CacheTTL = 0 },
			wantErr: "",
		},
		{
			name:    "empty CORS origins",
			mutate:  func(c *Config) { c.Security.CORSOrigins = nil },
			wantErr: "CORS_ORIGINS",
		},
		{
			name:    "CORS origin without scheme",
			mutate:  func(c *Config) { c.Security.CORSOrigins = []string{"museum.example.org"} },
			wantErr: "CORS_ORIGINS",
		},
		{
			name:    "rate limit requests zero",
			mutate:  func(c *Config) { c.Security.RateLimitReqs = 0 },
			wantErr: "RATE_LIMIT_REQUESTS",
		},
		{
			name: "rate limit ignored when disabled",
			mutate: func(c *Config) {
				c.Security.RateLimitDisabled = true
				c.Security.RateLimitReqs = 0
			},
			wantErr: "",
		},
		{
			name:    "bad log level",
			mutate:  func(c *Config) { c.Logging.Level = "verbose" },
			wantErr: "LOG_LEVEL",
		},
		{
			name:    "bad log format",
			mutate:  func(c *Config) { c.Logging.Format = "xml" },
			wantErr: "LOG_FORMAT",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaultConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() error = %v, want nil", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("Validate() = nil, want error containing %q", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() error = %v, want mention of %q", err, tt.wantErr)
			}
		})
	}
}

func TestValidMemoryLimit(t *testing.T) {
	valid := []string{"2GB", "512MB", "1TB", "64kb", " 4GB "}
	for _, s := range valid {
		if !validMemoryLimit(s) {
			t.Errorf("validMemoryLimit(%q) = false, want true", s)
		}
	}

	invalid := []string{"", "GB", "2", "0GB", "2.5GB", "-1GB", "2PB", "01GB"}
	for _, s := range invalid {
		if validMemoryLimit(s) {
			t.Errorf("validMemoryLimit(%q) = true, want false", s)
		}
	}
}
