// ArtLens - Museum Artwork Recognition and Visitor Analytics
// Copyright 2026 ArtLens Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/artlens/artlens

package api

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/artlens/artlens/internal/config"
)

// okHandler answers 200 so middleware effects are observable in isolation.
var okHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
})

func TestDefaultChiMiddlewareConfig(t *testing.T) {
	t.Parallel()

	cfg := DefaultChiMiddlewareConfig()

	if len(cfg.CORSAllowedOrigins) != 1 || cfg.CORSAllowedOrigins[0] != "*" {
		t.Errorf("CORSAllowedOrigins = %v, want [*]", cfg.CORSAllowedOrigins)
	}
	if cfg.CORSAllowCredentials {
		t.Error("CORSAllowCredentials = true, want false with wildcard origin")
	}
	if cfg.RateLimitRequests != 100 {
		t.Errorf("RateLimitRequests = %d, want 100", cfg.RateLimitRequests)
	}
	if cfg.RateLimitWindow != time.Minute {
		t.Errorf("RateLimitWindow = %v, want 1m", cfg.RateLimitWindow)
	}
	if cfg.RateLimitDisabled {
		t.Error("RateLimitDisabled = true, want false")
	}
}

func TestNewChiMiddleware_NilConfig(t *testing.T) {
	t.Parallel()

	m := NewChiMiddleware(nil)

	if m == nil {
		t.Fatal("NewChiMiddleware(nil) returned nil")
	}
	if m.config == nil {
		t.Fatal("config not defaulted")
	}
	if m.config.RateLimitRequests != 100 {
		t.Errorf("RateLimitRequests = %d, want default 100", m.config.RateLimitRequests)
	}
}

func TestNewChiMiddlewareFromSecurity(t *testing.T) {
	t.Parallel()

	m := NewChiMiddlewareFromSecurity(config.SecurityConfig{
		CORSOrigins:     []string{"https://app.museum.example"},
		RateLimitReqs:   42,
		RateLimitWindow: 30 * time.Second,
	})

	if got := m.config.CORSAllowedOrigins; len(got) != 1 || got[0] != "https://app.museum.example" {
		t.Errorf("CORSAllowedOrigins = %v", got)
	}
	if m.config.RateLimitRequests != 42 {
		t.Errorf("RateLimitRequests = %d, want 42", m.config.RateLimitRequests)
	}
	if m.config.RateLimitWindow != 30*time.Second {
		t.Errorf("RateLimitWindow = %v, want 30s", m.config.RateLimitWindow)
	}
}

func TestNewChiMiddlewareFromSecurity_ZeroValuesKeepDefaults(t *testing.T) {
	t.Parallel()

	m := NewChiMiddlewareFromSecurity(config.SecurityConfig{})

	if got := m.config.CORSAllowedOrigins; len(got) != 1 || got[0] != "*" {
		t.Errorf("CORSAllowedOrigins = %v, want default [*]", got)
	}
	if m.config.RateLimitRequests != 100 {
		t.Errorf("RateLimitRequests = %d, want default 100", m.config.RateLimitRequests)
	}
	if m.config.RateLimitWindow != time.Minute {
		t.Errorf("RateLimitWindow = %v, want default 1m", m.config.RateLimitWindow)
	}
}

func TestChiMiddleware_CORSPreflight(t *testing.T) {
	t.Parallel()

	m := NewChiMiddleware(nil)
	handler := m.CORS()(okHandler)

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/artworks", nil)
	req.Header.Set("Origin", "http://visitor-app.example")
	req.Header.Set("Access-Control-Request-Method", "POST")
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("Access-Control-Allow-Origin = %q, want *", got)
	}
}

func TestChiMiddleware_CORSActualRequest(t *testing.T) {
	t.Parallel()

	m := NewChiMiddleware(&ChiMiddlewareConfig{
		CORSAllowedOrigins: []string{"http://allowed.example"},
		CORSAllowedMethods: []string{"GET"},
		RateLimitRequests:  100,
		RateLimitWindow:    time.Minute,
	})
	handler := m.CORS()(okHandler)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/artworks", nil)
	req.Header.Set("Origin", "http://allowed.example")
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "http://allowed.example" {
		t.Errorf("Access-Control-Allow-Origin = %q, want allowed origin echoed", got)
	}
}

func TestChiMiddleware_RateLimit(t *testing.T) {
	t.Parallel()

	m := NewChiMiddleware(&ChiMiddlewareConfig{
		CORSAllowedOrigins: []string{"*"},
		RateLimitRequests:  2,
		RateLimitWindow:    time.Minute,
	})
	handler := m.RateLimit()(okHandler)

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/artworks", nil)
		req.RemoteAddr = "203.0.113.7:1234"
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)
		if w.Code != http.StatusOK {
			t.Fatalf("request %d: status = %d, want %d", i+1, w.Code, http.StatusOK)
		}
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/artworks", nil)
	req.RemoteAddr = "203.0.113.7:1234"
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusTooManyRequests {
		t.Errorf("request over limit: status = %d, want %d", w.Code, http.StatusTooManyRequests)
	}
}

func TestChiMiddleware_RateLimitDisabled(t *testing.T) {
	t.Parallel()

	m := NewChiMiddleware(&ChiMiddlewareConfig{
		CORSAllowedOrigins: []string{"*"},
		RateLimitRequests:  1,
		RateLimitWindow:    time.Minute,
		RateLimitDisabled:  true,
	})
	handler := m.RateLimit()(okHandler)

	for i := 0; i < 5; i++ {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/artworks", nil)
		req.RemoteAddr = "203.0.113.7:1234"
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)
		if w.Code != http.StatusOK {
			t.Fatalf("request %d: status = %d, disabled limiter must pass everything", i+1, w.Code)
		}
	}
}

func TestChiMiddleware_RateLimitCustom(t *testing.T) {
	t.Parallel()

	m := NewChiMiddleware(nil)
	handler := m.RateLimitCustom(RateLimitConfig{Requests: 1, Window: time.Minute})(okHandler)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/scan", nil)
	req.RemoteAddr = "198.51.100.2:9000"
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("first request: status = %d, want %d", w.Code, http.StatusOK)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/v1/scan", nil)
	req.RemoteAddr = "198.51.100.2:9000"
	w = httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	if w.Code != http.StatusTooManyRequests {
		t.Errorf("second request: status = %d, want %d", w.Code, http.StatusTooManyRequests)
	}
}

func TestRateLimitTiers(t *testing.T) {
	t.Parallel()

	if RateLimitScan.Requests >= RateLimitAnalytics.Requests {
		t.Error("scan limit should be stricter than analytics")
	}
	if RateLimitWrite.Requests >= RateLimitScan.Requests {
		t.Error("write limit should be stricter than scan")
	}
	for _, cfg := range []RateLimitConfig{RateLimitScan, RateLimitWrite, RateLimitAnalytics, RateLimitHealth, RateLimitWebSocket} {
		if cfg.Requests <= 0 || cfg.Window <= 0 {
			t.Errorf("rate limit tier %+v not configured", cfg)
		}
	}
}

func TestAPISecurityHeaders(t *testing.T) {
	t.Parallel()

	handler := APISecurityHeaders()(okHandler)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/artworks", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if got := w.Header().Get("X-Content-Type-Options"); got != "nosniff" {
		t.Errorf("X-Content-Type-Options = %q, want nosniff", got)
	}
	if got := w.Header().Get("X-Frame-Options"); got != "DENY" {
		t.Errorf("X-Frame-Options = %q, want DENY", got)
	}
	if got := w.Header().Get("Referrer-Policy"); got != "strict-origin-when-cross-origin" {
		t.Errorf("Referrer-Policy = %q", got)
	}
	if got := w.Header().Get("Strict-Transport-Security"); got != "" {
		t.Errorf("HSTS = %q, want unset on plain HTTP", got)
	}
}

func TestAPISecurityHeaders_HSTSBehindProxy(t *testing.T) {
	t.Parallel()

	handler := APISecurityHeaders()(okHandler)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/artworks", nil)
	req.Header.Set("X-Forwarded-Proto", "https")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if got := w.Header().Get("Strict-Transport-Security"); got == "" {
		t.Error("HSTS missing for TLS-terminated request")
	}
}
