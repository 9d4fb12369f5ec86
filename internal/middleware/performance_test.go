// ArtLens - Museum Artwork Recognition and Visitor Analytics
// Copyright 2026 ArtLens Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/artlens/artlens

package middleware

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/artlens/artlens/internal/logging"
)

// logBuffer swaps the global logger for one writing into a buffer and
// restores it when the test finishes. Slow-request tests share the global
// logger, so they cannot run in parallel.
func logBuffer(t *testing.T) *bytes.Buffer {
	t.Helper()

	var buf syncBuffer
	original := logging.Logger()
	logging.SetLogger(logging.NewTestLogger(&buf))
	t.Cleanup(func() { logging.SetLogger(original) })
	return &buf.b
}

type syncBuffer struct {
	mu sync.Mutex
	b  bytes.Buffer
}

func (s *syncBuffer) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.b.Write(p)
}

func TestSlowRequestLog_LogsSlowRequest(t *testing.T) {
	buf := logBuffer(t)

	handler := SlowRequestLog(5 * time.Millisecond)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(20 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/scan", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	out := buf.String()
	if !strings.Contains(out, "Slow request detected") {
		t.Errorf("Expected slow request warning in log output, got: %s", out)
	}
	if !strings.Contains(out, "/api/v1/scan") {
		t.Errorf("Expected request path in log output, got: %s", out)
	}
}

func TestSlowRequestLog_SkipsFastRequest(t *testing.T) {
	buf := logBuffer(t)

	handler := SlowRequestLog(time.Second)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/artworks", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if strings.Contains(buf.String(), "Slow request detected") {
		t.Errorf("Fast request should not be logged as slow, got: %s", buf.String())
	}
}

func TestSlowRequestLog_IncludesStatusCode(t *testing.T) {
	buf := logBuffer(t)

	handler := SlowRequestLog(time.Millisecond)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(10 * time.Millisecond)
		w.WriteHeader(http.StatusInternalServerError)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/analytics/summary", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if !strings.Contains(buf.String(), "500") {
		t.Errorf("Expected status code in log output, got: %s", buf.String())
	}
}

func TestSlowRequestLog_DefaultThreshold(t *testing.T) {
	buf := logBuffer(t)

	// Zero threshold falls back to the default, so a fast handler
	// must not trip it.
	handler := SlowRequestLog(0)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if strings.Contains(buf.String(), "Slow request detected") {
		t.Errorf("Fast request should not trip the default threshold, got: %s", buf.String())
	}
}

func TestSlowRequestLog_PreservesResponse(t *testing.T) {
	logBuffer(t)

	handler := SlowRequestLog(time.Hour)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte("created"))
	}))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/sessions", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Errorf("Expected status 201, got %d", rec.Code)
	}
	if rec.Body.String() != "created" {
		t.Errorf("Expected body 'created', got %s", rec.Body.String())
	}
}

func TestResponseWriter_CapturesStatus(t *testing.T) {
	rec := httptest.NewRecorder()
	wrapper := &responseWriter{
		ResponseWriter: rec,
		statusCode:     http.StatusOK,
	}

	wrapper.WriteHeader(http.StatusNotFound)

	if wrapper.statusCode != http.StatusNotFound {
		t.Errorf("Expected status code 404, got %d", wrapper.statusCode)
	}
	if rec.Code != http.StatusNotFound {
		t.Errorf("Expected underlying recorder status 404, got %d", rec.Code)
	}
}

func BenchmarkSlowRequestLog(b *testing.B) {
	handler := SlowRequestLog(time.Second)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/artworks", nil)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
	}
}
