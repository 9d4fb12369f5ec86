// ArtLens - Museum Artwork Recognition and Visitor Analytics
// Copyright 2026 ArtLens Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/artlens/artlens

package middleware

import (
	"net/http"
	"time"

	"github.com/artlens/artlens/internal/logging"
)

// DefaultSlowRequestThreshold flags requests that take long enough to be
// felt on a gallery floor. Scans run a full fingerprint extraction, so the
// threshold is generous compared to the plain CRUD routes.
const DefaultSlowRequestThreshold = 1 * time.Second

// SlowRequestLog logs any request whose handler runs longer than the
// threshold. Latency histograms live in Prometheus; this middleware exists
// so a single slow scan shows up in the log stream with its request ID,
// without anyone having to open a dashboard.
func SlowRequestLog(threshold time.Duration) func(http.Handler) http.Handler {
	if threshold <= 0 {
		threshold = DefaultSlowRequestThreshold
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			wrapper := &responseWriter{
				ResponseWriter: w,
				statusCode:     http.StatusOK,
			}

			next.ServeHTTP(wrapper, r)

			duration := time.Since(start)
			if duration > threshold {
				logging.Ctx(r.Context()).Warn().
					Str("method", r.Method).
					Str("path", r.URL.Path).
					Int("status", wrapper.statusCode).
					Int64("duration_ms", duration.Milliseconds()).
					Int64("threshold_ms", threshold.Milliseconds()).
					Msg("Slow request detected")
			}
		})
	}
}

// responseWriter wraps http.ResponseWriter to capture status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}
