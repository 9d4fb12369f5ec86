// ArtLens - Museum Artwork Recognition and Visitor Analytics
// Copyright 2026 ArtLens Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/artlens/artlens

/*
Package middleware provides HTTP middleware components for the application.

This package implements infrastructure middleware for request ID tracking,
Prometheus metrics instrumentation, gzip compression, and slow-request
logging. CORS and rate limiting come from go-chi/cors and go-chi/httprate
and are configured in the API router; everything here is chi-compatible
(func(http.Handler) http.Handler) so the router mounts the full stack with
r.Use.

Key Components:

  - RequestID: UUID request tracking wired into the logging context
  - PrometheusMetrics: request counters, duration histograms, in-flight gauge
  - Compression: gzip encoding for clients that accept it
  - SlowRequestLog: warns about requests exceeding a latency threshold

Middleware Stack:

The API router mounts middleware in this order:

	r := chi.NewRouter()
	r.Use(middleware.RequestID)        // First: every log line gets an ID
	r.Use(middleware.PrometheusMetrics)
	r.Use(cors.Handler(corsOptions))
	r.Use(httprate.LimitByIP(requests, window))
	r.Use(middleware.Compression)
	r.Use(middleware.SlowRequestLog(middleware.DefaultSlowRequestThreshold))

Usage Example - Request ID:

	func handler(w http.ResponseWriter, r *http.Request) {
	    requestID := middleware.GetRequestID(r.Context())
	    logging.Ctx(r.Context()).Info().Msg("processing scan") // carries the ID
	}

Metric Cardinality:

PrometheusMetrics labels requests with the chi route pattern
(/api/v1/artworks/{id}) rather than the raw URL, so per-artwork and
per-session URLs do not create unbounded label sets.

Thread Safety:

All middleware components are thread-safe:

  - Compression pools gzip writers with sync.Pool
  - Request ID uses context.Context (immutable)
  - Prometheus metrics use atomic operations

See Also:

  - internal/api: HTTP handlers wrapped by middleware
  - internal/metrics: Prometheus metrics definitions
  - internal/logging: request/correlation ID context helpers
*/
package middleware
