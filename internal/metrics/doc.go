// ArtLens - Museum Artwork Recognition and Visitor Analytics
// Copyright 2026 ArtLens Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/artlens/artlens

/*
Package metrics provides Prometheus metrics collection and export for observability.

This package implements application instrumentation using the Prometheus client
library, exposing metrics for monitoring performance, errors, and system health.

# Overview

The package provides metrics for:
  - Scan pipeline outcomes, latency, and similarity score distribution
  - Fingerprint extraction performance and cache efficiency
  - Geofence evaluation counts
  - Database query performance (DuckDB)
  - HTTP request latency and throughput
  - Event routing and handler outcomes
  - WebSocket connection counts

# Metrics Endpoint

Metrics are exposed at the /metrics endpoint in Prometheus text format:

	curl http://localhost:8521/metrics

# Available Metrics

Scan Pipeline Metrics:
  - scans_total: Artwork scans by outcome (counter)
    Labels: outcome (matched, no_targets_in_range, no_confident_match,
    invalid_request, failed)
  - scan_duration_seconds: End-to-end scan latency (histogram)
  - scan_similarity_score: Score distribution of accepted matches (histogram)
  - scan_candidates_in_range: Geofence shortlist size per scan (histogram)
  - fingerprint_extraction_duration_seconds: Extraction latency (histogram)
  - fingerprint_cache_hits_total / fingerprint_cache_misses_total (counters)
  - geofence_evaluations_total: Evaluations by result (counter)
    Labels: accessible (true, false)

Database Metrics:
  - duckdb_query_duration_seconds: Query execution time (histogram)
    Labels: operation, table
  - duckdb_query_errors_total: Failed queries (counter)
    Labels: operation, table, error_type

API Metrics:
  - api_requests_total: Total API requests (counter)
    Labels: method, endpoint, status_code
  - api_request_duration_seconds: Request latency (histogram)
    Labels: method, endpoint
  - api_active_requests: In-flight requests (gauge)
  - api_rate_limit_hits_total: Rate limit rejections (counter)

Event and WebSocket Metrics:
  - events_published_total / events_processed_total (counters)
  - event_processing_duration_seconds (histogram)
  - websocket_connections (gauge), websocket_messages_sent_total (counter)

Maintenance Metrics:
  - sessions_expired_total: Sessions removed by retention cleanup (counter)
  - stats_reconciliations_total: Counter reconciliation runs (counter)

# Usage

Metrics are package-level and registered automatically via promauto:

	metrics.RecordScan(metrics.ScanOutcomeMatched, elapsed, score)
	metrics.RecordDBQuery("SELECT", "artworks", elapsed, err)
	metrics.RecordAPIRequest("POST", "/api/v1/scan", "200", elapsed)

# Grafana Integration

Useful starting queries:

	rate(scans_total{outcome="matched"}[5m])
	histogram_quantile(0.95, rate(scan_duration_seconds_bucket[5m]))
	rate(fingerprint_cache_hits_total[5m]) /
	  (rate(fingerprint_cache_hits_total[5m]) + rate(fingerprint_cache_misses_total[5m]))
*/
package metrics
