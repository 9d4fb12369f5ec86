// ArtLens - Museum Artwork Recognition and Visitor Analytics
// Copyright 2026 ArtLens Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/artlens/artlens

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus instrumentation for production observability:
// - Scan pipeline outcomes, latency, and similarity score distribution
// - Fingerprint extraction performance and cache efficiency
// - Geofence evaluations
// - Database query performance (DuckDB)
// - API endpoint latency and throughput
// - Event routing and WebSocket connections

// Scan outcome label values for ScansTotal.
const (
	ScanOutcomeMatched          = "matched"
	ScanOutcomeNoTargetsInRange = "no_targets_in_range"
	ScanOutcomeNoConfidentMatch = "no_confident_match"
	ScanOutcomeInvalid          = "invalid_request"
	ScanOutcomeFailed           = "failed"
)

var (
	// Scan Pipeline Metrics
	ScansTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scans_total",
			Help: "Total number of artwork scans by outcome",
		},
		[]string{"outcome"},
	)

	ScanDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "scan_duration_seconds",
			Help:    "End-to-end scan resolution duration in seconds",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5}, // Image decode dominates
		},
	)

	ScanSimilarityScore = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "scan_similarity_score",
			Help:    "Similarity score distribution of accepted matches",
			Buckets: []float64{0.70, 0.75, 0.80, 0.85, 0.90, 0.95, 0.99, 1.0},
		},
	)

	ScanCandidates = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "scan_candidates_in_range",
			Help:    "Number of candidates shortlisted for geofence evaluation per scan",
			Buckets: []float64{1, 2, 3, 5, 10, 25, 50, 100},
		},
	)

	// Fingerprint Metrics
	FingerprintExtractionDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "fingerprint_extraction_duration_seconds",
			Help:    "Duration of image fingerprint extraction in seconds",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
	)

	FingerprintCacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "fingerprint_cache_hits_total",
			Help: "Total number of fingerprint cache hits (extraction skipped)",
		},
	)

	FingerprintCacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "fingerprint_cache_misses_total",
			Help: "Total number of fingerprint cache misses (extraction required)",
		},
	)

	// Geofence Metrics
	GeofenceEvaluations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "geofence_evaluations_total",
			Help: "Total number of geofence evaluations by result",
		},
		[]string{"accessible"}, // "true", "false"
	)

	// Database Metrics
	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "duckdb_query_duration_seconds",
			Help:    "Duration of DuckDB queries in seconds",
			Buckets: prometheus.DefBuckets, // 0.005s .. 10s
		},
		[]string{"operation", "table"},
	)

	DBQueryErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "duckdb_query_errors_total",
			Help: "Total number of DuckDB query errors",
		},
		[]string{"operation", "table", "error_type"},
	)

	// API Endpoint Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Current number of active API requests",
		},
	)

	APIRateLimitHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_rate_limit_hits_total",
			Help: "Total number of rate limit rejections",
		},
		[]string{"endpoint"},
	)

	// Cache Metrics (analytics TTL cache, fingerprint cache wrapper)
	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_hits_total",
			Help: "Total number of cache hits",
		},
		[]string{"cache_type"},
	)

	CacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_misses_total",
			Help: "Total number of cache misses",
		},
		[]string{"cache_type"},
	)

	CacheSize = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "cache_entries",
			Help: "Current number of cached entries",
		},
		[]string{"cache_type"},
	)

	CacheEvictions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_evictions_total",
			Help: "Total number of cache evictions (TTL expiry)",
		},
		[]string{"cache_type"},
	)

	// Event Routing Metrics
	EventsPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "events_published_total",
			Help: "Total number of events published to the in-process bus",
		},
		[]string{"topic"},
	)

	EventsProcessed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "events_processed_total",
			Help: "Total number of events processed by handlers",
		},
		[]string{"handler", "result"}, // result: "success", "failure"
	)

	EventProcessingDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "event_processing_duration_seconds",
			Help:    "Duration of event handler execution in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"handler"},
	)

	// WebSocket Metrics
	WSConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "websocket_connections",
			Help: "Current number of active WebSocket connections",
		},
	)

	WSMessagesSent = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "websocket_messages_sent_total",
			Help: "Total number of WebSocket messages sent",
		},
	)

	WSErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "websocket_errors_total",
			Help: "Total number of WebSocket errors",
		},
		[]string{"error_type"},
	)

	// Maintenance Metrics
	SessionsExpired = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "sessions_expired_total",
			Help: "Total number of visitor sessions removed by retention cleanup",
		},
	)

	StatsReconciliations = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "stats_reconciliations_total",
			Help: "Total number of scan counter reconciliation runs",
		},
	)

	// System Metrics
	AppInfo = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "app_info",
			Help: "Application version and build information",
		},
		[]string{"version", "go_version"},
	)

	AppUptime = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "app_uptime_seconds",
			Help: "Application uptime in seconds",
		},
	)
)

// RecordScan records a completed scan attempt. The similarity score is
// observed only for matched outcomes.
func RecordScan(outcome string, duration time.Duration, score float64) {
	ScansTotal.WithLabelValues(outcome).Inc()
	ScanDuration.Observe(duration.Seconds())
	if outcome == ScanOutcomeMatched {
		ScanSimilarityScore.Observe(score)
	}
}

// RecordScanCandidates records how many candidates the catalogue
// shortlisted for one scan.
func RecordScanCandidates(n int) {
	ScanCandidates.Observe(float64(n))
}

// RecordFingerprintExtraction records one extraction pipeline run.
func RecordFingerprintExtraction(duration time.Duration) {
	FingerprintExtractionDuration.Observe(duration.Seconds())
}

// RecordFingerprintCache records a fingerprint cache lookup result.
func RecordFingerprintCache(hit bool) {
	if hit {
		FingerprintCacheHits.Inc()
	} else {
		FingerprintCacheMisses.Inc()
	}
}

// RecordGeofenceEvaluation records one geofence evaluation.
func RecordGeofenceEvaluation(accessible bool) {
	if accessible {
		GeofenceEvaluations.WithLabelValues("true").Inc()
	} else {
		GeofenceEvaluations.WithLabelValues("false").Inc()
	}
}

// RecordDBQuery records a database query metric.
func RecordDBQuery(operation, table string, duration time.Duration, err error) {
	DBQueryDuration.WithLabelValues(operation, table).Observe(duration.Seconds())
	if err != nil {
		errorType := err.Error()
		// Truncate long error messages
		if len(errorType) > 50 {
			errorType = errorType[:50]
		}
		DBQueryErrors.WithLabelValues(operation, table, errorType).Inc()
	}
}

// RecordAPIRequest records an API request metric.
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest tracks active API requests.
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordCacheHit records a cache hit for the given cache type.
func RecordCacheHit(cacheType string) {
	CacheHits.WithLabelValues(cacheType).Inc()
}

// RecordCacheMiss records a cache miss for the given cache type.
func RecordCacheMiss(cacheType string) {
	CacheMisses.WithLabelValues(cacheType).Inc()
}

// RecordEventPublished records an event published to the in-process bus.
func RecordEventPublished(topic string) {
	EventsPublished.WithLabelValues(topic).Inc()
}

// RecordEventProcessed records a handler execution and its outcome.
func RecordEventProcessed(handler string, duration time.Duration, err error) {
	result := "success"
	if err != nil {
		result = "failure"
	}
	EventsProcessed.WithLabelValues(handler, result).Inc()
	EventProcessingDuration.WithLabelValues(handler).Observe(duration.Seconds())
}

// SetWebSocketClients sets the current WebSocket client count.
func SetWebSocketClients(n int) {
	WSConnections.Set(float64(n))
}
