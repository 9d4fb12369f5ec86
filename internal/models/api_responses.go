// ArtLens - Museum Artwork Recognition and Visitor Analytics
// Copyright 2026 ArtLens Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/artlens/artlens

package models

import (
	"time"
)

// APIResponse is the standardized response wrapper used by all HTTP
// endpoints. It provides a consistent structure for both successful and
// error responses, with metadata for observability and caching.
//
// Status is "success" or "error"; Error is populated only when Status is
// "error".
//
// Example successful response:
//
//	{
//	  "status": "success",
//	  "data": {"artwork_id": "...", "score": 0.93},
//	  "metadata": {
//	    "timestamp": "2026-08-25T12:00:00Z",
//	    "query_time_ms": 45,
//	    "cached": false
//	  }
//	}
//
// Example error response:
//
//	{
//	  "status": "error",
//	  "error": {
//	    "code": "NO_TARGETS_IN_RANGE",
//	    "message": "You're 240m away. Head to the artwork.",
//	    "details": {"nearest_distance_meters": 240.2}
//	  },
//	  "metadata": {"timestamp": "2026-08-25T12:00:00Z"}
//	}
type APIResponse struct {
	Status   string      `json:"status"`
	Data     interface{} `json:"data"`
	Metadata Metadata    `json:"metadata"`
	Error    *APIError   `json:"error,omitempty"`
}

// Metadata contains response metadata for observability and performance
// tracking. QueryTimeMS is the database/compute time in milliseconds (0 when
// served from cache); Cached reports whether the payload came from the
// analytics cache.
type Metadata struct {
	Timestamp   time.Time `json:"timestamp"`
	QueryTimeMS int64     `json:"query_time_ms,omitempty"`
	Cached      bool      `json:"cached,omitempty"`
}

// APIError carries structured error details.
//
// Codes used by ArtLens:
//   - VALIDATION_ERROR: invalid input parameters
//   - INVALID_LOCATION: coordinates out of range or missing
//   - IMAGE_DECODE_ERROR: unreadable image upload
//   - NO_TARGETS_IN_RANGE: no artwork geofence contains the visitor
//   - NO_CONFIDENT_MATCH: best similarity below the acceptance threshold
//   - SCAN_FAILED: unexpected failure inside the scan pipeline
//   - NOT_FOUND: resource does not exist
//   - DATABASE_ERROR: query execution failure
//   - RATE_LIMIT_EXCEEDED: too many requests
type APIError struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}
