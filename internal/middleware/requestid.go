// ArtLens - Museum Artwork Recognition and Visitor Analytics
// Copyright 2026 ArtLens Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/artlens/artlens

package middleware

import (
	"context"
	"net/http"

	"github.com/artlens/artlens/internal/logging"
)

type contextKey string

const RequestIDKey contextKey = "request_id"

// RequestID middleware assigns a unique ID to each request and adds it
// to both the response header and the request context. IDs supplied by
// an upstream proxy via X-Request-ID are preserved. The middleware also
// populates the logging package's request and correlation IDs so every
// log line emitted while handling the request carries them.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = logging.GenerateRequestID()
		}

		// Echo the ID back so clients can reference it in bug reports.
		w.Header().Set("X-Request-ID", requestID)

		ctx := context.WithValue(r.Context(), RequestIDKey, requestID)
		ctx = logging.ContextWithRequestID(ctx, requestID)
		ctx = logging.ContextWithCorrelationID(ctx, logging.GenerateCorrelationID())

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetRequestID extracts the request ID from context.
func GetRequestID(ctx context.Context) string {
	if id, ok := ctx.Value(RequestIDKey).(string); ok {
		return id
	}
	return ""
}
