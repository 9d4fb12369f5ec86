// ArtLens - Museum Artwork Recognition and Visitor Analytics
// Copyright 2026 ArtLens Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/artlens/artlens

package logging

import (
	"bytes"
	"context"
	"strings"
	"testing"
)

func TestCorrelationID_RoundTrip(t *testing.T) {
	ctx := context.Background()

	if got := CorrelationIDFromContext(ctx); got != "" {
		t.Errorf("empty context returned correlation ID %q", got)
	}

	ctx = ContextWithCorrelationID(ctx, "abc12345")
	if got := CorrelationIDFromContext(ctx); got != "abc12345" {
		t.Errorf("correlation ID = %q, want abc12345", got)
	}
}

func TestRequestID_RoundTrip(t *testing.T) {
	ctx := ContextWithRequestID(context.Background(), "req-1")
	if got := RequestIDFromContext(ctx); got != "req-1" {
		t.Errorf("request ID = %q, want req-1", got)
	}
}

func TestGenerateCorrelationID_Short(t *testing.T) {
	id := GenerateCorrelationID()
	if len(id) != 8 {
		t.Errorf("correlation ID length = %d, want 8", len(id))
	}
	if id == GenerateCorrelationID() {
		t.Error("two generated correlation IDs collided")
	}
}

func TestGenerateRequestID_Unique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id := GenerateRequestID()
		if seen[id] {
			t.Fatalf("duplicate request ID %q", id)
		}
		seen[id] = true
	}
}

func TestCtx_AttachesIDs(t *testing.T) {
	var buf bytes.Buffer
	ctx := ContextWithLogger(context.Background(), NewTestLogger(&buf))
	ctx = ContextWithCorrelationID(ctx, "corr1234")
	ctx = ContextWithRequestID(ctx, "req-uuid")

	Ctx(ctx).Info().Msg("processing")

	out := buf.String()
	if !strings.Contains(out, `"correlation_id":"corr1234"`) {
		t.Errorf("missing correlation_id: %s", out)
	}
	if !strings.Contains(out, `"request_id":"req-uuid"`) {
		t.Errorf("missing request_id: %s", out)
	}
}

func TestCtx_NoIDsNoFields(t *testing.T) {
	var buf bytes.Buffer
	ctx := ContextWithLogger(context.Background(), NewTestLogger(&buf))

	Ctx(ctx).Info().Msg("plain")

	out := buf.String()
	if strings.Contains(out, "correlation_id") || strings.Contains(out, "request_id") {
		t.Errorf("unexpected ID fields on a bare context: %s", out)
	}
}

func TestCtxWith_AddsFields(t *testing.T) {
	var buf bytes.Buffer
	ctx := ContextWithLogger(context.Background(), NewTestLogger(&buf))
	ctx = ContextWithRequestID(ctx, "req-2")

	logger := CtxWith(ctx).Str("session_id", "s-9").Logger()
	logger.Info().Msg("feedback recorded")

	out := buf.String()
	if !strings.Contains(out, `"request_id":"req-2"`) {
		t.Errorf("missing request_id: %s", out)
	}
	if !strings.Contains(out, `"session_id":"s-9"`) {
		t.Errorf("missing session_id: %s", out)
	}
}

func TestLoggerFromContext_FallsBackToGlobal(t *testing.T) {
	// A context without a stored logger must still produce a usable one.
	logger := LoggerFromContext(context.Background())
	logger.Info().Msg("") // must not panic
}
