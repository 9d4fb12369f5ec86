// ArtLens - Museum Artwork Recognition and Visitor Analytics
// Copyright 2026 ArtLens Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/artlens/artlens

package logging

import (
	"bytes"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
)

// capture reinitializes the global logger against a buffer and restores the
// previous logger when the test finishes.
func capture(t *testing.T, cfg Config) *bytes.Buffer {
	t.Helper()
	prev := Logger()
	prevLevel := zerolog.GlobalLevel()

	var buf bytes.Buffer
	cfg.Output = &buf
	Init(cfg)

	t.Cleanup(func() {
		SetLogger(prev)
		zerolog.SetGlobalLevel(prevLevel)
	})
	return &buf
}

func TestInit_JSONOutput(t *testing.T) {
	buf := capture(t, Config{Level: "info", Format: "json", Timestamp: true})

	Info().Str("component", "scan").Msg("resolver ready")

	var entry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("output is not JSON: %v (%q)", err, buf.String())
	}
	if entry["level"] != "info" {
		t.Errorf("level = %v, want info", entry["level"])
	}
	if entry["message"] != "resolver ready" {
		t.Errorf("message = %v, want resolver ready", entry["message"])
	}
	if entry["component"] != "scan" {
		t.Errorf("component = %v, want scan", entry["component"])
	}
	if _, ok := entry["time"]; !ok {
		t.Error("expected a time field")
	}
}

func TestInit_LevelFiltering(t *testing.T) {
	buf := capture(t, Config{Level: "warn", Format: "json"})

	Debug().Msg("dropped")
	Info().Msg("dropped")
	Warn().Msg("kept")
	Error().Msg("kept")

	if buf.Len() == 0 {
		t.Fatal("no output at all")
	}
	lines := strings.Count(strings.TrimSpace(buf.String()), "\n") + 1
	if lines != 2 {
		t.Errorf("emitted %d lines, want 2:\n%s", lines, buf.String())
	}
	if strings.Contains(buf.String(), "dropped") {
		t.Error("messages below the configured level were emitted")
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  zerolog.Level
	}{
		{"trace", zerolog.TraceLevel},
		{"debug", zerolog.DebugLevel},
		{"info", zerolog.InfoLevel},
		{"warn", zerolog.WarnLevel},
		{"warning", zerolog.WarnLevel},
		{"ERROR", zerolog.ErrorLevel},
		{"fatal", zerolog.FatalLevel},
		{"disabled", zerolog.Disabled},
		{"", zerolog.InfoLevel},
		{"bogus", zerolog.InfoLevel},
	}

	for _, tt := range tests {
		if got := parseLevel(tt.input); got != tt.want {
			t.Errorf("parseLevel(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

var errTest = errString("boom")

type errString string

func (e errString) Error() string { return string(e) }

func TestErr_AttachesError(t *testing.T) {
	buf := capture(t, Config{Level: "info", Format: "json"})

	Err(errTest).Msg("scan failed")

	var entry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if entry["error"] != errTest.Error() {
		t.Errorf("error field = %v, want %q", entry["error"], errTest.Error())
	}
	if entry["level"] != "error" {
		t.Errorf("level = %v, want error", entry["level"])
	}
}

func TestWithComponent(t *testing.T) {
	buf := capture(t, Config{Level: "info", Format: "json"})

	logger := WithComponent("catalogue")
	logger.Info().Msg("index rebuilt")

	if !strings.Contains(buf.String(), `"component":"catalogue"`) {
		t.Errorf("output missing component field: %s", buf.String())
	}
}

func TestNewTestLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := NewTestLogger(&buf)
	logger.Info().Str("k", "v").Msg("hello")

	if !strings.Contains(buf.String(), `"k":"v"`) {
		t.Errorf("test logger output missing field: %s", buf.String())
	}
}
