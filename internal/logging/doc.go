// ArtLens - Museum Artwork Recognition and Visitor Analytics
// Copyright 2026 ArtLens Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/artlens/artlens

// Package logging provides centralized zerolog-based structured logging
// for ArtLens.
//
// The package exposes a configured global logger with JSON output for
// production and console output for development, plus context helpers that
// propagate request and correlation IDs from HTTP middleware through event
// handlers.
//
// # Quick Start
//
//	logging.Init(logging.Config{
//	    Level:  "info",
//	    Format: "json",
//	})
//
//	logging.Info().Str("addr", addr).Msg("server starting")
//	logging.Err(err).Str("artwork_id", id).Msg("scan failed")
//
//	// Context-aware logging inside handlers
//	logging.Ctx(ctx).Info().Msg("scan matched")
//
// Always terminate log chains with .Msg() or .Send(); a chain without a
// terminator is never emitted.
//
// A slog adapter (NewSlogLogger) bridges the same sink to libraries that
// log through log/slog, such as suture's sutureslog handler and watermill.
package logging
