// ArtLens - Museum Artwork Recognition and Visitor Analytics
// Copyright 2026 ArtLens Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/artlens/artlens

// Package session owns the anonymous visitor lifecycle: lazy session
// creation on first scan, explicit creation with a consent choice,
// consent-gated interaction recording, and per-artwork feedback.
//
// Sessions are privacy-first. The ID is a random UUID, nothing recorded
// against one identifies a person, and every write is gated on the consent
// flags: analytics consent gates interaction recording, opting out blocks
// all new rows and wipes the recorded history. Scanning itself is never
// blocked; a visitor who withheld consent still gets artwork matches,
// they just leave no trace.
package session
