// ArtLens - Museum Artwork Recognition and Visitor Analytics
// Copyright 2026 ArtLens Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/artlens/artlens

package database

import (
	"database/sql"
	"errors"
	"io"
)

// Sentinel errors for operations against rows that do not exist. Callers
// match with errors.Is and map them to 404-class API responses.
var (
	// ErrArtworkNotFound is returned when an artwork ID has no row.
	ErrArtworkNotFound = errors.New("artwork not found")

	// ErrSessionNotFound is returned when a visitor session ID has no row.
	ErrSessionNotFound = errors.New("session not found")
)

// closeQuietly closes a resource and explicitly ignores any error
// Use this for cleanup operations in error paths where Close() errors are not actionable
// Satisfies errcheck linter by explicitly acknowledging the ignored error
func closeQuietly(closer io.Closer) {
	if closer != nil {
		_ = closer.Close() // Explicitly ignore error - cleanup is best-effort
	}
}

// rollbackQuietly rolls back a transaction, ignoring the sql.ErrTxDone that
// follows a successful commit. Deferred immediately after BeginTx so every
// error return path unwinds the transaction.
func rollbackQuietly(tx *sql.Tx) {
	_ = tx.Rollback()
}
