// ArtLens - Museum Artwork Recognition and Visitor Analytics
// Copyright 2026 ArtLens Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/artlens/artlens

package database

import (
	"context"
	"fmt"
	"time"

	"github.com/artlens/artlens/internal/logging"
)

// extensionTimeout bounds extension INSTALL/LOAD statements. DuckDB CGO
// calls do not respect Go context cancellation, so the bound is enforced
// with a goroutine-based hard timeout.
const extensionTimeout = 30 * time.Second

// extensionContext returns a context with timeout for extension operations
func extensionContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), extensionTimeout)
}

// installExtensions loads the json extension used by the artworks
// fingerprint column. The extension is optional: when unavailable the schema
// falls back to a TEXT column, which round-trips the serialized fingerprint
// identically for our read/write patterns.
func (db *DB) installExtensions() error {
	if err := db.installJSON(); err != nil {
		db.jsonAvailable = false
		logging.Warn().Err(err).Msg("JSON extension unavailable, storing fingerprints as TEXT")
	}
	return nil
}

// installJSON loads the json extension, trying a bare LOAD first for the
// common case where the extension is already installed locally or statically
// linked into the driver, and falling back to INSTALL + LOAD.
func (db *DB) installJSON() error {
	if err := db.execWithHardTimeout("LOAD json;"); err == nil {
		return nil
	}

	if err := db.execWithHardTimeout("INSTALL json;"); err != nil {
		return fmt.Errorf("failed to install json extension: %w", err)
	}
	if err := db.execWithHardTimeout("LOAD json;"); err != nil {
		return fmt.Errorf("failed to load json extension: %w", err)
	}
	return nil
}

// execResult holds the result of an async exec operation
type execResult struct {
	err error
}

// execWithHardTimeout executes a SQL statement with a goroutine-based hard
// timeout. Once a DuckDB CGO call starts it blocks until completion or
// process termination regardless of context cancellation; ExecContext is
// still used so resources are cleaned up on the happy path.
func (db *DB) execWithHardTimeout(query string) error {
	resultCh := make(chan execResult, 1)

	ctx, cancel := extensionContext()
	defer cancel()

	go func() {
		_, err := db.conn.ExecContext(ctx, query)
		resultCh <- execResult{err: err}
	}()

	select {
	case res := <-resultCh:
		return res.err
	case <-time.After(extensionTimeout):
		return fmt.Errorf("statement timed out after %s: %s", extensionTimeout, query)
	}
}
