// ArtLens - Museum Artwork Recognition and Visitor Analytics
// Copyright 2026 ArtLens Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/artlens/artlens

package database

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	_ "github.com/duckdb/duckdb-go/v2"

	"github.com/artlens/artlens/internal/config"
	"github.com/artlens/artlens/internal/logging"
)

// DB wraps the embedded DuckDB connection and provides data access for the
// artwork catalogue, visitor sessions, interactions, feedback, and the
// analytics queries built on top of them.
//
// The database is deliberately off the scan hot path: the catalogue keeps an
// in-memory candidate snapshot, and DuckDB sees only catalogue writes, the
// event-driven interaction appends, and analytics reads.
type DB struct {
	conn *sql.DB
	cfg  *config.DatabaseConfig

	jsonAvailable bool // Tracks whether the json extension is loaded (fingerprint column type)
}

// New creates a new database connection and initializes the schema
func New(cfg *config.DatabaseConfig) (*DB, error) {
	numThreads := cfg.Threads
	if numThreads <= 0 {
		numThreads = runtime.NumCPU()
	}

	// Ensure parent directory exists for database file
	// Use 0750 permissions (owner: rwx, group: rx, other: none) per gosec G301
	if cfg.Path != ":memory:" {
		dbDir := filepath.Dir(cfg.Path)
		if dbDir != "" && dbDir != "." {
			if err := os.MkdirAll(dbDir, 0o750); err != nil {
				return nil, fmt.Errorf("failed to create database directory %s: %w", dbDir, err)
			}
		}
	}

	// Preload the json extension BEFORE opening the main database. When
	// DuckDB opens a database file it immediately replays the WAL; if the WAL
	// contains statements touching JSON-typed columns, replay fails unless
	// the extension is already cached in-process. Loading it in a throwaway
	// in-memory database makes it available for the replay.
	if err := preloadExtensions(); err != nil {
		logging.Warn().Err(err).Msg("Failed to preload extensions, WAL replay may fail if database has pending changes")
	}

	// Build connection string with tuning options.
	// preserve_insertion_order matters beyond memory tuning here: unordered
	// catalogue scans would scramble the resolver tie-break, so it defaults
	// to true.
	preserveOrder := "true"
	if !cfg.PreserveInsertionOrder {
		preserveOrder = "false"
	}

	// Disable auto-install/auto-load to prevent hangs in restricted network
	// environments. The json extension is loaded explicitly by installExtensions.
	connStr := fmt.Sprintf("%s?access_mode=read_write&threads=%d&max_memory=%s&preserve_insertion_order=%s&autoinstall_known_extensions=false&autoload_known_extensions=false",
		cfg.Path, numThreads, cfg.MaxMemory, preserveOrder)

	conn, err := sql.Open("duckdb", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db := &DB{
		conn:          conn,
		cfg:           cfg,
		jsonAvailable: true,
	}

	db.configureConnectionPool()

	if err := db.initialize(); err != nil {
		closeQuietly(conn)
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	if err := db.enableProfiling(); err != nil {
		logging.Warn().Err(err).Msg("Query profiling not enabled")
	}

	return db, nil
}

// IsJSONAvailable returns whether the json extension is available. When it
// is not, the fingerprint column degrades to TEXT with identical semantics.
func (db *DB) IsJSONAvailable() bool {
	return db.jsonAvailable
}

// configureConnectionPool sets connection pool parameters:
// max_open NumCPU() for parallelism, max_idle 2 for reuse, max_lifetime 1h
// against stale connections, max_idle_time 5m for idle cleanup.
func (db *DB) configureConnectionPool() {
	db.conn.SetMaxOpenConns(runtime.NumCPU())
	db.conn.SetMaxIdleConns(2)
	db.conn.SetConnMaxLifetime(time.Hour)
	db.conn.SetConnMaxIdleTime(5 * time.Minute)
}

// preloadExtensions loads the json extension in an in-memory database before
// the main database file is opened. DuckDB caches loaded extensions
// per-process, so once loaded in any connection they are available when the
// main file's WAL is replayed.
//
// Skipped in CI where extensions may not be installed; the schema falls back
// to TEXT there anyway.
func preloadExtensions() error {
	if os.Getenv("CI") != "" || os.Getenv("GITHUB_ACTIONS") != "" {
		logging.Debug().Msg("Skipping extension preload in CI environment")
		return nil
	}

	conn, err := sql.Open("duckdb", ":memory:?autoinstall_known_extensions=false&autoload_known_extensions=false")
	if err != nil {
		return fmt.Errorf("failed to open in-memory database for extension preload: %w", err)
	}
	defer closeQuietly(conn)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if _, err := conn.ExecContext(ctx, "LOAD json;"); err != nil {
		logging.Debug().Err(err).Msg("Failed to preload json extension")
	}
	return nil
}

// Close closes the database connection. It performs a CHECKPOINT before
// closing to flush the WAL into the main database file, which keeps the next
// startup from replaying statements that need extensions loaded.
func (db *DB) Close() error {
	if db.conn == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := db.Checkpoint(ctx); err != nil {
		// Best effort: a failed checkpoint only slows the next startup.
		logging.Warn().Err(err).Msg("Failed to checkpoint database before close")
	}
	cancel()

	return db.conn.Close()
}

// Ping checks if the database connection is alive
func (db *DB) Ping(ctx context.Context) error {
	if db.conn == nil {
		return fmt.Errorf("database connection is nil")
	}
	return db.conn.PingContext(ctx)
}

// initialize loads extensions and creates tables and indexes
func (db *DB) initialize() error {
	if err := db.installExtensions(); err != nil {
		return err
	}

	if err := db.createTables(); err != nil {
		return err
	}

	if err := db.createIndexes(); err != nil {
		return err
	}

	// Flush the freshly created schema out of the WAL so a restart never has
	// to replay CREATE TABLE statements.
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := db.Checkpoint(ctx); err != nil {
		logging.Warn().Err(err).Msg("Failed to checkpoint after schema initialization")
	}

	return nil
}
