// ArtLens - Museum Artwork Recognition and Visitor Analytics
// Copyright 2026 ArtLens Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/artlens/artlens

package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/artlens/artlens/internal/catalogue"
	"github.com/artlens/artlens/internal/config"
	"github.com/artlens/artlens/internal/database"
	"github.com/artlens/artlens/internal/logging"
)

var rootCmd = &cobra.Command{
	Use:   "artlensctl",
	Short: "ArtLens catalogue and database administration",
	Long: `One-shot administrative operations against the ArtLens database.

Configuration comes from the same environment variables the server reads
(DUCKDB_PATH, FINGERPRINT_CACHE_PATH, RETENTION_SESSION_DAYS, ...).
Commands that open the fingerprint cache take an exclusive BadgerDB lock,
so stop the server before running seed or reindex against its data
directory.`,
	SilenceUsage: true,
}

var initDBCmd = &cobra.Command{
	Use:   "init-db",
	Short: "Create the database schema and exit",
	Long: `Open the configured DuckDB file, create any missing tables and
indexes, and exit. Safe to run repeatedly.`,
	RunE: runInitDB,
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Insert the deterministic sample catalogue",
	Long: `Insert the built-in sample artworks with procedurally generated
reference images. Seeding is idempotent: artworks already present
(matched by title and artist) are left alone.`,
	RunE: runSeed,
}

var reindexCmd = &cobra.Command{
	Use:   "reindex",
	Short: "Re-extract fingerprints from changed reference images",
	Long: `Re-run the fingerprint pipeline for every artwork whose reference
image file no longer matches its stored fingerprint. Unreadable or
undecodable files keep the stored fingerprint and are reported in the log.`,
	RunE: runReindex,
}

var cleanupDays int

var cleanupSessionsCmd = &cobra.Command{
	Use:   "cleanup-sessions",
	Short: "Delete visitor sessions idle past the retention age",
	Long: `One-shot retention sweep: delete sessions whose last activity is
older than the retention age, together with their interactions and
feedback. The running server performs the same sweep on a schedule.`,
	RunE: runCleanupSessions,
}

func init() {
	cleanupSessionsCmd.Flags().IntVar(&cleanupDays, "days", 0,
		"Retention age in days (0 uses RETENTION_SESSION_DAYS)")

	rootCmd.AddCommand(initDBCmd, seedCmd, reindexCmd, cleanupSessionsCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadConfig loads configuration and initializes logging for a one-shot run.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load configuration: %w", err)
	}
	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})
	return cfg, nil
}

// openDatabase opens the configured DuckDB file. database.New creates the
// schema as part of initialization, so init-db is just open and close.
func openDatabase(cfg *config.Config) (*database.DB, error) {
	db, err := database.New(&cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("open database %s: %w", cfg.Database.Path, err)
	}
	return db, nil
}

func closeQuietly(db *database.DB) {
	if err := db.Close(); err != nil {
		logging.Error().Err(err).Msg("Error closing database")
	}
}

func runInitDB(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	db, err := openDatabase(cfg)
	if err != nil {
		return err
	}
	defer closeQuietly(db)

	if err := db.Ping(cmd.Context()); err != nil {
		return fmt.Errorf("verify database: %w", err)
	}

	fmt.Printf("Schema ready: %s\n", cfg.Database.Path)
	return nil
}

func runSeed(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	db, err := openDatabase(cfg)
	if err != nil {
		return err
	}
	defer closeQuietly(db)

	svc, closeCache, err := openCatalogue(cfg, db)
	if err != nil {
		return err
	}
	defer closeCache()

	inserted, err := svc.Seed(cmd.Context())
	if err != nil {
		return fmt.Errorf("seed sample catalogue: %w", err)
	}

	fmt.Printf("Seeded %d artworks\n", inserted)
	return nil
}

func runReindex(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	db, err := openDatabase(cfg)
	if err != nil {
		return err
	}
	defer closeQuietly(db)

	svc, closeCache, err := openCatalogue(cfg, db)
	if err != nil {
		return err
	}
	defer closeCache()

	changed, err := svc.Reindex(cmd.Context())
	if err != nil {
		return fmt.Errorf("reindex catalogue: %w", err)
	}

	fmt.Printf("Re-extracted %d fingerprints\n", changed)
	return nil
}

func runCleanupSessions(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	days := cleanupDays
	if days <= 0 {
		days = cfg.Retention.SessionDays
	}

	db, err := openDatabase(cfg)
	if err != nil {
		return err
	}
	defer closeQuietly(db)

	cutoff := time.Now().UTC().AddDate(0, 0, -days)
	result, err := db.DeleteExpiredSessions(cmd.Context(), cutoff)
	if err != nil {
		return fmt.Errorf("retention sweep: %w", err)
	}

	fmt.Printf("Deleted %d sessions, %d interactions, %d feedback rows (idle > %d days)\n",
		result.Sessions, result.Interactions, result.Feedback, days)
	return nil
}

// openCatalogue wires the catalogue service with the persistent fingerprint
// cache. The returned closer releases the BadgerDB lock.
func openCatalogue(cfg *config.Config, db *database.DB) (*catalogue.Service, func(), error) {
	cache, err := catalogue.NewExtractionCache(cfg.FingerprintCache)
	if err != nil {
		return nil, nil, fmt.Errorf("open fingerprint cache: %w", err)
	}
	closer := func() {
		if err := cache.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing fingerprint cache")
		}
	}
	return catalogue.NewService(db, cache), closer, nil
}
