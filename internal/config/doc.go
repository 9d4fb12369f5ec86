// ArtLens - Museum Artwork Recognition and Visitor Analytics
// Copyright 2026 ArtLens Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/artlens/artlens

// Package config loads and validates application configuration from three
// layered sources with clear precedence:
//
//  1. Defaults: built-in values for every setting
//  2. Config file: optional YAML file (config.yaml) for persistent settings
//  3. Environment variables: override any setting
//
// The environment layer uses an explicit mapping table (HTTP_PORT →
// server.port, DUCKDB_PATH → database.path, ...) rather than automatic
// prefix stripping, so unrelated environment variables can never leak into
// the configuration.
//
// # Usage
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal("Failed to load config:", err)
//	}
//	db, err := database.New(cfg.Database)
//
// The returned Config is immutable after Load and safe for concurrent read
// access.
//
// # Configuration file search order
//
//  1. Path in the CONFIG_PATH environment variable
//  2. ./config.yaml, ./config.yml
//  3. /etc/artlens/config.yaml, /etc/artlens/config.yml
//
// Missing config files are not an error; defaults plus environment
// variables are a complete configuration.
package config
