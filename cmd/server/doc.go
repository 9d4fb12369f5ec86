// ArtLens - Museum Artwork Recognition and Visitor Analytics
// Copyright 2026 ArtLens Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/artlens/artlens

/*
Package main is the entry point for the ArtLens server application.

ArtLens is a self-hosted museum visitor platform: visitors point their phone
at an artwork and the service identifies it by combining GPS geofencing with
perceptual image fingerprinting, then serves catalogue detail, interaction
history, analytics, and recommendations.

# Application Architecture

The server implements a layered architecture with Suture v4 process
supervision:

	RootSupervisor ("artlens")
	├── DataSupervisor ("data-layer")
	│   ├── Retention Sweeper (expired session cleanup)
	│   └── Stats Refresher (scan counter reconciliation)
	├── MessagingSupervisor ("messaging-layer")
	│   ├── WebSocket Hub (live scan feed)
	│   └── Event Pipeline (Watermill router: interaction recorder,
	│       feed broadcaster)
	└── APISupervisor ("api-layer")
	    └── HTTP Server (Chi REST API + WebSocket upgrade)

Component initialization order:

 1. Configuration: Koanf v2 with environment variables and config files
 2. Logging: zerolog with JSON/console output modes
 3. Database: DuckDB with the json extension for fingerprint storage
 4. Extraction Cache: BadgerDB image hash -> fingerprint cache
 5. Catalogue: optional seeding, then the in-memory R-tree snapshot load
 6. Sessions and Analytics services
 7. WebSocket Hub and the scan event pipeline
 8. Scan Resolver: geofence shortlist + fingerprint match
 9. Supervisor Tree: Suture v4 process supervision
 10. HTTP Server: Chi router with middleware stack

# Configuration

Configuration is loaded via Koanf v2 with layered sources (highest priority
wins):

	Priority: Environment variables > Config file > Defaults

Core environment variables:

	# Server
	HTTP_HOST=0.0.0.0            # Listen address
	HTTP_PORT=8521               # HTTP server port
	LOG_LEVEL=info               # trace, debug, info, warn, error
	LOG_FORMAT=json              # json or console

	# Storage
	DUCKDB_PATH=/data/artlens.duckdb
	FINGERPRINT_CACHE_PATH=/data/fingerprints

	# Visitor data retention
	RETENTION_SESSION_DAYS=90

	# Sample catalogue (development and demos)
	SEED_SAMPLE_DATA=true

# Signal Handling

The server handles graceful shutdown on SIGINT and SIGTERM:

  - Stops accepting new connections
  - Waits for in-flight requests to complete (10s timeout)
  - Drains the event pipeline within its close timeout
  - Closes the fingerprint cache and database connections

# Example Usage

Development run with the sample catalogue:

	export DUCKDB_PATH=:memory:
	export FINGERPRINT_CACHE_IN_MEMORY=true
	export SEED_SAMPLE_DATA=true
	export LOG_FORMAT=console
	./artlens-server

Production:

	export DUCKDB_PATH=/data/artlens.duckdb
	export FINGERPRINT_CACHE_PATH=/data/fingerprints
	export CORS_ORIGINS=https://app.museum.example
	./artlens-server
*/
package main
