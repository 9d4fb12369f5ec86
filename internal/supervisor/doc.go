// ArtLens - Museum Artwork Recognition and Visitor Analytics
// Copyright 2026 ArtLens Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/artlens/artlens

/*
Package supervisor provides process supervision for ArtLens using suture v4.

This package implements a hierarchical supervisor tree that manages the
lifecycle of all long-running services in the application. It provides
Erlang/OTP-style supervision with automatic restart, failure isolation,
and graceful shutdown.

# Overview

The supervisor tree organizes services into three layers for failure isolation:

	RootSupervisor ("artlens")
	├── DataSupervisor ("data-layer")
	│   ├── RetentionSweeper
	│   └── StatsRefresher
	├── MessagingSupervisor ("messaging-layer")
	│   ├── WebSocketHubService
	│   └── EventPipeline
	└── APISupervisor ("api-layer")
	    └── HTTPServerService

This hierarchy ensures that:
  - A crash in the event pipeline doesn't drop WebSocket connections or the API
  - A stuck retention sweep doesn't impact scan handling
  - Each layer can restart independently

# Key Features

Automatic Restart:
  - Crashed services are automatically restarted
  - Exponential backoff prevents restart storms
  - Configurable failure thresholds and decay rates

Failure Isolation:
  - Services are organized into logical groups
  - Child supervisor failures don't propagate upward
  - Each layer has independent failure counting

Graceful Shutdown:
  - Context cancellation triggers orderly shutdown
  - Configurable shutdown timeout per service
  - UnstoppedServiceReport for debugging hangs

Structured Logging:
  - Integration with slog for structured events
  - Logs service starts, stops, failures, and restarts
  - Event hooks via sutureslog adapter

# Usage Example

Basic setup in main.go:

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	if err != nil {
	    log.Fatal(err)
	}

	tree.AddDataService(sweeper)
	tree.AddMessagingService(services.NewWebSocketHubService(hub))
	tree.AddMessagingService(pipeline)
	tree.AddAPIService(services.NewHTTPServerService(server, 10*time.Second))

	// Start the tree (blocks until context canceled)
	if err := tree.Serve(ctx); err != nil {
	    log.Printf("Supervisor stopped: %v", err)
	}

Background operation:

	errChan := tree.ServeBackground(ctx)

	// Do other setup...

	if err := <-errChan; err != nil {
	    log.Printf("Supervisor error: %v", err)
	}

# Service Interface

All services must implement suture.Service:

	type Service interface {
	    Serve(ctx context.Context) error
	}

Return behavior:
  - Return nil: Service stopped cleanly, will not be restarted
  - Return error: Service crashed, will be restarted
  - Context canceled: Shutdown requested, return promptly

The event pipeline and the maintenance jobs implement this interface
directly. Only components with a different lifecycle shape get a wrapper
from the services subpackage: http.Server (ListenAndServe/Shutdown) and
the WebSocket hub (RunWithContext).

# What Is NOT Supervised

DuckDB and the BadgerDB cache are intentionally not supervised:
  - They are embedded libraries, not long-running services
  - Connections are managed by their own packages
  - A crash inside either would require a process restart anyway

# Failure Handling

The supervisor uses a failure counter with exponential decay:

 1. Each service failure increments the counter
 2. Counter decays exponentially over time (FailureDecay seconds)
 3. When counter exceeds FailureThreshold, supervisor enters backoff
 4. During backoff, restarts are delayed by FailureBackoff duration

# Debugging Shutdown Issues

If services don't stop within the timeout:

	report, err := tree.UnstoppedServiceReport()
	for _, svc := range report {
	    log.Printf("Service didn't stop: %v", svc)
	}

Common causes:
  - Goroutines not respecting context cancellation
  - Blocked network I/O without deadlines

# See Also

  - internal/supervisor/services: Service wrappers
  - github.com/thejerf/suture/v4: Underlying library
*/
package supervisor
