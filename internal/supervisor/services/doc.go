// ArtLens - Museum Artwork Recognition and Visitor Analytics
// Copyright 2026 ArtLens Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/artlens/artlens

/*
Package services provides suture.Service wrappers for ArtLens components.

Most long-running ArtLens components (the event pipeline, the retention
sweeper, the stats refresher) implement suture.Service directly. This
package adapts the two that have a different lifecycle shape:

HTTP Server (HTTPServerService):
  - Wraps *http.Server with graceful shutdown
  - Converts the blocking ListenAndServe pattern to Serve
  - Configurable shutdown timeout for draining connections

WebSocket Hub (WebSocketHubService):
  - Wraps websocket.Hub's RunWithContext under a service name
  - The hub closes all clients itself on context cancellation

# Usage Example

	httpSvc := services.NewHTTPServerService(server, 30*time.Second)
	tree.AddAPIService(httpSvc)

	wsSvc := services.NewWebSocketHubService(hub)
	tree.AddMessagingService(wsSvc)

# Error Handling

Return values determine supervisor behavior:

	nil         -> Service stopped cleanly, will not restart
	error       -> Service crashed, supervisor will restart
	ctx.Err()   -> Shutdown requested, normal termination

# Service Identification

All services implement fmt.Stringer for logging. Suture uses this for
log messages:

	INFO http-server: starting
	ERROR http-server: restarting after failure

# Thread Safety

The wrappers hold no mutable state; multiple Serve calls on the same
wrapper are not supported.
*/
package services
