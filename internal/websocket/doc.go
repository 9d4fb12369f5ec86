// ArtLens - Museum Artwork Recognition and Visitor Analytics
// Copyright 2026 ArtLens Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/artlens/artlens

/*
Package websocket pushes live gallery activity to connected dashboards.

The package implements a hub-and-spoke pattern over gorilla/websocket: a
single Hub goroutine owns the client set and fans frames out to every
connection, and each Client runs a read and a write goroutine of its own.
The event pipeline feeds the hub through BroadcastRaw with frames it has
already encoded; the hub adds a periodic stats_update frame built from its
own sliding-window counters.

Frame Shape:

Every frame on the wire carries the same envelope:

	{
	    "type": "scan_matched",
	    "data": { ... },
	    "timestamp": "2026-03-14T10:15:04Z"
	}

Frame Types:

  - scan_matched: a visitor's photo matched an artwork (pushed by the
    event pipeline as each scan resolves)
  - stats_update: rolling one-hour scan volume, unique sessions, and the
    connected client count (pushed on a timer while anyone is listening)
  - ping / pong: application-level liveness probe initiated by clients

Connection Lifecycle:

 1. The API layer upgrades GET /api/v1/ws and calls NewClient + Start
 2. The client registers itself with the hub
 3. The hub fans broadcast frames out in deterministic client order
 4. A client that stops draining its send buffer is evicted
 5. Disconnects unregister the client and close its send channel

Shutdown:

RunWithContext returns when its context is canceled, closing every client
first. The supervisor restarts the hub like any other service; clients
reconnect through the API layer.

Thread Safety:

The hub guards its client map with a mutex and serializes all lifecycle
and broadcast work in the RunWithContext loop. Clients never share state
with each other.
*/
package websocket
