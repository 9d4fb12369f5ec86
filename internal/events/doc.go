// ArtLens - Museum Artwork Recognition and Visitor Analytics
// Copyright 2026 ArtLens Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/artlens/artlens

// Package events carries accepted scan matches from the scan endpoint to
// their consumers over an in-process Watermill bus.
//
// The platform runs as a single process, so the transport is a GoChannel
// pub/sub rather than an external broker. Delivery is at-most-once:
// messages published while a topic has no subscribers are dropped, and a
// message that exhausts its retries is dropped when the transport
// redelivers it, because the deduplicator has already claimed its UUID.
//
// Consumers hang off a message router whose middleware stack, outermost
// first, recovers panics, skips already-claimed message UUIDs, and retries
// handler errors with exponential backoff. Two consumers subscribe to the
// scan.matched topic: the interaction recorder persists the scan for
// analytics, and the feed broadcaster pushes it to the live WebSocket feed.
package events
