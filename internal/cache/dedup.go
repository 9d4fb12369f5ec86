// ArtLens - Museum Artwork Recognition and Visitor Analytics
// Copyright 2026 ArtLens Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/artlens/artlens

package cache

import (
	"sync"
	"time"
)

// seenEntry is a node in the recency list. Entries carry no payload: the
// window answers "seen recently?", so existence plus expiry is the whole
// state.
type seenEntry struct {
	key        string
	prev, next *seenEntry
	expiresAt  time.Time
}

// DedupWindow remembers recently seen message IDs so the event router can
// drop redelivered scan.matched messages. The interaction recorder bumps
// counters and is not idempotent; a redelivery must not record the same
// scan twice.
//
// A doubly-linked recency list plus a map give O(1) claim, peek, and
// eviction. Expiry is lazy, with Sweep available for long-idle windows.
// When the window is full the least recently seen ID is evicted, which
// bounds memory at the cost of re-admitting an ID older than the eviction
// horizon. That trade is safe here: redeliveries come from the retry
// middleware within seconds of the first attempt.
type DedupWindow struct {
	mu sync.Mutex

	capacity int
	ttl      time.Duration

	items map[string]*seenEntry

	// head.next is the most recently seen, tail.prev the least.
	head *seenEntry
	tail *seenEntry

	hits   int64
	misses int64
}

// NewDedupWindow remembers up to capacity keys for ttl. Non-positive
// arguments fall back to a window comfortably larger than one busy hour
// of scans.
func NewDedupWindow(capacity int, ttl time.Duration) *DedupWindow {
	if capacity <= 0 {
		capacity = 10000
	}
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}

	w := &DedupWindow{
		capacity: capacity,
		ttl:      ttl,
		items:    make(map[string]*seenEntry, capacity),
		head:     &seenEntry{},
		tail:     &seenEntry{},
	}
	w.head.next = w.tail
	w.tail.prev = w.head
	return w
}

// Seen reports whether key is already in the window, claiming it when it
// is not. The first caller for a key gets false; every later caller inside
// the TTL gets true. This is the single call the router's deduplication
// middleware makes per message.
func (w *DedupWindow) Seen(key string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	now := time.Now()

	if entry, ok := w.items[key]; ok {
		if now.Before(entry.expiresAt) {
			w.moveToFront(entry)
			w.hits++
			return true
		}
		// Expired: the claim below re-admits it as a fresh sighting.
		w.remove(entry)
	}

	w.claim(key, now)
	w.misses++
	return false
}

// Contains reports whether key is in the window without claiming or
// refreshing it.
func (w *DedupWindow) Contains(key string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	entry, ok := w.items[key]
	return ok && time.Now().Before(entry.expiresAt)
}

// Forget drops key from the window, reporting whether it was present.
func (w *DedupWindow) Forget(key string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	if entry, ok := w.items[key]; ok {
		w.remove(entry)
		return true
	}
	return false
}

// Len returns the number of remembered keys. Expired entries count until
// a Seen, Forget, or Sweep removes them.
func (w *DedupWindow) Len() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.items)
}

// Clear forgets every key.
func (w *DedupWindow) Clear() {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.items = make(map[string]*seenEntry, w.capacity)
	w.head.next = w.tail
	w.tail.prev = w.head
}

// Sweep removes expired entries and returns how many it dropped. Nothing
// calls this on a schedule; lazy expiry covers the steady state.
func (w *DedupWindow) Sweep() int {
	w.mu.Lock()
	defer w.mu.Unlock()

	now := time.Now()
	removed := 0
	for entry := w.tail.prev; entry != w.head; {
		prev := entry.prev
		if !now.Before(entry.expiresAt) {
			w.remove(entry)
			removed++
		}
		entry = prev
	}
	return removed
}

// Stats reports duplicate hits, first sightings, and the current size.
func (w *DedupWindow) Stats() (hits, misses int64, size int) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.hits, w.misses, len(w.items)
}

// claim inserts key at the front, evicting from the tail when over
// capacity. Callers hold the lock.
func (w *DedupWindow) claim(key string, now time.Time) {
	entry := &seenEntry{key: key, expiresAt: now.Add(w.ttl)}
	w.pushFront(entry)
	w.items[key] = entry

	for len(w.items) > w.capacity {
		oldest := w.tail.prev
		if oldest == w.head {
			return
		}
		w.remove(oldest)
	}
}

func (w *DedupWindow) pushFront(entry *seenEntry) {
	entry.prev = w.head
	entry.next = w.head.next
	w.head.next.prev = entry
	w.head.next = entry
}

func (w *DedupWindow) moveToFront(entry *seenEntry) {
	entry.prev.next = entry.next
	entry.next.prev = entry.prev
	w.pushFront(entry)
}

func (w *DedupWindow) remove(entry *seenEntry) {
	entry.prev.next = entry.next
	entry.next.prev = entry.prev
	delete(w.items, entry.key)
}
