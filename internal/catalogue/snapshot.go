// ArtLens - Museum Artwork Recognition and Visitor Analytics
// Copyright 2026 ArtLens Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/artlens/artlens

package catalogue

import (
	"sort"

	"github.com/google/uuid"

	"github.com/artlens/artlens/internal/models"
)

// snapshot is the in-memory catalogue view read on every scan. Each entry
// remembers the sequence number it was first inserted under; ascending
// sequence is catalogue order, and an update never changes it.
//
// snapshot is not safe for concurrent use. Service serializes access.
type snapshot struct {
	nextSeq int64
	entries map[uuid.UUID]*snapshotEntry
}

type snapshotEntry struct {
	seq     int64
	artwork models.Artwork
}

func newSnapshot() *snapshot {
	return &snapshot{entries: make(map[uuid.UUID]*snapshotEntry)}
}

// upsert stores the artwork, keeping the original catalogue position when
// the artwork is already present.
func (s *snapshot) upsert(a models.Artwork) {
	if e, ok := s.entries[a.ID]; ok {
		e.artwork = a
		return
	}
	s.entries[a.ID] = &snapshotEntry{seq: s.nextSeq, artwork: a}
	s.nextSeq++
}

func (s *snapshot) remove(id uuid.UUID) {
	delete(s.entries, id)
}

func (s *snapshot) get(id uuid.UUID) (models.Artwork, bool) {
	e, ok := s.entries[id]
	if !ok {
		return models.Artwork{}, false
	}
	return e.artwork, true
}

// bumpScanCount mirrors a durable counter increment into the view. Unknown
// IDs are ignored; the hourly reconciliation corrects any drift.
func (s *snapshot) bumpScanCount(id uuid.UUID) {
	if e, ok := s.entries[id]; ok {
		e.artwork.ScanCount++
	}
}

func (s *snapshot) len() int {
	return len(s.entries)
}

// ordered returns every artwork in catalogue order.
func (s *snapshot) ordered() []models.Artwork {
	entries := make([]*snapshotEntry, 0, len(s.entries))
	for _, e := range s.entries {
		entries = append(entries, e)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].seq < entries[j].seq })

	out := make([]models.Artwork, len(entries))
	for i, e := range entries {
		out[i] = e.artwork
	}
	return out
}

// subset returns the artworks for the given IDs in catalogue order. IDs no
// longer present are skipped.
func (s *snapshot) subset(ids []uuid.UUID) []models.Artwork {
	entries := make([]*snapshotEntry, 0, len(ids))
	for _, id := range ids {
		if e, ok := s.entries[id]; ok {
			entries = append(entries, e)
		}
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].seq < entries[j].seq })

	out := make([]models.Artwork, len(entries))
	for i, e := range entries {
		out[i] = e.artwork
	}
	return out
}
