// ArtLens - Museum Artwork Recognition and Visitor Analytics
// Copyright 2026 ArtLens Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/artlens/artlens

package catalogue

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/artlens/artlens/internal/fingerprint"
	"github.com/artlens/artlens/internal/geo"
	"github.com/artlens/artlens/internal/logging"
	"github.com/artlens/artlens/internal/metrics"
	"github.com/artlens/artlens/internal/models"
	"github.com/artlens/artlens/internal/scan"
)

// Store is the durable artwork storage the service writes through. It is
// satisfied by *database.DB.
type Store interface {
	InsertArtwork(ctx context.Context, a *models.Artwork) error
	GetArtwork(ctx context.Context, id uuid.UUID) (*models.Artwork, error)
	ListArtworks(ctx context.Context, filter models.ArtworkFilter) ([]models.Artwork, error)
	ListAllArtworks(ctx context.Context) ([]models.Artwork, error)
	UpdateArtwork(ctx context.Context, a *models.Artwork) error
	UpdateArtworkFingerprint(ctx context.Context, id uuid.UUID, fp *fingerprint.Fingerprint) error
	DeleteArtwork(ctx context.Context, id uuid.UUID) error
	IncrementScanCount(ctx context.Context, id uuid.UUID) error
}

// Service owns the artwork catalogue: DuckDB rows, the in-memory snapshot,
// and the spatial index, kept in step through the write operations.
//
// Reads used while resolving a scan (CandidatesNear, CachedArtwork) are
// served from memory only. DuckDB reads happen on the management surface
// (Get, List) where freshness of the scan counter matters more than
// latency.
type Service struct {
	store Store
	cache *ExtractionCache // optional; nil disables extraction caching

	mu    sync.RWMutex
	snap  *snapshot
	index *spatialIndex
}

// NewService wires the catalogue against its durable store. Call Load
// before serving scans.
func NewService(store Store, cache *ExtractionCache) *Service {
	return &Service{
		store: store,
		cache: cache,
		snap:  newSnapshot(),
		index: newSpatialIndex(),
	}
}

// Load rebuilds the in-memory view from the store. ListAllArtworks returns
// rows in catalogue insertion order, which becomes the snapshot order and
// thereby the resolver's tie-break order.
func (s *Service) Load(ctx context.Context) error {
	artworks, err := s.store.ListAllArtworks(ctx)
	if err != nil {
		return fmt.Errorf("load catalogue: %w", err)
	}

	snap := newSnapshot()
	index := newSpatialIndex()
	for i := range artworks {
		a := artworks[i]
		snap.upsert(a)
		if !a.IsOnDisplay {
			continue
		}
		if err := index.insert(a.ID, a.Latitude, a.Longitude, a.GeofenceRadiusM); err != nil {
			logging.Warn().Err(err).
				Str("artwork_id", a.ID.String()).
				Msg("Artwork left out of the scan index")
		}
	}

	s.mu.Lock()
	s.snap = snap
	s.index = index
	s.mu.Unlock()

	logging.Info().
		Int("artworks", snap.len()).
		Int("indexed", index.size()).
		Msg("Catalogue snapshot loaded")
	return nil
}

// Create fingerprints the reference image when one is provided and inserts
// the artwork, making it immediately scannable. The image bytes are not
// retained; only the fingerprint is stored.
func (s *Service) Create(ctx context.Context, a *models.Artwork, image []byte) error {
	if len(image) > 0 {
		fp, err := s.fingerprintImage(image)
		if err != nil {
			return err
		}
		a.Fingerprint = fp
	}

	if err := s.store.InsertArtwork(ctx, a); err != nil {
		return err
	}
	s.applyToView(*a)

	logging.Info().
		Str("artwork_id", a.ID.String()).
		Str("title", a.Title).
		Bool("fingerprinted", a.Fingerprint != nil).
		Msg("Artwork catalogued")
	return nil
}

// Get returns the stored artwork row.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*models.Artwork, error) {
	return s.store.GetArtwork(ctx, id)
}

// List returns stored artworks matching the filter, in catalogue order.
func (s *Service) List(ctx context.Context, filter models.ArtworkFilter) ([]models.Artwork, error) {
	return s.store.ListArtworks(ctx, filter)
}

// Update rewrites the artwork's descriptive fields and location. When new
// image bytes are provided the artwork is re-fingerprinted; otherwise the
// stored fingerprint is kept. Creation time, scan counter, and catalogue
// position survive updates.
func (s *Service) Update(ctx context.Context, a *models.Artwork, image []byte) error {
	current, err := s.store.GetArtwork(ctx, a.ID)
	if err != nil {
		return err
	}

	if len(image) > 0 {
		fp, err := s.fingerprintImage(image)
		if err != nil {
			return err
		}
		a.Fingerprint = fp
	} else {
		a.Fingerprint = current.Fingerprint
	}
	a.CreatedAt = current.CreatedAt
	a.ScanCount = current.ScanCount

	if err := s.store.UpdateArtwork(ctx, a); err != nil {
		return err
	}
	s.applyToView(*a)

	logging.Info().
		Str("artwork_id", a.ID.String()).
		Bool("refingerprinted", len(image) > 0).
		Msg("Artwork updated")
	return nil
}

// Delete removes the artwork and its interaction history everywhere.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.store.DeleteArtwork(ctx, id); err != nil {
		return err
	}

	s.mu.Lock()
	s.snap.remove(id)
	s.index.remove(id)
	s.mu.Unlock()

	logging.Info().Str("artwork_id", id.String()).Msg("Artwork deleted")
	return nil
}

// IncrementScanCount bumps the durable scan counter and mirrors the bump
// into the snapshot so cached artwork payloads stay close to the stored
// value between reloads.
func (s *Service) IncrementScanCount(ctx context.Context, id uuid.UUID) error {
	if err := s.store.IncrementScanCount(ctx, id); err != nil {
		return err
	}

	s.mu.Lock()
	s.snap.bumpScanCount(id)
	s.mu.Unlock()
	return nil
}

// CandidatesNear shortlists on-display artworks for one scan, in catalogue
// order. Artworks whose geofence box covers the visitor position are
// returned; when no box covers it, the artworks with the nearest boxes are
// returned instead so the resolver can still report the distance to the
// closest piece. Artworks without a fingerprint are included for that
// distance hint; exact great-circle filtering and the stored-fingerprint
// gate are the resolver's job.
func (s *Service) CandidatesNear(user geo.Coordinate) []scan.Candidate {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := s.index.containing(user)
	if len(ids) == 0 {
		ids = s.index.nearest(user, nearestFallbackCount)
	}

	arts := s.snap.subset(ids)
	candidates := make([]scan.Candidate, len(arts))
	for i := range arts {
		candidates[i] = scan.Candidate{
			ID:           arts[i].ID.String(),
			Location:     geo.Coordinate{Latitude: arts[i].Latitude, Longitude: arts[i].Longitude},
			RadiusMeters: arts[i].GeofenceRadiusM,
			Fingerprint:  arts[i].Fingerprint,
		}
	}

	metrics.RecordScanCandidates(len(candidates))
	return candidates
}

// CachedArtwork returns the snapshot row for one artwork. Scan responses
// embed artwork detail from here so a matched scan never reads DuckDB.
func (s *Service) CachedArtwork(id uuid.UUID) (models.Artwork, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap.get(id)
}

// OnDisplay returns the artworks currently on the museum floor in catalogue
// order. Recommendation and similar-artwork rankings read this instead of
// DuckDB.
func (s *Service) OnDisplay() []models.Artwork {
	s.mu.RLock()
	defer s.mu.RUnlock()

	all := s.snap.ordered()
	out := make([]models.Artwork, 0, len(all))
	for _, a := range all {
		if a.IsOnDisplay {
			out = append(out, a)
		}
	}
	return out
}

// Size returns the number of artworks in the snapshot.
func (s *Service) Size() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap.len()
}

// Reindex re-runs the fingerprint pipeline for every artwork whose
// reference image file is readable, rewriting fingerprints that no longer
// match the file bytes. Unreadable or undecodable files keep the stored
// fingerprint. Returns the number of artworks whose fingerprint changed.
func (s *Service) Reindex(ctx context.Context) (int, error) {
	artworks, err := s.store.ListAllArtworks(ctx)
	if err != nil {
		return 0, fmt.Errorf("reindex catalogue: %w", err)
	}

	changed := 0
	for i := range artworks {
		a := artworks[i]
		if a.ImagePath == "" {
			continue
		}

		image, err := os.ReadFile(a.ImagePath)
		if err != nil {
			logging.Warn().Err(err).
				Str("artwork_id", a.ID.String()).
				Str("image_path", a.ImagePath).
				Msg("Reference image unreadable, stored fingerprint kept")
			continue
		}

		fp, err := s.fingerprintImage(image)
		if err != nil {
			logging.Warn().Err(err).
				Str("artwork_id", a.ID.String()).
				Str("image_path", a.ImagePath).
				Msg("Reference image undecodable, stored fingerprint kept")
			continue
		}

		if fingerprintsEqual(a.Fingerprint, fp) {
			continue
		}
		if err := s.store.UpdateArtworkFingerprint(ctx, a.ID, fp); err != nil {
			return changed, err
		}
		a.Fingerprint = fp
		s.applyToView(a)
		changed++
	}

	logging.Info().
		Int("artworks", len(artworks)).
		Int("changed", changed).
		Msg("Catalogue reindex finished")
	return changed, nil
}

// applyToView folds one written artwork into the snapshot and the spatial
// index. Called after the durable write succeeded.
func (s *Service) applyToView(a models.Artwork) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.snap.upsert(a)
	if !a.IsOnDisplay {
		s.index.remove(a.ID)
		return
	}
	if err := s.index.insert(a.ID, a.Latitude, a.Longitude, a.GeofenceRadiusM); err != nil {
		logging.Warn().Err(err).
			Str("artwork_id", a.ID.String()).
			Msg("Artwork left out of the scan index")
	}
}

// fingerprintImage runs the extraction pipeline with the content-addressed
// cache in front. Cache failures degrade to plain extraction.
func (s *Service) fingerprintImage(image []byte) (*fingerprint.Fingerprint, error) {
	if s.cache != nil {
		fp, err := s.cache.Lookup(image)
		if err != nil {
			logging.Debug().Err(err).Msg("Fingerprint cache lookup failed")
		} else if fp != nil {
			return fp, nil
		}
	}

	start := time.Now()
	fp, err := fingerprint.Extract(image)
	if err != nil {
		return nil, err
	}
	metrics.RecordFingerprintExtraction(time.Since(start))

	if s.cache != nil {
		if err := s.cache.Store(image, fp); err != nil {
			logging.Debug().Err(err).Msg("Fingerprint cache store failed")
		}
	}
	return fp, nil
}

// fingerprintsEqual reports whether two stored fingerprints are identical.
// Extraction is deterministic, so exact comparison is the right test for
// "did the reference image change".
func fingerprintsEqual(a, b *fingerprint.Fingerprint) bool {
	if a == nil || b == nil {
		return a == b
	}
	if len(a.Hashes) != len(b.Hashes) || len(a.Histogram) != len(b.Histogram) {
		return false
	}
	for i := range a.Hashes {
		if a.Hashes[i] != b.Hashes[i] {
			return false
		}
	}
	for i := range a.Histogram {
		if a.Histogram[i] != b.Histogram[i] {
			return false
		}
	}
	return true
}
