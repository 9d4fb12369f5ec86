// ArtLens - Museum Artwork Recognition and Visitor Analytics
// Copyright 2026 ArtLens Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/artlens/artlens

package analytics

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/artlens/artlens/internal/cache"
	"github.com/artlens/artlens/internal/database"
	"github.com/artlens/artlens/internal/fingerprint"
	"github.com/artlens/artlens/internal/logging"
	"github.com/artlens/artlens/internal/metrics"
	"github.com/artlens/artlens/internal/models"
)

const (
	// DefaultSummaryDays is the reporting window when the request names none.
	DefaultSummaryDays = 30

	// DefaultHeatmapDays is the heatmap window when the request names none.
	DefaultHeatmapDays = 7

	// DefaultSimilarLimit caps the similar-artworks list.
	DefaultSimilarLimit = 5

	// recommendationLimit caps personalized recommendations.
	recommendationLimit = 10

	// neutralScore is reported for candidates that cannot be scored against
	// the session's history.
	neutralScore = 0.5

	// cacheType labels this package's hits and misses in metrics.
	cacheType = "analytics"
)

// Recommendation reasons surfaced to the client.
const (
	reasonHistory = "Based on your viewing history"
	reasonPopular = "Popular with visitors"
)

// Store is the aggregate-query surface the service reads from.
type Store interface {
	GetMuseumSummary(ctx context.Context, days int) (*models.MuseumSummary, error)
	GetArtworkInsights(ctx context.Context, artworkID uuid.UUID, days int) (*models.ArtworkInsights, error)
	GetHeatmap(ctx context.Context, days int) (*models.Heatmap, error)
	ListSessionArtworkIDs(ctx context.Context, sessionID uuid.UUID) ([]uuid.UUID, error)
}

// Catalogue is the in-memory artwork view discovery reads from. CachedArtwork
// must serve hidden artworks too: a session's history may reference pieces
// that have since left display.
type Catalogue interface {
	CachedArtwork(id uuid.UUID) (models.Artwork, bool)
	OnDisplay() []models.Artwork
}

// summaryParams and friends key the response cache.
type summaryParams struct {
	Days int `json:"days"`
}

type insightsParams struct {
	ArtworkID string `json:"artwork_id"`
	Days      int    `json:"days"`
}

type heatmapParams struct {
	Days int `json:"days"`
}

// Service answers analytics and discovery queries.
type Service struct {
	store     Store
	catalogue Catalogue
	cache     *cache.Cache // nil disables response caching
}

// NewService builds the analytics service. A responseTTL of zero disables
// response caching; every request then reads the database.
func NewService(store Store, cat Catalogue, responseTTL time.Duration) *Service {
	var c *cache.Cache
	if responseTTL > 0 {
		c = cache.New(responseTTL)
	}
	return &Service{store: store, catalogue: cat, cache: c}
}

// Summary reports museum-wide engagement over the trailing window. The bool
// reports whether the response came from cache, for the envelope metadata.
func (s *Service) Summary(ctx context.Context, days int) (*models.MuseumSummary, bool, error) {
	if days <= 0 {
		days = DefaultSummaryDays
	}

	key := cache.GenerateKey("analytics.summary", summaryParams{Days: days})
	if cached, ok := cacheGet[*models.MuseumSummary](s.cache, key); ok {
		return cached, true, nil
	}

	summary, err := s.store.GetMuseumSummary(ctx, days)
	if err != nil {
		return nil, false, fmt.Errorf("failed to build museum summary: %w", err)
	}
	cacheSet(s.cache, key, summary)
	return summary, false, nil
}

// ArtworkInsights reports per-artwork engagement over the trailing window.
// Unknown artworks surface database.ErrArtworkNotFound.
func (s *Service) ArtworkInsights(ctx context.Context, artworkID uuid.UUID, days int) (*models.ArtworkInsights, bool, error) {
	if days <= 0 {
		days = DefaultSummaryDays
	}

	key := cache.GenerateKey("analytics.insights", insightsParams{ArtworkID: artworkID.String(), Days: days})
	if cached, ok := cacheGet[*models.ArtworkInsights](s.cache, key); ok {
		return cached, true, nil
	}

	insights, err := s.store.GetArtworkInsights(ctx, artworkID, days)
	if err != nil {
		return nil, false, err
	}
	cacheSet(s.cache, key, insights)
	return insights, false, nil
}

// Heatmap reports interaction volume by weekday and hour over the trailing
// window.
func (s *Service) Heatmap(ctx context.Context, days int) (*models.Heatmap, bool, error) {
	if days <= 0 {
		days = DefaultHeatmapDays
	}

	key := cache.GenerateKey("analytics.heatmap", heatmapParams{Days: days})
	if cached, ok := cacheGet[*models.Heatmap](s.cache, key); ok {
		return cached, true, nil
	}

	heatmap, err := s.store.GetHeatmap(ctx, days)
	if err != nil {
		return nil, false, fmt.Errorf("failed to build heatmap: %w", err)
	}
	cacheSet(s.cache, key, heatmap)
	return heatmap, false, nil
}

// InvalidateCache drops every cached response. The event pipeline calls this
// after each matched scan; opt-out handling calls it after a history wipe.
func (s *Service) InvalidateCache() {
	if s.cache != nil {
		s.cache.Clear()
	}
}

// Recommendations ranks unviewed on-display artworks for a session: by mean
// fingerprint similarity to the session's scan history when there is usable
// history, by popularity with a neutral score otherwise. At most ten entries.
//
// Only fingerprinted artworks are candidates. Sessions without consent have
// no recorded history, so they land in the popularity branch naturally.
func (s *Service) Recommendations(ctx context.Context, sessionID uuid.UUID) ([]models.RecommendedArtwork, error) {
	history, err := s.store.ListSessionArtworkIDs(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to load session history: %w", err)
	}

	viewed := make(map[uuid.UUID]bool, len(history))
	var profile []*fingerprint.Fingerprint
	for _, id := range history {
		viewed[id] = true
		// History can reference artworks deleted since, or pieces that never
		// had a reference image; both are unusable for scoring.
		if a, ok := s.catalogue.CachedArtwork(id); ok && a.Fingerprint != nil {
			profile = append(profile, a.Fingerprint)
		}
	}

	recs := make([]models.RecommendedArtwork, 0, recommendationLimit)
	for _, a := range s.catalogue.OnDisplay() {
		if viewed[a.ID] || a.Fingerprint == nil {
			continue
		}
		rec := models.RecommendedArtwork{Artwork: a, Score: neutralScore, Reason: reasonPopular}
		if len(profile) > 0 {
			rec.Score = meanSimilarity(a.Fingerprint, profile)
			rec.Reason = reasonHistory
		}
		recs = append(recs, rec)
	}

	// Stable sorts keep catalogue order between equal entries.
	if len(profile) > 0 {
		sort.SliceStable(recs, func(i, j int) bool { return recs[i].Score > recs[j].Score })
	} else {
		sort.SliceStable(recs, func(i, j int) bool { return recs[i].Artwork.ScanCount > recs[j].Artwork.ScanCount })
	}
	if len(recs) > recommendationLimit {
		recs = recs[:recommendationLimit]
	}

	logging.Debug().
		Str("session_id", sessionID.String()).
		Int("history", len(history)).
		Int("scored", len(profile)).
		Int("recommendations", len(recs)).
		Msg("Recommendations ranked")
	return recs, nil
}

// SimilarArtworks ranks other on-display artworks by fingerprint similarity
// to the given one. The reference may be off display; its neighbors never
// are. A reference without a fingerprint has no measurable neighbors and
// yields an empty list.
func (s *Service) SimilarArtworks(_ context.Context, artworkID uuid.UUID, limit int) ([]models.SimilarArtwork, error) {
	if limit <= 0 {
		limit = DefaultSimilarLimit
	}

	target, ok := s.catalogue.CachedArtwork(artworkID)
	if !ok {
		return nil, database.ErrArtworkNotFound
	}

	similar := make([]models.SimilarArtwork, 0, limit)
	if target.Fingerprint == nil {
		return similar, nil
	}

	for _, a := range s.catalogue.OnDisplay() {
		if a.ID == artworkID || a.Fingerprint == nil {
			continue
		}
		similar = append(similar, models.SimilarArtwork{
			Artwork: a,
			Score:   fingerprint.Score(target.Fingerprint, a.Fingerprint),
		})
	}

	sort.SliceStable(similar, func(i, j int) bool { return similar[i].Score > similar[j].Score })
	if len(similar) > limit {
		similar = similar[:limit]
	}
	return similar, nil
}

// meanSimilarity averages the candidate's similarity against every profile
// fingerprint. Callers guarantee a non-empty profile.
func meanSimilarity(candidate *fingerprint.Fingerprint, profile []*fingerprint.Fingerprint) float64 {
	total := 0.0
	for _, fp := range profile {
		total += fingerprint.Score(candidate, fp)
	}
	return total / float64(len(profile))
}

// cacheGet looks up a typed response. A nil cache, a missing key, and a
// value of the wrong type all read as misses.
func cacheGet[T any](c *cache.Cache, key string) (T, bool) {
	var zero T
	if c == nil {
		return zero, false
	}
	v, ok := c.Get(key)
	if !ok {
		metrics.RecordCacheMiss(cacheType)
		return zero, false
	}
	typed, ok := v.(T)
	if !ok {
		metrics.RecordCacheMiss(cacheType)
		return zero, false
	}
	metrics.RecordCacheHit(cacheType)
	return typed, true
}

// cacheSet stores a response when caching is enabled.
func cacheSet(c *cache.Cache, key string, value any) {
	if c != nil {
		c.Set(key, value)
	}
}
