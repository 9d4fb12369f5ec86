// ArtLens - Museum Artwork Recognition and Visitor Analytics
// Copyright 2026 ArtLens Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/artlens/artlens

package scan

import (
	"fmt"
	"sort"

	"github.com/artlens/artlens/internal/fingerprint"
	"github.com/artlens/artlens/internal/geo"
)

// Resolution thresholds. AcceptanceThreshold is the minimum combined
// similarity for a match; HighConfidenceThreshold upgrades an accepted
// match's confidence label.
const (
	AcceptanceThreshold     = 0.70
	HighConfidenceThreshold = 0.85

	// MaxAlternatives is how many runner-up matches accompany an accepted
	// match; MaxSuggestions is how many candidates accompany a
	// NoConfidentMatchError.
	MaxAlternatives = 3
	MaxSuggestions  = 3
)

// Stage identifies the pipeline stage a scan was in, used when reporting
// unexpected failures.
type Stage string

const (
	StageLocating  Stage = "locating"
	StageFiltering Stage = "filtering"
	StageMatching  Stage = "matching"
)

// Confidence labels an accepted match.
type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
)

// Request is one visitor scan: a camera frame and where it was taken.
type Request struct {
	// Image is the raw encoded frame (JPEG, PNG, GIF, BMP, TIFF or WebP).
	Image []byte

	// Location is the visitor's reported position.
	Location geo.Coordinate
}

// Candidate is one catalogued artwork offered to the resolver. Callers
// supply candidates in catalogue order; that order breaks score ties.
type Candidate struct {
	ID           string
	Location     geo.Coordinate
	RadiusMeters float64

	// Fingerprint may be nil or degenerate for artworks whose reference
	// image was never processed. Such candidates are never matched against;
	// their distance still informs the nearest-artwork hint when nothing
	// scannable is in range.
	Fingerprint *fingerprint.Fingerprint
}

// scannable reports whether the candidate carries a fingerprint the scorer
// can compare.
func (c Candidate) scannable() bool {
	return c.Fingerprint.HasHashes() || c.Fingerprint.HasHistogram()
}

// Match pairs a candidate with its similarity score for one scan.
type Match struct {
	ArtworkID      string  `json:"artwork_id"`
	Score          float64 `json:"score"`
	DistanceMeters float64 `json:"distance_meters"`
}

// Result is an accepted match.
type Result struct {
	ArtworkID      string     `json:"artwork_id"`
	Score          float64    `json:"score"`
	Confidence     Confidence `json:"confidence"`
	DistanceMeters float64    `json:"distance_meters"`
	Message        string     `json:"message"`

	// Alternatives holds the next-best in-range candidates, best first,
	// at most MaxAlternatives.
	Alternatives []Match `json:"alternatives,omitempty"`
}

// Resolver runs the scan resolution pipeline. The zero value is not usable;
// construct with NewResolver.
type Resolver struct {
	extract func(data []byte) (*fingerprint.Fingerprint, error)
}

// NewResolver returns a Resolver backed by the standard fingerprint
// extractor.
func NewResolver() *Resolver {
	return &Resolver{extract: fingerprint.Extract}
}

// Resolve runs one scan against the given candidates.
//
// It returns a Result only for an accepted match. All other outcomes are
// typed errors: *InvalidRequestError or *geo.InvalidLocationError from the
// locating stage, *NoTargetsInRangeError from filtering,
// *NoConfidentMatchError from matching, and *ScanFailedError for anything
// unexpected.
//
// Candidates with equal scores keep their relative catalogue order, so
// ranking is deterministic for a fixed catalogue.
func (r *Resolver) Resolve(req Request, candidates []Candidate) (*Result, error) {
	// Locating.
	if len(req.Image) == 0 {
		return nil, invalidRequest("image", "image data is required")
	}
	if err := req.Location.Validate("user"); err != nil {
		return nil, err
	}

	// Filtering. Candidate coordinates come from the catalogue, so a
	// validation failure here is data corruption, not visitor error.
	// Candidates without a comparable fingerprint cannot be matched and are
	// excluded from the accessible set, but every candidate's distance
	// still feeds the nearest-artwork hint.
	type rangedCandidate struct {
		candidate Candidate
		distance  float64
	}
	inRange := make([]rangedCandidate, 0, len(candidates))
	nearestDistance := -1.0
	nearestRadius := 0.0
	for _, c := range candidates {
		eval, err := geo.Evaluate(req.Location, c.Location, c.RadiusMeters)
		if err != nil {
			return nil, scanFailed(StageFiltering, fmt.Errorf("candidate %s: %w", c.ID, err))
		}
		if eval.Accessible && c.scannable() {
			inRange = append(inRange, rangedCandidate{candidate: c, distance: eval.DistanceMeters})
		}
		if nearestDistance < 0 || eval.DistanceMeters < nearestDistance {
			nearestDistance = eval.DistanceMeters
			nearestRadius = c.RadiusMeters
		}
	}
	if len(inRange) == 0 {
		message := "No artworks are catalogued near this location."
		if nearestDistance >= 0 {
			message = geo.ProximityMessage(nearestDistance, nearestRadius)
		}
		return nil, &NoTargetsInRangeError{
			NearestDistanceMeters: nearestDistance,
			Message:               message,
		}
	}

	// Matching.
	query, err := r.extract(req.Image)
	if err != nil {
		return nil, scanFailed(StageMatching, err)
	}

	scores := make([]float64, len(inRange))
	for i := range inRange {
		scores[i] = fingerprint.Score(query, inRange[i].candidate.Fingerprint)
	}

	// Stable sort over indices: descending score, catalogue order on ties.
	order := make([]int, len(inRange))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return scores[order[a]] > scores[order[b]]
	})

	ranked := make([]Match, len(order))
	for pos, i := range order {
		ranked[pos] = Match{
			ArtworkID:      inRange[i].candidate.ID,
			Score:          scores[i],
			DistanceMeters: inRange[i].distance,
		}
	}

	best := ranked[0]
	if best.Score < AcceptanceThreshold {
		n := MaxSuggestions
		if len(ranked) < n {
			n = len(ranked)
		}
		return nil, &NoConfidentMatchError{
			BestScore:   best.Score,
			Suggestions: append([]Match(nil), ranked[:n]...),
		}
	}

	confidence := ConfidenceMedium
	if best.Score > HighConfidenceThreshold {
		confidence = ConfidenceHigh
	}

	end := 1 + MaxAlternatives
	if len(ranked) < end {
		end = len(ranked)
	}
	var alternatives []Match
	if end > 1 {
		alternatives = append([]Match(nil), ranked[1:end]...)
	}

	return &Result{
		ArtworkID:      best.ArtworkID,
		Score:          best.Score,
		Confidence:     confidence,
		DistanceMeters: best.DistanceMeters,
		Message:        geo.ProximityMessage(best.DistanceMeters, inRange[order[0]].candidate.RadiusMeters),
		Alternatives:   alternatives,
	}, nil
}
