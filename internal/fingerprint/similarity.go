// ArtLens - Museum Artwork Recognition and Visitor Analytics
// Copyright 2026 ArtLens Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/artlens/artlens

package fingerprint

// Fusion weights for the combined similarity. Hashing is weighted higher
// because it is shape/structure-robust; the histogram catches color-first
// discrimination the hashes can miss. Fixed design constants.
const (
	WeightHash      = 0.6
	WeightHistogram = 0.4
)

// Score fuses hash and histogram similarity into one value in [0, 1].
//
// When only one component is comparable on both fingerprints (degenerate or
// legacy data), that component carries full weight. When neither is
// comparable the score is 0.0 — comparison never fails with an error.
//
// Score is symmetric and scores any valid fingerprint against itself as
// exactly 1.0.
func Score(a, b *Fingerprint) float64 {
	hashSim, hashOK := HashSimilarity(a, b)
	histSim, histOK := HistogramSimilarity(a, b)

	switch {
	case hashOK && histOK:
		return WeightHash*hashSim + WeightHistogram*histSim
	case hashOK:
		return hashSim
	case histOK:
		return histSim
	default:
		return 0.0
	}
}

// HashSimilarity averages the Hamming distances of the paired hash codes
// and converts to a similarity: 1 - meanDistance/HashBits. The second
// return reports whether the fingerprints had comparable hash components.
//
// Fingerprints with differing hash counts compare the pairs both sides
// have; a side with no hashes at all is not comparable.
func HashSimilarity(a, b *Fingerprint) (float64, bool) {
	if !a.HasHashes() || !b.HasHashes() {
		return 0, false
	}
	n := len(a.Hashes)
	if len(b.Hashes) < n {
		n = len(b.Hashes)
	}

	totalDistance := 0
	for i := 0; i < n; i++ {
		totalDistance += a.Hashes[i].Distance(b.Hashes[i])
	}
	meanDistance := float64(totalDistance) / float64(n)
	return 1.0 - meanDistance/float64(HashBits), true
}

// HistogramSimilarity computes histogram intersection (the sum of
// element-wise minima) averaged over the three channel blocks. Because each
// channel block sums to 1.0, the result is bounded in [0, 1] with 1.0 for
// identical histograms. The second return reports comparability.
func HistogramSimilarity(a, b *Fingerprint) (float64, bool) {
	if !a.HasHistogram() || !b.HasHistogram() || len(a.Histogram) != len(b.Histogram) {
		return 0, false
	}

	channels := len(a.Histogram) / HistogramBins
	if channels == 0 {
		return 0, false
	}

	total := 0.0
	for i := range a.Histogram {
		if a.Histogram[i] < b.Histogram[i] {
			total += a.Histogram[i]
		} else {
			total += b.Histogram[i]
		}
	}
	return total / float64(channels), true
}
