// ArtLens - Museum Artwork Recognition and Visitor Analytics
// Copyright 2026 ArtLens Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/artlens/artlens

package fingerprint

import (
	"fmt"

	"github.com/goccy/go-json"
)

// Extraction geometry. These are design constants shared by every stored
// fingerprint; changing any of them invalidates the whole catalogue.
const (
	// CanonicalSize is the square edge the source image is resized to
	// before any hash or histogram computation.
	CanonicalSize = 256

	// LatticeSize is the edge of the 16x16 comparison lattice each hash is
	// computed over (LatticeSize^2 == HashBits).
	LatticeSize = 16

	// HistogramBins is the number of bins per color channel.
	HistogramBins = 32

	// HistogramChannels is the number of color channels histogrammed.
	HistogramChannels = 3

	// HistogramSize is the length of the concatenated histogram vector.
	HistogramSize = HistogramBins * HistogramChannels

	// HashCount is the number of perceptual hashes in a full fingerprint,
	// in wire order: frequency, gradient, wavelet.
	HashCount = 3
)

// Fingerprint is the immutable comparison form of one image: three
// perceptual hashes plus a per-channel-normalized color histogram. It is
// created once per source image and never mutated; catalogued fingerprints
// are computed at write time and reused for every scan.
//
// A fingerprint may be degenerate (missing hashes or histogram) when it was
// produced by an older catalogue version; the scorer falls back to the
// comparable component rather than failing.
type Fingerprint struct {
	// Hashes holds the perceptual hashes in frequency, gradient, wavelet
	// order. Empty when the source never computed hashes.
	Hashes []Hash

	// Histogram is the concatenated R,G,B histogram, 32 bins per channel,
	// each channel summing to 1.0. Empty when unavailable.
	Histogram []float64
}

// HasHashes reports whether the hash component is present.
func (f *Fingerprint) HasHashes() bool {
	return f != nil && len(f.Hashes) > 0
}

// HasHistogram reports whether the histogram component is present.
func (f *Fingerprint) HasHistogram() bool {
	return f != nil && len(f.Histogram) > 0
}

// fingerprintJSON is the wire form:
//
//	{"hashes": ["<64 hex>", ...], "histogram": [0.01, ...]}
type fingerprintJSON struct {
	Hashes    []string  `json:"hashes"`
	Histogram []float64 `json:"histogram"`
}

// MarshalJSON renders the wire form with hex-encoded hashes.
func (f Fingerprint) MarshalJSON() ([]byte, error) {
	wire := fingerprintJSON{
		Hashes:    make([]string, len(f.Hashes)),
		Histogram: f.Histogram,
	}
	for i, h := range f.Hashes {
		wire.Hashes[i] = h.String()
	}
	return json.Marshal(wire)
}

// UnmarshalJSON parses the wire form, validating hash hex and histogram
// length. A stored fingerprint with no hashes and no histogram is rejected:
// it could never be compared.
func (f *Fingerprint) UnmarshalJSON(data []byte) error {
	var wire fingerprintJSON
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	if len(wire.Hashes) == 0 && len(wire.Histogram) == 0 {
		return fmt.Errorf("fingerprint: no comparable components")
	}
	if len(wire.Histogram) > 0 && len(wire.Histogram) != HistogramSize {
		return fmt.Errorf("fingerprint: histogram length %d, expected %d", len(wire.Histogram), HistogramSize)
	}
	hashes := make([]Hash, len(wire.Hashes))
	for i, s := range wire.Hashes {
		h, err := ParseHash(s)
		if err != nil {
			return fmt.Errorf("fingerprint hash %d: %w", i, err)
		}
		hashes[i] = h
	}
	f.Hashes = hashes
	f.Histogram = wire.Histogram
	return nil
}
