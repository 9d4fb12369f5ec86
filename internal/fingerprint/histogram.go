// ArtLens - Museum Artwork Recognition and Visitor Analytics
// Copyright 2026 ArtLens Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/artlens/artlens

package fingerprint

import "image"

// colorHistogram builds the concatenated R,G,B histogram of the canonical
// image: 32 bins per channel over 0-255, each channel normalized
// independently so its bins sum to 1.0.
//
// The per-channel normalization is load-bearing: histogram intersection is
// only guaranteed to stay within [0, 1] when every channel block sums to 1
// on both sides of the comparison. A single global normalization would
// change that bound.
func colorHistogram(img *image.RGBA) []float64 {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()

	counts := make([]int, HistogramSize)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			i := img.PixOffset(b.Min.X+x, b.Min.Y+y)
			for c := 0; c < HistogramChannels; c++ {
				bin := int(img.Pix[i+c]) * HistogramBins / 256
				counts[c*HistogramBins+bin]++
			}
		}
	}

	total := float64(w * h)
	hist := make([]float64, HistogramSize)
	for i, n := range counts {
		hist[i] = float64(n) / total
	}
	return hist
}
