// ArtLens - Museum Artwork Recognition and Visitor Analytics
// Copyright 2026 ArtLens Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/artlens/artlens

package fingerprint

import (
	"image"
	"sort"

	"gonum.org/v1/gonum/dsp/fourier"
)

// dctScale is the grayscale working size for the frequency hash. Four times
// the lattice edge keeps enough spatial detail for the low-frequency block
// to be discriminative.
const dctScale = LatticeSize * 4

// frequencyHash computes the DCT-based hash: the canonical image is reduced
// to a 64x64 luminance plane, transformed with a 2-D DCT-II, and the
// top-left 16x16 low-frequency block is thresholded against its median.
// Discarding high frequencies makes the hash robust to global brightness
// and contrast shifts.
func frequencyHash(canonical *image.RGBA) Hash {
	plane := grayPlane(scaleRGBA(canonical, dctScale, dctScale))
	dct2D(plane, dctScale)

	block := make([]float64, 0, HashBits)
	for y := 0; y < LatticeSize; y++ {
		for x := 0; x < LatticeSize; x++ {
			block = append(block, plane[y*dctScale+x])
		}
	}
	return bitsAboveMedian(block)
}

// gradientHash computes the difference hash: a 17x16 luminance lattice where
// each bit records whether the right-hand neighbour is brighter. Comparing
// adjacent pixels instead of absolute values makes the hash robust to small
// geometric shifts.
func gradientHash(canonical *image.RGBA) Hash {
	plane := grayPlane(scaleRGBA(canonical, LatticeSize+1, LatticeSize))

	var h Hash
	w := LatticeSize + 1
	for y := 0; y < LatticeSize; y++ {
		for x := 0; x < LatticeSize; x++ {
			if plane[y*w+x+1] > plane[y*w+x] {
				h.setBit(y*LatticeSize + x)
			}
		}
	}
	return h
}

// waveletHash computes the Haar hash: the 256x256 luminance plane is
// decomposed through four levels of the 2-D Haar transform and the 16x16
// approximation band is thresholded against its median. The approximation
// band averages away fine detail, making the hash robust to blur and
// compression artifacts.
func waveletHash(canonical *image.RGBA) Hash {
	plane := grayPlane(canonical)
	ll := haarApprox(plane, CanonicalSize, haarLevels)
	return bitsAboveMedian(ll)
}

// dct2D applies an in-place 2-D DCT-II (rows then columns) to a square
// row-major plane of edge n.
func dct2D(plane []float64, n int) {
	dct := fourier.NewDCT(n)
	buf := make([]float64, n)

	for y := 0; y < n; y++ {
		row := plane[y*n : (y+1)*n]
		dct.Transform(buf, row)
		copy(row, buf)
	}

	col := make([]float64, n)
	for x := 0; x < n; x++ {
		for y := 0; y < n; y++ {
			col[y] = plane[y*n+x]
		}
		dct.Transform(buf, col)
		for y := 0; y < n; y++ {
			plane[y*n+x] = buf[y]
		}
	}
}

// bitsAboveMedian packs a 256-value block into a Hash, setting each bit
// whose value is strictly above the block median (median of an even count
// is the mean of the middle pair).
func bitsAboveMedian(block []float64) Hash {
	med := median(block)
	var h Hash
	for i, v := range block {
		if v > med {
			h.setBit(i)
		}
	}
	return h
}

func median(values []float64) float64 {
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)
	n := len(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}
