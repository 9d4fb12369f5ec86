// ArtLens - Museum Artwork Recognition and Visitor Analytics
// Copyright 2026 ArtLens Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/artlens/artlens

package fingerprint

import "math"

// haarLevels is the number of 2-D Haar decomposition levels taking the
// 256x256 canonical plane down to the 16x16 approximation band
// (256 >> 4 == 16).
const haarLevels = 4

// haarApprox runs a multi-level 2-D Haar decomposition on a square
// row-major plane of edge size and returns the approximation (LL) band
// after the requested number of levels, row-major with edge size>>levels.
//
// Each level applies one pairwise average/difference pass over the rows and
// then the columns of the current approximation quadrant, with the
// conventional 1/sqrt(2) normalization; details are kept in place but only
// the approximation quadrant feeds the next level.
func haarApprox(plane []float64, size, levels int) []float64 {
	work := make([]float64, len(plane))
	copy(work, plane)

	buf := make([]float64, size)
	n := size
	for level := 0; level < levels; level++ {
		half := n / 2

		// Rows: averages to the front, differences behind them.
		for y := 0; y < n; y++ {
			row := work[y*size : y*size+n]
			for i := 0; i < half; i++ {
				buf[i] = (row[2*i] + row[2*i+1]) / math.Sqrt2
				buf[half+i] = (row[2*i] - row[2*i+1]) / math.Sqrt2
			}
			copy(row, buf[:n])
		}

		// Columns.
		for x := 0; x < n; x++ {
			for i := 0; i < half; i++ {
				a := work[(2*i)*size+x]
				b := work[(2*i+1)*size+x]
				buf[i] = (a + b) / math.Sqrt2
				buf[half+i] = (a - b) / math.Sqrt2
			}
			for y := 0; y < n; y++ {
				work[y*size+x] = buf[y]
			}
		}

		n = half
	}

	ll := make([]float64, n*n)
	for y := 0; y < n; y++ {
		copy(ll[y*n:(y+1)*n], work[y*size:y*size+n])
	}
	return ll
}
