// ArtLens - Museum Artwork Recognition and Visitor Analytics
// Copyright 2026 ArtLens Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/artlens/artlens

package fingerprint

import (
	"bytes"
	"image"

	// Register decoders for the formats visitors upload. The stdlib covers
	// JPEG/PNG/GIF; golang.org/x/image adds WebP, BMP and TIFF.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/nfnt/resize"
)

// Extract converts raw image bytes into a Fingerprint.
//
// Pipeline: decode -> canonical 256x256 RGB (Lanczos resampling) -> three
// perceptual hashes + color histogram, all computed from the same canonical
// rendering so comparisons are scale-invariant.
//
// DETERMINISM: every stage is pure Go with no randomness or concurrency, so
// identical input bytes always yield a bit-identical fingerprint. The
// catalogue relies on this to store fingerprints once and compare forever.
//
// Unreadable or truncated bytes fail with *ImageDecodeError; a partial
// fingerprint is never returned.
func Extract(data []byte) (*Fingerprint, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, &ImageDecodeError{cause: err}
	}

	canonical := canonicalRGBA(img)

	return &Fingerprint{
		Hashes: []Hash{
			frequencyHash(canonical),
			gradientHash(canonical),
			waveletHash(canonical),
		},
		Histogram: colorHistogram(canonical),
	}, nil
}

// canonicalRGBA resizes to the canonical square with a high-quality filter
// and collapses whatever color model the decoder produced into plain 8-bit
// RGBA. Alpha is dropped from all further computation.
func canonicalRGBA(img image.Image) *image.RGBA {
	resized := resize.Resize(CanonicalSize, CanonicalSize, img, resize.Lanczos3)

	canonical := image.NewRGBA(image.Rect(0, 0, CanonicalSize, CanonicalSize))
	b := resized.Bounds()
	for y := 0; y < CanonicalSize; y++ {
		for x := 0; x < CanonicalSize; x++ {
			r, g, bl, _ := resized.At(b.Min.X+x, b.Min.Y+y).RGBA()
			i := canonical.PixOffset(x, y)
			canonical.Pix[i+0] = uint8(r >> 8)
			canonical.Pix[i+1] = uint8(g >> 8)
			canonical.Pix[i+2] = uint8(bl >> 8)
			canonical.Pix[i+3] = 0xff
		}
	}
	return canonical
}

// grayPlane converts an RGBA image into a row-major float64 luminance plane
// using the Rec. 601 weights (the same Y channel the wavelet literature and
// the upstream hashing scheme use).
func grayPlane(img *image.RGBA) []float64 {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	plane := make([]float64, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			i := img.PixOffset(b.Min.X+x, b.Min.Y+y)
			r := float64(img.Pix[i+0])
			g := float64(img.Pix[i+1])
			bl := float64(img.Pix[i+2])
			plane[y*w+x] = 0.299*r + 0.587*g + 0.114*bl
		}
	}
	return plane
}

// scaleRGBA downsamples an RGBA image to w x h with Bicubic resampling and
// renormalizes the result to *image.RGBA. Used for the small hash lattices.
func scaleRGBA(img *image.RGBA, w, h int) *image.RGBA {
	resized := resize.Resize(uint(w), uint(h), img, resize.Bicubic)
	out := image.NewRGBA(image.Rect(0, 0, w, h))
	b := resized.Bounds()
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			r, g, bl, _ := resized.At(b.Min.X+x, b.Min.Y+y).RGBA()
			i := out.PixOffset(x, y)
			out.Pix[i+0] = uint8(r >> 8)
			out.Pix[i+1] = uint8(g >> 8)
			out.Pix[i+2] = uint8(bl >> 8)
			out.Pix[i+3] = 0xff
		}
	}
	return out
}
