// ArtLens - Museum Artwork Recognition and Visitor Analytics
// Copyright 2026 ArtLens Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/artlens/artlens

// Package fingerprint converts artwork images into compact, comparable
// fingerprints and scores their similarity.
//
// A fingerprint has two parts:
//
//   - Three 256-bit perceptual hashes computed over a 16x16 lattice:
//     a frequency-domain hash (robust to global brightness and contrast
//     shifts), a gradient hash (robust to small geometric shifts), and a
//     wavelet hash (robust to blur and compression artifacts).
//   - A color histogram: 32 bins per RGB channel, each channel normalized
//     to sum to 1.0, concatenated into 96 values.
//
// All computation happens on a canonical 256x256 RGB rendering of the
// source image so comparisons are scale-invariant. Extraction is
// deterministic: identical input bytes always produce bit-identical
// fingerprints, which lets the catalogue store fingerprints once at write
// time and reuse them for every scan.
//
// Scoring fuses the two parts: normalized Hamming similarity over the hash
// triple (weight 0.6) and histogram intersection (weight 0.4), yielding a
// combined similarity in [0, 1].
package fingerprint
