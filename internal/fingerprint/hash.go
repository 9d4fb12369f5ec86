// ArtLens - Museum Artwork Recognition and Visitor Analytics
// Copyright 2026 ArtLens Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/artlens/artlens

package fingerprint

import (
	"fmt"
	"math/bits"
	"strconv"
)

// HashBits is the fixed bit length of every perceptual hash. All candidates
// share it, so Hamming distances are directly comparable.
const HashBits = 256

// hashWords is the number of 64-bit words backing a Hash.
const hashWords = HashBits / 64

// Hash is one 256-bit perceptual hash code. The zero value is a valid hash
// with all bits clear.
type Hash [hashWords]uint64

// setBit sets lattice bit i (row-major, 0 <= i < HashBits).
func (h *Hash) setBit(i int) {
	h[i/64] |= 1 << uint(i%64)
}

// Distance returns the Hamming distance to another hash.
func (h Hash) Distance(other Hash) int {
	d := 0
	for i := range h {
		d += bits.OnesCount64(h[i] ^ other[i])
	}
	return d
}

// String renders the hash as 64 lowercase hex characters, most significant
// word first. This is the wire form used in fingerprint JSON.
func (h Hash) String() string {
	return fmt.Sprintf("%016x%016x%016x%016x", h[0], h[1], h[2], h[3])
}

// ParseHash parses the 64-character hex form produced by String.
func ParseHash(s string) (Hash, error) {
	var h Hash
	if len(s) != HashBits/4 {
		return h, fmt.Errorf("parse hash: expected %d hex characters, got %d", HashBits/4, len(s))
	}
	for i := 0; i < hashWords; i++ {
		word, err := strconv.ParseUint(s[i*16:(i+1)*16], 16, 64)
		if err != nil {
			return Hash{}, fmt.Errorf("parse hash word %d: %w", i, err)
		}
		h[i] = word
	}
	return h, nil
}
