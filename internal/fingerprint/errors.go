// ArtLens - Museum Artwork Recognition and Visitor Analytics
// Copyright 2026 ArtLens Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/artlens/artlens

package fingerprint

import "fmt"

// ImageDecodeError reports image bytes that could not be decoded into a
// supported format (JPEG, PNG, GIF, WebP, BMP, TIFF). A fingerprint is
// never partially extracted; decoding failure aborts the whole extraction.
type ImageDecodeError struct {
	cause error
}

// Error implements the error interface.
func (e *ImageDecodeError) Error() string {
	return fmt.Sprintf("decode image: %v", e.cause)
}

// Unwrap exposes the decoder cause for errors.Is/As.
func (e *ImageDecodeError) Unwrap() error {
	return e.cause
}
