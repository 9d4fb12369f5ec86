// ArtLens - Museum Artwork Recognition and Visitor Analytics
// Copyright 2026 ArtLens Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/artlens/artlens

package catalogue

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"
	json "github.com/goccy/go-json"

	"github.com/artlens/artlens/internal/config"
	"github.com/artlens/artlens/internal/fingerprint"
	"github.com/artlens/artlens/internal/metrics"
)

// fingerprintKeyPrefix namespaces extraction results inside the store.
const fingerprintKeyPrefix = "fp:"

// ExtractionCache memoizes fingerprint extraction keyed by the SHA-256 of
// the image bytes, so re-uploading identical bytes (catalogue re-imports,
// reindex runs) skips the decode and hash pipeline. Keys are content
// digests, so entries never go stale and carry no TTL.
//
// The cache is strictly best-effort: callers treat every error as a miss
// and fall back to extraction.
type ExtractionCache struct {
	db *badger.DB
}

// NewExtractionCache opens the BadgerDB at cfg.Path, or a non-persistent
// in-memory instance when cfg.InMemory is set.
func NewExtractionCache(cfg config.FingerprintCacheConfig) (*ExtractionCache, error) {
	var opts badger.Options
	if cfg.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		opts = badger.DefaultOptions(cfg.Path)
	}
	opts.Logger = nil // Suppress BadgerDB logs

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open fingerprint cache: %w", err)
	}
	return &ExtractionCache{db: db}, nil
}

// Close flushes and closes the underlying store.
func (c *ExtractionCache) Close() error {
	return c.db.Close()
}

// cacheKey derives the storage key for one image payload.
func cacheKey(image []byte) []byte {
	digest := sha256.Sum256(image)
	return []byte(fingerprintKeyPrefix + hex.EncodeToString(digest[:]))
}

// Lookup returns the cached fingerprint for the exact image bytes, or
// (nil, nil) when these bytes were never fingerprinted.
func (c *ExtractionCache) Lookup(image []byte) (*fingerprint.Fingerprint, error) {
	var fp fingerprint.Fingerprint

	err := c.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(cacheKey(image))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &fp)
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		metrics.RecordFingerprintCache(false)
		return nil, nil
	}
	if err != nil {
		metrics.RecordFingerprintCache(false)
		return nil, fmt.Errorf("fingerprint cache lookup: %w", err)
	}

	metrics.RecordFingerprintCache(true)
	return &fp, nil
}

// Store caches the extraction result for the image bytes.
func (c *ExtractionCache) Store(image []byte, fp *fingerprint.Fingerprint) error {
	data, err := json.Marshal(fp)
	if err != nil {
		return fmt.Errorf("encode fingerprint: %w", err)
	}

	err = c.db.Update(func(txn *badger.Txn) error {
		return txn.Set(cacheKey(image), data)
	})
	if err != nil {
		return fmt.Errorf("fingerprint cache store: %w", err)
	}
	return nil
}
