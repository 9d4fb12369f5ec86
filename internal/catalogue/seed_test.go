// ArtLens - Museum Artwork Recognition and Visitor Analytics
// Copyright 2026 ArtLens Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/artlens/artlens

package catalogue

import (
	"bytes"
	"context"
	"testing"

	"github.com/artlens/artlens/internal/fingerprint"
	"github.com/artlens/artlens/internal/geo"
)

func TestSeed_InsertsSampleCatalogue(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store, nil)
	ctx := context.Background()

	inserted, err := svc.Seed(ctx)
	if err != nil {
		t.Fatalf("Seed: %v", err)
	}
	if inserted != len(seedCatalogue) {
		t.Errorf("inserted = %d, want %d", inserted, len(seedCatalogue))
	}

	artworks, err := store.ListAllArtworks(ctx)
	if err != nil {
		t.Fatalf("ListAllArtworks: %v", err)
	}
	for _, a := range artworks {
		if a.Fingerprint == nil {
			t.Errorf("seeded artwork %q has no fingerprint", a.Title)
		}
		if !a.IsOnDisplay {
			t.Errorf("seeded artwork %q not on display", a.Title)
		}
		if a.GeofenceRadiusM <= 0 {
			t.Errorf("seeded artwork %q has radius %v", a.Title, a.GeofenceRadiusM)
		}
	}

	// The wing is walkable: standing at the first seed's location offers
	// scan candidates straight after seeding.
	at := geo.Coordinate{Latitude: seedCatalogue[0].latitude, Longitude: seedCatalogue[0].longitude}
	if got := svc.CandidatesNear(at); len(got) == 0 {
		t.Error("no candidates at the first seeded location")
	}
}

func TestSeed_Idempotent(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store, nil)
	ctx := context.Background()

	if _, err := svc.Seed(ctx); err != nil {
		t.Fatalf("Seed: %v", err)
	}
	inserted, err := svc.Seed(ctx)
	if err != nil {
		t.Fatalf("second Seed: %v", err)
	}
	if inserted != 0 {
		t.Errorf("second Seed inserted %d, want 0", inserted)
	}
	if store.count() != len(seedCatalogue) {
		t.Errorf("store holds %d artworks, want %d", store.count(), len(seedCatalogue))
	}
}

func TestSeed_SkipsPresentArtworks(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store, nil)
	ctx := context.Background()

	// An operator already catalogued one of the sample pieces by hand.
	manual := testArtwork(seedCatalogue[0].title, 40.0, -73.0)
	manual.Artist = seedCatalogue[0].artist
	if err := store.InsertArtwork(ctx, manual); err != nil {
		t.Fatalf("InsertArtwork: %v", err)
	}

	inserted, err := svc.Seed(ctx)
	if err != nil {
		t.Fatalf("Seed: %v", err)
	}
	if inserted != len(seedCatalogue)-1 {
		t.Errorf("inserted = %d, want %d", inserted, len(seedCatalogue)-1)
	}
}

func TestSeedImage_Deterministic(t *testing.T) {
	p := seedCatalogue[0].pattern

	first, err := seedImage(p)
	if err != nil {
		t.Fatalf("seedImage: %v", err)
	}
	second, err := seedImage(p)
	if err != nil {
		t.Fatalf("seedImage: %v", err)
	}
	if !bytes.Equal(first, second) {
		t.Error("seed image bytes differ between renders")
	}
}

func TestSeedFingerprints_Distinct(t *testing.T) {
	fps := make([]*fingerprint.Fingerprint, len(seedCatalogue))
	for i, seed := range seedCatalogue {
		img, err := seedImage(seed.pattern)
		if err != nil {
			t.Fatalf("seedImage(%s): %v", seed.title, err)
		}
		fp, err := fingerprint.Extract(img)
		if err != nil {
			t.Fatalf("Extract(%s): %v", seed.title, err)
		}
		fps[i] = fp
	}

	for i := range fps {
		if got := fingerprint.Score(fps[i], fps[i]); got != 1.0 {
			t.Errorf("self score for %q = %v, want 1.0", seedCatalogue[i].title, got)
		}
		for j := i + 1; j < len(fps); j++ {
			if fingerprintsEqual(fps[i], fps[j]) {
				t.Errorf("seed fingerprints collide: %q and %q",
					seedCatalogue[i].title, seedCatalogue[j].title)
			}
			if got := fingerprint.Score(fps[i], fps[j]); got >= 1.0 {
				t.Errorf("cross score %q vs %q = %v, want < 1.0",
					seedCatalogue[i].title, seedCatalogue[j].title, got)
			}
		}
	}
}

func TestSeedCatalogue_UniqueIdentities(t *testing.T) {
	seen := make(map[string]bool, len(seedCatalogue))
	for _, seed := range seedCatalogue {
		key := seed.title + "\x00" + seed.artist
		if seen[key] {
			t.Errorf("duplicate seed identity: %s / %s", seed.title, seed.artist)
		}
		seen[key] = true
	}
}
