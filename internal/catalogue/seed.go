// ArtLens - Museum Artwork Recognition and Visitor Analytics
// Copyright 2026 ArtLens Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/artlens/artlens

package catalogue

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"math"

	"github.com/artlens/artlens/internal/logging"
	"github.com/artlens/artlens/internal/models"
)

// seedPattern parameterizes one procedural reference image.
type seedPattern struct {
	rings  float64    // ring wavelength in pixels
	angle  float64    // stripe orientation in radians
	stripe float64    // stripe wavelength in pixels
	tint   [3]float64 // RGB channel weights, 0..1
}

// seedArtwork is one entry of the sample catalogue.
type seedArtwork struct {
	title       string
	artist      string
	description string
	category    string
	year        int // 0 means unknown
	latitude    float64
	longitude   float64
	radius      float64
	pattern     seedPattern
}

// seedCatalogue is a small gallery wing: public-domain pieces placed a few
// dozen meters apart so several geofences are walkable in one demo session.
var seedCatalogue = []seedArtwork{
	{
		title:       "Wheat Field with Cypresses",
		artist:      "Vincent van Gogh",
		description: "Swirling cypresses and clouds over a ripening wheat field, painted at Saint-Remy.",
		category:    "painting",
		year:        1889,
		latitude:    40.7794, longitude: -73.9632, radius: 50,
		pattern: seedPattern{rings: 9, angle: 0.6, stripe: 7, tint: [3]float64{0.95, 0.85, 0.30}},
	},
	{
		title:       "Under the Wave off Kanagawa",
		artist:      "Katsushika Hokusai",
		description: "The great wave crests over boats with Mount Fuji in the distance.",
		category:    "print",
		year:        1831,
		latitude:    40.7797, longitude: -73.9630, radius: 50,
		pattern: seedPattern{rings: 14, angle: 2.1, stripe: 11, tint: [3]float64{0.25, 0.45, 0.90}},
	},
	{
		title:       "Washington Crossing the Delaware",
		artist:      "Emanuel Leutze",
		description: "Monumental canvas of the 1776 river crossing, painted in Dusseldorf.",
		category:    "painting",
		year:        1851,
		latitude:    40.7791, longitude: -73.9635, radius: 60,
		pattern: seedPattern{rings: 6, angle: 1.2, stripe: 16, tint: [3]float64{0.80, 0.70, 0.55}},
	},
	{
		title:       "The Dance Class",
		artist:      "Edgar Degas",
		description: "Ballet students gathered around the master Jules Perrot at rehearsal.",
		category:    "painting",
		year:        1874,
		latitude:    40.7796, longitude: -73.9636, radius: 45,
		pattern: seedPattern{rings: 18, angle: 0.2, stripe: 6, tint: [3]float64{0.90, 0.75, 0.70}},
	},
	{
		title:       "Bridge over a Pond of Water Lilies",
		artist:      "Claude Monet",
		description: "The Japanese footbridge arching over the lily pond at Giverny.",
		category:    "painting",
		year:        1899,
		latitude:    40.7792, longitude: -73.9629, radius: 50,
		pattern: seedPattern{rings: 11, angle: 1.7, stripe: 9, tint: [3]float64{0.35, 0.85, 0.45}},
	},
	{
		title:       "Young Woman with a Water Pitcher",
		artist:      "Johannes Vermeer",
		description: "A quiet domestic scene in Delft morning light.",
		category:    "painting",
		year:        1662,
		latitude:    40.7799, longitude: -73.9633, radius: 40,
		pattern: seedPattern{rings: 8, angle: 2.6, stripe: 13, tint: [3]float64{0.55, 0.65, 0.85}},
	},
	{
		title:       "The Sphinx of Hatshepsut",
		artist:      "Unknown",
		description: "Granite sphinx bearing the face of the female pharaoh, from Deir el-Bahri.",
		category:    "sculpture",
		latitude:    40.7790, longitude: -73.9638, radius: 55,
		pattern: seedPattern{rings: 21, angle: 0.9, stripe: 19, tint: [3]float64{0.75, 0.60, 0.40}},
	},
	{
		title:       "Marble Statue of a Lion",
		artist:      "Unknown",
		description: "Archaic Greek funerary lion carved around 400 B.C.",
		category:    "sculpture",
		latitude:    40.7798, longitude: -73.9627, radius: 55,
		pattern: seedPattern{rings: 16, angle: 1.4, stripe: 5, tint: [3]float64{0.70, 0.70, 0.65}},
	},
}

// Seed inserts the sample catalogue through the regular Create pipeline,
// so every seeded artwork is fingerprinted and indexed like an upload.
// Artworks already present (matched by title and artist) are left alone,
// making repeated seeding a no-op. Returns the number inserted.
func (s *Service) Seed(ctx context.Context) (int, error) {
	existing, err := s.store.ListAllArtworks(ctx)
	if err != nil {
		return 0, fmt.Errorf("seed catalogue: %w", err)
	}
	present := make(map[string]bool, len(existing))
	for _, a := range existing {
		present[a.Title+"\x00"+a.Artist] = true
	}

	inserted := 0
	for _, seed := range seedCatalogue {
		if present[seed.title+"\x00"+seed.artist] {
			continue
		}
		img, err := seedImage(seed.pattern)
		if err != nil {
			return inserted, fmt.Errorf("render seed image for %q: %w", seed.title, err)
		}
		if err := s.Create(ctx, seed.artwork(), img); err != nil {
			return inserted, fmt.Errorf("seed %q: %w", seed.title, err)
		}
		inserted++
	}

	if inserted > 0 {
		logging.Info().Int("inserted", inserted).Msg("Sample catalogue seeded")
	}
	return inserted, nil
}

func (sa seedArtwork) artwork() *models.Artwork {
	a := &models.Artwork{
		Title:           sa.title,
		Artist:          sa.artist,
		Description:     sa.description,
		Category:        sa.category,
		Latitude:        sa.latitude,
		Longitude:       sa.longitude,
		GeofenceRadiusM: sa.radius,
		IsOnDisplay:     true,
	}
	if sa.year != 0 {
		year := sa.year
		a.YearCreated = &year
	}
	return a
}

const seedImageSize = 256

// seedImage renders the deterministic reference image for one seed entry:
// concentric rings mixed with oriented stripes, tinted per artwork. The
// patterns mean nothing; they only have to be stable across runs and
// mutually distinct so seeded fingerprints never collide.
func seedImage(p seedPattern) ([]byte, error) {
	img := image.NewRGBA(image.Rect(0, 0, seedImageSize, seedImageSize))
	for y := 0; y < seedImageSize; y++ {
		for x := 0; x < seedImageSize; x++ {
			cx := float64(x) - seedImageSize/2
			cy := float64(y) - seedImageSize/2
			rings := math.Sin(math.Hypot(cx, cy) / p.rings)
			stripes := math.Sin((cx*math.Cos(p.angle) + cy*math.Sin(p.angle)) / p.stripe)
			v := (rings + stripes + 2) / 4 // 0..1

			img.SetRGBA(x, y, color.RGBA{
				R: uint8(255 * v * p.tint[0]),
				G: uint8(255 * v * p.tint[1]),
				B: uint8(255 * v * p.tint[2]),
				A: 255,
			})
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode seed image: %w", err)
	}
	return buf.Bytes(), nil
}
