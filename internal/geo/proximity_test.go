// ArtLens - Museum Artwork Recognition and Visitor Analytics
// Copyright 2026 ArtLens Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/artlens/artlens

package geo

import "testing"

func TestProximityMessage_Tiers(t *testing.T) {
	tests := []struct {
		name     string
		distance float64
		radius   float64
		want     string
	}{
		{
			name:     "inside radius",
			distance: 30,
			radius:   100,
			want:     "You are within range of this artwork.",
		},
		{
			name:     "exactly at radius is within range",
			distance: 100,
			radius:   100,
			want:     "You are within range of this artwork.",
		},
		{
			name:     "large radius beats large distance",
			distance: 1500,
			radius:   2000,
			want:     "You are within range of this artwork.",
		},
		{
			name:     "very close",
			distance: 49.9,
			radius:   25,
			want:     "You're very close! Look around.",
		},
		{
			name:     "fifty meters escalates to nearby",
			distance: 50,
			radius:   25,
			want:     "You're nearby. Walk a bit closer.",
		},
		{
			name:     "nearby upper bound",
			distance: 99.9,
			radius:   25,
			want:     "You're nearby. Walk a bit closer.",
		},
		{
			name:     "head to the artwork",
			distance: 100,
			radius:   25,
			want:     "You're 100m away. Head to the artwork.",
		},
		{
			name:     "mid range",
			distance: 437.2,
			radius:   25,
			want:     "You're 437m away. Head to the artwork.",
		},
		{
			name:     "navigate to the museum",
			distance: 500,
			radius:   25,
			want:     "You're 500m away. Navigate to the museum.",
		},
		{
			name:     "just under a kilometer",
			distance: 999.9,
			radius:   25,
			want:     "You're 999m away. Navigate to the museum.",
		},
		{
			name:     "kilometer formatting",
			distance: 1000,
			radius:   25,
			want:     "You're 1.0km away. Visit the museum to scan artworks.",
		},
		{
			name:     "far away",
			distance: 12345,
			radius:   25,
			want:     "You're 12.3km away. Visit the museum to scan artworks.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ProximityMessage(tt.distance, tt.radius)
			if got != tt.want {
				t.Errorf("ProximityMessage(%v, %v) = %q, want %q", tt.distance, tt.radius, got, tt.want)
			}
		})
	}
}
