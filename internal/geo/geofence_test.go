// ArtLens - Museum Artwork Recognition and Visitor Analytics
// Copyright 2026 ArtLens Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/artlens/artlens

package geo

import (
	"errors"
	"math"
	"testing"
)

func TestDistance_Identity(t *testing.T) {
	coords := []Coordinate{
		{Latitude: 0, Longitude: 0},
		{Latitude: 40.7794, Longitude: -73.9632},  // The Met, NYC
		{Latitude: 48.8606, Longitude: 2.3376},    // The Louvre, Paris
		{Latitude: -33.8688, Longitude: 151.2093}, // Sydney
		{Latitude: 89.9, Longitude: 179.9},
	}

	for _, c := range coords {
		if d := Distance(c, c); d != 0 {
			t.Errorf("Distance(%v, %v) = %v, want 0", c, c, d)
		}
	}
}

func TestDistance_Symmetry(t *testing.T) {
	pairs := []struct {
		name string
		a, b Coordinate
	}{
		{
			name: "NYC to London",
			a:    Coordinate{Latitude: 40.7128, Longitude: -74.0060},
			b:    Coordinate{Latitude: 51.5074, Longitude: -0.1278},
		},
		{
			name: "across the equator",
			a:    Coordinate{Latitude: 10.0, Longitude: 20.0},
			b:    Coordinate{Latitude: -10.0, Longitude: -20.0},
		},
		{
			name: "across the antimeridian",
			a:    Coordinate{Latitude: 35.0, Longitude: 179.5},
			b:    Coordinate{Latitude: 35.0, Longitude: -179.5},
		},
	}

	for _, tt := range pairs {
		t.Run(tt.name, func(t *testing.T) {
			ab := Distance(tt.a, tt.b)
			ba := Distance(tt.b, tt.a)
			if ab != ba {
				t.Errorf("Distance not symmetric: a->b = %v, b->a = %v", ab, ba)
			}
		})
	}
}

func TestDistance_KnownValues(t *testing.T) {
	tests := []struct {
		name       string
		a, b       Coordinate
		wantMeters float64
		tolerance  float64 // relative
	}{
		{
			name:       "one millidegree of latitude",
			a:          Coordinate{Latitude: 40.0, Longitude: -73.0},
			b:          Coordinate{Latitude: 40.001, Longitude: -73.0},
			wantMeters: 111.195,
			tolerance:  0.001,
		},
		{
			name:       "NYC to London",
			a:          Coordinate{Latitude: 40.7128, Longitude: -74.0060},
			b:          Coordinate{Latitude: 51.5074, Longitude: -0.1278},
			wantMeters: 5570222,
			tolerance:  0.005,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Distance(tt.a, tt.b)
			if rel := math.Abs(got-tt.wantMeters) / tt.wantMeters; rel > tt.tolerance {
				t.Errorf("Distance = %v m, want %v m (within %.2f%%)", got, tt.wantMeters, tt.tolerance*100)
			}
		})
	}
}

func TestEvaluate_SamePointWithinRadius(t *testing.T) {
	// Visitor standing exactly at the artwork.
	at := Coordinate{Latitude: 40.7794, Longitude: -73.9632}

	ev, err := Evaluate(at, at, 50)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ev.Accessible {
		t.Error("expected accessible at zero distance")
	}
	if ev.DistanceMeters > 0.001 {
		t.Errorf("expected distance ~0, got %v", ev.DistanceMeters)
	}
}

func TestEvaluate_InclusiveBoundary(t *testing.T) {
	a := Coordinate{Latitude: 40.7794, Longitude: -73.9632}
	b := Coordinate{Latitude: 40.7800, Longitude: -73.9632}
	d := Distance(a, b)

	tests := []struct {
		name       string
		radius     float64
		accessible bool
	}{
		{"radius exactly at distance", d, true},
		{"radius just above distance", d + 0.01, true},
		{"radius just below distance", d - 0.01, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ev, err := Evaluate(a, b, tt.radius)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if ev.Accessible != tt.accessible {
				t.Errorf("Accessible = %v, want %v (d=%v, r=%v)", ev.Accessible, tt.accessible, d, tt.radius)
			}
			if ev.DistanceMeters != d {
				t.Errorf("DistanceMeters = %v, want %v", ev.DistanceMeters, d)
			}
		})
	}
}

func TestEvaluate_InvalidInput(t *testing.T) {
	valid := Coordinate{Latitude: 40.7794, Longitude: -73.9632}

	tests := []struct {
		name      string
		user      Coordinate
		target    Coordinate
		radius    float64
		wantField string
	}{
		{
			name:      "user latitude out of range",
			user:      Coordinate{Latitude: 91, Longitude: 0},
			target:    valid,
			radius:    100,
			wantField: "user.latitude",
		},
		{
			name:      "user longitude out of range",
			user:      Coordinate{Latitude: 0, Longitude: -180.5},
			target:    valid,
			radius:    100,
			wantField: "user.longitude",
		},
		{
			name:      "user latitude NaN",
			user:      Coordinate{Latitude: math.NaN(), Longitude: 0},
			target:    valid,
			radius:    100,
			wantField: "user.latitude",
		},
		{
			name:      "target longitude infinite",
			user:      valid,
			target:    Coordinate{Latitude: 0, Longitude: math.Inf(1)},
			radius:    100,
			wantField: "target.longitude",
		},
		{
			name:      "zero radius",
			user:      valid,
			target:    valid,
			radius:    0,
			wantField: "radius_meters",
		},
		{
			name:      "negative radius",
			user:      valid,
			target:    valid,
			radius:    -10,
			wantField: "radius_meters",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Evaluate(tt.user, tt.target, tt.radius)
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			var locErr *InvalidLocationError
			if !errors.As(err, &locErr) {
				t.Fatalf("expected *InvalidLocationError, got %T: %v", err, err)
			}
			if locErr.Field != tt.wantField {
				t.Errorf("Field = %q, want %q", locErr.Field, tt.wantField)
			}
		})
	}
}
