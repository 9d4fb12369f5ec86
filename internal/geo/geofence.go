// ArtLens - Museum Artwork Recognition and Visitor Analytics
// Copyright 2026 ArtLens Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/artlens/artlens

package geo

import (
	"fmt"
	"math"
)

// earthRadiusKm is the mean Earth radius used by the great-circle formula.
const earthRadiusKm = 6371.0

// Coordinate is a WGS84 position in decimal degrees.
type Coordinate struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Validate checks the coordinate ranges. The field prefix is prepended to
// the offending component in the returned *InvalidLocationError (e.g.
// "user" yields "user.latitude").
func (c Coordinate) Validate(prefix string) error {
	if math.IsNaN(c.Latitude) || math.IsInf(c.Latitude, 0) {
		return invalidLocation(prefix+".latitude", "is not a finite number")
	}
	if math.IsNaN(c.Longitude) || math.IsInf(c.Longitude, 0) {
		return invalidLocation(prefix+".longitude", "is not a finite number")
	}
	if c.Latitude < -90 || c.Latitude > 90 {
		return invalidLocation(prefix+".latitude", fmt.Sprintf("must be within [-90, 90], got %g", c.Latitude))
	}
	if c.Longitude < -180 || c.Longitude > 180 {
		return invalidLocation(prefix+".longitude", fmt.Sprintf("must be within [-180, 180], got %g", c.Longitude))
	}
	return nil
}

// Target is one scannable artwork's reachability zone.
type Target struct {
	ID           string
	Location     Coordinate
	RadiusMeters float64
}

// Evaluation is the outcome of a geofence check.
type Evaluation struct {
	Accessible     bool    `json:"accessible"`
	DistanceMeters float64 `json:"distance_meters"`
}

// Distance returns the great-circle distance between two coordinates in
// meters, using the haversine formula on the mean-Earth-radius sphere.
// Inputs are assumed valid; use Evaluate for checked evaluation.
func Distance(a, b Coordinate) float64 {
	lat1Rad := a.Latitude * math.Pi / 180.0
	lon1Rad := a.Longitude * math.Pi / 180.0
	lat2Rad := b.Latitude * math.Pi / 180.0
	lon2Rad := b.Longitude * math.Pi / 180.0

	dLat := lat2Rad - lat1Rad
	dLon := lon2Rad - lon1Rad

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1Rad)*math.Cos(lat2Rad)*
			math.Sin(dLon/2)*math.Sin(dLon/2)

	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return earthRadiusKm * c * 1000.0
}

// Evaluate decides whether a visitor at user can reach a target at radius
// radiusMeters. The boundary is inclusive: a distance exactly equal to the
// radius is accessible.
//
// Both coordinates and the radius are validated first; a failed validation
// returns a zero Evaluation together with *InvalidLocationError.
func Evaluate(user, target Coordinate, radiusMeters float64) (Evaluation, error) {
	if err := user.Validate("user"); err != nil {
		return Evaluation{}, err
	}
	if err := target.Validate("target"); err != nil {
		return Evaluation{}, err
	}
	if math.IsNaN(radiusMeters) || math.IsInf(radiusMeters, 0) || radiusMeters <= 0 {
		return Evaluation{}, invalidLocation("radius_meters", fmt.Sprintf("must be positive, got %g", radiusMeters))
	}

	d := Distance(user, target)
	return Evaluation{
		Accessible:     d <= radiusMeters,
		DistanceMeters: d,
	}, nil
}
