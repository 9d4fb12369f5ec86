// ArtLens - Museum Artwork Recognition and Visitor Analytics
// Copyright 2026 ArtLens Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/artlens/artlens

package geo

import "fmt"

// Proximity message tier boundaries in meters. The tiers are part of the
// client contract; existing mobile clients pattern-match on these templates,
// so the boundaries and wording are fixed.
const (
	tierVeryCloseMeters = 50
	tierNearbyMeters    = 100
	tierHeadingMeters   = 500
	tierNavigateMeters  = 1000
)

// ProximityMessage returns the visitor-facing hint for a measured distance
// against a target radius. A distance within the radius (inclusive) is the
// "within range" tier; beyond it the message escalates with distance.
func ProximityMessage(distanceMeters, radiusMeters float64) string {
	switch {
	case distanceMeters <= radiusMeters:
		return "You are within range of this artwork."
	case distanceMeters < tierVeryCloseMeters:
		return "You're very close! Look around."
	case distanceMeters < tierNearbyMeters:
		return "You're nearby. Walk a bit closer."
	case distanceMeters < tierHeadingMeters:
		return fmt.Sprintf("You're %dm away. Head to the artwork.", int(distanceMeters))
	case distanceMeters < tierNavigateMeters:
		return fmt.Sprintf("You're %dm away. Navigate to the museum.", int(distanceMeters))
	default:
		return fmt.Sprintf("You're %.1fkm away. Visit the museum to scan artworks.", distanceMeters/1000.0)
	}
}
