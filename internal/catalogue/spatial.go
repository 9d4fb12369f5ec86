// ArtLens - Museum Artwork Recognition and Visitor Analytics
// Copyright 2026 ArtLens Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/artlens/artlens

package catalogue

import (
	"fmt"
	"math"

	"github.com/dhconnelly/rtreego"
	"github.com/google/uuid"

	"github.com/artlens/artlens/internal/geo"
)

const (
	rtreeDimensions  = 2
	rtreeMinChildren = 25
	rtreeMaxChildren = 50

	// nearestFallbackCount bounds the shortlist handed to the resolver when
	// no geofence box covers the visitor. The resolver measures the exact
	// distance to each, so a few neighbors are enough for a truthful
	// "nearest artwork is N meters away" message.
	nearestFallbackCount = 3

	// probePadding turns a visitor position into a degenerate query box.
	// Two nanodegrees of side length is far below GPS resolution.
	probePadding = 1e-9

	earthRadiusKm = 6371.0

	// minCosLat caps the longitude widening of geofence boxes near the
	// poles, where cos(latitude) approaches zero.
	minCosLat = 0.01
)

// geoEntry is one piece of an artwork's geofence bounding box in the
// R-tree. Boxes are indexed instead of points so each artwork's own radius
// decides whether a visitor position is shortlisted against it. A geofence
// touching the ±180° meridian is stored as two pieces, one on each side of
// the seam, sharing the artwork id.
type geoEntry struct {
	id   uuid.UUID
	rect *rtreego.Rect
}

func (e *geoEntry) Bounds() *rtreego.Rect {
	return e.rect
}

// spatialIndex shortlists on-display artworks by visitor position. It is
// not safe for concurrent use; Service serializes access.
type spatialIndex struct {
	tree  *rtreego.Rtree
	items map[uuid.UUID][]*geoEntry
}

func newSpatialIndex() *spatialIndex {
	return &spatialIndex{
		tree:  rtreego.NewTree(rtreeDimensions, rtreeMinChildren, rtreeMaxChildren),
		items: make(map[uuid.UUID][]*geoEntry),
	}
}

// insert indexes the artwork's geofence box, replacing any previous box
// for the same artwork.
func (x *spatialIndex) insert(id uuid.UUID, lat, lon, radiusMeters float64) error {
	rects, err := geofenceRects(lat, lon, radiusMeters)
	if err != nil {
		return err
	}

	x.remove(id)
	entries := make([]*geoEntry, 0, len(rects))
	for _, rect := range rects {
		e := &geoEntry{id: id, rect: rect}
		x.tree.Insert(e)
		entries = append(entries, e)
	}
	x.items[id] = entries
	return nil
}

func (x *spatialIndex) remove(id uuid.UUID) {
	for _, e := range x.items[id] {
		x.tree.Delete(e)
	}
	delete(x.items, id)
}

// containing returns the artworks whose geofence box covers the position.
func (x *spatialIndex) containing(p geo.Coordinate) []uuid.UUID {
	probe := rtreego.Point{p.Latitude, p.Longitude}.ToRect(probePadding)
	return x.collect(x.tree.SearchIntersect(probe))
}

// nearest returns up to k artworks whose geofence boxes are closest to the
// position, nearest first. Twice k neighbors are fetched so that a
// seam-split geofence occupying two of the slots cannot crowd out a
// distinct artwork.
func (x *spatialIndex) nearest(p geo.Coordinate, k int) []uuid.UUID {
	if len(x.items) == 0 || k <= 0 {
		return nil
	}
	ids := x.collect(x.tree.NearestNeighbors(2*k, rtreego.Point{p.Latitude, p.Longitude}))
	if len(ids) > k {
		ids = ids[:k]
	}
	return ids
}

// collect maps R-tree hits back to artwork ids, dropping the duplicate when
// both pieces of a seam-split geofence are hit.
func (x *spatialIndex) collect(hits []rtreego.Spatial) []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(hits))
	seen := make(map[uuid.UUID]struct{}, len(hits))
	for _, h := range hits {
		e, ok := h.(*geoEntry)
		if !ok {
			continue
		}
		if _, dup := seen[e.id]; dup {
			continue
		}
		seen[e.id] = struct{}{}
		ids = append(ids, e.id)
	}
	return ids
}

func (x *spatialIndex) size() int {
	return len(x.items)
}

// geofenceRects converts a geofence circle into lat/lon boxes that fully
// contain it. One meter of latitude is a fixed angle everywhere, but one
// meter of longitude spans 1/cos(latitude) more degrees away from the
// equator, so the box widens with latitude. Too-wide is harmless (the
// resolver measures exactly); too-narrow would drop reachable artworks.
//
// A box that spills past ±180° is split at the antimeridian into one piece
// per side, so a visitor just across the seam still shortlists the artwork.
func geofenceRects(lat, lon, radiusMeters float64) ([]*rtreego.Rect, error) {
	if math.IsNaN(radiusMeters) || math.IsInf(radiusMeters, 0) || radiusMeters <= 0 {
		return nil, fmt.Errorf("geofence radius must be positive and finite, got %v", radiusMeters)
	}

	latDeg := (radiusMeters / 1000.0 / earthRadiusKm) * (180.0 / math.Pi)
	cosLat := math.Cos(lat * math.Pi / 180.0)
	if cosLat < minCosLat {
		cosLat = minCosLat
	}
	lonDeg := latDeg / cosLat

	latMin := lat - latDeg
	latLen := 2 * latDeg
	lonMin, lonMax := lon-lonDeg, lon+lonDeg

	span := func(lo, hi float64) (*rtreego.Rect, error) {
		return rtreego.NewRect(rtreego.Point{latMin, lo}, []float64{latLen, hi - lo})
	}

	switch {
	case lonMax-lonMin >= 360:
		// The widened box circles the globe; a full longitude band covers it.
		full, err := span(-180, 180)
		if err != nil {
			return nil, err
		}
		return []*rtreego.Rect{full}, nil

	case lonMin < -180:
		east, err := span(-180, lonMax)
		if err != nil {
			return nil, err
		}
		west, err := span(lonMin+360, 180)
		if err != nil {
			return nil, err
		}
		return []*rtreego.Rect{east, west}, nil

	case lonMax > 180:
		west, err := span(lonMin, 180)
		if err != nil {
			return nil, err
		}
		east, err := span(-180, lonMax-360)
		if err != nil {
			return nil, err
		}
		return []*rtreego.Rect{west, east}, nil

	default:
		box, err := span(lonMin, lonMax)
		if err != nil {
			return nil, err
		}
		return []*rtreego.Rect{box}, nil
	}
}
