// Package geo holds the small amount of geographic math the path editor
// needs: positions, great-circle distance, the visual midpoint of a segment
// and the conversion of a ground distance into on-screen pixels.
//
// Everything here is pure and stateless.
package geo

import (
	"fmt"
	"math"
)

// Position is a geographic coordinate stored as [lat, lng] in degrees.
// It marshals to a two-element JSON array, the shape used by snapshots.
type Position [2]float64

// LatLng builds a Position.
func LatLng(lat, lng float64) Position {
	return Position{lat, lng}
}

// Lat returns the latitude in degrees.
func (p Position) Lat() float64 { return p[0] }

// Lng returns the longitude in degrees.
func (p Position) Lng() float64 { return p[1] }

// Validate reports whether p is a finite coordinate inside the usual ranges.
func (p Position) Validate() error {
	lat, lng := p.Lat(), p.Lng()
	if math.IsNaN(lat) || math.IsNaN(lng) || math.IsInf(lat, 0) || math.IsInf(lng, 0) {
		return fmt.Errorf("position %v is not finite", p)
	}
	if lat < -90 || lat > 90 {
		return fmt.Errorf("latitude %f out of range [-90, 90]", lat)
	}
	if lng < -180 || lng > 180 {
		return fmt.Errorf("longitude %f out of range [-180, 180]", lng)
	}
	return nil
}

func (p Position) String() string {
	return fmt.Sprintf("[%.6f, %.6f]", p.Lat(), p.Lng())
}
