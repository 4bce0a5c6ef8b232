package geo

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

const (
	// EarthRadius is the mean radius used for great-circle distances, in meters.
	EarthRadius = 6371000.0

	// EarthCircumference is the equatorial circumference used for the
	// meters-per-pixel scale, in meters.
	EarthCircumference = 40075017.0

	// mercatorRadius is the sphere radius of the Web-Mercator projection.
	mercatorRadius = 6378137.0
	maxMercatorLat = 85.0511287798
)

// Distance returns the great-circle (haversine) distance between a and b in meters.
func Distance(a, b Position) float64 {
	rad := math.Pi / 180
	lat1 := a.Lat() * rad
	lat2 := b.Lat() * rad
	sinDLat := math.Sin((b.Lat() - a.Lat()) * rad / 2)
	sinDLon := math.Sin((b.Lng() - a.Lng()) * rad / 2)

	h := sinDLat*sinDLat + math.Cos(lat1)*math.Cos(lat2)*sinDLon*sinDLon
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
	return EarthRadius * c
}

// MetersToPixels converts a ground distance at the given latitude into screen
// pixels at the given zoom level of a 256px-tile web map.
func MetersToPixels(meters, latitude, zoom float64) float64 {
	metersPerPixel := EarthCircumference * math.Cos(latitude*math.Pi/180) / math.Pow(2, zoom+8)
	return meters / metersPerPixel
}

// Midpoint returns the point halfway along the straight on-screen line from a
// to b, i.e. the midpoint in Web-Mercator space mapped back to coordinates.
// This is where a map renders the centre of a two-point polyline.
func Midpoint(a, b Position) Position {
	mid := r2.Scale(0.5, r2.Add(project(a), project(b)))
	return unproject(mid)
}

func project(p Position) r2.Vec {
	lat := math.Max(math.Min(p.Lat(), maxMercatorLat), -maxMercatorLat)
	rad := math.Pi / 180
	sin := math.Sin(lat * rad)
	return r2.Vec{
		X: mercatorRadius * p.Lng() * rad,
		Y: mercatorRadius * math.Log((1+sin)/(1-sin)) / 2,
	}
}

func unproject(v r2.Vec) Position {
	deg := 180 / math.Pi
	return Position{
		(2*math.Atan(math.Exp(v.Y/mercatorRadius)) - math.Pi/2) * deg,
		v.X * deg / mercatorRadius,
	}
}
