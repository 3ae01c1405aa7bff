// Package proximity computes great-circle distances and per-event
// infrastructure counts for seismic events.
package proximity

import (
	"math"

	"github.com/quakemap/quakemap-cli/internal/model"
)

// EarthRadiusKm is the fixed spherical Earth radius used by all distance
// calculations.
const EarthRadiusKm = 6371.0

// DefaultRadiusKm is the infrastructure search radius attached to every
// seismic event.
const DefaultRadiusKm = 100.0

// Haversine returns the great-circle distance between two points in
// kilometers. Either point having a non-finite coordinate yields +Inf, so
// records with missing coordinates drop out of radius counts without
// special-casing.
func Haversine(a, b model.Point) float64 {
	if !a.Finite() || !b.Finite() {
		return math.Inf(1)
	}

	lat1 := a.Lat * math.Pi / 180
	lat2 := b.Lat * math.Pi / 180
	dLat := (b.Lat - a.Lat) * math.Pi / 180
	dLon := (b.Lon - a.Lon) * math.Pi / 180

	sinLat := math.Sin(dLat / 2)
	sinLon := math.Sin(dLon / 2)
	h := sinLat*sinLat + math.Cos(lat1)*math.Cos(lat2)*sinLon*sinLon

	return 2 * EarthRadiusKm * math.Asin(math.Min(1, math.Sqrt(h)))
}

// CountWithinRadius returns how many of the given points lie within radiusKm
// of origin. O(len(points)); no spatial index, which is fine at the dataset
// scale this tool targets (<=10^4 points per class).
func CountWithinRadius(origin model.Point, points []model.Point, radiusKm float64) int {
	n := 0
	for _, p := range points {
		if Haversine(origin, p) <= radiusKm {
			n++
		}
	}
	return n
}
