// Package antimeridian rewrites polygon ring longitudes so that country
// boundaries crossing the ±180° line render without horizontal tearing.
package antimeridian

import (
	"math"

	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
)

// Rings crossing the dateline are detected by having points on both far
// sides of the globe with a raw span wider than a hemisphere.
const (
	westThreshold = -100.0
	eastThreshold = 100.0
	spanThreshold = 180.0
)

// Crosses reports whether a ring crosses the antimeridian: it must have
// longitudes both below -100° and above +100°, and the raw span must exceed
// 180°. Non-finite coordinates are ignored for classification.
func Crosses(ring []geom.Coord) bool {
	minLon := math.Inf(1)
	maxLon := math.Inf(-1)
	hasWest, hasEast := false, false

	for _, c := range ring {
		lon := c[0]
		if math.IsNaN(lon) || math.IsInf(lon, 0) {
			continue
		}
		minLon = math.Min(minLon, lon)
		maxLon = math.Max(maxLon, lon)
		if lon < westThreshold {
			hasWest = true
		}
		if lon > eastThreshold {
			hasEast = true
		}
	}

	return hasWest && hasEast && maxLon-minLon > spanThreshold
}

// NormalizeRing returns a new ring with rewritten longitudes. Crossing rings
// have every negative longitude shifted by +360 and anything still above 180
// clamped to exactly 180. The clamp can visually flatten the crossing edge
// instead of splitting the polygon; the renderer was tuned against exactly
// this behavior, so it is kept as-is. Non-crossing rings are wrapped into
// [-180,180] to absorb floating-point overflow from upstream data. Latitudes
// and ring topology are untouched.
func NormalizeRing(ring []geom.Coord) []geom.Coord {
	out := make([]geom.Coord, len(ring))
	crossing := Crosses(ring)

	for i, c := range ring {
		lon, lat := c[0], c[1]
		if crossing {
			if lon < 0 {
				lon += 360
			}
			if lon > 180 {
				lon = 180
			}
		} else {
			lon = wrapLon(lon)
		}
		out[i] = geom.Coord{lon, lat}
	}

	return out
}

// wrapLon folds a longitude into [-180,180] by repeated ±360 shifts.
// Non-finite input passes through so validation can reject it later.
func wrapLon(lon float64) float64 {
	if math.IsNaN(lon) || math.IsInf(lon, 0) {
		return lon
	}
	for lon > 180 {
		lon -= 360
	}
	for lon < -180 {
		lon += 360
	}
	return lon
}

// NormalizePolygon applies NormalizeRing to every ring of a polygon and
// returns a new polygon.
func NormalizePolygon(p *geom.Polygon) (*geom.Polygon, error) {
	rings := p.Coords()
	normalized := make([][]geom.Coord, len(rings))
	for i, ring := range rings {
		normalized[i] = NormalizeRing(ring)
	}

	out := geom.NewPolygon(geom.XY)
	if _, err := out.SetCoords(normalized); err != nil {
		return nil, eris.Wrap(err, "antimeridian: rebuild polygon")
	}
	return out, nil
}

// NormalizeMultiPolygon applies NormalizeRing to every ring of every member
// polygon and returns a new multipolygon.
func NormalizeMultiPolygon(mp *geom.MultiPolygon) (*geom.MultiPolygon, error) {
	polys := mp.Coords()
	normalized := make([][][]geom.Coord, len(polys))
	for i, rings := range polys {
		normalized[i] = make([][]geom.Coord, len(rings))
		for j, ring := range rings {
			normalized[i][j] = NormalizeRing(ring)
		}
	}

	out := geom.NewMultiPolygon(geom.XY)
	if _, err := out.SetCoords(normalized); err != nil {
		return nil, eris.Wrap(err, "antimeridian: rebuild multipolygon")
	}
	return out, nil
}

// Valid reports whether every coordinate of a normalized multipolygon is
// finite with longitude inside [-180,180]. Features failing this are excluded
// from rendering rather than reported as errors.
func Valid(mp *geom.MultiPolygon) bool {
	coords := mp.FlatCoords()
	for i := 0; i+1 < len(coords); i += 2 {
		lon, lat := coords[i], coords[i+1]
		if math.IsNaN(lon) || math.IsInf(lon, 0) || lon < -180 || lon > 180 {
			return false
		}
		if math.IsNaN(lat) || math.IsInf(lat, 0) {
			return false
		}
	}
	return true
}
