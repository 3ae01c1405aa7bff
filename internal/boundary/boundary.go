// Package boundary loads country boundary features from GeoJSON and
// shapefiles, normalizing geometry once at load time.
package boundary

import (
	"github.com/twpayne/go-geom"
	"go.uber.org/zap"

	"github.com/quakemap/quakemap-cli/internal/antimeridian"
)

// Feature is one named country boundary. Geometry is always a MultiPolygon
// with normalized longitudes; single polygons are promoted on load.
type Feature struct {
	Name     string
	Geometry *geom.MultiPolygon
}

// nameKeys lists the property keys tried, in priority order, when extracting
// a feature's country name.
var nameKeys = []string{"name", "NAME", "NAME_LONG", "NAME_EN", "ADMIN"}

// featureName extracts the country name from a properties bag. Empty-string
// values are treated as missing.
func featureName(props map[string]any) (string, bool) {
	for _, key := range nameKeys {
		if v, ok := props[key]; ok {
			if s, ok := v.(string); ok && s != "" {
				return s, true
			}
		}
	}
	return "", false
}

// promote converts a Polygon or MultiPolygon geometry to a MultiPolygon.
// Other geometry types return nil.
func promote(g geom.T) *geom.MultiPolygon {
	switch t := g.(type) {
	case *geom.MultiPolygon:
		return t
	case *geom.Polygon:
		mp := geom.NewMultiPolygon(geom.XY)
		if _, err := mp.SetCoords([][][]geom.Coord{t.Coords()}); err != nil {
			return nil
		}
		return mp
	default:
		return nil
	}
}

// finish normalizes a multipolygon and validates the result. Returns nil for
// features that must be excluded from rendering.
func finish(name string, mp *geom.MultiPolygon) *geom.MultiPolygon {
	normalized, err := antimeridian.NormalizeMultiPolygon(mp)
	if err != nil {
		zap.L().Debug("boundary: skipping malformed geometry", zap.String("name", name), zap.Error(err))
		return nil
	}
	if !antimeridian.Valid(normalized) {
		zap.L().Debug("boundary: excluding invalid geometry after normalization", zap.String("name", name))
		return nil
	}
	return normalized
}
