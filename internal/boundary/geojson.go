package boundary

import (
	"encoding/json"
	"os"

	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom/encoding/geojson"
	"go.uber.org/zap"
)

// LoadGeoJSON reads a GeoJSON FeatureCollection file and returns its named
// polygon features with normalized geometry.
func LoadGeoJSON(path string) ([]Feature, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "boundary: read geojson %s", path)
	}
	return ParseGeoJSON(data)
}

// ParseGeoJSON parses a GeoJSON FeatureCollection. Per-feature defects (no
// name, non-polygon geometry, invalid after normalization) skip the feature;
// a collection with no usable polygon features at all aborts the load, since
// downstream rendering cannot proceed without boundaries.
func ParseGeoJSON(data []byte) ([]Feature, error) {
	var fc geojson.FeatureCollection
	if err := json.Unmarshal(data, &fc); err != nil {
		return nil, eris.Wrap(err, "boundary: parse geojson")
	}

	var features []Feature
	var skipped int
	for _, f := range fc.Features {
		if f == nil || f.Geometry == nil {
			skipped++
			continue
		}

		name, ok := featureName(f.Properties)
		if !ok {
			skipped++
			continue
		}

		mp := promote(f.Geometry)
		if mp == nil {
			skipped++
			continue
		}

		normalized := finish(name, mp)
		if normalized == nil {
			skipped++
			continue
		}

		features = append(features, Feature{Name: name, Geometry: normalized})
	}

	if len(features) == 0 {
		return nil, eris.New("boundary: no usable polygon features in collection")
	}

	if skipped > 0 {
		zap.L().Debug("boundary: skipped geojson features", zap.Int("skipped", skipped))
	}

	return features, nil
}
