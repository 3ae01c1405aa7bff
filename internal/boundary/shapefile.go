package boundary

import (
	"strings"

	"github.com/jonas-p/go-shp"
	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
	"go.uber.org/zap"
)

// LoadShapefile reads country boundaries from a shapefile (e.g. Natural Earth
// admin-0) and returns named, normalized polygon features.
func LoadShapefile(path string) ([]Feature, error) {
	reader, err := shp.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "boundary: open shapefile %s", path)
	}
	defer func() { _ = reader.Close() }()

	// Map DBF field names to indices, case-insensitively.
	fieldIdx := make(map[string]int)
	for i, f := range reader.Fields() {
		name := strings.TrimRight(f.String(), "\x00")
		fieldIdx[strings.ToLower(name)] = i
	}

	var features []Feature
	var skipped int
	for reader.Next() {
		_, shape := reader.Shape()

		name, ok := attributeName(reader, fieldIdx)
		if !ok {
			skipped++
			continue
		}

		poly, ok := shape.(*shp.Polygon)
		if !ok {
			skipped++
			continue
		}

		mp := shapeToMultiPolygon(poly)
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
		return nil, eris.Errorf("boundary: no usable polygon features in %s", path)
	}

	if skipped > 0 {
		zap.L().Debug("boundary: skipped shapefile records", zap.Int("skipped", skipped))
	}

	return features, nil
}

// attributeName pulls the country name from the DBF record, trying the same
// keys as GeoJSON properties, in priority order.
func attributeName(reader *shp.Reader, fieldIdx map[string]int) (string, bool) {
	for _, key := range nameKeys {
		idx, ok := fieldIdx[strings.ToLower(key)]
		if !ok {
			continue
		}
		val := strings.TrimSpace(strings.TrimRight(reader.Attribute(idx), "\x00"))
		if val != "" {
			return val, true
		}
	}
	return "", false
}

// shapeToMultiPolygon converts a shapefile polygon (parts are rings) to a
// go-geom MultiPolygon, one single-ring polygon per part.
func shapeToMultiPolygon(p *shp.Polygon) *geom.MultiPolygon {
	if p == nil || p.NumParts == 0 || len(p.Points) == 0 {
		return nil
	}

	coords := make([][][]geom.Coord, 0, p.NumParts)
	for i := int32(0); i < p.NumParts; i++ {
		start := p.Parts[i]
		end := int32(len(p.Points))
		if i+1 < p.NumParts {
			end = p.Parts[i+1]
		}

		ring := make([]geom.Coord, 0, end-start)
		for j := start; j < end; j++ {
			ring = append(ring, geom.Coord{p.Points[j].X, p.Points[j].Y})
		}
		if len(ring) < 4 {
			continue
		}
		coords = append(coords, [][]geom.Coord{ring})
	}
	if len(coords) == 0 {
		return nil
	}

	mp := geom.NewMultiPolygon(geom.XY)
	if _, err := mp.SetCoords(coords); err != nil {
		return nil
	}
	return mp
}
