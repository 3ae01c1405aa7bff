package boundary

import (
	"path/filepath"
	"testing"

	"github.com/jonas-p/go-shp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeTestShapefile creates a minimal shapefile with one square polygon and
// a NAME attribute.
func writeTestShapefile(t *testing.T) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "countries.shp")
	w, err := shp.Create(path, shp.POLYGON)
	require.NoError(t, err)

	fields := []shp.Field{shp.StringField("NAME", 64)}
	require.NoError(t, w.SetFields(fields))

	square := &shp.Polygon{
		Box:      shp.Box{MinX: 0, MinY: 0, MaxX: 1, MaxY: 1},
		NumParts: 1,
		Parts:    []int32{0},
		NumPoints: 5,
		Points: []shp.Point{
			{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}, {X: 0, Y: 1}, {X: 0, Y: 0},
		},
	}
	w.Write(square)
	require.NoError(t, w.WriteAttribute(0, 0, "Squareland"))
	w.Close()

	return path
}

func TestLoadShapefile(t *testing.T) {
	path := writeTestShapefile(t)

	features, err := LoadShapefile(path)
	require.NoError(t, err)
	require.Len(t, features, 1)

	f := features[0]
	assert.Equal(t, "Squareland", f.Name)
	require.Equal(t, 1, f.Geometry.NumPolygons())
	assert.Len(t, f.Geometry.Polygon(0).LinearRing(0).Coords(), 5)
}

func TestLoadShapefileMissing(t *testing.T) {
	_, err := LoadShapefile(filepath.Join(t.TempDir(), "nope.shp"))
	assert.Error(t, err)
}

func TestShapeToMultiPolygonDegenerate(t *testing.T) {
	assert.Nil(t, shapeToMultiPolygon(nil))
	assert.Nil(t, shapeToMultiPolygon(&shp.Polygon{}))

	// A two-point "ring" is dropped; with no remaining parts the shape is nil.
	degenerate := &shp.Polygon{
		NumParts:  1,
		Parts:     []int32{0},
		NumPoints: 2,
		Points:    []shp.Point{{X: 0, Y: 0}, {X: 1, Y: 1}},
	}
	assert.Nil(t, shapeToMultiPolygon(degenerate))
}
