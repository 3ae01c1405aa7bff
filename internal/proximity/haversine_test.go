package proximity

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/quakemap/quakemap-cli/internal/model"
)

var (
	tokyo  = model.Point{Lat: 35.6762, Lon: 139.6503}
	osaka  = model.Point{Lat: 34.6937, Lon: 135.5023}
	london = model.Point{Lat: 51.5074, Lon: -0.1278}
	paris  = model.Point{Lat: 48.8566, Lon: 2.3522}
)

func TestHaversineKnownDistances(t *testing.T) {
	// Reference values from great-circle calculators with R=6371km.
	assert.InDelta(t, 343.5, Haversine(london, paris), 2.0)
	assert.InDelta(t, 397.0, Haversine(tokyo, osaka), 3.0)
}

func TestHaversineSymmetric(t *testing.T) {
	assert.Equal(t, Haversine(london, paris), Haversine(paris, london))
	assert.Equal(t, Haversine(tokyo, osaka), Haversine(osaka, tokyo))
}

func TestHaversineZeroOnSamePoint(t *testing.T) {
	assert.Equal(t, 0.0, Haversine(tokyo, tokyo))
}

func TestHaversineAntipodal(t *testing.T) {
	a := model.Point{Lat: 0, Lon: 0}
	b := model.Point{Lat: 0, Lon: 180}
	assert.InDelta(t, math.Pi*EarthRadiusKm, Haversine(a, b), 0.001)
}

func TestHaversineNonFiniteIsInfinite(t *testing.T) {
	bad := model.Point{Lat: math.NaN(), Lon: 139.65}
	assert.True(t, math.IsInf(Haversine(bad, tokyo), 1))
	assert.True(t, math.IsInf(Haversine(tokyo, bad), 1))
}

func TestCountWithinRadius(t *testing.T) {
	points := []model.Point{
		osaka,                                // ~397km from Tokyo
		{Lat: 35.4437, Lon: 139.6380},        // Yokohama, ~26km
		{Lat: 36.5616, Lon: 139.8835},        // ~99km
		{Lat: math.NaN(), Lon: math.NaN()},   // missing coordinates, never counted
		{Lat: 35.6762, Lon: 139.6503},        // same as origin
	}

	assert.Equal(t, 3, CountWithinRadius(tokyo, points, 100))
	assert.Equal(t, 2, CountWithinRadius(tokyo, points, 50))
	assert.Equal(t, 0, CountWithinRadius(tokyo, points, -1))
}

func TestCountWithinRadiusMonotoneInRadius(t *testing.T) {
	points := []model.Point{osaka, london, paris, {Lat: 35.44, Lon: 139.64}}
	prev := 0
	for _, r := range []float64{0, 10, 100, 500, 1000, 20000} {
		n := CountWithinRadius(tokyo, points, r)
		assert.GreaterOrEqual(t, n, prev, "count must not decrease as radius grows")
		prev = n
	}
}

func TestCountWithinRadiusNonFiniteOrigin(t *testing.T) {
	origin := model.Point{Lat: math.Inf(1), Lon: 0}
	assert.Equal(t, 0, CountWithinRadius(origin, []model.Point{tokyo, osaka}, 1e9))
}
