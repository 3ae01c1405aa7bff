package proximity

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quakemap/quakemap-cli/internal/model"
)

func testInfra() model.InfrastructureSet {
	return model.InfrastructureSet{
		Airports: []model.InfrastructurePoint{
			{Name: "Haneda", Point: model.Point{Lat: 35.5494, Lon: 139.7798}},
			{Name: "Narita", Point: model.Point{Lat: 35.7720, Lon: 140.3929}},
			{Name: "Heathrow", Point: model.Point{Lat: 51.4700, Lon: -0.4543}},
		},
		Ports: []model.InfrastructurePoint{
			{Name: "Yokohama", Point: model.Point{Lat: 35.4437, Lon: 139.6380}},
		},
		PowerPlants: []model.InfrastructurePoint{
			{Name: "Shinagawa", Point: model.Point{Lat: 35.61, Lon: 139.75}},
			{Name: "No coords", Point: model.Point{Lat: math.NaN(), Lon: math.NaN()}},
		},
		NuclearPlants: []model.InfrastructurePoint{
			{Name: "Hamaoka", Point: model.Point{Lat: 34.6233, Lon: 138.1425}},
		},
	}
}

func TestEnrichCounts(t *testing.T) {
	events := []model.SeismicEvent{
		{ID: "tokyo-quake", Point: model.Point{Lat: 35.6762, Lon: 139.6503}, Magnitude: 6.1, Year: 2021},
	}

	enriched := Enrich(events, testInfra(), DefaultRadiusKm)
	require.Len(t, enriched, 1)

	e := enriched[0]
	assert.Equal(t, 2, e.AirportsWithin100Km, "Haneda and Narita, not Heathrow")
	assert.Equal(t, 1, e.PortsWithin100Km)
	assert.Equal(t, 1, e.PowerPlantsWithin100Km, "plant without coordinates never counted")
	assert.Equal(t, 0, e.NuclearPlantsWithin100Km, "Hamaoka is ~170km out")
	assert.Equal(t, "tokyo-quake", e.ID, "source event carried through unchanged")
}

func TestEnrichIdempotent(t *testing.T) {
	events := []model.SeismicEvent{
		{ID: "a", Point: model.Point{Lat: 35.6762, Lon: 139.6503}},
		{ID: "b", Point: model.Point{Lat: math.NaN(), Lon: math.NaN()}},
	}
	infra := testInfra()

	first := Enrich(events, infra, DefaultRadiusKm)
	second := Enrich(events, infra, DefaultRadiusKm)
	assert.Equal(t, first, second)
}

func TestEnrichEventWithoutCoordinates(t *testing.T) {
	events := []model.SeismicEvent{
		{ID: "nowhere", Point: model.Point{Lat: math.NaN(), Lon: math.NaN()}},
	}

	enriched := Enrich(events, testInfra(), DefaultRadiusKm)
	require.Len(t, enriched, 1, "record participates, it just counts nothing")
	assert.Zero(t, enriched[0].AirportsWithin100Km)
	assert.Zero(t, enriched[0].PortsWithin100Km)
	assert.Zero(t, enriched[0].PowerPlantsWithin100Km)
	assert.Zero(t, enriched[0].NuclearPlantsWithin100Km)
}

func TestEnrichEmptyInputs(t *testing.T) {
	assert.Empty(t, Enrich(nil, testInfra(), DefaultRadiusKm))

	enriched := Enrich([]model.SeismicEvent{{ID: "x", Point: model.Point{Lat: 1, Lon: 1}}}, model.InfrastructureSet{}, DefaultRadiusKm)
	require.Len(t, enriched, 1)
	assert.Zero(t, enriched[0].AirportsWithin100Km)
}
