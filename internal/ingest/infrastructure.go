package ingest

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/quakemap/quakemap-cli/internal/fetcher"
	"github.com/quakemap/quakemap-cli/internal/model"
)

var (
	infraNameCols     = []string{"name", "name_en", "airport_name", "port_name", "plant_name"}
	infraLatCols      = []string{"latitude", "lat", "latitude_deg", "y"}
	infraLonCols      = []string{"longitude", "lon", "lng", "longitude_deg", "x"}
	infraCapacityCols = []string{"capacity_mw", "capacity", "total_capacity_mw"}
	infraFuelCols     = []string{"primary_fuel", "fuel", "fuel1", "type"}
)

// ReadInfrastructure parses one infrastructure point CSV stream (airports,
// ports, or power plants share the same tolerant column handling).
func ReadInfrastructure(r io.Reader) ([]model.InfrastructurePoint, error) {
	header, rows, err := fetcher.ReadCSV(r, fetcher.CSVOptions{HasHeader: true, TrimSpace: true})
	if err != nil {
		return nil, eris.Wrap(err, "ingest: read infrastructure csv")
	}
	idx := fetcher.ColumnIndex(header)

	points := make([]model.InfrastructurePoint, 0, len(rows))
	for _, row := range rows {
		capacity, _ := model.ParseFloat(firstField(row, idx, infraCapacityCols))
		points = append(points, model.InfrastructurePoint{
			Name: firstField(row, idx, infraNameCols),
			Point: model.ParsePoint(
				firstField(row, idx, infraLatCols),
				firstField(row, idx, infraLonCols),
			),
			Capacity: capacity,
		})
	}

	return points, nil
}

// LoadInfrastructure parses an infrastructure CSV file.
func LoadInfrastructure(path string) ([]model.InfrastructurePoint, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "ingest: open infrastructure file %s", path)
	}
	defer f.Close() //nolint:errcheck

	return ReadInfrastructure(f)
}

// FilterNuclear selects the nuclear-fueled plants from a power plant CSV.
// The global power plant database carries all fuels in one file; nuclear
// plants are counted as their own class.
func FilterNuclear(r io.Reader) ([]model.InfrastructurePoint, error) {
	header, rows, err := fetcher.ReadCSV(r, fetcher.CSVOptions{HasHeader: true, TrimSpace: true})
	if err != nil {
		return nil, eris.Wrap(err, "ingest: read power plant csv")
	}
	idx := fetcher.ColumnIndex(header)

	var points []model.InfrastructurePoint
	for _, row := range rows {
		fuel := strings.ToLower(firstField(row, idx, infraFuelCols))
		if fuel != "nuclear" {
			continue
		}
		capacity, _ := model.ParseFloat(firstField(row, idx, infraCapacityCols))
		points = append(points, model.InfrastructurePoint{
			Name: firstField(row, idx, infraNameCols),
			Point: model.ParsePoint(
				firstField(row, idx, infraLatCols),
				firstField(row, idx, infraLonCols),
			),
			Capacity: capacity,
		})
	}

	return points, nil
}

// LoadInfrastructureSet loads all four infrastructure classes from their
// dataset files under dataDir. The nuclear class is derived from the power
// plant file by fuel.
func LoadInfrastructureSet(dataDir string) (model.InfrastructureSet, error) {
	var set model.InfrastructureSet

	airports, err := LoadInfrastructure(filepath.Join(dataDir, "airports.csv"))
	if err != nil {
		return set, err
	}
	ports, err := LoadInfrastructure(filepath.Join(dataDir, "ports.csv"))
	if err != nil {
		return set, err
	}
	plants, err := LoadInfrastructure(filepath.Join(dataDir, "power_plants.csv"))
	if err != nil {
		return set, err
	}

	f, err := os.Open(filepath.Join(dataDir, "power_plants.csv"))
	if err != nil {
		return set, eris.Wrap(err, "ingest: reopen power plant file")
	}
	defer f.Close() //nolint:errcheck
	nuclear, err := FilterNuclear(f)
	if err != nil {
		return set, err
	}

	set = model.InfrastructureSet{
		Airports:      airports,
		Ports:         ports,
		PowerPlants:   plants,
		NuclearPlants: nuclear,
	}

	zap.L().Info("loaded infrastructure",
		zap.Int("airports", len(set.Airports)),
		zap.Int("ports", len(set.Ports)),
		zap.Int("power_plants", len(set.PowerPlants)),
		zap.Int("nuclear_plants", len(set.NuclearPlants)))

	return set, nil
}
