// Package model defines the data records shared across the enrichment pipeline.
package model

import (
	"math"
	"time"
)

// Point is a geographic coordinate in degrees.
type Point struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Finite reports whether both coordinates are finite numbers. Records with
// non-finite coordinates are excluded from all geometry operations but are
// never treated as errors.
func (p Point) Finite() bool {
	return !math.IsNaN(p.Lat) && !math.IsInf(p.Lat, 0) &&
		!math.IsNaN(p.Lon) && !math.IsInf(p.Lon, 0)
}

// SeismicEvent is a single earthquake record. Immutable once parsed.
type SeismicEvent struct {
	ID        string  `json:"id"`
	Point     Point   `json:"point"`
	Magnitude float64 `json:"magnitude"` // NaN when absent
	Year      int     `json:"year"`      // 0 when absent
}

// InfrastructurePoint is a single airport, port, or plant record.
type InfrastructurePoint struct {
	Name     string  `json:"name"`
	Point    Point   `json:"point"`
	Capacity float64 `json:"capacity,omitempty"` // MW for plants, NaN when absent
}

// InfrastructureSet groups the four infrastructure classes counted around
// each seismic event.
type InfrastructureSet struct {
	Airports      []InfrastructurePoint
	Ports         []InfrastructurePoint
	PowerPlants   []InfrastructurePoint
	NuclearPlants []InfrastructurePoint
}

// EnrichedEvent is a seismic event with per-class proximity counts attached.
// Counts are derived values; the underlying event is never mutated.
type EnrichedEvent struct {
	SeismicEvent
	AirportsWithin100Km      int `json:"airports_within_100km"`
	PortsWithin100Km         int `json:"ports_within_100km"`
	PowerPlantsWithin100Km   int `json:"power_plants_within_100km"`
	NuclearPlantsWithin100Km int `json:"nuclear_plants_within_100km"`
}

// EconomicRecord is one observation of a national economic series.
// Aggregate and per-capita series share the same (country_code, year) key.
type EconomicRecord struct {
	CountryName string  `json:"country_name"`
	CountryCode string  `json:"country_code"`
	Year        int     `json:"year"`
	Value       float64 `json:"value"` // NaN when absent
}

// HasValue reports whether the observation carries a usable value.
func (r EconomicRecord) HasValue() bool {
	return !math.IsNaN(r.Value) && !math.IsInf(r.Value, 0)
}

// FeatureStyle is the style contract handed to the map renderer for one
// boundary feature.
type FeatureStyle struct {
	FillColor    string  `json:"fillColor"`
	FillOpacity  float64 `json:"fillOpacity"`
	StrokeColor  string  `json:"strokeColor"`
	StrokeWeight float64 `json:"strokeWeight"`
}

// EnrichmentRun records one batch enrichment execution.
type EnrichmentRun struct {
	ID        string    `json:"id"`
	Note      string    `json:"note"`
	Events    int       `json:"events"`
	StartedAt time.Time `json:"started_at"`
}
