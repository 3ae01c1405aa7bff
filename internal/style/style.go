// Package style turns boundary features plus an economic series into the
// per-feature choropleth styles the map renderer consumes.
package style

import (
	"go.uber.org/zap"

	"github.com/quakemap/quakemap-cli/internal/boundary"
	"github.com/quakemap/quakemap-cli/internal/country"
	"github.com/quakemap/quakemap-cli/internal/model"
	"github.com/quakemap/quakemap-cli/internal/rank"
)

// Options configures the non-derived parts of the style output.
type Options struct {
	FillOpacityData   float64 // used when the feature has a value for the year
	FillOpacityNoData float64 // signals "no data" visually without omitting the polygon
	StrokeColor       string
	StrokeWeight      float64
}

// DefaultOptions returns the renderer's tuned defaults.
func DefaultOptions() Options {
	return Options{
		FillOpacityData:   0.7,
		FillOpacityNoData: 0.15,
		StrokeColor:       "#555555",
		StrokeWeight:      0.6,
	}
}

// Assignment pairs a boundary feature with its computed style.
type Assignment struct {
	Name    string             `json:"name"`
	Code    string             `json:"code,omitempty"`
	Value   float64            `json:"value,omitempty"`
	HasData bool               `json:"has_data"`
	Style   model.FeatureStyle `json:"style"`
}

// Layer computes the choropleth style for every feature at the given year.
// Rank is relative to that year's cross-section only, so a year change means
// calling Layer again; boundary normalization and event enrichment never
// rerun. All intermediate state (alias table, rank table) is local — nothing
// ambient survives the call.
func Layer(features []boundary.Feature, econ []model.EconomicRecord, year int, aliases map[string]string, opts Options) []Assignment {
	table := country.NewTable(econ, aliases)

	valueByCode := make(map[string]float64)
	values := make([]float64, 0, len(econ))
	for _, rec := range econ {
		if rec.Year != year || !rec.HasValue() || rec.CountryCode == "" {
			continue
		}
		if _, seen := valueByCode[rec.CountryCode]; seen {
			continue
		}
		valueByCode[rec.CountryCode] = rec.Value
		values = append(values, rec.Value)
	}
	ranks := rank.Build(values)

	assignments := make([]Assignment, 0, len(features))
	var withData int
	for _, f := range features {
		a := Assignment{Name: f.Name}

		code, resolved := table.Resolve(f.Name)
		if resolved {
			a.Code = code
		}

		value, found := valueByCode[code]
		if resolved && found {
			a.Value = value
			a.HasData = true
			withData++
		}

		r, rOK := ranks.Rank(value)
		color := rank.ColorFor(r, a.HasData && rOK)

		opacity := opts.FillOpacityNoData
		if a.HasData {
			opacity = opts.FillOpacityData
		}

		a.Style = model.FeatureStyle{
			FillColor:    color.Hex(),
			FillOpacity:  opacity,
			StrokeColor:  opts.StrokeColor,
			StrokeWeight: opts.StrokeWeight,
		}
		assignments = append(assignments, a)
	}

	zap.L().Debug("style: layer computed",
		zap.Int("year", year),
		zap.Int("features", len(features)),
		zap.Int("with_data", withData),
	)

	return assignments
}
