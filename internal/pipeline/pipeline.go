// Package pipeline orchestrates the enrichment batch: parse inputs, attach
// proximity counts, persist, export. Derived data flows through return values
// only; nothing mutates the parsed inputs.
package pipeline

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"io"
	"math"
	"strconv"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/quakemap/quakemap-cli/internal/model"
	"github.com/quakemap/quakemap-cli/internal/proximity"
	"github.com/quakemap/quakemap-cli/internal/store"
)

// Orchestrator runs enrichment batches against a store.
type Orchestrator struct {
	store    store.Store
	radiusKm float64
	log      *zap.Logger
}

// New creates an Orchestrator. A nil store disables persistence; a zero
// radius uses the 100 km default.
func New(st store.Store, radiusKm float64) *Orchestrator {
	if radiusKm <= 0 {
		radiusKm = proximity.DefaultRadiusKm
	}
	return &Orchestrator{
		store:    st,
		radiusKm: radiusKm,
		log:      zap.L().With(zap.String("component", "pipeline")),
	}
}

// Run enriches events with proximity counts and persists the result when a
// store is configured.
func (o *Orchestrator) Run(ctx context.Context, events []model.SeismicEvent, infra model.InfrastructureSet, note string) (*model.EnrichmentRun, []model.EnrichedEvent, error) {
	enriched := proximity.Enrich(events, infra, o.radiusKm)

	if o.store == nil {
		return nil, enriched, nil
	}

	run, err := o.store.CreateRun(ctx, note, len(enriched))
	if err != nil {
		return nil, nil, eris.Wrap(err, "pipeline: create run")
	}

	n, err := o.store.InsertEnriched(ctx, run.ID, enriched)
	if err != nil {
		return nil, nil, eris.Wrapf(err, "pipeline: persist run %s", run.ID)
	}

	o.log.Info("enrichment run persisted",
		zap.String("run_id", run.ID),
		zap.Int64("events", n))

	return run, enriched, nil
}

var exportHeader = []string{
	"id", "lat", "lon", "magnitude", "year",
	"airports_within_100km", "ports_within_100km",
	"power_plants_within_100km", "nuclear_plants_within_100km",
}

func formatFloat(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return ""
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// ExportCSV writes enriched events as CSV. Absent values export as empty
// fields so the round trip preserves "no data".
func ExportCSV(w io.Writer, events []model.EnrichedEvent) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(exportHeader); err != nil {
		return eris.Wrap(err, "pipeline: write csv header")
	}

	for _, e := range events {
		year := ""
		if e.Year > 0 {
			year = strconv.Itoa(e.Year)
		}
		record := []string{
			e.ID,
			formatFloat(e.Point.Lat),
			formatFloat(e.Point.Lon),
			formatFloat(e.Magnitude),
			year,
			strconv.Itoa(e.AirportsWithin100Km),
			strconv.Itoa(e.PortsWithin100Km),
			strconv.Itoa(e.PowerPlantsWithin100Km),
			strconv.Itoa(e.NuclearPlantsWithin100Km),
		}
		if err := cw.Write(record); err != nil {
			return eris.Wrapf(err, "pipeline: write csv row %s", e.ID)
		}
	}

	cw.Flush()
	return eris.Wrap(cw.Error(), "pipeline: flush csv")
}

// ExportedEvent mirrors EnrichedEvent with JSON-safe optional numerics
// (encoding/json rejects NaN).
type ExportedEvent struct {
	ID                       string   `json:"id"`
	Lat                      *float64 `json:"lat"`
	Lon                      *float64 `json:"lon"`
	Magnitude                *float64 `json:"magnitude"`
	Year                     *int     `json:"year"`
	AirportsWithin100Km      int      `json:"airports_within_100km"`
	PortsWithin100Km         int      `json:"ports_within_100km"`
	PowerPlantsWithin100Km   int      `json:"power_plants_within_100km"`
	NuclearPlantsWithin100Km int      `json:"nuclear_plants_within_100km"`
}

func optFloat(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

// Exported converts enriched events into their JSON export form, with absent
// numerics as null.
func Exported(events []model.EnrichedEvent) []ExportedEvent {
	out := make([]ExportedEvent, 0, len(events))
	for _, e := range events {
		ev := ExportedEvent{
			ID:                       e.ID,
			Lat:                      optFloat(e.Point.Lat),
			Lon:                      optFloat(e.Point.Lon),
			Magnitude:                optFloat(e.Magnitude),
			AirportsWithin100Km:      e.AirportsWithin100Km,
			PortsWithin100Km:         e.PortsWithin100Km,
			PowerPlantsWithin100Km:   e.PowerPlantsWithin100Km,
			NuclearPlantsWithin100Km: e.NuclearPlantsWithin100Km,
		}
		if e.Year > 0 {
			y := e.Year
			ev.Year = &y
		}
		out = append(out, ev)
	}
	return out
}

// ExportJSON writes enriched events as a JSON array.
func ExportJSON(w io.Writer, events []model.EnrichedEvent) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return eris.Wrap(enc.Encode(Exported(events)), "pipeline: encode json")
}
