package proximity

import (
	"go.uber.org/zap"

	"github.com/quakemap/quakemap-cli/internal/model"
)

// Enrich attaches the four infrastructure proximity counts to every seismic
// event using the given radius. Pure and idempotent: re-running on the same
// inputs yields identical counts, and the input events are never mutated.
func Enrich(events []model.SeismicEvent, infra model.InfrastructureSet, radiusKm float64) []model.EnrichedEvent {
	airports := pointsOf(infra.Airports)
	ports := pointsOf(infra.Ports)
	plants := pointsOf(infra.PowerPlants)
	nuclear := pointsOf(infra.NuclearPlants)

	enriched := make([]model.EnrichedEvent, 0, len(events))
	for _, ev := range events {
		enriched = append(enriched, model.EnrichedEvent{
			SeismicEvent:             ev,
			AirportsWithin100Km:      CountWithinRadius(ev.Point, airports, radiusKm),
			PortsWithin100Km:         CountWithinRadius(ev.Point, ports, radiusKm),
			PowerPlantsWithin100Km:   CountWithinRadius(ev.Point, plants, radiusKm),
			NuclearPlantsWithin100Km: CountWithinRadius(ev.Point, nuclear, radiusKm),
		})
	}

	zap.L().Debug("proximity: enriched events",
		zap.Int("events", len(events)),
		zap.Float64("radius_km", radiusKm),
	)

	return enriched
}

func pointsOf(infra []model.InfrastructurePoint) []model.Point {
	pts := make([]model.Point, 0, len(infra))
	for _, ip := range infra {
		pts = append(pts, ip.Point)
	}
	return pts
}
