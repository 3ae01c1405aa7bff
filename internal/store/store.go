// Package store persists enrichment runs and their derived events. Derived
// values live in their own tables; raw inputs are never written back.
package store

import (
	"context"
	"math"

	"github.com/rotisserie/eris"

	"github.com/quakemap/quakemap-cli/internal/model"
)

// EventFilter specifies criteria for listing enriched events.
type EventFilter struct {
	RunID string `json:"run_id,omitempty"`
	Year  int    `json:"year,omitempty"` // 0 = all years
	Limit int    `json:"limit,omitempty"`
}

// Store defines the persistence interface for the enrichment pipeline.
type Store interface {
	// Runs
	CreateRun(ctx context.Context, note string, events int) (*model.EnrichmentRun, error)
	ListRuns(ctx context.Context, limit int) ([]model.EnrichmentRun, error)

	// Enriched events
	InsertEnriched(ctx context.Context, runID string, events []model.EnrichedEvent) (int64, error)
	ListEnriched(ctx context.Context, filter EventFilter) ([]model.EnrichedEvent, error)

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}

// Open creates a Store for the configured driver.
func Open(ctx context.Context, driver, dsn string) (Store, error) {
	switch driver {
	case "sqlite", "":
		return NewSQLite(dsn)
	case "postgres":
		return NewPostgres(ctx, dsn, nil)
	default:
		return nil, eris.Errorf("store: unknown driver %q", driver)
	}
}

// nullFloat maps non-finite values to SQL NULL. Absent magnitudes and
// coordinates round-trip as NULL, never as zero.
func nullFloat(v float64) any {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return v
}

// nullYear maps the zero "absent" year to SQL NULL.
func nullYear(y int) any {
	if y <= 0 {
		return nil
	}
	return y
}
