package store

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/quakemap/quakemap-cli/internal/db"
	"github.com/quakemap/quakemap-cli/internal/model"
)

// PostgresStore implements Store using pgxpool.
type PostgresStore struct {
	pool    db.Pool
	closeFn func()
}

// PoolConfig holds optional connection pool tuning parameters.
type PoolConfig struct {
	MaxConns int32 `yaml:"max_conns" mapstructure:"max_conns"`
	MinConns int32 `yaml:"min_conns" mapstructure:"min_conns"`
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string, poolCfg *PoolConfig) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}

	maxConns := int32(10)
	minConns := int32(2)
	if poolCfg != nil {
		if poolCfg.MaxConns > 0 {
			maxConns = poolCfg.MaxConns
		}
		if poolCfg.MinConns > 0 {
			minConns = poolCfg.MinConns
		}
	}
	pgxCfg.MaxConns = maxConns
	pgxCfg.MinConns = minConns
	pgxCfg.MaxConnLifetime = 30 * time.Minute
	pgxCfg.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return &PostgresStore{pool: pool, closeFn: pool.Close}, nil
}

// NewPostgresFromPool wraps an existing pool, used by tests with pgxmock.
func NewPostgresFromPool(pool db.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS enrichment_runs (
	id         TEXT PRIMARY KEY DEFAULT gen_random_uuid()::text,
	note       TEXT,
	events     INTEGER NOT NULL DEFAULT 0,
	started_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS enriched_events (
	run_id                      TEXT NOT NULL REFERENCES enrichment_runs(id),
	event_id                    TEXT NOT NULL,
	lat                         DOUBLE PRECISION,
	lon                         DOUBLE PRECISION,
	magnitude                   DOUBLE PRECISION,
	year                        INTEGER,
	airports_within_100km       INTEGER NOT NULL,
	ports_within_100km          INTEGER NOT NULL,
	power_plants_within_100km   INTEGER NOT NULL,
	nuclear_plants_within_100km INTEGER NOT NULL,
	PRIMARY KEY (run_id, event_id)
);

CREATE INDEX IF NOT EXISTS idx_enriched_events_year ON enriched_events(year);
CREATE INDEX IF NOT EXISTS idx_enriched_events_run ON enriched_events(run_id);
`

var enrichedColumns = []string{
	"run_id", "event_id", "lat", "lon", "magnitude", "year",
	"airports_within_100km", "ports_within_100km",
	"power_plants_within_100km", "nuclear_plants_within_100km",
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, "SELECT 1")
	return eris.Wrap(err, "postgres: ping")
}

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	if s.closeFn != nil {
		s.closeFn()
	}
	return nil
}

func (s *PostgresStore) CreateRun(ctx context.Context, note string, events int) (*model.EnrichmentRun, error) {
	id := uuid.New().String()
	now := time.Now().UTC()

	_, err := s.pool.Exec(ctx,
		`INSERT INTO enrichment_runs (id, note, events, started_at) VALUES ($1, $2, $3, $4)`,
		id, note, events, now,
	)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: insert run")
	}

	return &model.EnrichmentRun{ID: id, Note: note, Events: events, StartedAt: now}, nil
}

func (s *PostgresStore) ListRuns(ctx context.Context, limit int) ([]model.EnrichmentRun, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := s.pool.Query(ctx,
		`SELECT id, note, events, started_at FROM enrichment_runs ORDER BY started_at DESC LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list runs")
	}
	defer rows.Close()

	var runs []model.EnrichmentRun
	for rows.Next() {
		var r model.EnrichmentRun
		if err := rows.Scan(&r.ID, &r.Note, &r.Events, &r.StartedAt); err != nil {
			return nil, eris.Wrap(err, "postgres: scan run")
		}
		runs = append(runs, r)
	}
	return runs, eris.Wrap(rows.Err(), "postgres: list runs iterate")
}

// InsertEnriched bulk-inserts via COPY; one round trip per batch.
func (s *PostgresStore) InsertEnriched(ctx context.Context, runID string, events []model.EnrichedEvent) (int64, error) {
	if len(events) == 0 {
		return 0, nil
	}

	rows := make([][]any, 0, len(events))
	for _, e := range events {
		rows = append(rows, []any{
			runID, e.ID,
			nullFloat(e.Point.Lat), nullFloat(e.Point.Lon),
			nullFloat(e.Magnitude), nullYear(e.Year),
			e.AirportsWithin100Km, e.PortsWithin100Km,
			e.PowerPlantsWithin100Km, e.NuclearPlantsWithin100Km,
		})
	}

	return db.CopyFrom(ctx, s.pool, "enriched_events", enrichedColumns, rows)
}

func (s *PostgresStore) ListEnriched(ctx context.Context, filter EventFilter) ([]model.EnrichedEvent, error) {
	query := `SELECT event_id, lat, lon, magnitude, year,
	                 airports_within_100km, ports_within_100km,
	                 power_plants_within_100km, nuclear_plants_within_100km
	          FROM enriched_events WHERE true`
	args := []any{}
	argIdx := 1

	if filter.RunID != "" {
		query += fmt.Sprintf(` AND run_id = $%d`, argIdx)
		args = append(args, filter.RunID)
		argIdx++
	}
	if filter.Year > 0 {
		query += fmt.Sprintf(` AND year = $%d`, argIdx)
		args = append(args, filter.Year)
		argIdx++
	}
	query += ` ORDER BY event_id`

	limit := filter.Limit
	if limit <= 0 {
		limit = 10000
	}
	query += fmt.Sprintf(` LIMIT $%d`, argIdx)
	args = append(args, limit)

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list enriched")
	}
	defer rows.Close()

	var events []model.EnrichedEvent
	for rows.Next() {
		var e model.EnrichedEvent
		var lat, lon, mag *float64
		var year *int

		if err := rows.Scan(&e.ID, &lat, &lon, &mag, &year,
			&e.AirportsWithin100Km, &e.PortsWithin100Km,
			&e.PowerPlantsWithin100Km, &e.NuclearPlantsWithin100Km,
		); err != nil {
			return nil, eris.Wrap(err, "postgres: scan enriched event")
		}

		e.Point = model.Point{Lat: deref(lat), Lon: deref(lon)}
		e.Magnitude = deref(mag)
		if year != nil {
			e.Year = *year
		}
		events = append(events, e)
	}
	return events, eris.Wrap(rows.Err(), "postgres: list enriched iterate")
}

func deref(v *float64) float64 {
	if v == nil {
		return math.NaN()
	}
	return *v
}
