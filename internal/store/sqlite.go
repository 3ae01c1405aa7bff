package store

import (
	"context"
	"database/sql"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/quakemap/quakemap-cli/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS enrichment_runs (
	id         TEXT PRIMARY KEY,
	note       TEXT,
	events     INTEGER NOT NULL DEFAULT 0,
	started_at DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS enriched_events (
	run_id                      TEXT NOT NULL REFERENCES enrichment_runs(id),
	event_id                    TEXT NOT NULL,
	lat                         REAL,
	lon                         REAL,
	magnitude                   REAL,
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

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) CreateRun(ctx context.Context, note string, events int) (*model.EnrichmentRun, error) {
	id := uuid.New().String()
	now := time.Now().UTC()

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO enrichment_runs (id, note, events, started_at) VALUES (?, ?, ?, ?)`,
		id, note, events, now,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: insert run")
	}

	return &model.EnrichmentRun{ID: id, Note: note, Events: events, StartedAt: now}, nil
}

func (s *SQLiteStore) ListRuns(ctx context.Context, limit int) ([]model.EnrichmentRun, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, note, events, started_at FROM enrichment_runs ORDER BY started_at DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list runs")
	}
	defer rows.Close()

	var runs []model.EnrichmentRun
	for rows.Next() {
		var r model.EnrichmentRun
		if err := rows.Scan(&r.ID, &r.Note, &r.Events, &r.StartedAt); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan run")
		}
		runs = append(runs, r)
	}
	return runs, eris.Wrap(rows.Err(), "sqlite: list runs iterate")
}

func (s *SQLiteStore) InsertEnriched(ctx context.Context, runID string, events []model.EnrichedEvent) (int64, error) {
	if len(events) == 0 {
		return 0, nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, eris.Wrap(err, "sqlite: begin tx")
	}
	defer tx.Rollback() //nolint:errcheck

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO enriched_events
		 (run_id, event_id, lat, lon, magnitude, year,
		  airports_within_100km, ports_within_100km,
		  power_plants_within_100km, nuclear_plants_within_100km)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
	)
	if err != nil {
		return 0, eris.Wrap(err, "sqlite: prepare insert")
	}
	defer stmt.Close() //nolint:errcheck

	var n int64
	for _, e := range events {
		if _, err := stmt.ExecContext(ctx,
			runID, e.ID,
			nullFloat(e.Point.Lat), nullFloat(e.Point.Lon),
			nullFloat(e.Magnitude), nullYear(e.Year),
			e.AirportsWithin100Km, e.PortsWithin100Km,
			e.PowerPlantsWithin100Km, e.NuclearPlantsWithin100Km,
		); err != nil {
			return n, eris.Wrapf(err, "sqlite: insert enriched event %s", e.ID)
		}
		n++
	}

	if err := tx.Commit(); err != nil {
		return 0, eris.Wrap(err, "sqlite: commit")
	}
	return n, nil
}

func (s *SQLiteStore) ListEnriched(ctx context.Context, filter EventFilter) ([]model.EnrichedEvent, error) {
	query := `SELECT event_id, lat, lon, magnitude, year,
	                 airports_within_100km, ports_within_100km,
	                 power_plants_within_100km, nuclear_plants_within_100km
	          FROM enriched_events WHERE 1=1`
	var args []any

	if filter.RunID != "" {
		query += ` AND run_id = ?`
		args = append(args, filter.RunID)
	}
	if filter.Year > 0 {
		query += ` AND year = ?`
		args = append(args, filter.Year)
	}
	query += ` ORDER BY event_id`

	limit := filter.Limit
	if limit <= 0 {
		limit = 10000
	}
	query += ` LIMIT ?`
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list enriched")
	}
	defer rows.Close()

	var events []model.EnrichedEvent
	for rows.Next() {
		var e model.EnrichedEvent
		var lat, lon, mag sql.NullFloat64
		var year sql.NullInt64

		if err := rows.Scan(&e.ID, &lat, &lon, &mag, &year,
			&e.AirportsWithin100Km, &e.PortsWithin100Km,
			&e.PowerPlantsWithin100Km, &e.NuclearPlantsWithin100Km,
		); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan enriched event")
		}

		e.Point = model.Point{Lat: floatOr(lat, math.NaN()), Lon: floatOr(lon, math.NaN())}
		e.Magnitude = floatOr(mag, math.NaN())
		if year.Valid {
			e.Year = int(year.Int64)
		}
		events = append(events, e)
	}
	return events, eris.Wrap(rows.Err(), "sqlite: list enriched iterate")
}

func floatOr(v sql.NullFloat64, absent float64) float64 {
	if v.Valid {
		return v.Float64
	}
	return absent
}
