// Package ingest parses the raw dataset files into model records. Parsing is
// tolerant: absent or malformed numeric fields become "no data", never zero,
// and records with unusable coordinates are kept but flagged out of geometry.
package ingest

import (
	"fmt"
	"io"
	"os"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/quakemap/quakemap-cli/internal/fetcher"
	"github.com/quakemap/quakemap-cli/internal/model"
)

// Seismic event CSV columns, in USGS catalog naming. Alternate names cover
// the NOAA significant-earthquake export.
var (
	eventIDCols   = []string{"id", "event_id", "eventid"}
	eventLatCols  = []string{"latitude", "lat"}
	eventLonCols  = []string{"longitude", "lon", "lng"}
	eventMagCols  = []string{"mag", "magnitude", "eq_primary"}
	eventTimeCols = []string{"time", "year", "date"}
)

func firstField(row []string, idx map[string]int, names []string) string {
	for _, name := range names {
		if v := fetcher.Field(row, idx, name); v != "" {
			return v
		}
	}
	return ""
}

// ReadEvents parses a seismic event CSV stream.
func ReadEvents(r io.Reader) ([]model.SeismicEvent, error) {
	header, rows, err := fetcher.ReadCSV(r, fetcher.CSVOptions{HasHeader: true, TrimSpace: true})
	if err != nil {
		return nil, eris.Wrap(err, "ingest: read events csv")
	}
	idx := fetcher.ColumnIndex(header)

	log := zap.L().With(zap.String("component", "ingest"))

	events := make([]model.SeismicEvent, 0, len(rows))
	skipped := 0
	for i, row := range rows {
		id := firstField(row, idx, eventIDCols)
		if id == "" {
			id = fmt.Sprintf("row-%d", i+1)
		}

		point := model.ParsePoint(
			firstField(row, idx, eventLatCols),
			firstField(row, idx, eventLonCols),
		)
		if !point.Finite() {
			skipped++
		}

		mag, _ := model.ParseFloat(firstField(row, idx, eventMagCols))
		year, _ := model.ParseYear(firstField(row, idx, eventTimeCols))

		events = append(events, model.SeismicEvent{
			ID:        id,
			Point:     point,
			Magnitude: mag,
			Year:      year,
		})
	}

	if skipped > 0 {
		log.Warn("events with unusable coordinates kept but excluded from geometry",
			zap.Int("count", skipped))
	}
	log.Info("parsed seismic events", zap.Int("events", len(events)))

	return events, nil
}

// LoadEvents parses a seismic event CSV file.
func LoadEvents(path string) ([]model.SeismicEvent, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "ingest: open events file %s", path)
	}
	defer f.Close() //nolint:errcheck

	return ReadEvents(f)
}
