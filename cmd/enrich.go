package main

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/quakemap/quakemap-cli/internal/ingest"
	"github.com/quakemap/quakemap-cli/internal/model"
	"github.com/quakemap/quakemap-cli/internal/pipeline"
	"github.com/quakemap/quakemap-cli/internal/store"
)

var (
	enrichEventsPath string
	enrichOut        string
	enrichNote       string
	enrichNoStore    bool
)

var enrichCmd = &cobra.Command{
	Use:   "enrich",
	Short: "Attach nearby-infrastructure counts to seismic events",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		eventsPath := enrichEventsPath
		if eventsPath == "" {
			eventsPath = filepath.Join(cfg.Data.Dir, "events.csv")
		}

		events, err := ingest.LoadEvents(eventsPath)
		if err != nil {
			return err
		}
		infra, err := ingest.LoadInfrastructureSet(cfg.Data.Dir)
		if err != nil {
			return err
		}

		var st store.Store
		if !enrichNoStore {
			if err := cfg.Validate("enrich"); err != nil {
				return err
			}
			st, err = store.Open(ctx, cfg.Store.Driver, cfg.Store.DatabaseURL)
			if err != nil {
				return err
			}
			defer st.Close() //nolint:errcheck
			if err := st.Migrate(ctx); err != nil {
				return err
			}
		}

		run, enriched, err := pipeline.New(st, cfg.Enrich.RadiusKm).Run(ctx, events, infra, enrichNote)
		if err != nil {
			return err
		}

		if run != nil {
			zap.L().Info("enrichment complete",
				zap.String("run_id", run.ID),
				zap.Int("events", run.Events))
		}

		if enrichOut != "" {
			return exportEnriched(enrichOut, enriched)
		}
		return nil
	},
}

func init() {
	enrichCmd.Flags().StringVar(&enrichEventsPath, "events", "", "seismic event CSV (default <data.dir>/events.csv)")
	enrichCmd.Flags().StringVar(&enrichOut, "out", "", "export file (.csv or .json)")
	enrichCmd.Flags().StringVar(&enrichNote, "note", "", "free-text note stored with the run")
	enrichCmd.Flags().BoolVar(&enrichNoStore, "no-store", false, "skip persistence, export only")
	rootCmd.AddCommand(enrichCmd)
}

func exportEnriched(path string, enriched []model.EnrichedEvent) error {
	f, err := os.Create(path)
	if err != nil {
		return eris.Wrapf(err, "create export file %s", path)
	}
	defer f.Close() //nolint:errcheck

	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return pipeline.ExportCSV(f, enriched)
	case ".json":
		return pipeline.ExportJSON(f, enriched)
	default:
		return eris.Errorf("unsupported export format %q (use .csv or .json)", filepath.Ext(path))
	}
}
