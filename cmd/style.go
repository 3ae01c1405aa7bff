package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/quakemap/quakemap-cli/internal/boundary"
	"github.com/quakemap/quakemap-cli/internal/country"
	"github.com/quakemap/quakemap-cli/internal/ingest"
	"github.com/quakemap/quakemap-cli/internal/model"
	"github.com/quakemap/quakemap-cli/internal/style"
)

var (
	styleYear       int
	styleBoundaries string
	styleEconomic   string
	styleAliases    string
	styleOut        string
)

var styleCmd = &cobra.Command{
	Use:   "style",
	Short: "Compute the choropleth style layer for a year",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.Validate("style"); err != nil {
			return err
		}

		features, err := loadBoundaries()
		if err != nil {
			return err
		}
		econ, err := loadEconomic()
		if err != nil {
			return err
		}

		aliasFile := styleAliases
		if aliasFile == "" {
			aliasFile = cfg.Style.AliasFile
		}
		var aliases map[string]string
		if aliasFile != "" {
			aliases, err = country.LoadAliasOverrides(aliasFile)
			if err != nil {
				return err
			}
		}

		layer := style.Layer(features, econ, styleYear, aliases, style.DefaultOptions())

		zap.L().Info("style layer computed",
			zap.Int("year", styleYear),
			zap.Int("features", len(layer)))

		out := os.Stdout
		if styleOut != "" {
			f, err := os.Create(styleOut)
			if err != nil {
				return eris.Wrapf(err, "create style file %s", styleOut)
			}
			defer f.Close() //nolint:errcheck
			out = f
		}

		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return eris.Wrap(enc.Encode(layer), "encode style layer")
	},
}

func init() {
	styleCmd.Flags().IntVar(&styleYear, "year", 0, "series year (required)")
	styleCmd.Flags().StringVar(&styleBoundaries, "boundaries", "", "boundary file, .geojson or .shp (default <data.dir>/boundaries.shp)")
	styleCmd.Flags().StringVar(&styleEconomic, "economic", "", "economic series, .csv or .xlsx (default <data.dir>/gdp.xlsx)")
	styleCmd.Flags().StringVar(&styleAliases, "aliases", "", "YAML alias override file")
	styleCmd.Flags().StringVar(&styleOut, "out", "", "output file (default stdout)")
	_ = styleCmd.MarkFlagRequired("year")
	rootCmd.AddCommand(styleCmd)
}

func loadBoundaries() ([]boundary.Feature, error) {
	path := styleBoundaries
	if path == "" {
		path = filepath.Join(cfg.Data.Dir, "boundaries.shp")
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".geojson", ".json":
		return boundary.LoadGeoJSON(path)
	case ".shp":
		return boundary.LoadShapefile(path)
	default:
		return nil, eris.Errorf("unsupported boundary format %q (use .geojson or .shp)", filepath.Ext(path))
	}
}

func loadEconomic() ([]model.EconomicRecord, error) {
	path := styleEconomic
	if path == "" {
		path = filepath.Join(cfg.Data.Dir, "gdp.xlsx")
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return ingest.LoadEconomic(path)
	case ".xlsx":
		return ingest.LoadEconomicXLSX(path)
	default:
		return nil, eris.Errorf("unsupported economic format %q (use .csv or .xlsx)", filepath.Ext(path))
	}
}
