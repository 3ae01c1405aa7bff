package main

import (
	"context"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/quakemap/quakemap-cli/internal/fetcher"
)

// dataset is one downloadable input of the pipeline.
type dataset struct {
	Name    string // registry key and log label
	URL     string // http(s) or ftp
	File    string // target filename under the data dir
	Extract bool   // unzip after download, keeping File's extension
}

// datasetRegistry lists the public datasets the pipeline consumes.
var datasetRegistry = []dataset{
	{
		Name: "events",
		URL:  "https://earthquake.usgs.gov/fdsnws/event/1/query?format=csv&starttime=1900-01-01&minmagnitude=6",
		File: "events.csv",
	},
	{
		Name: "significant-events",
		URL:  "ftp://ftp.ngdc.noaa.gov/hazards/earthquakes/signif.txt",
		File: "signif.txt",
	},
	{
		Name: "airports",
		URL:  "https://davidmegginson.github.io/ourairports-data/airports.csv",
		File: "airports.csv",
	},
	{
		Name: "ports",
		URL:  "https://davidmegginson.github.io/ourairports-data/seaports.csv",
		File: "ports.csv",
	},
	{
		Name:    "power-plants",
		URL:     "https://wri-dataportal-prod.s3.amazonaws.com/manual/global_power_plant_database_v_1_3.zip",
		File:    "power_plants.csv",
		Extract: true,
	},
	{
		Name:    "gdp",
		URL:     "https://api.worldbank.org/v2/en/indicator/NY.GDP.MKTP.CD?downloadformat=excel",
		File:    "gdp.xlsx",
		Extract: false,
	},
	{
		Name:    "boundaries",
		URL:     "https://naturalearth.s3.amazonaws.com/110m_cultural/ne_110m_admin_0_countries.zip",
		File:    "boundaries.shp",
		Extract: true,
	},
}

var fetchOnly []string

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Download the input datasets into the data directory",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.Validate("fetch"); err != nil {
			return err
		}
		ctx := cmd.Context()

		if err := os.MkdirAll(cfg.Data.Dir, 0o755); err != nil {
			return eris.Wrapf(err, "create data dir %s", cfg.Data.Dir)
		}

		httpFetcher := fetcher.NewHTTPFetcher(fetcher.HTTPOptions{
			UserAgent:    cfg.Fetch.UserAgent,
			Timeout:      time.Duration(cfg.Fetch.TimeoutSecs) * time.Second,
			MaxRetries:   cfg.Fetch.MaxRetries,
			RateLimiters: fetcher.DefaultRateLimiters(),
		})
		ftpFetcher := fetcher.NewFTPFetcher(time.Duration(cfg.Fetch.TimeoutSecs) * time.Second)

		g, ctx := errgroup.WithContext(ctx)
		g.SetLimit(cfg.Fetch.Parallel)

		for _, ds := range selectDatasets(fetchOnly) {
			g.Go(func() error {
				return fetchDataset(ctx, httpFetcher, ftpFetcher, ds, cfg.Data.Dir)
			})
		}

		if err := g.Wait(); err != nil {
			return err
		}

		zap.L().Info("fetch complete", zap.String("dir", cfg.Data.Dir))
		return nil
	},
}

func init() {
	fetchCmd.Flags().StringSliceVar(&fetchOnly, "only", nil, "fetch only the named datasets (default all)")
	rootCmd.AddCommand(fetchCmd)
}

func selectDatasets(only []string) []dataset {
	if len(only) == 0 {
		return datasetRegistry
	}
	wanted := make(map[string]bool, len(only))
	for _, name := range only {
		wanted[name] = true
	}
	var out []dataset
	for _, ds := range datasetRegistry {
		if wanted[ds.Name] {
			out = append(out, ds)
		}
	}
	return out
}

func fetchDataset(ctx context.Context, httpF *fetcher.HTTPFetcher, ftpF *fetcher.FTPFetcher, ds dataset, dataDir string) error {
	log := zap.L().With(zap.String("dataset", ds.Name))
	log.Info("fetching", zap.String("url", ds.URL))

	target := filepath.Join(dataDir, ds.File)
	downloadPath := target
	if ds.Extract {
		downloadPath = target + ".zip"
	}

	u, err := url.Parse(ds.URL)
	if err != nil {
		return eris.Wrapf(err, "parse url for %s", ds.Name)
	}

	var n int64
	switch u.Scheme {
	case "http", "https":
		n, err = httpF.DownloadToFile(ctx, ds.URL, downloadPath)
	case "ftp":
		n, err = ftpF.DownloadToFile(ctx, ds.URL, downloadPath)
	default:
		return eris.Errorf("unsupported scheme %q for %s", u.Scheme, ds.Name)
	}
	if err != nil {
		return eris.Wrapf(err, "download %s", ds.Name)
	}

	if ds.Extract {
		if err := extractDataset(downloadPath, target); err != nil {
			return err
		}
	}

	log.Info("fetched", zap.Int64("bytes", n), zap.String("file", ds.File))
	return nil
}

// extractDataset unzips an archive next to the target and renames the first
// entry matching the target's extension. Archive member names vary by
// dataset release, so we match by extension rather than name.
func extractDataset(zipPath, target string) error {
	destDir := filepath.Dir(target)
	if err := fetcher.ExtractZIP(zipPath, destDir); err != nil {
		return err
	}
	defer os.Remove(zipPath) //nolint:errcheck

	ext := filepath.Ext(target)
	found, err := fetcher.FindByExt(destDir, ext)
	if err != nil {
		return err
	}
	if strings.EqualFold(found, target) {
		return nil
	}

	// Rename the whole sidecar family (shapefiles span .shp/.dbf/.shx/.prj).
	foundStem := strings.TrimSuffix(found, filepath.Ext(found))
	targetStem := strings.TrimSuffix(target, ext)
	entries, err := os.ReadDir(destDir)
	if err != nil {
		return eris.Wrapf(err, "read dir %s", destDir)
	}
	for _, e := range entries {
		path := filepath.Join(destDir, e.Name())
		if e.IsDir() || !strings.HasPrefix(path, foundStem+".") {
			continue
		}
		if err := os.Rename(path, targetStem+filepath.Ext(path)); err != nil {
			return eris.Wrapf(err, "rename %s", path)
		}
	}
	return nil
}
