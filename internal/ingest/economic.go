package ingest

import (
	"io"
	"os"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/quakemap/quakemap-cli/internal/fetcher"
	"github.com/quakemap/quakemap-cli/internal/model"
)

var (
	econNameCols  = []string{"country name", "country_name", "country"}
	econCodeCols  = []string{"country code", "country_code", "iso3", "code"}
	econYearCols  = []string{"year"}
	econValueCols = []string{"value", "gdp", "gdp_per_capita"}
)

// ReadEconomic parses a long-format economic series CSV stream (one row per
// country-year observation, HDX/World Bank long export).
func ReadEconomic(r io.Reader) ([]model.EconomicRecord, error) {
	header, rows, err := fetcher.ReadCSV(r, fetcher.CSVOptions{HasHeader: true, TrimSpace: true})
	if err != nil {
		return nil, eris.Wrap(err, "ingest: read economic csv")
	}
	idx := fetcher.ColumnIndex(header)

	records := make([]model.EconomicRecord, 0, len(rows))
	for _, row := range rows {
		year, yearOK := model.ParseYear(firstField(row, idx, econYearCols))
		if !yearOK {
			continue
		}
		value, _ := model.ParseFloat(firstField(row, idx, econValueCols))
		records = append(records, model.EconomicRecord{
			CountryName: firstField(row, idx, econNameCols),
			CountryCode: firstField(row, idx, econCodeCols),
			Year:        year,
			Value:       value,
		})
	}

	zap.L().Info("parsed economic series", zap.Int("records", len(records)))

	return records, nil
}

// LoadEconomic parses a long-format economic series CSV file.
func LoadEconomic(path string) ([]model.EconomicRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "ingest: open economic file %s", path)
	}
	defer f.Close() //nolint:errcheck

	return ReadEconomic(f)
}

// LoadEconomicXLSX parses a wide-format World Bank series workbook: three
// banner rows, then a header row of "Country Name, Country Code, Indicator
// Name, Indicator Code, 1960, 1961, ...". Each year column becomes one
// long-format record.
func LoadEconomicXLSX(path string) ([]model.EconomicRecord, error) {
	rows, err := fetcher.ReadXLSX(path, fetcher.XLSXOptions{SheetName: "Data", SkipRows: 3})
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, eris.New("ingest: empty economic workbook")
	}

	header := rows[0]
	type yearCol struct {
		col  int
		year int
	}
	var years []yearCol
	for col, name := range header {
		if y, ok := model.ParseYear(name); ok {
			years = append(years, yearCol{col: col, year: y})
		}
	}
	if len(years) == 0 {
		return nil, eris.New("ingest: no year columns in economic workbook")
	}

	var records []model.EconomicRecord
	for _, row := range rows[1:] {
		if len(row) < 2 {
			continue
		}
		name, code := row[0], row[1]
		for _, yc := range years {
			var raw string
			if yc.col < len(row) {
				raw = row[yc.col]
			}
			value, _ := model.ParseFloat(raw)
			records = append(records, model.EconomicRecord{
				CountryName: name,
				CountryCode: code,
				Year:        yc.year,
				Value:       value,
			})
		}
	}

	zap.L().Info("parsed economic workbook", zap.Int("records", len(records)))

	return records, nil
}
