package model

import (
	"math"
	"strconv"
	"strings"
)

// ParseFloat parses a numeric field from tabular input. Empty strings,
// "null"-like markers, and non-numeric text are all "absent", never zero.
func ParseFloat(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	switch strings.ToLower(s) {
	case "", "null", "na", "n/a", "nan":
		return math.NaN(), false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return math.NaN(), false
	}
	return v, true
}

// ParseYear parses a year field. Accepts bare years ("1998") and ISO-8601
// timestamps ("1998-07-17T08:49:13.000Z"). Returns 0 when absent.
func ParseYear(s string) (int, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	if len(s) > 4 && (s[4] == '-' || s[4] == '/') {
		s = s[:4]
	}
	y, err := strconv.Atoi(s)
	if err != nil || y <= 0 {
		return 0, false
	}
	return y, true
}

// ParsePoint builds a Point from raw latitude/longitude fields. The returned
// point has NaN coordinates when either field is absent, which keeps the
// record out of geometry operations without special-casing callers.
func ParsePoint(latField, lonField string) Point {
	lat, latOK := ParseFloat(latField)
	lon, lonOK := ParseFloat(lonField)
	if !latOK || !lonOK {
		return Point{Lat: math.NaN(), Lon: math.NaN()}
	}
	return Point{Lat: lat, Lon: lon}
}
