package model

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseFloat(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		want   float64
		wantOK bool
	}{
		{name: "plain number", input: "42.5", want: 42.5, wantOK: true},
		{name: "negative", input: "-179.99", want: -179.99, wantOK: true},
		{name: "whitespace trimmed", input: "  7.1 ", want: 7.1, wantOK: true},
		{name: "empty is absent", input: "", wantOK: false},
		{name: "null is absent", input: "null", wantOK: false},
		{name: "NULL is absent", input: "NULL", wantOK: false},
		{name: "na is absent", input: "NA", wantOK: false},
		{name: "text is absent", input: "unknown", wantOK: false},
		{name: "inf is absent", input: "Inf", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseFloat(tt.input)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.want, got)
			} else {
				assert.True(t, math.IsNaN(got), "absent values must be NaN, not zero")
			}
		})
	}
}

func TestParseYear(t *testing.T) {
	y, ok := ParseYear("2011")
	assert.True(t, ok)
	assert.Equal(t, 2011, y)

	y, ok = ParseYear("2011-03-11T05:46:24.120Z")
	assert.True(t, ok)
	assert.Equal(t, 2011, y)

	_, ok = ParseYear("")
	assert.False(t, ok)

	_, ok = ParseYear("eleven")
	assert.False(t, ok)
}

func TestParsePoint(t *testing.T) {
	p := ParsePoint("35.68", "139.69")
	assert.True(t, p.Finite())
	assert.Equal(t, 35.68, p.Lat)
	assert.Equal(t, 139.69, p.Lon)

	p = ParsePoint("", "139.69")
	assert.False(t, p.Finite(), "missing latitude excludes the point")

	p = ParsePoint("35.68", "null")
	assert.False(t, p.Finite(), "null longitude excludes the point")
}

func TestPointFinite(t *testing.T) {
	assert.True(t, Point{Lat: 0, Lon: 0}.Finite())
	assert.False(t, Point{Lat: math.NaN(), Lon: 10}.Finite())
	assert.False(t, Point{Lat: 10, Lon: math.Inf(1)}.Finite())
}
