package rank

import (
	"fmt"
	"math"
)

// RGB is an 8-bit-per-channel color.
type RGB struct {
	R, G, B uint8
}

// Hex renders the color as a #rrggbb string for the map renderer.
func (c RGB) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// Stop is one gradient anchor: a position in [0,1] and its color.
type Stop struct {
	Pos   float64
	Color RGB
}

// NoDataColor is the neutral gray used when a feature has no usable value.
var NoDataColor = RGB{R: 200, G: 200, B: 200}

// Gradient is the fixed 16-stop white-yellow-orange-red-purple-blue-near-black
// ramp spanning rank 0 to 1. Positions are monotonically increasing with the
// first at 0 and the last at 1.
var Gradient = []Stop{
	{Pos: 0.0 / 15, Color: RGB{255, 255, 255}},
	{Pos: 1.0 / 15, Color: RGB{255, 250, 205}},
	{Pos: 2.0 / 15, Color: RGB{255, 237, 160}},
	{Pos: 3.0 / 15, Color: RGB{254, 217, 118}},
	{Pos: 4.0 / 15, Color: RGB{254, 178, 76}},
	{Pos: 5.0 / 15, Color: RGB{253, 141, 60}},
	{Pos: 6.0 / 15, Color: RGB{252, 78, 42}},
	{Pos: 7.0 / 15, Color: RGB{227, 26, 28}},
	{Pos: 8.0 / 15, Color: RGB{189, 0, 38}},
	{Pos: 9.0 / 15, Color: RGB{128, 0, 38}},
	{Pos: 10.0 / 15, Color: RGB{110, 1, 107}},
	{Pos: 11.0 / 15, Color: RGB{84, 39, 143}},
	{Pos: 12.0 / 15, Color: RGB{63, 0, 125}},
	{Pos: 13.0 / 15, Color: RGB{33, 26, 105}},
	{Pos: 14.0 / 15, Color: RGB{8, 29, 88}},
	{Pos: 15.0 / 15, Color: RGB{10, 10, 25}},
}

// ColorFor maps a percentile rank to an RGB color via piecewise linear
// interpolation over the gradient. A missing (!ok) or non-finite rank yields
// the neutral no-data gray. Out-of-range ranks are clamped to [0,1].
func ColorFor(r float64, ok bool) RGB {
	if !ok || math.IsNaN(r) || math.IsInf(r, 0) {
		return NoDataColor
	}
	if r < 0 {
		r = 0
	}
	if r > 1 {
		r = 1
	}

	for i := 0; i < len(Gradient)-1; i++ {
		lo, hi := Gradient[i], Gradient[i+1]
		if r < lo.Pos || r > hi.Pos {
			continue
		}
		factor := 0.0
		if hi.Pos > lo.Pos {
			factor = (r - lo.Pos) / (hi.Pos - lo.Pos)
		}
		return lerp(lo.Color, hi.Color, factor)
	}

	return Gradient[len(Gradient)-1].Color
}

func lerp(a, b RGB, t float64) RGB {
	return RGB{
		R: uint8(math.Round(float64(a.R) + t*(float64(b.R)-float64(a.R)))),
		G: uint8(math.Round(float64(a.G) + t*(float64(b.G)-float64(a.G)))),
		B: uint8(math.Round(float64(a.B) + t*(float64(b.B)-float64(a.B)))),
	}
}
