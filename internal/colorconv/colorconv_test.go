package colorconv_test

import (
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	. "github.com/adafruit/Circuit-Walker-Sneakers/internal/colorconv"
)

func TestGamma8Curve(t *testing.T) {
	assert.EqualValues(t, 0, Gamma8[0], "low endpoint")
	assert.EqualValues(t, 255, Gamma8[255], "high endpoint")
	for i := 1; i < len(Gamma8); i++ {
		if Gamma8[i] < Gamma8[i-1] {
			t.Fatalf("Gamma8 not monotonic at %d: %d < %d", i, Gamma8[i], Gamma8[i-1])
		}
	}
}

var TestGrayscaleForZeroSaturation = []struct {
	H float64
	V float64
}{
	{0, 0},
	{0, 1},
	{123.4, 0.25},
	{240, 0.5},
	{359.9, 0.75},
}

func TestHSVZeroSaturationIsGray(t *testing.T) {
	for k, v := range TestGrayscaleForZeroSaturation {
		t.Run(fmt.Sprintf("Given HV%d", k), func(t *testing.T) {
			r, g, b := HSVToRGB(v.H, 0, v.V)
			want := Gamma8[int(math.Round(255.0*v.V))]
			assert.Equal(t, want, r, "red")
			assert.Equal(t, want, g, "green")
			assert.Equal(t, want, b, "blue")
		})
	}
}

var TestSectorBoundaryColors = []struct {
	H       float64
	R, G, B byte
}{
	{0, 255, 0, 0},
	{60, 255, 255, 0},
	{120, 0, 255, 0},
	{180, 0, 255, 255},
	{240, 0, 0, 255},
	{300, 255, 0, 255},
}

func TestHSVSectorBoundaries(t *testing.T) {
	for _, v := range TestSectorBoundaryColors {
		t.Run(fmt.Sprintf("Given H%v", v.H), func(t *testing.T) {
			r, g, b := HSVToRGB(v.H, 1, 1)
			assert.Equal(t, v.R, r, "red")
			assert.Equal(t, v.G, g, "green")
			assert.Equal(t, v.B, b, "blue")
		})
	}
}

func TestHSVHueWraps(t *testing.T) {
	for _, pair := range [][2]float64{{360, 0}, {420, 60}, {-60, 300}, {-360, 0}} {
		r1, g1, b1 := HSVToRGB(pair[0], 1, 1)
		r2, g2, b2 := HSVToRGB(pair[1], 1, 1)
		if r1 != r2 || g1 != g2 || b1 != b2 {
			t.Fatalf("hue %v != hue %v: (%d,%d,%d) vs (%d,%d,%d)",
				pair[0], pair[1], r1, g1, b1, r2, g2, b2)
		}
	}
}

func TestHSVValueScalesChannel(t *testing.T) {
	r, g, b := HSVToRGB(0, 1, 0.5)
	assert.Equal(t, Gamma8[128], r, "half value red channel")
	assert.EqualValues(t, 0, g)
	assert.EqualValues(t, 0, b)

	r, g, b = HSVToRGB(0, 1, 0)
	assert.EqualValues(t, 0, r)
	assert.EqualValues(t, 0, g)
	assert.EqualValues(t, 0, b)
}

var TestLerpMapsRanges = []struct {
	X, X0, X1, Y0, Y1 float64
	Expect            float64
}{
	{-1, -1, 1, 0, 360, 0},
	{1, -1, 1, 0, 360, 360},
	{0, -1, 1, 0, 360, 180},
	{0.5, -1, 1, 0, 360, 270},
	{0.25, 0, 1, 0, 100, 25},
	{5, 0, 10, 10, 0, 5},
}

func TestLerp(t *testing.T) {
	for k, v := range TestLerpMapsRanges {
		t.Run(fmt.Sprintf("Given X%d", k), func(t *testing.T) {
			assert.InDelta(t, v.Expect, Lerp(v.X, v.X0, v.X1, v.Y0, v.Y1), 1e-9)
		})
	}
}
