package dps

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKelvinToColorTempCode(t *testing.T) {
	tests := []struct {
		name     string
		kelvin   int
		expected int
	}{
		{name: "warmest", kelvin: 2300, expected: 100},
		{name: "coldest", kelvin: 9000, expected: 900},
		{name: "midpoint", kelvin: 5650, expected: 500},
		{name: "neutral", kelvin: 4000, expected: 303},
		{name: "below_range_clamps", kelvin: 1000, expected: 100},
		{name: "zero_clamps", kelvin: 0, expected: 100},
		{name: "above_range_clamps", kelvin: 20000, expected: 900},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, KelvinToColorTempCode(tt.kelvin))
		})
	}
}

func TestKelvinToColorTempCodeMonotonic(t *testing.T) {
	prev := KelvinToColorTempCode(MinKelvin)
	for k := MinKelvin; k <= MaxKelvin; k++ {
		code := KelvinToColorTempCode(k)
		if code < prev {
			t.Fatalf("code decreased at %dK: %d < %d", k, code, prev)
		}
		if code < 100 || code > 900 {
			t.Fatalf("code %d for %dK outside [100,900]", code, k)
		}
		prev = code
	}
	assert.Equal(t, KelvinToColorTempCode(2300), KelvinToColorTempCode(1000))
	assert.Equal(t, KelvinToColorTempCode(9000), KelvinToColorTempCode(12000))
}

func TestBrightnessToCode(t *testing.T) {
	assert.Equal(t, 10, BrightnessToCode(1))
	assert.Equal(t, 500, BrightnessToCode(50))
	assert.Equal(t, 1000, BrightnessToCode(100))
	assert.Equal(t, 10, BrightnessToCode(0))
	assert.Equal(t, 10, BrightnessToCode(-5))
	assert.Equal(t, 1000, BrightnessToCode(150))
}

func TestRGBHue(t *testing.T) {
	tests := []struct {
		name string
		rgb  RGB
		hue  int
	}{
		{name: "red", rgb: RGB{255, 0, 0}, hue: 0},
		{name: "yellow", rgb: RGB{255, 255, 0}, hue: 60},
		{name: "green", rgb: RGB{0, 255, 0}, hue: 120},
		{name: "cyan", rgb: RGB{0, 255, 255}, hue: 180},
		{name: "blue", rgb: RGB{0, 0, 255}, hue: 240},
		{name: "magenta", rgb: RGB{255, 0, 255}, hue: 300},
		{name: "orange", rgb: RGB{255, 128, 0}, hue: 30},
		{name: "dark_azure", rgb: RGB{0, 2, 5}, hue: 216},
		{name: "dark_teal", rgb: RGB{0, 5, 4}, hue: 167},
		{name: "grey", rgb: RGB{128, 128, 128}, hue: 0},
		{name: "black", rgb: RGB{0, 0, 0}, hue: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.hue, tt.rgb.Hue())
		})
	}
}

func TestRGBToHSVHex(t *testing.T) {
	assert.Equal(t, "000003e803e8", RGBToHSVHex(255, 0, 0, 100))
	assert.Equal(t, "0078", RGBToHSVHex(0, 255, 0, 100)[:4])
	assert.Equal(t, "00f001f403e8", RGBToHSVHex(0, 0, 255, 50))

	// saturation is clamped to [1,100]
	assert.Equal(t, "0000000a03e8", RGBToHSVHex(255, 0, 0, 0))
	assert.Equal(t, "000003e803e8", RGBToHSVHex(255, 0, 0, 250))
}

func TestParseRGB(t *testing.T) {
	got, err := ParseRGB("255, 16,0")
	require.NoError(t, err)
	assert.Equal(t, RGB{R: 255, G: 16, B: 0}, got)

	for _, bad := range []string{"", "1,2", "1,2,3,4", "a,b,c", "1.5,2,3", "256,0,0", "-1,0,0"} {
		t.Run(bad, func(t *testing.T) {
			_, err := ParseRGB(bad)
			assert.Error(t, err)
		})
	}
}

func TestSetKeys(t *testing.T) {
	s := Set{Brightness: 500, WorkMode: ModeWhite, ColorTemp: 300}
	assert.Equal(t, []string{"21", "22", "23"}, s.Keys())
	assert.Equal(t, ModeWhite, s.Mode())
	assert.Equal(t, "", Set{Power: true}.Mode())
}
