package dps

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Ranges advertised to the user. Values outside them are clamped, not rejected.
const (
	MinKelvin = 2300
	MaxKelvin = 9000

	MinPercent = 1
	MaxPercent = 100

	// colour temperature codes produced for MinKelvin and MaxKelvin
	minColorTempCode = 100
	maxColorTempCode = 900
)

// KelvinToColorTempCode maps a colour temperature in Kelvin onto the
// ColorTemp data point scale.
func KelvinToColorTempCode(k int) int {
	k = clamp(k, MinKelvin, MaxKelvin)
	span := float64(maxColorTempCode - minColorTempCode)
	scaled := float64(k-MinKelvin) / float64(MaxKelvin-MinKelvin) * span
	return int(math.Round(scaled)) + minColorTempCode
}

// BrightnessToCode maps a brightness percentage onto the Brightness data
// point scale (tenths of a percent).
func BrightnessToCode(pct int) int {
	return clamp(pct, MinPercent, MaxPercent) * 10
}

// RGB is a colour given as 8-bit channels.
type RGB struct {
	R, G, B int
}

// Hue returns the hue of the colour in whole degrees, [0,360).
// Greys have hue 0.
func (c RGB) Hue() int {
	r := float64(c.R) / 255
	g := float64(c.G) / 255
	b := float64(c.B) / 255

	maxc := math.Max(r, math.Max(g, b))
	minc := math.Min(r, math.Min(g, b))
	if maxc == minc {
		return 0
	}

	delta := maxc - minc
	rc := (maxc - r) / delta
	gc := (maxc - g) / delta
	bc := (maxc - b) / delta

	var sector float64
	switch maxc {
	case r:
		sector = bc - gc
	case g:
		sector = 2 + rc - bc
	default:
		sector = 4 + gc - rc
	}

	// fraction of a full turn, in [0,1]; this operation order keeps the
	// truncated degrees identical to the reference colorsys conversion
	turn := sector / 6
	turn -= math.Floor(turn)
	return int(turn*360) % 360
}

// RGBToHSVHex encodes the hue of (r, g, b) together with the given saturation
// percentage and full value as a Colour data point string. Only the hue is
// taken from the RGB triplet.
func RGBToHSVHex(r, g, b, saturationPct int) string {
	return HSV{
		Hue:        RGB{R: r, G: g, B: b}.Hue(),
		Saturation: clamp(saturationPct, MinPercent, MaxPercent) * 10,
		Value:      HSVMax,
	}.Hex()
}

// ParseRGB parses "R,G,B" with every channel an integer in [0,255].
func ParseRGB(s string) (RGB, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return RGB{}, fmt.Errorf("expected 3 comma-separated components, got %d", len(parts))
	}

	var channels [3]int
	for i, part := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return RGB{}, fmt.Errorf("component %d (%q) is not an integer", i+1, part)
		}
		if v < 0 || v > 255 {
			return RGB{}, fmt.Errorf("component %d (%d) must be within [0,255]", i+1, v)
		}
		channels[i] = v
	}

	return RGB{R: channels[0], G: channels[1], B: channels[2]}, nil
}

func clamp(v, lo, hi int) int {
	return max(lo, min(hi, v))
}
