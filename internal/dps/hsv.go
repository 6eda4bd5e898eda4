package dps

import (
	"fmt"
	"strconv"
	"strings"
)

// HSVHexLen is the length of an encoded Colour data point.
const HSVHexLen = 12

// Field limits of the Colour data point.
const (
	HueMax = 360
	HSVMax = 1000
)

// HSV is the decoded form of the Colour data point. Hue is in degrees,
// Saturation and Value are in tenths of a percent.
type HSV struct {
	Hue        int
	Saturation int
	Value      int
}

// Hex encodes the colour as HHHHSSSSVVVV. Hue wraps modulo 360.
func (c HSV) Hex() string {
	hue := c.Hue % HueMax
	if hue < 0 {
		hue += HueMax
	}
	return fmt.Sprintf("%04x%04x%04x", hue, c.Saturation, c.Value)
}

// ParseHSV decodes a Colour data point string. Fields outside the data point
// domains (hue 0-360, saturation and value 0-1000) are rejected.
func ParseHSV(s string) (HSV, error) {
	raw, err := NormalizeRaw(s)
	if err != nil {
		return HSV{}, err
	}

	var fields [3]int
	for i := range fields {
		v, err := strconv.ParseUint(raw[i*4:i*4+4], 16, 16)
		if err != nil {
			return HSV{}, fmt.Errorf("field %d: %w", i+1, err)
		}
		fields[i] = int(v)
	}

	c := HSV{Hue: fields[0], Saturation: fields[1], Value: fields[2]}
	if c.Hue > HueMax {
		return HSV{}, fmt.Errorf("hue %d exceeds %d", c.Hue, HueMax)
	}
	if c.Saturation > HSVMax {
		return HSV{}, fmt.Errorf("saturation %d exceeds %d", c.Saturation, HSVMax)
	}
	if c.Value > HSVMax {
		return HSV{}, fmt.Errorf("value %d exceeds %d", c.Value, HSVMax)
	}
	return c, nil
}

// NormalizeRaw checks that s looks like an encoded Colour data point (twelve
// hex digits) and returns it lower-cased. Field values are not checked.
func NormalizeRaw(s string) (string, error) {
	if len(s) != HSVHexLen {
		return "", fmt.Errorf("expected %d hex digits, got %d characters", HSVHexLen, len(s))
	}
	for i, r := range s {
		if !isHexDigit(r) {
			return "", fmt.Errorf("character %d (%q) is not a hex digit", i+1, r)
		}
	}
	return strings.ToLower(s), nil
}

func isHexDigit(r rune) bool {
	return ('0' <= r && r <= '9') || ('a' <= r && r <= 'f') || ('A' <= r && r <= 'F')
}
