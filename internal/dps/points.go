// Package dps holds the data point vocabulary of the bulb and the pure
// conversions from user units to the encodings the device expects.
package dps

import (
	"maps"
	"slices"
)

// Data point identifiers understood by the bulb.
const (
	Power      = "20"
	WorkMode   = "21"
	Brightness = "22"
	ColorTemp  = "23"
	Colour     = "24"
)

// Work modes accepted by the WorkMode data point.
const (
	ModeWhite  = "white"
	ModeColour = "colour"
)

// Set is one data point write: a mapping from data point id to its encoded
// value (bool, int or string).
type Set map[string]any

// Keys returns the data point ids of the set in ascending order.
func (s Set) Keys() []string {
	return slices.Sorted(maps.Keys(s))
}

// Mode returns the work mode carried by the set, or "" if it has none.
func (s Set) Mode() string {
	mode, _ := s[WorkMode].(string)
	return mode
}
