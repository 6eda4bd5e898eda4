// Package command turns a resolved Mutate plan into the ordered data point
// writes that realise it on the bulb.
package command

import (
	"github.com/rs/zerolog/log"

	"github.com/dokzlo13/tuyactl/internal/dps"
	"github.com/dokzlo13/tuyactl/internal/intent"
)

// Command is the ordered list of data point writes for one invocation.
// White and colour changes are always separate sets.
type Command []dps.Set

// Build validates the colour inputs and assembles the writes in fixed order:
// power, white, colour mode, colour value. An empty Command means nothing
// was requested.
func Build(m intent.Mutate) (Command, error) {
	var cmd Command

	if m.Power != nil {
		cmd = append(cmd, dps.Set{dps.Power: *m.Power})
	}

	if white := buildWhite(m); white != nil {
		cmd = append(cmd, white)
	}

	if m.RGB != "" || m.Raw != "" {
		colour, err := colourValue(m)
		if err != nil {
			return nil, err
		}
		cmd = append(cmd,
			dps.Set{dps.WorkMode: dps.ModeColour},
			dps.Set{dps.Colour: colour},
		)
	}

	return cmd, nil
}

func buildWhite(m intent.Mutate) dps.Set {
	if m.Brightness == nil && m.Shade == nil {
		return nil
	}

	set := dps.Set{dps.WorkMode: dps.ModeWhite}
	if m.Brightness != nil {
		set[dps.Brightness] = dps.BrightnessToCode(*m.Brightness)
	}
	if m.Shade != nil {
		set[dps.ColorTemp] = dps.KelvinToColorTempCode(*m.Shade)
	}
	return set
}

// colourValue picks the Colour data point value. A raw value wins over RGB.
func colourValue(m intent.Mutate) (string, error) {
	if m.Raw != "" {
		if m.RGB != "" {
			log.Warn().Str("rgb", m.RGB).Msg("Both --raw and --rgb given, ignoring --rgb")
		}
		raw, err := dps.NormalizeRaw(m.Raw)
		if err != nil {
			return "", intent.Invalid("raw", "%v", err)
		}
		return raw, nil
	}

	rgb, err := dps.ParseRGB(m.RGB)
	if err != nil {
		return "", intent.Invalid("rgb", "requires R,G,B with 0-255 numbers: %v", err)
	}
	return dps.RGBToHSVHex(rgb.R, rgb.G, rgb.B, m.Saturation), nil
}
