// Package intent models what the user asked for on the command line and
// resolves it into exactly one execution plan.
package intent

import (
	"time"
)

// DefaultSaturation is used for --rgb when --saturation is not given.
const DefaultSaturation = 100

// UserIntent is the parsed set of requested actions. Pointer fields are nil
// when the flag was not given.
type UserIntent struct {
	On     bool
	Off    bool
	Status bool

	// Tail is the requested polling interval; nil when tail mode is off.
	Tail *time.Duration

	Brightness *int
	Shade      *int
	RGB        string
	Raw        string
	Saturation *int
}

// Mutating reports whether any flag that changes device state was given.
func (u UserIntent) Mutating() bool {
	return u.On || u.Off || u.Brightness != nil || u.Shade != nil || u.RGB != "" || u.Raw != ""
}

// Plan is one of StatusOnly, Tail or Mutate.
type Plan interface {
	isPlan()
}

// StatusOnly reads and prints the device status once.
type StatusOnly struct{}

// Tail polls the device status until cancelled.
type Tail struct {
	Interval time.Duration
}

// Mutate applies power, white and colour changes, then reads status once.
// An empty Mutate only reads status.
type Mutate struct {
	Power      *bool
	Brightness *int
	Shade      *int
	RGB        string
	Raw        string
	Saturation int
}

func (StatusOnly) isPlan() {}
func (Tail) isPlan()       {}
func (Mutate) isPlan()     {}

// Resolve validates the intent and picks the plan. Precedence: tail, then
// status alone (only if nothing mutating was requested), then mutate.
func Resolve(u UserIntent) (Plan, error) {
	if u.On && u.Off {
		return nil, &ValidationError{Reason: "--on and --off are mutually exclusive"}
	}

	if u.Tail != nil {
		return Tail{Interval: *u.Tail}, nil
	}

	if u.Status && !u.Mutating() {
		return StatusOnly{}, nil
	}

	m := Mutate{
		Brightness: u.Brightness,
		Shade:      u.Shade,
		RGB:        u.RGB,
		Raw:        u.Raw,
		Saturation: DefaultSaturation,
	}
	if u.On || u.Off {
		power := u.On
		m.Power = &power
	}
	if u.Saturation != nil {
		m.Saturation = *u.Saturation
	}
	return m, nil
}
