// Package orchestrator applies a built command to a device session in order,
// pausing where the bulb needs time to settle, and reads the resulting status.
package orchestrator

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/dokzlo13/tuyactl/internal/command"
	"github.com/dokzlo13/tuyactl/internal/device"
	"github.com/dokzlo13/tuyactl/internal/dps"
)

// DefaultSettleDelay is the pause the bulb needs after a mode switch.
const DefaultSettleDelay = 300 * time.Millisecond

// SleepFunc pauses for d or until ctx is done.
type SleepFunc func(ctx context.Context, d time.Duration) error

// Executor runs commands against one session.
type Executor struct {
	session device.Session
	settle  time.Duration
	sleep   SleepFunc
}

// New creates an executor. A zero settle delay selects DefaultSettleDelay.
func New(session device.Session, settle time.Duration) *Executor {
	if settle <= 0 {
		settle = DefaultSettleDelay
	}
	return &Executor{
		session: session,
		settle:  settle,
		sleep:   Sleep,
	}
}

// WithSleep replaces the pause implementation.
func (e *Executor) WithSleep(sleep SleepFunc) *Executor {
	e.sleep = sleep
	return e
}

// Execute applies every set in order and finishes with exactly one status
// read. The bulb is given the settle delay after switching to colour mode and
// before the final read whenever something was written.
//
// The first failing step aborts the sequence. Steps already applied stay
// applied.
func (e *Executor) Execute(ctx context.Context, cmd command.Command) (device.Status, error) {
	for i, set := range cmd {
		log.Debug().
			Int("step", i+1).
			Int("steps", len(cmd)).
			Str("dps", describe(set)).
			Msg("Applying data points")

		if err := e.session.Set(ctx, set); err != nil {
			if i > 0 {
				log.Warn().Int("applied", i).Msg("Command partially applied, earlier steps are not rolled back")
			}
			return nil, fmt.Errorf("step %d of %d (%s): %w", i+1, len(cmd), describe(set), device.Wrap(device.OpWrite, err))
		}

		if set.Mode() == dps.ModeColour {
			if err := e.pause(ctx, "colour mode switch"); err != nil {
				return nil, err
			}
		}
	}

	if len(cmd) > 0 {
		if err := e.pause(ctx, "final status"); err != nil {
			return nil, err
		}
	}

	status, err := e.session.Status(ctx)
	if err != nil {
		return nil, fmt.Errorf("final status: %w", device.Wrap(device.OpRead, err))
	}
	return status, nil
}

func (e *Executor) pause(ctx context.Context, reason string) error {
	log.Debug().Dur("delay", e.settle).Str("reason", reason).Msg("Waiting for bulb to settle")
	return e.sleep(ctx, e.settle)
}

// Sleep blocks for d, returning early with ctx.Err() if ctx is cancelled.
func Sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// describe renders a set as id=value pairs in id order.
func describe(set dps.Set) string {
	parts := make([]string, 0, len(set))
	for _, k := range set.Keys() {
		parts = append(parts, fmt.Sprintf("%s=%v", k, set[k]))
	}
	return strings.Join(parts, ",")
}
