// Package poller prints the device status at a fixed interval until the
// operator stops it.
package poller

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/dokzlo13/tuyactl/internal/device"
	"github.com/dokzlo13/tuyactl/internal/orchestrator"
)

// MinInterval is the shortest allowed pause between two reads.
const MinInterval = 200 * time.Millisecond

// TimestampFormat prefixes every printed status line.
const TimestampFormat = "15:04:05"

// Poller reads the status of one session in a loop.
type Poller struct {
	session  device.Session
	interval time.Duration
	out      io.Writer
	now      func() time.Time
}

// New creates a poller. Intervals below MinInterval are raised to it.
func New(session device.Session, interval time.Duration, out io.Writer) *Poller {
	if interval < MinInterval {
		if interval > 0 {
			log.Debug().Dur("requested", interval).Dur("used", MinInterval).Msg("Tail interval raised to minimum")
		}
		interval = MinInterval
	}
	return &Poller{
		session:  session,
		interval: interval,
		out:      out,
		now:      time.Now,
	}
}

// Interval returns the effective pause between reads.
func (p *Poller) Interval() time.Duration {
	return p.interval
}

// Run reads and prints the status, then sleeps for the interval, until ctx is
// cancelled. Cancellation is a clean stop and returns nil after printing a
// final notice. A failed read ends the loop with its error.
func (p *Poller) Run(ctx context.Context) error {
	log.Info().Dur("interval", p.interval).Msg("Tailing device status")

	for {
		if ctx.Err() != nil {
			return p.stop()
		}

		status, err := p.session.Status(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) && ctx.Err() != nil {
				return p.stop()
			}
			return fmt.Errorf("tail: %w", device.Wrap(device.OpRead, err))
		}

		if _, err := fmt.Fprintf(p.out, "%s %s\n", p.now().Format(TimestampFormat), status); err != nil {
			return err
		}

		if err := orchestrator.Sleep(ctx, p.interval); err != nil {
			return p.stop()
		}
	}
}

func (p *Poller) stop() error {
	fmt.Fprintln(p.out, "\nStopped.")
	return nil
}
