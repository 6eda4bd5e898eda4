// Package device defines the boundary between the command layer and
// whatever transport talks to the bulb.
package device

import (
	"context"
	"encoding/json"

	"github.com/dokzlo13/tuyactl/internal/dps"
)

// DefaultProtocolVersion is the local protocol version of the bulb.
const DefaultProtocolVersion = "3.5"

// Target identifies the bulb and the credentials for its local session.
type Target struct {
	DeviceID string
	Address  string
	Key      string
	Version  string
}

// Status is the data point snapshot reported by the device.
type Status map[string]any

// String renders the status as a JSON object with keys in ascending order.
func (s Status) String() string {
	b, err := json.Marshal(map[string]any(s))
	if err != nil {
		return "{}"
	}
	return string(b)
}

// Session is an open connection to one bulb. Calls are synchronous and
// never retried by callers.
type Session interface {
	Status(ctx context.Context) (Status, error)
	Set(ctx context.Context, set dps.Set) error
	Close() error
}

// Dialer opens sessions.
type Dialer interface {
	Dial(ctx context.Context, target Target) (Session, error)
}

// DialerFunc adapts a function to the Dialer interface.
type DialerFunc func(ctx context.Context, target Target) (Session, error)

// Dial calls f.
func (f DialerFunc) Dial(ctx context.Context, target Target) (Session, error) {
	return f(ctx, target)
}
