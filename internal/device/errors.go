package device

import (
	"errors"
	"fmt"
)

// Transport operations reported in TransportError.
const (
	OpConnect = "connect"
	OpRead    = "read"
	OpWrite   = "write"
)

// TransportError is a failure of the device session.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("device %s failed: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// Wrap returns err as a TransportError for op. Errors that already are
// TransportErrors are returned unchanged. A nil err stays nil.
func Wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	var terr *TransportError
	if errors.As(err, &terr) {
		return err
	}
	return &TransportError{Op: op, Err: err}
}

// IsTransport reports whether err is, or wraps, a TransportError.
func IsTransport(err error) bool {
	var terr *TransportError
	return errors.As(err, &terr)
}
