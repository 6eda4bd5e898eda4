package intent

import (
	"errors"
	"fmt"
)

// ValidationError reports user input that violates a constraint. It is
// always raised before any device I/O.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return fmt.Sprintf("--%s: %s", e.Field, e.Reason)
}

// Invalid builds a ValidationError for the given flag.
func Invalid(field, format string, args ...any) error {
	return &ValidationError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

// IsValidation reports whether err is, or wraps, a ValidationError.
func IsValidation(err error) bool {
	var verr *ValidationError
	return errors.As(err, &verr)
}
