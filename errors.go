package tutorial

import (
	"fmt"

	"github.com/pkg/errors"
)

// FormatError is returned when CSV content does not match its Layout: a row
// whose field count differs from the header, a header too short for the
// layout, or a price which is not a finite number.
type FormatError struct {
	// Line is the 1-based line number in the CSV content, 0 if the error
	// isn't tied to a line.
	Line int
	Msg  string
}

func (e *FormatError) Error() string {
	if e.Line == 0 {
		return "invalid CSV format: " + e.Msg
	}
	return fmt.Sprintf("invalid CSV format: line %d: %s", e.Line, e.Msg)
}

func formatErrorf(line int, format string, args ...interface{}) error {
	return &FormatError{Line: line, Msg: fmt.Sprintf(format, args...)}
}

// NotFoundError is returned by stores when nothing is stored under a URI.
type NotFoundError struct {
	URI string
}

func (e *NotFoundError) Error() string {
	return "nothing found at " + e.URI
}

// NewNotFoundError returns a *NotFoundError for uri.
func NewNotFoundError(uri string) error {
	return &NotFoundError{URI: uri}
}

// IsFormat reports whether the cause of err is a *FormatError.
func IsFormat(err error) bool {
	_, ok := errors.Cause(err).(*FormatError)
	return ok
}

// IsNotFound reports whether the cause of err is a *NotFoundError.
func IsNotFound(err error) bool {
	_, ok := errors.Cause(err).(*NotFoundError)
	return ok
}
