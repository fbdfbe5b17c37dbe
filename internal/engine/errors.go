package engine

import (
	"errors"
	"fmt"
)

var (
	// ErrIO marks failures reading the input or writing the output.
	ErrIO = errors.New("io error")
	// ErrParse marks a line that is not a valid JSON object.
	ErrParse = errors.New("parse error")
	// ErrTimestamp marks a source field that does not hold a usable epoch value.
	ErrTimestamp = errors.New("invalid timestamp")
)

// LineError reports the input line a conversion failed on.
type LineError struct {
	Line int   // 1-based; zero when the line was converted on its own
	Kind error // ErrParse or ErrTimestamp
	Err  error
}

func (e *LineError) Error() string {
	if e.Line == 0 {
		return fmt.Sprintf("%v: %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("line %d: %v: %v", e.Line, e.Kind, e.Err)
}

func (e *LineError) Unwrap() []error {
	return []error{e.Kind, e.Err}
}

func ioError(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrIO, op, err)
}
