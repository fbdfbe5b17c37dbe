package engine

import (
	"fmt"
	"runtime"
	"strings"
)

const (
	// DefaultSourceKey holds the epoch seconds on input records.
	DefaultSourceKey = "time_str"
	// DefaultTargetKey receives the ISO-8601 timestamp.
	DefaultTargetKey = "datetime"
)

// InvalidPolicy decides what happens when the source field does not hold a
// usable epoch value.
type InvalidPolicy int

const (
	// InvalidFail aborts the run with ErrTimestamp.
	InvalidFail InvalidPolicy = iota
	// InvalidString writes "Invalid Date" into the target field.
	InvalidString
	// InvalidNull writes JSON null into the target field.
	InvalidNull
)

func (p InvalidPolicy) String() string {
	switch p {
	case InvalidString:
		return "invalid"
	case InvalidNull:
		return "null"
	default:
		return "fail"
	}
}

// ParseInvalidPolicy maps fail, invalid or null to a policy.
func ParseInvalidPolicy(s string) (InvalidPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "fail":
		return InvalidFail, nil
	case "invalid":
		return InvalidString, nil
	case "null":
		return InvalidNull, nil
	}
	return InvalidFail, fmt.Errorf("unknown invalid timestamp policy %q (want fail, invalid or null)", s)
}

// Options configures a Transformer.
type Options struct {
	SourceKey     string // field holding epoch seconds, removed from the output
	TargetKey     string // field receiving the ISO-8601 timestamp
	LineSeparator string // input line separator
	OnInvalid     InvalidPolicy
}

// DefaultOptions converts time_str into datetime and splits input on the
// host platform's line ending.
func DefaultOptions() Options {
	return Options{
		SourceKey:     DefaultSourceKey,
		TargetKey:     DefaultTargetKey,
		LineSeparator: PlatformEOL(),
		OnInvalid:     InvalidFail,
	}
}

// PlatformEOL returns the native end-of-line sequence.
func PlatformEOL() string {
	if runtime.GOOS == "windows" {
		return "\r\n"
	}
	return "\n"
}

func (o Options) withDefaults() Options {
	def := DefaultOptions()
	if o.SourceKey == "" {
		o.SourceKey = def.SourceKey
	}
	if o.TargetKey == "" {
		o.TargetKey = def.TargetKey
	}
	if o.LineSeparator == "" {
		o.LineSeparator = def.LineSeparator
	}
	return o
}
