package engine

import (
	"errors"
	"math"
	"testing"

	"github.com/valyala/fastjson"
)

func TestEpochSeconds(t *testing.T) {
	tests := []struct {
		input string
		want  float64 // NaN means no leading integer
	}{
		{`"1609459200"`, 1609459200},
		{`"0"`, 0},
		{`"  42abc"`, 42},
		{`" \t17"`, 17},
		{`"+12"`, 12},
		{`"-5"`, -5},
		{`"0x1F"`, 31},
		{`"0x"`, math.NaN()},
		{`"1e3"`, 1},
		{`"12.75"`, 12},
		{`"abc"`, math.NaN()},
		{`""`, math.NaN()},
		{`1609459200`, 1609459200},
		{`1.9`, 1},
		{`-3.2`, -3},
		{`1.5e21`, 1},
		{`1e-7`, 1},
		{`true`, math.NaN()},
		{`false`, math.NaN()},
		{`null`, math.NaN()},
		{`{"a":1}`, math.NaN()},
		{`[7,8]`, 7},
		{`["99"]`, 99},
		{`[]`, math.NaN()},
		{`[null,3]`, math.NaN()},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := EpochSeconds(fastjson.MustParse(tt.input))
			if math.IsNaN(tt.want) {
				if !math.IsNaN(got) {
					t.Errorf("expected NaN, got %v", got)
				}
				return
			}
			if got != tt.want {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestEpochSecondsNil(t *testing.T) {
	if got := EpochSeconds(nil); !math.IsNaN(got) {
		t.Errorf("expected NaN for a missing value, got %v", got)
	}
}

func TestFormatISO(t *testing.T) {
	tests := []struct {
		ms   int64
		want string
	}{
		{0, "1970-01-01T00:00:00.000Z"},
		{1609459200000, "2021-01-01T00:00:00.000Z"},
		{1609459200123, "2021-01-01T00:00:00.123Z"},
		{-1, "1969-12-31T23:59:59.999Z"},
		{253402300799999, "9999-12-31T23:59:59.999Z"},
		{253402300800000, "+010000-01-01T00:00:00.000Z"},
		{-62167219200000, "0000-01-01T00:00:00.000Z"},
		{-62198755200000, "-000001-01-01T00:00:00.000Z"},
		{8640000000000000, "+275760-09-13T00:00:00.000Z"},
		{-8640000000000000, "-271821-04-20T00:00:00.000Z"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := FormatISO(tt.ms); got != tt.want {
				t.Errorf("FormatISO(%d) = %s, want %s", tt.ms, got, tt.want)
			}
		})
	}
}

func TestConvertSeconds(t *testing.T) {
	got, err := ConvertSeconds(1609459200)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "2021-01-01T00:00:00.000Z" {
		t.Errorf("unexpected datetime %s", got)
	}

	if got, err := ConvertSeconds(8.64e12); err != nil || got != "+275760-09-13T00:00:00.000Z" {
		t.Errorf("upper bound: got %q, %v", got, err)
	}

	for _, sec := range []float64{math.NaN(), 8.64e12 + 1, -8.64e12 - 1, math.Inf(1), math.Inf(-1)} {
		if _, err := ConvertSeconds(sec); err == nil {
			t.Errorf("expected an error for %v", sec)
		}
	}
}

func TestParseInvalidPolicy(t *testing.T) {
	for in, want := range map[string]InvalidPolicy{
		"":        InvalidFail,
		"fail":    InvalidFail,
		"INVALID": InvalidString,
		" null ":  InvalidNull,
	} {
		got, err := ParseInvalidPolicy(in)
		if err != nil {
			t.Fatalf("ParseInvalidPolicy(%q): %v", in, err)
		}
		if got != want {
			t.Errorf("ParseInvalidPolicy(%q) = %v, want %v", in, got, want)
		}
	}

	if _, err := ParseInvalidPolicy("skip"); err == nil {
		t.Error("expected an error for an unknown policy")
	}
}

func TestLineErrorUnwrap(t *testing.T) {
	cause := errors.New("boom")
	err := error(&LineError{Line: 3, Kind: ErrTimestamp, Err: cause})

	if !errors.Is(err, ErrTimestamp) || !errors.Is(err, cause) {
		t.Errorf("expected both kind and cause to match: %v", err)
	}
	if errors.Is(err, ErrParse) {
		t.Error("did not expect ErrParse")
	}
	if got := err.Error(); got != "line 3: invalid timestamp: boom" {
		t.Errorf("unexpected message %q", got)
	}
}
