package security

import (
	"io"
	"testing"
)

func TestDigestMatchesSumBytes(t *testing.T) {
	d := NewDigest()
	io.WriteString(d, "{\"datetime\":\"1970-01-01T00:00:00.000Z\"}\n")
	io.WriteString(d, "{\"datetime\":\"2021-01-01T00:00:00.000Z\"}\n")

	want := SumBytes([]byte("{\"datetime\":\"1970-01-01T00:00:00.000Z\"}\n{\"datetime\":\"2021-01-01T00:00:00.000Z\"}\n"))
	if got := d.Sum(); got != want {
		t.Errorf("streamed digest %s differs from one-shot %s", got, want)
	}
	if d.Size() != 80 {
		t.Errorf("expected 80 bytes, got %d", d.Size())
	}
}

func TestDigestEmpty(t *testing.T) {
	// BLAKE2b-256 of the empty input.
	const empty = "0e5751c026e543b2e8ab2eb06099daa1d1e5df47778f7787faab45cdf12fe3a8"
	if got := NewDigest().Sum(); got != empty {
		t.Errorf("got %s, want %s", got, empty)
	}
	if len(SumBytes([]byte("x"))) != 64 {
		t.Error("expected a 32 byte hex digest")
	}
}
