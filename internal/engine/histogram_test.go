package engine

import (
	"bytes"
	"context"
	"reflect"
	"strings"
	"testing"
	"time"
)

func TestHistogram(t *testing.T) {
	h := NewHistogram(24 * time.Hour)
	if _, _, ok := h.Span(); ok {
		t.Fatal("empty histogram should have no span")
	}

	day := (24 * time.Hour).Milliseconds()
	for _, ms := range []int64{day + 5, 10, day * 3, -1, day + 7} {
		h.Add(ms)
	}

	want := []HistogramPoint{
		{Time: "1969-12-31T00:00:00.000Z", Count: 1},
		{Time: "1970-01-01T00:00:00.000Z", Count: 1},
		{Time: "1970-01-02T00:00:00.000Z", Count: 2},
		{Time: "1970-01-04T00:00:00.000Z", Count: 1},
	}
	if got := h.Points(); !reflect.DeepEqual(got, want) {
		t.Errorf("got %+v, want %+v", got, want)
	}

	first, last, ok := h.Span()
	if !ok || first != -1 || last != day*3 {
		t.Errorf("unexpected span %d..%d (%v)", first, last, ok)
	}
	if h.Count() != 5 {
		t.Errorf("expected 5 timestamps, got %d", h.Count())
	}
}

func TestHistogramDefaultInterval(t *testing.T) {
	h := NewHistogram(0)
	h.Add(1)
	h.Add((24 * time.Hour).Milliseconds() - 1)
	if points := h.Points(); len(points) != 1 || points[0].Count != 2 {
		t.Errorf("expected a single day bucket, got %+v", points)
	}
}

func TestRunRecordsSpan(t *testing.T) {
	input := strings.Join([]string{
		`{"time_str":"1609545600"}`,
		`{"time_str":"1609459200"}`,
		`{"time_str":"bogus"}`,
		`{"time_str":"1609466400"}`,
	}, "\n")

	var out bytes.Buffer
	stats, err := newTestTransformer(Options{OnInvalid: InvalidString}).Run(context.Background(), strings.NewReader(input), &out)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if stats.Earliest != "2021-01-01T00:00:00.000Z" || stats.Latest != "2021-01-02T00:00:00.000Z" {
		t.Errorf("unexpected span %s..%s", stats.Earliest, stats.Latest)
	}
	want := []HistogramPoint{
		{Time: "2021-01-01T00:00:00.000Z", Count: 2},
		{Time: "2021-01-02T00:00:00.000Z", Count: 1},
	}
	if !reflect.DeepEqual(stats.Daily, want) {
		t.Errorf("got %+v, want %+v", stats.Daily, want)
	}
	if stats.InvalidTimestamps != 1 {
		t.Errorf("expected 1 invalid timestamp, got %d", stats.InvalidTimestamps)
	}
}
