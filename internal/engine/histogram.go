package engine

import (
	"sort"
	"time"
)

// HistogramPoint is one non-empty bucket of a Histogram.
type HistogramPoint struct {
	Time  string `json:"time"` // bucket start, ISO-8601
	Count int    `json:"count"`
}

// Histogram aggregates converted timestamps into fixed-width time buckets
// and tracks the earliest and latest instant seen.
type Histogram struct {
	interval int64 // milliseconds
	buckets  map[int64]int
	min, max int64
	n        int
}

// NewHistogram creates a histogram with buckets of the given width. Widths
// below one millisecond fall back to one day.
func NewHistogram(interval time.Duration) *Histogram {
	ms := interval.Milliseconds()
	if ms <= 0 {
		ms = (24 * time.Hour).Milliseconds()
	}
	return &Histogram{
		interval: ms,
		buckets:  make(map[int64]int),
	}
}

// Add counts one record at ms milliseconds since the epoch.
func (h *Histogram) Add(ms int64) {
	if h.n == 0 || ms < h.min {
		h.min = ms
	}
	if h.n == 0 || ms > h.max {
		h.max = ms
	}
	h.n++

	// Floor division so instants before the epoch land in the right bucket.
	bucket := ms / h.interval
	if ms%h.interval < 0 {
		bucket--
	}
	h.buckets[bucket*h.interval]++
}

// Count returns the number of timestamps added.
func (h *Histogram) Count() int {
	return h.n
}

// Span returns the earliest and latest timestamps added.
func (h *Histogram) Span() (min, max int64, ok bool) {
	return h.min, h.max, h.n > 0
}

// Points returns the non-empty buckets in time order.
func (h *Histogram) Points() []HistogramPoint {
	keys := make([]int64, 0, len(h.buckets))
	for k := range h.buckets {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })

	points := make([]HistogramPoint, 0, len(keys))
	for _, k := range keys {
		points = append(points, HistogramPoint{Time: FormatISO(k), Count: h.buckets[k]})
	}
	return points
}
