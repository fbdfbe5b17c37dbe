package engine

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Stats summarizes a single conversion run.
type Stats struct {
	LinesRead         int64         `json:"lines_read"`
	BlankLines        int64         `json:"blank_lines"`
	RecordsWritten    int64         `json:"records_written"`
	InvalidTimestamps int64         `json:"invalid_timestamps"`
	BytesIn           int64         `json:"bytes_in"`  // after decompression
	BytesOut          int64         `json:"bytes_out"` // before compression
	Duration          time.Duration `json:"duration_ns"`

	// Earliest and Latest bound the converted timestamps; Daily counts
	// records per UTC day.
	Earliest string           `json:"earliest,omitempty"`
	Latest   string           `json:"latest,omitempty"`
	Daily    []HistogramPoint `json:"daily,omitempty"`
}

// String returns a one-line summary for diagnostics.
func (s Stats) String() string {
	return fmt.Sprintf("%d records written (%d lines read, %d blank, %d invalid timestamps), %d bytes in, %d bytes out, took %v",
		s.RecordsWritten, s.LinesRead, s.BlankLines, s.InvalidTimestamps, s.BytesIn, s.BytesOut, s.Duration.Round(time.Microsecond))
}

// LoadStats reads a stats file written by SaveStats.
func LoadStats(path string) (Stats, error) {
	var stats Stats
	data, err := os.ReadFile(path)
	if err != nil {
		return stats, err
	}
	if err := json.Unmarshal(data, &stats); err != nil {
		return stats, fmt.Errorf("decoding stats %s: %w", path, err)
	}
	return stats, nil
}

// SaveStats writes stats to path atomically.
func SaveStats(path string, stats Stats) error {
	data, err := json.MarshalIndent(stats, "", "  ")
	if err != nil {
		return err
	}

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}

	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0644); err != nil {
		return err
	}
	return os.Rename(tmpPath, path)
}
