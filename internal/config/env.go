package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/coffersTech/nanolog/convertdates/internal/engine"
	"github.com/coffersTech/nanolog/convertdates/internal/storage"
)

// DefaultInputPath is the legacy log location used when no input is given.
const DefaultInputPath = "/path/to/logfile/with/old/timestamp/format.jsonl"

// Config holds the settings of one conversion run.
type Config struct {
	InputPath  string
	OutputPath string // empty means stdout
	SourceKey  string
	TargetKey  string
	OnInvalid  string // fail, invalid or null
	Compress   string // auto, none, gzip or zstd
	StatsPath  string
	Digest     bool
	Quiet      bool
}

// Load builds a Config from CONVERTDATES_* environment variables, falling
// back to defaults for unset ones.
func Load() Config {
	return Config{
		InputPath:  getEnv("CONVERTDATES_INPUT", DefaultInputPath),
		OutputPath: os.Getenv("CONVERTDATES_OUTPUT"),
		SourceKey:  getEnv("CONVERTDATES_SOURCE_KEY", engine.DefaultSourceKey),
		TargetKey:  getEnv("CONVERTDATES_TARGET_KEY", engine.DefaultTargetKey),
		OnInvalid:  getEnv("CONVERTDATES_ON_INVALID", engine.InvalidFail.String()),
		Compress:   getEnv("CONVERTDATES_COMPRESS", storage.CodecAuto.String()),
		StatsPath:  os.Getenv("CONVERTDATES_STATS"),
	}
}

// Validate checks the settings and returns the engine options they describe.
func (c Config) Validate() (engine.Options, error) {
	opts := engine.DefaultOptions()

	if c.InputPath == "" {
		return opts, errors.New("input path is required")
	}
	if c.SourceKey == "" || c.TargetKey == "" {
		return opts, errors.New("source and target keys must not be empty")
	}
	if c.SourceKey == c.TargetKey {
		return opts, fmt.Errorf("source and target keys are both %q", c.SourceKey)
	}
	policy, err := engine.ParseInvalidPolicy(c.OnInvalid)
	if err != nil {
		return opts, err
	}
	if _, err := storage.ParseCodec(c.Compress); err != nil {
		return opts, err
	}

	opts.SourceKey = c.SourceKey
	opts.TargetKey = c.TargetKey
	opts.OnInvalid = policy
	return opts, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
