// Package config loads process settings from the environment.
//
// CLI flags override anything loaded here.
package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/caarlos0/env/v11"

	"github.com/roach88/arcade/internal/engine"
)

// ErrInvalid is wrapped by every validation error.
var ErrInvalid = errors.New("invalid config")

// Log formats accepted by LogFormat.
const (
	LogFormatText = "text"
	LogFormatJSON = "json"
)

// Config holds environment-driven settings.
type Config struct {
	LogLevel  string `env:"ARCADE_LOG_LEVEL"  envDefault:"info"`
	LogFormat string `env:"ARCADE_LOG_FORMAT" envDefault:"text"`
	// Seed makes signal draws reproducible. Zero draws from the shared source.
	Seed uint64 `env:"ARCADE_SEED"`
}

// Load parses the environment and validates the result.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects unknown log levels and formats.
func (c Config) Validate() error {
	if _, err := c.Level(); err != nil {
		return err
	}
	switch strings.ToLower(c.LogFormat) {
	case LogFormatText, LogFormatJSON:
	default:
		return fmt.Errorf("%w: log format %q must be %s or %s", ErrInvalid, c.LogFormat, LogFormatText, LogFormatJSON)
	}
	return nil
}

// Level parses LogLevel ("debug", "info", "warn", "error", or an offset such
// as "info+2").
func (c Config) Level() (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("%w: log level %q: %v", ErrInvalid, c.LogLevel, err)
	}
	return lvl, nil
}

// NewLogger builds the process logger writing to w.
func (c Config) NewLogger(w io.Writer) (*slog.Logger, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	lvl, _ := c.Level()
	opts := &slog.HandlerOptions{Level: lvl}

	if strings.EqualFold(c.LogFormat, LogFormatJSON) {
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	}
	return slog.New(slog.NewTextHandler(w, opts)), nil
}

// Generator returns the signal source for a new engine.
func (c Config) Generator() engine.Generator {
	if c.Seed != 0 {
		return engine.NewSeededGenerator(c.Seed)
	}
	return engine.NewRandomGenerator()
}
