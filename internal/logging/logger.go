package logging

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// Config holds logging configuration
type Config struct {
	Level      zerolog.Level
	Format     string // "json" or "console"
	TimeFormat string
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		Level:      zerolog.InfoLevel,
		Format:     "console",
		TimeFormat: time.RFC3339,
	}
}

// New creates a new zerolog logger with the given configuration
func New(cfg Config) zerolog.Logger {
	var output io.Writer = os.Stderr

	switch cfg.Format {
	case "console":
		output = zerolog.ConsoleWriter{
			Out:        os.Stderr,
			TimeFormat: cfg.TimeFormat,
		}
	case "json":
		// JSON is the default zerolog format
		output = os.Stderr
	}

	return zerolog.New(output).
		Level(cfg.Level).
		With().
		Timestamp().
		Logger()
}

// FromSettings builds a logger from the textual level/format pair used
// in the config file, falling back to defaults on unknown values.
func FromSettings(level, format string) zerolog.Logger {
	cfg := DefaultConfig()
	if l, err := zerolog.ParseLevel(level); err == nil && level != "" {
		cfg.Level = l
	}
	switch format {
	case "json", "console":
		cfg.Format = format
	}
	return New(cfg)
}

// NewFromEnv creates a logger based on environment variables
// DUSKD_LOG_LEVEL: trace, debug, info, warn, error (default: info)
// DUSKD_LOG_FORMAT: json, console (default: console)
func NewFromEnv() zerolog.Logger {
	return FromSettings(os.Getenv("DUSKD_LOG_LEVEL"), os.Getenv("DUSKD_LOG_FORMAT"))
}
