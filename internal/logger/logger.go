// Package logger builds the application's structured logger. The TUI owns
// stdout, so diagnostics go to a log file in the data directory.
package logger

import (
	"io"
	"time"

	"github.com/rs/zerolog"
)

// New creates a zerolog logger writing human-readable lines to w at the
// given level. Unknown levels fall back to info.
func New(w io.Writer, level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}

	output := zerolog.ConsoleWriter{
		Out:        w,
		TimeFormat: time.RFC3339,
		NoColor:    true,
	}

	return zerolog.New(output).
		Level(lvl).
		With().
		Timestamp().
		Str("service", "iris").
		Logger()
}
