package main

import (
	"io"
	"time"

	"github.com/rs/zerolog"
)

// setupLogger writes human readable logs, or JSON when structured is set.
// Logs always go to w (stderr) so they never mix with converted output.
func setupLogger(w io.Writer, debug, structured bool) zerolog.Logger {
	level := zerolog.InfoLevel
	if debug {
		level = zerolog.DebugLevel
	}

	if structured {
		zerolog.TimeFieldFormat = time.RFC3339Nano
	} else {
		w = zerolog.ConsoleWriter{Out: w}
	}

	return zerolog.New(w).
		Level(level).
		With().
		Timestamp().
		Logger()
}
