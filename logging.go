package main

import (
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
)

// newAppLogger writes JSON log lines to the config dir. The TUI log pane
// shows its own human-readable mirror of the interesting events.
func newAppLogger() zerolog.Logger {
	dir := resolveConfigDir()
	var out io.Writer = io.Discard
	if err := ensureDir(dir); err == nil {
		f, err := os.OpenFile(filepath.Join(dir, "leetterm.log"), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		if err == nil {
			out = f
		}
	}
	return zerolog.New(out).With().Timestamp().Logger().Level(zerolog.InfoLevel)
}

func nopLogger() zerolog.Logger {
	return zerolog.Nop()
}

func init() {
	zerolog.TimeFieldFormat = time.RFC3339
}
