// Package logger configures zerolog for the service and provides the gin middleware that
// writes one log line per HTTP request.
package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"gitlab.com/dirk.krummacker/contactbook/internal/config"
)

// New creates the application logger. The local environment gets human readable console
// output, all other environments get JSON.
func New(cfg config.Primary) zerolog.Logger {
	var w io.Writer = os.Stdout
	if cfg.Env == "local" {
		w = zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	}
	return NewWithWriter(w, cfg.LogLevel).With().Str("env", cfg.Env).Logger()
}

// NewWithWriter creates a logger writing to w at the given level. An unknown level falls back
// to info.
func NewWithWriter(w io.Writer, level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	return zerolog.New(w).Level(lvl).With().Timestamp().Logger()
}
