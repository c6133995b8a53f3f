// Package logging builds the process logger. JSON output suits CloudWatch
// ingestion; console output is for running the job by hand.
package logging

import (
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog"
)

const (
	FormatJSON    = "json"
	FormatConsole = "console"
)

const consoleTimeFormat = "2006-01-02T15:04:05.000Z07:00"

// ParseLevel accepts trace, debug, info, warn and error. Empty means info.
func ParseLevel(s string) (zerolog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return zerolog.InfoLevel, nil
	case "trace", "debug", "info", "warn", "error":
		return zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(s)))
	default:
		return zerolog.NoLevel, fmt.Errorf("unknown log level %q", s)
	}
}

// New returns a logger writing to w. Invalid levels fall back to info.
func New(w io.Writer, level, format string) zerolog.Logger {
	lvl, err := ParseLevel(level)
	if err != nil {
		lvl = zerolog.InfoLevel
	}

	if strings.EqualFold(format, FormatConsole) {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: consoleTimeFormat}
	}

	return zerolog.New(w).
		Level(lvl).
		With().
		Timestamp().
		Str("service", "instance-scheduler").
		Logger()
}
