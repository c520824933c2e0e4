// Package logging builds the shim's zerolog logger from the numeric verbosity
// used by the configuration files (0=off 1=error 2=warn 3=info 4=debug).
package logging

import (
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Level is the configured verbosity.
type Level int

const (
	LevelOff Level = iota
	LevelError
	LevelWarn
	LevelInfo
	LevelDebug
)

// DefaultLevel is used when nothing else is configured.
const DefaultLevel = LevelInfo

// ParseLevel accepts either the numeric form or a level name. ok is false when
// s is neither.
func ParseLevel(s string) (Level, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	switch s {
	case "off", "none":
		return LevelOff, true
	case "error", "err":
		return LevelError, true
	case "warn", "warning":
		return LevelWarn, true
	case "info":
		return LevelInfo, true
	case "debug", "trace":
		return LevelDebug, true
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return DefaultLevel, false
	}
	if n < 0 {
		return LevelOff, true
	}
	return Level(n), true
}

// Zerolog maps the verbosity onto a zerolog level. Anything above debug enables trace.
func (l Level) Zerolog() zerolog.Level {
	switch {
	case l <= LevelOff:
		return zerolog.Disabled
	case l == LevelError:
		return zerolog.ErrorLevel
	case l == LevelWarn:
		return zerolog.WarnLevel
	case l == LevelInfo:
		return zerolog.InfoLevel
	case l == LevelDebug:
		return zerolog.DebugLevel
	default:
		return zerolog.TraceLevel
	}
}

// New returns a console logger writing to w (stderr when nil) at the given level.
func New(w io.Writer, level Level) zerolog.Logger {
	if w == nil {
		w = os.Stderr
	}
	cw := zerolog.ConsoleWriter{Out: w, NoColor: true, TimeFormat: time.TimeOnly}
	return zerolog.New(cw).Level(level.Zerolog()).With().Timestamp().Str("component", "neuron-shim").Logger()
}

// Nop is a disabled logger for callers that were not handed one.
func Nop() zerolog.Logger { return zerolog.Nop() }
