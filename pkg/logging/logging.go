// Package logging configures structured logging for Debty.
//
// Text output goes through tint (colored unless disabled), JSON output
// through slog's JSON handler for log shippers.
//
// Usage:
//
//	logger := logging.New(logging.Options{Level: "debug"})
//	slog.SetDefault(logger)
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/lmittmann/tint"
)

// Options selects the handler and level.
type Options struct {
	Level     string // debug, info, warn, error (default: info)
	Format    string // text or json (default: text)
	NoColor   bool
	AddSource bool
	// Writer defaults to os.Stderr.
	Writer io.Writer
}

// New builds a logger from opts.
func New(opts Options) *slog.Logger {
	w := opts.Writer
	if w == nil {
		w = os.Stderr
	}
	level := ParseLevel(opts.Level)

	if strings.EqualFold(opts.Format, "json") {
		return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{
			Level:     level,
			AddSource: opts.AddSource,
		}))
	}
	return slog.New(tint.NewHandler(w, &tint.Options{
		Level:      level,
		TimeFormat: time.Kitchen,
		AddSource:  opts.AddSource,
		NoColor:    opts.NoColor,
	}))
}

// Setup installs a logger built from opts as the slog default and returns it.
func Setup(opts Options) *slog.Logger {
	logger := New(opts)
	slog.SetDefault(logger)
	return logger
}

// ParseLevel maps a level name to a slog.Level, falling back to info.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
