// Package logging configures structured logging for the expense binaries.
//
// Usage:
//
//	logging.Setup(logging.Options{})                      // tint, level from LOG_LEVEL
//	logging.Setup(logging.Options{Format: logging.JSON})  // JSON lines for log shipping
//
// Environment variables:
//
//	LOG_LEVEL: debug, info, warn, error (default: info)
//	LOG_FORMAT: text, json (default: text)
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/lmittmann/tint"
)

// Format selects the log handler.
type Format string

const (
	Text Format = "text"
	JSON Format = "json"
)

// Options configures Setup. Zero values fall back to the environment.
type Options struct {
	Writer io.Writer
	Level  *slog.Level
	Format Format
}

// Setup installs the default slog logger and returns it.
func Setup(opts Options) *slog.Logger {
	logger := New(opts)
	slog.SetDefault(logger)
	return logger
}

// New builds a logger without installing it.
func New(opts Options) *slog.Logger {
	w := opts.Writer
	if w == nil {
		w = os.Stderr
	}
	level := ParseLevel(os.Getenv("LOG_LEVEL"))
	if opts.Level != nil {
		level = *opts.Level
	}
	format := opts.Format
	if format == "" {
		format = Format(strings.ToLower(os.Getenv("LOG_FORMAT")))
	}

	if format == JSON {
		return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level}))
	}
	return slog.New(tint.NewHandler(w, &tint.Options{
		Level:      level,
		TimeFormat: time.Kitchen,
		AddSource:  level == slog.LevelDebug,
	}))
}

// ParseLevel maps debug, warn and error to their slog levels; anything else is info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
