// Package logging configures colored structured logging with tint.
//
// Usage:
//
//	logging.Setup("")       // level from LOG_LEVEL, default info
//	logging.Setup("debug")  // explicit level, LOG_LEVEL still wins when set
//
// Environment variables:
//
//	LOG_LEVEL: debug, info, warn, error
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/lmittmann/tint"
)

// Setup configures colored logging on stderr at the given level name.
// LOG_LEVEL overrides level when set.
func Setup(level string) {
	if env := os.Getenv("LOG_LEVEL"); env != "" {
		level = env
	}
	SetupWithLevel(ParseLevel(level))
}

// SetupWithLevel configures colored logging at the given level.
func SetupWithLevel(level slog.Level) {
	slog.SetDefault(New(os.Stderr, level))
}

// New returns a tint logger writing to w.
func New(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(tint.NewHandler(w, &tint.Options{
		Level:      level,
		TimeFormat: time.Kitchen,
		AddSource:  true,
	}))
}

// ParseLevel maps debug, warn and error to their slog levels. Anything else is info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
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
