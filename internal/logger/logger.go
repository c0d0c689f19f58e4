package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/lmittmann/tint"
)

// ParseLogLevel converts a string log level to slog.Level
func ParseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// InitLogger creates a logger with the specified log level.
// Uses colourised text on stderr for the dev environment, otherwise output is JSON on stdout.
// debug forces the debug level regardless of logLevel.
func InitLogger(logLevel slog.Level, environment string, debug bool) *slog.Logger {
	if debug {
		logLevel = slog.LevelDebug
	}

	if environment == "dev" {
		return newTextLogger(os.Stderr, logLevel)
	}
	return newJSONLogger(os.Stdout, logLevel)
}

func newTextLogger(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(
		tint.NewHandler(w, &tint.Options{
			Level:      level,
			TimeFormat: time.Kitchen,
		}),
	)
}

func newJSONLogger(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(
		slog.NewJSONHandler(w, &slog.HandlerOptions{
			Level: level,
		}))
}

// Discard returns a logger that drops all output
func Discard() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}
