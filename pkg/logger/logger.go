// Package logger provides slog construction and common log attributes.
package logger

import (
	"log/slog"
	"os"
	"strings"

	"go.uber.org/fx"
)

// Module provides the application logger.
var Module = fx.Module("logger",
	fx.Provide(NewLogger),
)

// Scope returns a slog attribute identifying the logging component.
func Scope(scope string) slog.Attr {
	return slog.String("scope", scope)
}

// Error returns a slog attribute carrying an error value.
func Error(err error) slog.Attr {
	return slog.Any("error", err)
}

// NewLogger builds a slog.Logger from LOG_LEVEL and GO_ENV.
// Production (GO_ENV=production) logs JSON; everything else logs text.
func NewLogger() *slog.Logger {
	level := parseLevel(os.Getenv("LOG_LEVEL"))

	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if os.Getenv("GO_ENV") == "production" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	return slog.New(handler)
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
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
