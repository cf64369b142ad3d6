package logging

import (
	"context"
	"log/slog"
	"os"
	"strings"
)

// NewLogger returns a JSON slog logger tagged with the service name.
func NewLogger(service string) *slog.Logger {
	return NewLoggerWithLevel(service, slog.LevelInfo)
}

// NewLoggerWithLevel is NewLogger with an explicit minimum level.
func NewLoggerWithLevel(service string, level slog.Level) *slog.Logger {
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{AddSource: true, Level: level})
	return slog.New(handler).With(slog.String("service", service))
}

// ParseLevel maps LOG_LEVEL style strings to slog levels, defaulting to info.
func ParseLevel(raw string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(raw)) {
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

// WithRequestID attaches a request identifier to the logger context.
func WithRequestID(_ context.Context, logger *slog.Logger, requestID string) *slog.Logger {
	if requestID == "" {
		return logger
	}
	return logger.With(slog.String("requestId", requestID))
}
