package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// NewJSONLogger returns the service-wide JSON logger writing to stdout. Every
// record carries a service attribute so the analyzer and worker binaries stay
// separable in aggregated output.
func NewJSONLogger(service, level string) *slog.Logger {
	return New(os.Stdout, service, level)
}

// New builds a JSON logger on an arbitrary writer. Unknown level strings fall
// back to info, matching the config loader's fallback convention.
func New(w io.Writer, service, level string) *slog.Logger {
	handler := slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: parseLevel(level),
	})
	return slog.New(handler).With("service", service)
}

func parseLevel(level string) slog.Level {
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
