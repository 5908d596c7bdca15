package logging

import (
	"log/slog"
	"os"
	"strings"

	"github.com/go-chi/traceid"

	"swiftremind/internal/config"
)

func NewLogger(cfg config.LoggerConfig) *slog.Logger {
	var level slog.Level
	switch strings.ToLower(cfg.Level) {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{
		Level:     level,
		AddSource: level == slog.LevelDebug,
	}

	var handler slog.Handler
	if strings.ToLower(cfg.Encoding) == "text" {
		handler = slog.NewTextHandler(os.Stdout, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}

	// Stamps every record with the request trace ID when one is in context.
	handler = traceid.LogHandler(handler)

	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger
}
