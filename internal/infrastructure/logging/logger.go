package logging

import (
	"io"
	"log/slog"
	"lunchly/internal/config"
	"os"
	"strings"

	"github.com/go-chi/traceid"
)

func NewLogger(cfg config.LoggerConfig) *slog.Logger {
	return newLogger(cfg, os.Stdout)
}

func newLogger(cfg config.LoggerConfig, out io.Writer) *slog.Logger {
	level := parseLevel(cfg.Level)

	opts := &slog.HandlerOptions{
		Level:     level,
		AddSource: level == slog.LevelDebug,
	}

	var handler slog.Handler
	if strings.EqualFold(cfg.Encoding, "text") {
		handler = slog.NewTextHandler(out, opts)
	} else {
		handler = slog.NewJSONHandler(out, opts)
	}
	handler = traceid.LogHandler(handler)

	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger
}

func parseLevel(s string) slog.Level {
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
