package logging

import (
	"log/slog"
	"os"
	"strings"
)

var fallback = slog.New(slog.NewJSONHandler(os.Stderr, nil))

// Setup installs a JSON stdout logger as the slog default. Debug records are
// only emitted outside production.
func Setup(env string) *slog.Logger {
	level := slog.LevelInfo
	if env != "" && !strings.EqualFold(env, "production") {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	return logger
}

// WithDatabase replaces the default logger with one that also writes ERROR+
// records to pg.
func WithDatabase(base *slog.Logger, pg *PGHandler) *slog.Logger {
	logger := slog.New(NewMultiHandler(base.Handler(), pg))
	slog.SetDefault(logger)
	return logger
}
