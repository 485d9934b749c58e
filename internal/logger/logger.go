package logger

import (
	"io"
	"log/slog"

	"github.com/alkime/fader/internal/config"
)

// SetupLoggerTo configures structured logging based on environment,
// writing to w. The TUI owns stdout, so log output must be routable
// elsewhere (stderr, a file, or discarded).
func SetupLoggerTo(cfg *config.Config, w io.Writer) *slog.Logger {
	// Determine log level
	logLevel := slog.LevelInfo
	if cfg.Env == "development" {
		logLevel = slog.LevelDebug
	}
	if cfg.LogLevel == "debug" {
		logLevel = slog.LevelDebug
	}

	// Create JSON handler for structured logging
	//nolint:exhaustruct // Using default values for other HandlerOptions fields
	handler := slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: logLevel,
	})

	logger := slog.New(handler)

	// Set as default logger
	slog.SetDefault(logger)

	return logger
}
