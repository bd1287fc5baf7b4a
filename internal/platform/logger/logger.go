package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/phrazzld/todo-api/internal/config"
)

// ParseLevel converts a configured level name (case-insensitive) to a slog.Level.
func ParseLevel(name string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level %q", name)
	}
}

// New creates a structured JSON logger writing to w at the given level.
// An unknown level falls back to info and is reported on the returned logger.
func New(w io.Writer, levelName string) *slog.Logger {
	level, err := ParseLevel(levelName)

	logger := slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: level,
	}))

	if err != nil {
		logger.Warn("invalid log level configured, using default level",
			"configured_level", levelName,
			"default_level", "info")
	}
	return logger
}

// Setup initializes the application's logging system based on the provided
// configuration. It creates a JSON logger on stdout with the configured level
// and installs it as the slog default, so package-level slog calls share it.
func Setup(cfg config.ServerConfig) (*slog.Logger, error) {
	logger := New(os.Stdout, cfg.LogLevel)
	slog.SetDefault(logger)
	return logger, nil
}
