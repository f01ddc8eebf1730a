package logger

import (
	"log/slog"
	"os"
	"strings"
)

// New returns the process logger. JSON output keeps log shipping simple;
// level comes from DOCGATE_LOG_LEVEL (debug|info|warn|error, default info).
func New() *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: levelFromEnv(),
	}))
}

func levelFromEnv() slog.Level {
	switch strings.ToLower(os.Getenv("DOCGATE_LOG_LEVEL")) {
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
