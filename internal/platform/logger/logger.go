package logger

import (
	"log/slog"
	"os"
)

// New returns the gateway's structured logger. JSON output so the access log
// and audit worker lines are machine-parseable.
func New() *slog.Logger {
	level := slog.LevelInfo
	if os.Getenv("LOG_LEVEL") == "debug" {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
}
