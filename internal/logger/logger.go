package logger

import (
	"fmt"
	"log/slog"
	"os"
)

// Log level names accepted in config
const (
	LevelDebug = "debug"
	LevelInfo  = "info"
	LevelWarn  = "warn"
	LevelError = "error"
)

// Environments the service may run in.
// Dev writes human readable text, production writes JSON lines.
const (
	EnvDev        = "dev"
	EnvProduction = "prod"
)

// Logger is the logging contract the rest of the service depends on
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)

	With(args ...any) Logger
	WithGroup(name string) Logger
}

// New creates a logger for the given environment and level
func New(environment string, level string) (Logger, error) {
	opts := &slog.HandlerOptions{
		Level:       parseLevelString(level),
		AddSource:   true,
		ReplaceAttr: trimSourceDir,
	}

	var handler slog.Handler
	switch environment {
	case EnvDev:
		handler = slog.NewTextHandler(os.Stdout, opts)
	case EnvProduction:
		handler = slog.NewJSONHandler(os.Stdout, opts)
	default:
		return nil, fmt.Errorf("unknown environment %q", environment)
	}

	return &appLogger{logger: slog.New(handler)}, nil
}

// NewNoOpLogger creates a logger that discards everything. Meant for tests.
func NewNoOpLogger() Logger {
	return &appLogger{logger: slog.New(slog.DiscardHandler)}
}
