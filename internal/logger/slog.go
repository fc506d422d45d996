package logger

import (
	"context"
	"log/slog"
	"path/filepath"
	"runtime"
	"strings"
	"time"
)

// appLogger wraps slog so handlers and services depend on the small
// Logger interface instead of a concrete logging library.
type appLogger struct {
	logger *slog.Logger
}

func (l *appLogger) Debug(msg string, args ...any) { l.emit(slog.LevelDebug, msg, args...) }
func (l *appLogger) Info(msg string, args ...any)  { l.emit(slog.LevelInfo, msg, args...) }
func (l *appLogger) Warn(msg string, args ...any)  { l.emit(slog.LevelWarn, msg, args...) }
func (l *appLogger) Error(msg string, args ...any) { l.emit(slog.LevelError, msg, args...) }

// emit builds the record manually so the reported source line points at
// the caller of Debug/Info/etc, not at this wrapper.
func (l *appLogger) emit(level slog.Level, msg string, args ...any) {
	ctx := context.Background()
	if !l.logger.Enabled(ctx, level) {
		return
	}

	var pcs [1]uintptr
	runtime.Callers(3, pcs[:]) // skip Callers, emit and the level method

	record := slog.NewRecord(time.Now(), level, msg, pcs[0])
	record.Add(args...)
	_ = l.logger.Handler().Handle(ctx, record)
}

func (l *appLogger) With(args ...any) Logger {
	return &appLogger{logger: l.logger.With(args...)}
}

func (l *appLogger) WithGroup(name string) Logger {
	return &appLogger{logger: l.logger.WithGroup(name)}
}

// parseLevelString maps a level name to slog.Level, falling back to info
// for anything it does not recognize
func parseLevelString(level string) slog.Level {
	switch strings.ToLower(level) {
	case LevelDebug:
		return slog.LevelDebug
	case LevelWarn:
		return slog.LevelWarn
	case LevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// trimSourceDir keeps only the base filename in source attrs
func trimSourceDir(groups []string, a slog.Attr) slog.Attr {
	if a.Key == slog.SourceKey {
		if source, ok := a.Value.Any().(*slog.Source); ok {
			source.File = filepath.Base(source.File)
		}
	}

	return a
}
