package simgo

import (
	"context"
	"log/slog"
	"os"
)

// Logger wraps slog.Logger with simgo-specific context.
// This provides structured logging with consistent field names.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a new Logger with the given handler.
// If handler is nil, uses default text handler to stderr.
func NewLogger(handler slog.Handler) *Logger {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	}
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewJSONLogger creates a Logger that outputs JSON-formatted logs.
func NewJSONLogger(level slog.Level) *Logger {
	handler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewTextLogger creates a Logger that outputs human-readable text logs.
func NewTextLogger(level slog.Level) *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NoopLogger creates a Logger that discards all log output.
func NoopLogger() *Logger {
	return &Logger{
		Logger: slog.New(slog.DiscardHandler),
	}
}

// WithMatcher adds a matcher field to the logger.
func (l *Logger) WithMatcher(name string) *Logger {
	return &Logger{
		Logger: l.Logger.With("matcher", name),
	}
}

// LogMatch logs a match operation. The matcher name comes from WithMatcher.
func (l *Logger) LogMatch(ctx context.Context, results int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "match failed",
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "match completed",
			"results", results,
		)
	}
}

// LogLoad logs the construction of a knowledge base.
func (l *Logger) LogLoad(ctx context.Context, classes, individuals int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "load failed",
			"error", err,
		)
	} else {
		l.InfoContext(ctx, "knowledge base loaded",
			"classes", classes,
			"individuals", individuals,
		)
	}
}
