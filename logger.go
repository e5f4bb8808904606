package tskit

import (
	"context"
	"io"
	"log/slog"
	"os"
	"time"
)

// Logger wraps slog.Logger with tskit-specific context.
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
// level sets the minimum log level (e.g., slog.LevelDebug, slog.LevelInfo).
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
// Use this to disable logging entirely.
func NoopLogger() *Logger {
	handler := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{
		Level: slog.Level(1000), // Unreachable level
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// WithHandle tags the logger with the kind of handle it reports on.
func (l *Logger) WithHandle(kind string) *Logger {
	return &Logger{
		Logger: l.Logger.With("handle", kind),
	}
}

// WithPath adds a path or blob name field to the logger.
func (l *Logger) WithPath(path string) *Logger {
	return &Logger{
		Logger: l.Logger.With("path", path),
	}
}

// WithCount adds a count field to the logger.
func (l *Logger) WithCount(count int) *Logger {
	return &Logger{
		Logger: l.Logger.With("count", count),
	}
}

// LogHandleOpen logs the creation of a handle.
func (l *Logger) LogHandleOpen(ctx context.Context, kind string, err error) {
	if err != nil {
		l.ErrorContext(ctx, "handle init failed",
			"handle", kind,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "handle opened",
			"handle", kind,
		)
	}
}

// LogHandleClose logs the release of a handle.
func (l *Logger) LogHandleClose(ctx context.Context, kind string, code int32) {
	if code < 0 {
		l.WarnContext(ctx, "handle finalizer reported an error",
			"handle", kind,
			"code", code,
		)
	} else {
		l.DebugContext(ctx, "handle closed",
			"handle", kind,
		)
	}
}

// LogSort logs a table sort.
func (l *Logger) LogSort(ctx context.Context, edges int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "sort failed",
			"edges", edges,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "sort completed",
			"edges", edges,
		)
	}
}

// LogSimplify logs a simplification.
func (l *Logger) LogSimplify(ctx context.Context, samples, nodesBefore, nodesAfter int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "simplify failed",
			"samples", samples,
			"error", err,
		)
	} else {
		l.InfoContext(ctx, "simplify completed",
			"samples", samples,
			"nodes_before", nodesBefore,
			"nodes_after", nodesAfter,
		)
	}
}

// LogDump logs a dump.
func (l *Logger) LogDump(ctx context.Context, target string, duration time.Duration, err error) {
	if err != nil {
		l.ErrorContext(ctx, "dump failed",
			"target", target,
			"error", err,
		)
	} else {
		l.InfoContext(ctx, "tables dumped",
			"target", target,
			"duration", duration,
		)
	}
}

// LogLoad logs a load.
func (l *Logger) LogLoad(ctx context.Context, source string, duration time.Duration, err error) {
	if err != nil {
		l.ErrorContext(ctx, "load failed",
			"source", source,
			"error", err,
		)
	} else {
		l.InfoContext(ctx, "tables loaded",
			"source", source,
			"duration", duration,
		)
	}
}
