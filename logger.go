package topk

import (
	"context"
	"io"
	"log/slog"
	"os"
)

// Logger wraps slog.Logger with selection-specific context.
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

// NewJSONLogger creates a Logger that writes JSON-formatted logs to w,
// or to stderr if w is nil.
func NewJSONLogger(w io.Writer, level slog.Level) *Logger {
	if w == nil {
		w = os.Stderr
	}
	return &Logger{
		Logger: slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})),
	}
}

// NewTextLogger creates a Logger that writes human-readable logs to w,
// or to stderr if w is nil.
func NewTextLogger(w io.Writer, level slog.Level) *Logger {
	if w == nil {
		w = os.Stderr
	}
	return &Logger{
		Logger: slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})),
	}
}

// NoopLogger creates a Logger that discards all log output.
func NoopLogger() *Logger {
	return &Logger{
		Logger: slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{
			Level: slog.Level(1000), // Unreachable level
		})),
	}
}

// WithInput adds the name of the input being read.
func (l *Logger) WithInput(name string) *Logger {
	return &Logger{Logger: l.Logger.With("input", name)}
}

// WithCount adds a count field to the logger.
func (l *Logger) WithCount(count int) *Logger {
	return &Logger{Logger: l.Logger.With("count", count)}
}

// LogSelect logs a completed selection.
func (l *Logger) LogSelect(ctx context.Context, s SelectStats, err error) {
	if err != nil {
		l.ErrorContext(ctx, "selection failed",
			"mode", s.Mode,
			"k", s.K,
			"partitions", s.Partitions,
			"error", err,
		)
		return
	}
	l.DebugContext(ctx, "selection completed",
		"mode", s.Mode,
		"k", s.K,
		"partitions", s.Partitions,
		"offered", s.Offered,
		"rejected", s.Rejected,
		"skipped", s.Skipped,
		"results", s.Retained,
	)
}

// LogCombine logs the combination of partial results.
func (l *Logger) LogCombine(ctx context.Context, strategy CombineStrategy, partials int) {
	l.DebugContext(ctx, "combining partial results",
		"strategy", strategy.String(),
		"partials", partials,
	)
}
