package saltsearch

import (
	"context"
	"log/slog"
	"os"
)

// Logger wraps slog.Logger with saltsearch-specific context.
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
func NoopLogger() *Logger {
	return &Logger{
		Logger: slog.New(slog.DiscardHandler),
	}
}

// WithWorkers adds a workers field to the logger.
func (l *Logger) WithWorkers(workers int) *Logger {
	return &Logger{
		Logger: l.Logger.With("workers", workers),
	}
}

// WithChunkSize adds a chunk_size field to the logger.
func (l *Logger) WithChunkSize(chunkSize int) *Logger {
	return &Logger{
		Logger: l.Logger.With("chunk_size", chunkSize),
	}
}

// LogLoad logs a candidate list load.
func (l *Logger) LogLoad(ctx context.Context, name string, candidates int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "load failed",
			"name", name,
			"error", err,
		)
	} else {
		l.InfoContext(ctx, "candidates loaded",
			"name", name,
			"candidates", candidates,
		)
	}
}

// LogRun logs the end of a benchmark run.
func (l *Logger) LogRun(ctx context.Context, configurations int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "benchmark failed",
			"configurations", configurations,
			"error", err,
		)
	} else {
		l.InfoContext(ctx, "benchmark completed",
			"configurations", configurations,
		)
	}
}

// LogPublish logs a report publication.
func (l *Logger) LogPublish(ctx context.Context, name, format string, rows int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "publish failed",
			"name", name,
			"format", format,
			"error", err,
		)
	} else {
		l.InfoContext(ctx, "report published",
			"name", name,
			"format", format,
			"rows", rows,
		)
	}
}
