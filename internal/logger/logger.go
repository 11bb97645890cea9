package logger

import (
	"context"
	"io"
	"log/slog"
)

type contextKey struct{}

var loggerKey = contextKey{}

// New builds the CLI logger. Warnings and errors are always shown; verbose
// adds info and debug adds debug records with their source location.
func New(w io.Writer, debug, verbose bool) *slog.Logger {
	level := slog.LevelWarn

	if debug {
		level = slog.LevelDebug
	} else if verbose {
		level = slog.LevelInfo
	}

	return slog.New(NewPrettyHandler(w, &slog.HandlerOptions{
		Level:     level,
		AddSource: debug,
	}))
}

// Initialize installs the CLI logger as the slog default.
func Initialize(w io.Writer, debug, verbose bool) *slog.Logger {
	l := New(w, debug, verbose)
	slog.SetDefault(l)
	return l
}

func FromContext(ctx context.Context) *slog.Logger {
	if l, ok := ctx.Value(loggerKey).(*slog.Logger); ok {
		return l
	}
	return slog.Default()
}

func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, logger)
}
