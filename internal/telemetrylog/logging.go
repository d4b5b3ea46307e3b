// Package telemetrylog wraps slog with trace/span correlation, the same
// pattern the engine's telemetry/logging package uses.
package telemetrylog

import (
	"context"
	"log/slog"
	"os"
	"strings"

	"telemetryd/internal/tracing"
)

// Logger is a correlation-aware structured logger.
type Logger interface {
	InfoCtx(ctx context.Context, msg string, attrs ...any)
	WarnCtx(ctx context.Context, msg string, attrs ...any)
	ErrorCtx(ctx context.Context, msg string, attrs ...any)
	Base() *slog.Logger
}

// New builds a Logger with the given level and format ("json" or "text"),
// matching the structured logger conventions used across the service.
// Attributes keyed password, dsn, token or secret are logged redacted.
func New(level slog.Level, format string) Logger {
	opts := &slog.HandlerOptions{Level: level, ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
		switch strings.ToLower(a.Key) {
		case "password", "dsn", "token", "secret":
			return slog.String(a.Key, "[REDACTED]")
		}
		return a
	}}
	var handler slog.Handler
	if format == "text" {
		handler = slog.NewTextHandler(os.Stdout, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}
	return NewWithHandler(handler)
}

// NewWithHandler builds a Logger around an arbitrary slog.Handler, letting
// tests and alternative sinks bypass the stdout default.
func NewWithHandler(handler slog.Handler) Logger {
	return &correlatedLogger{base: slog.New(handler)}
}

type correlatedLogger struct{ base *slog.Logger }

func (l *correlatedLogger) Base() *slog.Logger { return l.base }

func (l *correlatedLogger) InfoCtx(ctx context.Context, msg string, attrs ...any) {
	l.base.InfoContext(ctx, msg, withCorrelation(ctx, attrs)...)
}

func (l *correlatedLogger) WarnCtx(ctx context.Context, msg string, attrs ...any) {
	l.base.WarnContext(ctx, msg, withCorrelation(ctx, attrs)...)
}

func (l *correlatedLogger) ErrorCtx(ctx context.Context, msg string, attrs ...any) {
	l.base.ErrorContext(ctx, msg, withCorrelation(ctx, attrs)...)
}

func withCorrelation(ctx context.Context, attrs []any) []any {
	traceID, spanID := tracing.ExtractIDs(ctx)
	if traceID == "" && spanID == "" {
		return attrs
	}
	return append(attrs, slog.String("trace_id", traceID), slog.String("span_id", spanID))
}
