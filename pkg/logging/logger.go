// Package logging wraps log/slog with a compact console format and
// per-render correlation ids.
package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/google/uuid"
)

type contextKey string

const (
	renderIDKey            = "renderID"
	renderIDCtx contextKey = renderIDKey
)

var logger = slog.New(NewCompactHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))

// Setup replaces the package logger. format is "compact" or "json".
func Setup(w io.Writer, level slog.Level, format string) error {
	opts := &slog.HandlerOptions{Level: level}
	switch strings.ToLower(format) {
	case "", "compact", "text":
		logger = slog.New(NewCompactHandler(w, opts))
	case "json":
		logger = slog.New(slog.NewJSONHandler(w, opts))
	default:
		return fmt.Errorf("unknown log format %q", format)
	}
	return nil
}

// ParseLevel accepts debug, info, warn and error.
func ParseLevel(s string) (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo, fmt.Errorf("unknown log level %q", s)
	}
	return l, nil
}

// WithRenderID attaches a render id to the context. An empty id generates one.
func WithRenderID(ctx context.Context, id string) context.Context {
	if id == "" {
		id = uuid.NewString()
	}
	return context.WithValue(ctx, renderIDCtx, id)
}

// RenderID returns the render id carried by ctx, if any.
func RenderID(ctx context.Context) string {
	if id, ok := ctx.Value(renderIDCtx).(string); ok {
		return id
	}
	return ""
}

func withRenderID(ctx context.Context, args []any) []any {
	if id := RenderID(ctx); id != "" {
		return append([]any{renderIDKey, id}, args...)
	}
	return args
}

// Debug logs at DEBUG level.
func Debug(msg string, args ...any) {
	logger.Debug(msg, args...)
}

// DebugContext logs at DEBUG level with the render id from ctx.
func DebugContext(ctx context.Context, msg string, args ...any) {
	logger.DebugContext(ctx, msg, withRenderID(ctx, args)...)
}

// Info logs at INFO level.
func Info(msg string, args ...any) {
	logger.Info(msg, args...)
}

// InfoContext logs at INFO level with the render id from ctx.
func InfoContext(ctx context.Context, msg string, args ...any) {
	logger.InfoContext(ctx, msg, withRenderID(ctx, args)...)
}

// WarnContext logs at WARN level with the render id from ctx.
func WarnContext(ctx context.Context, msg string, args ...any) {
	logger.WarnContext(ctx, msg, withRenderID(ctx, args)...)
}

// Error logs at ERROR level.
func Error(msg string, args ...any) {
	logger.Error(msg, args...)
}

// ErrorContext logs at ERROR level with the render id from ctx.
func ErrorContext(ctx context.Context, msg string, args ...any) {
	logger.ErrorContext(ctx, msg, withRenderID(ctx, args)...)
}
