package logger

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"runtime"
	"strings"
)

// callerHandler decorates every record with the file:line of the call site.
type callerHandler struct {
	slog.Handler
}

// trimPathDepth keeps only the last n segments of the given path.
// Example: trimPathDepth("a/b/c/d.go", 3) => "b/c/d.go"
func trimPathDepth(path string, depth int) string {
	parts := strings.Split(path, string(os.PathSeparator))
	if len(parts) <= depth {
		return path
	}
	return strings.Join(parts[len(parts)-depth:], string(os.PathSeparator))
}

func (h *callerHandler) Handle(ctx context.Context, r slog.Record) error {
	// Skip 3 stack frames to get the actual caller of the log function
	_, file, line, ok := runtime.Caller(3)
	caller := "unknown"
	if ok {
		// Always show only the last 3 segments of the file path for readability
		caller = fmt.Sprintf("%s:%d", trimPathDepth(file, 3), line)
	}
	r.AddAttrs(slog.String("caller", caller))
	return h.Handler.Handle(ctx, r)
}

// New initializes the default logger for the application.
// It uses text format and DEBUG level for development, JSON and INFO for production.
func New() *slog.Logger {
	level := slog.LevelDebug
	if os.Getenv("ENV") == "production" {
		level = slog.LevelInfo
	}
	return install(level)
}

// NewWithLevel is like New but with an explicit minimum level
// (one of "debug", "info", "warn", "error", case-insensitive).
// Unknown values fall back to the New defaults.
func NewWithLevel(level string) *slog.Logger {
	switch strings.ToLower(level) {
	case "debug":
		return install(slog.LevelDebug)
	case "info":
		return install(slog.LevelInfo)
	case "warn":
		return install(slog.LevelWarn)
	case "error":
		return install(slog.LevelError)
	default:
		return New()
	}
}

func install(level slog.Level) *slog.Logger {
	var handler slog.Handler
	handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	})
	if os.Getenv("ENV") == "production" {
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: level,
		})
	}
	// Wrap with callerHandler to inject caller info
	handler = &callerHandler{
		Handler: handler,
	}
	slog.SetDefault(slog.New(handler))
	return slog.Default()
}
