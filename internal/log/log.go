// ABOUTME: Leveled logging over slog for diagnostics that must not mix with terminal output
// ABOUTME: Global level and destination; Logger() hands the same sink to packages that take a *slog.Logger

package log

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
)

// Level constants matching slog levels.
const (
	LevelDebug = slog.LevelDebug
	LevelInfo  = slog.LevelInfo
	LevelWarn  = slog.LevelWarn
	LevelError = slog.LevelError
)

var (
	level  slog.LevelVar
	sink   = &swapWriter{w: os.Stderr}
	logger = slog.New(slog.NewTextHandler(sink, &slog.HandlerOptions{Level: &level}))
)

// swapWriter lets SetOutput redirect loggers that were already handed out.
type swapWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (s *swapWriter) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.w.Write(p)
}

// SetOutput redirects all log output to w. In raw mode stderr usually
// shares the screen, so callers point this at a file.
func SetOutput(w io.Writer) {
	sink.mu.Lock()
	defer sink.mu.Unlock()
	sink.w = w
}

// SetLevel sets the global log level.
func SetLevel(l slog.Level) {
	level.Set(l)
}

// GetLevel returns the current log level.
func GetLevel() slog.Level {
	return level.Level()
}

// ParseLevel accepts debug, info, warn, or error (case-insensitive).
// Anything else, including slog offsets such as "info+2", is rejected.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug, nil
	case "info":
		return LevelInfo, nil
	case "warn":
		return LevelWarn, nil
	case "error":
		return LevelError, nil
	}
	return LevelInfo, fmt.Errorf("unknown log level %q (want debug, info, warn or error)", s)
}

// Logger returns the structured logger behind the package functions.
func Logger() *slog.Logger {
	return logger
}

func logf(l slog.Level, format string, args ...any) {
	ctx := context.Background()
	if !logger.Enabled(ctx, l) {
		return
	}
	logger.Log(ctx, l, fmt.Sprintf(format, args...))
}

// Debug logs a debug message if the level allows it.
func Debug(format string, args ...any) {
	logf(LevelDebug, format, args...)
}

// Info logs an info message if the level allows it.
func Info(format string, args ...any) {
	logf(LevelInfo, format, args...)
}

// Warn logs a warning message if the level allows it.
func Warn(format string, args ...any) {
	logf(LevelWarn, format, args...)
}

// Error logs an error message.
func Error(format string, args ...any) {
	logf(LevelError, format, args...)
}
