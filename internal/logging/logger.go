// Package logging provides centralized logging functionality for the application.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// LogLevel represents the logging level.
type LogLevel string

const (
	// LevelDebug shows every fetched page and the resolved configuration.
	LevelDebug LogLevel = "debug"
	// LevelInfo shows the start and end of each export step.
	LevelInfo LogLevel = "info"
	// LevelWarn for recoverable oddities such as a missing config file.
	LevelWarn LogLevel = "warn"
	// LevelError for the failure that ends a run.
	LevelError LogLevel = "error"
)

var (
	// defaultLogger is the default logger instance.
	defaultLogger *slog.Logger
)

// init installs a stderr logger at the level named by LOG_LEVEL. stdout is
// kept free for the command's own output.
func init() {
	level, err := ParseLevel(os.Getenv("LOG_LEVEL"))
	if err != nil {
		level = LevelInfo
	}
	SetupLogger(os.Stderr, level)
}

// ParseLevel converts a level name to a LogLevel. An empty name means info.
func ParseLevel(name string) (LogLevel, error) {
	switch l := LogLevel(strings.ToLower(strings.TrimSpace(name))); l {
	case "":
		return LevelInfo, nil
	case LevelDebug, LevelInfo, LevelWarn, LevelError:
		return l, nil
	default:
		return LevelInfo, fmt.Errorf("unknown log level %q, expected debug, info, warn or error", name)
	}
}

// SetupLogger configures the logger with the specified output and level.
func SetupLogger(w io.Writer, level LogLevel) {
	var logLevel slog.Level
	switch level {
	case LevelDebug:
		logLevel = slog.LevelDebug
	case LevelWarn:
		logLevel = slog.LevelWarn
	case LevelError:
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	handler := slog.NewTextHandler(w, &slog.HandlerOptions{Level: logLevel})
	defaultLogger = slog.New(handler)
	slog.SetDefault(defaultLogger)
}

// OpenLogFile opens path for appending, creating missing parent directories,
// and returns a writer that copies everything to both console and the file.
// The caller closes the returned file.
func OpenLogFile(path string, console io.Writer) (io.Writer, *os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log file: %w", err)
	}
	return io.MultiWriter(console, f), f, nil
}

// Debug logs a message at debug level.
func Debug(msg string, args ...any) {
	defaultLogger.Debug(msg, args...)
}

// Info logs a message at info level.
func Info(msg string, args ...any) {
	defaultLogger.Info(msg, args...)
}

// Warn logs a message at warn level.
func Warn(msg string, args ...any) {
	defaultLogger.Warn(msg, args...)
}

// Error logs a message at error level.
func Error(msg string, args ...any) {
	defaultLogger.Error(msg, args...)
}

// MaskSensitive hides all but the first four characters of a token.
func MaskSensitive(value string) string {
	if value == "" {
		return "<not set>"
	}
	if len(value) <= 4 {
		return "<set>"
	}
	return value[:4] + "..." + strings.Repeat("*", 3)
}
