package common

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
)

// Logger is a minimal structured logger. `args` are key-value pairs, as in log/slog.
type Logger interface {
	Log(message string, args ...any)
	Error(message string, args ...any)
}

type fileLogger struct {
	mutex  sync.Mutex
	path   string
	level  slog.Level
	logger *slog.Logger
}

// NewFileLogger logs to the file specified by `path`. If the file is unavailable, writes to the console.
// `level` is one of "debug", "info", "warn", "error" (defaults to "info").
func NewFileLogger(path, level string) Logger {
	return &fileLogger{
		path:  path,
		level: parseLevel(level),
	}
}

// NewWriterLogger logs to an arbitrary writer. Useful for the console and in tests.
func NewWriterLogger(writer io.Writer, level string) Logger {
	parsedLevel := parseLevel(level)
	return &fileLogger{
		level:  parsedLevel,
		logger: slog.New(slog.NewTextHandler(writer, &slog.HandlerOptions{Level: parsedLevel})),
	}
}

func (f *fileLogger) Log(message string, args ...any) {
	f.ready().Info(message, args...)
}

func (f *fileLogger) Error(message string, args ...any) {
	f.ready().Error(message, args...)
}

func (f *fileLogger) ready() *slog.Logger {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	if f.logger != nil {
		return f.logger
	}
	var writer io.Writer = os.Stderr
	file, err := os.OpenFile(f.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s. Logging switched to console.\n", err)
	} else {
		writer = file
	}
	f.logger = slog.New(slog.NewTextHandler(writer, &slog.HandlerOptions{Level: f.level}))
	return f.logger
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

type nopLogger struct{}

// NewNopLogger discards everything.
func NewNopLogger() Logger {
	return nopLogger{}
}

func (nopLogger) Log(string, ...any)   {}
func (nopLogger) Error(string, ...any) {}
