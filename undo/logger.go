package undo

import (
	"context"
	"encoding/json"
	"io"
	"os"
	"sync"
	"time"
)

// Field represents a structured diagnostic field.
type Field struct {
	Key   string
	Value any
}

// Logger receives the executor's non-fatal diagnostics: the failure warning
// emitted before a rollback starts, and per-action failures during one.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Errors: logging must be best-effort and must not panic.
type Logger interface {
	Warn(ctx context.Context, msg string, fields ...Field)
	Error(ctx context.Context, msg string, fields ...Field)
}

// NewLogger returns the default diagnostic logger, writing JSON lines to stderr.
func NewLogger() Logger {
	return NewLoggerWithWriter(os.Stderr)
}

// NewLoggerWithWriter returns a diagnostic logger writing JSON lines to w.
func NewLoggerWithWriter(w io.Writer) Logger {
	return &jsonLogger{writer: w}
}

// jsonLogger is a minimal JSON line logger.
type jsonLogger struct {
	mu     sync.Mutex
	writer io.Writer
}

func (l *jsonLogger) Warn(ctx context.Context, msg string, fields ...Field) {
	l.log("warn", msg, fields)
}

func (l *jsonLogger) Error(ctx context.Context, msg string, fields ...Field) {
	l.log("error", msg, fields)
}

func (l *jsonLogger) log(level, msg string, fields []Field) {
	entry := make(map[string]any, len(fields)+3)
	entry["timestamp"] = time.Now().UTC().Format(time.RFC3339Nano)
	entry["level"] = level
	entry["msg"] = msg

	for _, f := range fields {
		entry[f.Key] = f.Value
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	data, err := json.Marshal(entry)
	if err != nil {
		return // Silently drop malformed entries
	}

	l.writer.Write(data)
	l.writer.Write([]byte("\n"))
}

// noopLogger is a logger that does nothing.
type noopLogger struct{}

func (noopLogger) Warn(ctx context.Context, msg string, fields ...Field)  {}
func (noopLogger) Error(ctx context.Context, msg string, fields ...Field) {}
