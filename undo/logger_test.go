package undo

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
)

func TestJSONLogger_Warn(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithWriter(&buf)

	logger.Warn(context.Background(), "something leaked",
		Field{Key: "run_id", Value: "r1"},
	)

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if entry["level"] != "warn" {
		t.Errorf("level = %v, want warn", entry["level"])
	}
	if entry["msg"] != "something leaked" {
		t.Errorf("msg = %v", entry["msg"])
	}
	if entry["run_id"] != "r1" {
		t.Errorf("run_id = %v, want r1", entry["run_id"])
	}
	if entry["timestamp"] == nil {
		t.Error("timestamp missing")
	}
}

func TestJSONLogger_Error(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithWriter(&buf)

	logger.Error(context.Background(), "undo action failed",
		Field{Key: "error", Value: "cannot undo"},
	)

	if !strings.Contains(buf.String(), `"level":"error"`) {
		t.Errorf("output = %q, want error level", buf.String())
	}
	if !strings.HasSuffix(buf.String(), "\n") {
		t.Error("entry is not newline terminated")
	}
}

func TestJSONLogger_OneLinePerEntry(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithWriter(&buf)

	logger.Warn(context.Background(), "first")
	logger.Error(context.Background(), "second")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("lines = %d, want 2", len(lines))
	}
}

func TestNoopLogger_NoPanic(t *testing.T) {
	var l noopLogger
	l.Warn(context.Background(), "ignored", Field{Key: "k", Value: "v"})
	l.Error(context.Background(), "ignored")
}
