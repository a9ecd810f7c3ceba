package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"
)

func newJSONLogger(buf *bytes.Buffer, level string) *Logger {
	return NewWithWriter(&Config{Level: level, Format: "json"}, "videoscribe", buf)
}

func decodeLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var m map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &m); err != nil {
		t.Fatalf("expected one JSON line, got %q: %v", buf.String(), err)
	}
	return m
}

func TestNewWithWriter_JSON(t *testing.T) {
	var buf bytes.Buffer
	l := newJSONLogger(&buf, "info")
	l.Info("planned", Fields("segments", 3))

	m := decodeLine(t, &buf)
	if m["message"] != "planned" {
		t.Errorf("expected message 'planned', got %v", m["message"])
	}
	if m[FieldService] != "videoscribe" {
		t.Errorf("expected service field, got %v", m[FieldService])
	}
	if m["segments"] != float64(3) {
		t.Errorf("expected segments=3, got %v", m["segments"])
	}
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	l := newJSONLogger(&buf, "warn")
	l.Info("hidden")
	if buf.Len() != 0 {
		t.Errorf("expected info to be filtered, got %q", buf.String())
	}
	l.Warn("shown")
	if !strings.Contains(buf.String(), "shown") {
		t.Errorf("expected warn line, got %q", buf.String())
	}
}

func TestInvalidLevelFallsBackToInfo(t *testing.T) {
	var buf bytes.Buffer
	l := newJSONLogger(&buf, "chatty")
	l.Debug("hidden")
	l.Info("shown")
	if strings.Contains(buf.String(), "hidden") {
		t.Error("expected debug to be filtered at fallback info level")
	}
	if !strings.Contains(buf.String(), "shown") {
		t.Error("expected info line")
	}
}

func TestWithComponent(t *testing.T) {
	var buf bytes.Buffer
	l := newJSONLogger(&buf, "info").WithComponent("dispatch")
	l.Info("x")
	if m := decodeLine(t, &buf); m[FieldComponent] != "dispatch" {
		t.Errorf("expected component=dispatch, got %v", m[FieldComponent])
	}
}

func TestWithContext_RunID(t *testing.T) {
	var buf bytes.Buffer
	base := newJSONLogger(&buf, "info")

	if base.WithContext(context.Background()) != base {
		t.Error("expected same logger when ctx has no run id")
	}

	ctx := ContextWithRunID(context.Background(), "run-1")
	base.WithContext(ctx).Info("x")
	if m := decodeLine(t, &buf); m[FieldRunID] != "run-1" {
		t.Errorf("expected run_id=run-1, got %v", m[FieldRunID])
	}
	if got := RunIDFromContext(ctx); got != "run-1" {
		t.Errorf("expected run-1, got %q", got)
	}
}

func TestWithError(t *testing.T) {
	var buf bytes.Buffer
	newJSONLogger(&buf, "info").WithError(errors.New("boom")).Error("failed")
	if m := decodeLine(t, &buf); m["error"] != "boom" {
		t.Errorf("expected error=boom, got %v", m["error"])
	}
}

func TestFields(t *testing.T) {
	m := Fields("a", 1, "b", "two", 3, "skipped", "dangling")
	if len(m) != 2 {
		t.Fatalf("expected 2 fields, got %d: %v", len(m), m)
	}
	if m["a"] != 1 || m["b"] != "two" {
		t.Errorf("unexpected fields: %v", m)
	}
}

func TestSegmentFields(t *testing.T) {
	m := SegmentFields(1, 4, 600, 1200)
	if m[FieldSegment] != 1 || m[FieldSegmentTotal] != 4 {
		t.Errorf("unexpected segment fields: %v", m)
	}
	if m[FieldSegmentStart] != 600.0 || m[FieldSegmentEnd] != 1200.0 {
		t.Errorf("unexpected bounds: %v", m)
	}
}

func TestMergeHelpers(t *testing.T) {
	m := MergeWithError(nil, errors.New("x"))
	if m[FieldError] != "x" {
		t.Errorf("expected error field, got %v", m)
	}
	m = MergeWithDuration(m, 1500*time.Millisecond)
	if m[FieldDuration] != int64(1500) {
		t.Errorf("expected duration 1500, got %v", m[FieldDuration])
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"defaults", Config{}, false},
		{"json", Config{Level: "debug", Format: "json"}, false},
		{"bad level", Config{Level: "loud", Format: "json"}, true},
		{"bad format", Config{Level: "info", Format: "xml"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := tt.cfg
			cfg.ApplyDefaults()
			if err := cfg.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("expected wantErr=%v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestGlobalLogger(t *testing.T) {
	prev := globalLogger
	defer SetGlobalLogger(prev)

	var buf bytes.Buffer
	SetGlobalLogger(newJSONLogger(&buf, "info"))
	WithComponent("server").Info("listening")
	if m := decodeLine(t, &buf); m[FieldComponent] != "server" {
		t.Errorf("expected component=server, got %v", m[FieldComponent])
	}
}

func TestNop(t *testing.T) {
	Nop().Error("ignored")
}
