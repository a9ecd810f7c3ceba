package main

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/kbukum/videoscribe/dispatch"
	apperrors "github.com/kbukum/videoscribe/errors"
)

func TestParseAnalyzeFlags(t *testing.T) {
	var stderr bytes.Buffer
	f, err := parseAnalyzeFlags([]string{"-i", "talk.mp4", "--title", "Keynote", "-o", "out.json"}, &stderr)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.input != "talk.mp4" || f.title != "Keynote" || f.output != "out.json" {
		t.Errorf("unexpected flags %+v", f)
	}

	if _, err := parseAnalyzeFlags(nil, &stderr); !errors.Is(err, errUsage) {
		t.Errorf("expected usage error, got %v", err)
	}
	if _, err := parseAnalyzeFlags([]string{"-h"}, &stderr); !errors.Is(err, flag.ErrHelp) {
		t.Errorf("expected flag.ErrHelp, got %v", err)
	}
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"ok", nil, 0},
		{"help", flag.ErrHelp, 0},
		{"usage", errUsage, 2},
		{"configuration", apperrors.Configuration("no key"), 3},
		{"interrupted", context.Canceled, 130},
		{"other", errors.New("boom"), 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := exitCode(tt.err); got != tt.want {
				t.Errorf("expected %d, got %d", tt.want, got)
			}
		})
	}
}

func TestRun_UnknownCommand(t *testing.T) {
	if got := run([]string{"transcode"}); got != 2 {
		t.Errorf("expected 2, got %d", got)
	}
	if got := run(nil); got != 2 {
		t.Errorf("expected 2, got %d", got)
	}
}

func TestProgressPrinter(t *testing.T) {
	var buf bytes.Buffer
	progressPrinter(&buf)(dispatch.Progress{SegmentIndex: 1, TotalSegments: 4, Percent: 55, Status: dispatch.StatusCompleted})
	if got := buf.String(); got != "[ 55%] segment 2/4 completed\n" {
		t.Errorf("unexpected line %q", got)
	}
}

func TestWriteResult(t *testing.T) {
	var stdout bytes.Buffer
	if err := writeResult("", &stdout, map[string]int{"a": 1}); err != nil {
		t.Fatal(err)
	}
	if stdout.String() != "{\n  \"a\": 1\n}\n" {
		t.Errorf("unexpected stdout %q", stdout.String())
	}

	path := filepath.Join(t.TempDir(), "out.json")
	if err := writeResult(path, &stdout, []int{1}); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "1") {
		t.Errorf("unexpected file content %q", data)
	}
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	yml := `name: videoscribe
environment: production
chunking:
  segment_minutes: 5
  cooldown: 2s
  materializer: range
inference:
  backend: gemini
  api_key: test-key
server:
  port: 9090
storage:
  provider: s3
  bucket: transcripts
`
	if err := os.WriteFile(path, []byte(yml), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := loadConfig(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Chunking.SegmentMinutes != 5 || cfg.Chunking.Cooldown != 2*time.Second || cfg.Chunking.Materializer != "range" {
		t.Errorf("unexpected chunking %+v", cfg.Chunking)
	}
	if cfg.Chunking.MaxSize != "100MB" {
		t.Errorf("expected default max_size, got %q", cfg.Chunking.MaxSize)
	}
	if cfg.Inference.APIKey != "test-key" || cfg.Server.Port != 9090 {
		t.Errorf("unexpected inference/server config %+v %+v", cfg.Inference, cfg.Server)
	}
	if cfg.Storage.Bucket != "transcripts" || cfg.Storage.Region != "us-east-1" {
		t.Errorf("unexpected storage config %+v", cfg.Storage)
	}
	if cfg.Observability.Environment != "production" {
		t.Errorf("expected environment to propagate, got %q", cfg.Observability.Environment)
	}
}

func TestLoadConfig_Invalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	if err := os.WriteFile(path, []byte("chunking:\n  materializer: chunked\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	_, err := loadConfig(path)
	appErr, ok := apperrors.AsAppError(err)
	if !ok || appErr.Code != apperrors.ErrCodeConfiguration {
		t.Fatalf("expected CONFIGURATION_ERROR, got %v", err)
	}
	if !strings.Contains(appErr.Message, "chunking") {
		t.Errorf("expected the failing section in the message, got %q", appErr.Message)
	}
}

func TestLoadConfig_InvalidStorage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	yml := "inference:\n  api_key: k\nstorage:\n  provider: s3\n"
	if err := os.WriteFile(path, []byte(yml), 0o600); err != nil {
		t.Fatal(err)
	}

	_, err := loadConfig(path)
	appErr, ok := apperrors.AsAppError(err)
	if !ok || appErr.Code != apperrors.ErrCodeConfiguration {
		t.Fatalf("expected CONFIGURATION_ERROR, got %v", err)
	}
	if !strings.Contains(appErr.Message, "storage") {
		t.Errorf("expected the storage section in the message, got %q", appErr.Message)
	}
}
