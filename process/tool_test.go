package process_test

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/kbukum/videoscribe/process"
)

func TestToolExecute(t *testing.T) {
	var seen process.Command
	runner := process.RunnerFunc(func(_ context.Context, cmd process.Command) (*process.Result, error) {
		seen = cmd
		return &process.Result{Stdout: []byte("42\n")}, nil
	})
	tool := process.NewTool("counter", runner,
		func(in string) process.Command { return process.Command{Args: []string{in}} },
		func(r *process.Result) (int, error) { return strconv.Atoi(strings.TrimSpace(string(r.Stdout))) },
	)

	got, err := tool.Execute(context.Background(), "x")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 42 {
		t.Errorf("expected 42, got %d", got)
	}
	if seen.Binary != "counter" {
		t.Errorf("expected binary to default to tool name, got %q", seen.Binary)
	}
	if tool.Name() != "counter" {
		t.Errorf("expected name counter, got %q", tool.Name())
	}
}

func TestToolExecuteIncludesStderr(t *testing.T) {
	runner := process.RunnerFunc(func(_ context.Context, _ process.Command) (*process.Result, error) {
		return &process.Result{Stderr: []byte("noise\nmoov atom not found"), ExitCode: 1}, errors.New("exit 1")
	})
	tool := process.NewTool("ffprobe", runner,
		func(string) process.Command { return process.Command{} },
		func(*process.Result) (string, error) { return "", nil },
	)
	_, err := tool.Execute(context.Background(), "in.mp4")
	if err == nil || !strings.Contains(err.Error(), "moov atom not found") {
		t.Errorf("expected stderr tail in error, got %v", err)
	}
}

func TestToolWithRealRunner(t *testing.T) {
	tool := process.NewTool("echo", nil,
		func(in string) process.Command { return process.Command{Args: []string{in}} },
		func(r *process.Result) (string, error) { return strings.TrimSpace(string(r.Stdout)), nil },
	)
	got, err := tool.Execute(context.Background(), "hi")
	if err != nil || got != "hi" {
		t.Errorf("expected hi, got %q (%v)", got, err)
	}
}

func TestAdapterTimeout(t *testing.T) {
	a := process.NewAdapter(process.Config{Timeout: 100 * time.Millisecond, GracePeriod: 200 * time.Millisecond})
	if a.Name() != "process" {
		t.Errorf("expected default name process, got %q", a.Name())
	}
	_, err := a.Execute(context.Background(), process.Command{Binary: "sleep", Args: []string{"5"}})
	if err == nil {
		t.Fatal("expected timeout error")
	}
}
