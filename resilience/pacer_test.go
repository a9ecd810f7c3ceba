package resilience

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestPacer_PausesForInterval(t *testing.T) {
	var slept []time.Duration
	p := NewPacer(time.Second, WithSleep(func(_ context.Context, d time.Duration) error {
		slept = append(slept, d)
		return nil
	}))

	for range 3 {
		if err := p.Pause(context.Background()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if len(slept) != 3 {
		t.Fatalf("expected 3 pauses, got %d", len(slept))
	}
	for _, d := range slept {
		if d != time.Second {
			t.Errorf("expected 1s pause, got %v", d)
		}
	}
	if p.Interval() != time.Second {
		t.Errorf("expected interval 1s, got %v", p.Interval())
	}
}

func TestPacer_ZeroIntervalSkipsSleep(t *testing.T) {
	called := false
	p := NewPacer(0, WithSleep(func(context.Context, time.Duration) error {
		called = true
		return nil
	}))
	if err := p.Pause(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if called {
		t.Error("expected no sleep for zero interval")
	}
}

func TestPacer_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := NewPacer(time.Hour).Pause(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestSleepContext(t *testing.T) {
	if err := SleepContext(context.Background(), time.Millisecond); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := SleepContext(ctx, time.Hour); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}
