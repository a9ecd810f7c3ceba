package resilience

import (
	"context"
	"time"
)

// Pacer enforces a fixed pause between consecutive calls to a backend.
type Pacer struct {
	interval time.Duration
	sleep    SleepFunc
}

// PacerOption configures a Pacer.
type PacerOption func(*Pacer)

// WithSleep replaces the timer-based sleep, mainly for tests.
func WithSleep(fn SleepFunc) PacerOption {
	return func(p *Pacer) { p.sleep = fn }
}

// NewPacer creates a pacer pausing interval between calls. A zero interval
// makes Pause return immediately.
func NewPacer(interval time.Duration, opts ...PacerOption) *Pacer {
	p := &Pacer{interval: interval, sleep: SleepContext}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Interval returns the configured pause.
func (p *Pacer) Interval() time.Duration {
	return p.interval
}

// Pause waits for the configured interval. Returns ctx.Err() if cancelled first.
func (p *Pacer) Pause(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if p.interval <= 0 {
		return nil
	}
	return p.sleep(ctx, p.interval)
}
