package provider

import (
	"context"
	"errors"

	apperrors "github.com/kbukum/videoscribe/errors"
	"github.com/kbukum/videoscribe/resilience"
)

// ResilienceConfig bundles optional resilience policies for a provider.
// Nil fields are skipped.
type ResilienceConfig struct {
	CircuitBreaker *resilience.CircuitBreakerConfig
	Retry          *resilience.RetryConfig
	RateLimiter    *resilience.RateLimiterConfig
}

// IsEmpty returns true if no resilience policies are configured.
func (c ResilienceConfig) IsEmpty() bool {
	return c.CircuitBreaker == nil && c.Retry == nil && c.RateLimiter == nil
}

// WithResilience returns a Middleware running each call through
// RateLimiter -> CircuitBreaker -> Retry -> Execute. An empty config is a passthrough.
func WithResilience[I, O any](cfg ResilienceConfig) Middleware[I, O] {
	return func(inner RequestResponse[I, O]) RequestResponse[I, O] {
		if cfg.IsEmpty() {
			return inner
		}
		r := &resilientRR[I, O]{inner: inner, retryCfg: cfg.Retry}
		if cfg.CircuitBreaker != nil {
			r.cb = resilience.NewCircuitBreaker(*cfg.CircuitBreaker)
		}
		if cfg.RateLimiter != nil {
			r.rl = resilience.NewRateLimiter(*cfg.RateLimiter)
		}
		return r
	}
}

type resilientRR[I, O any] struct {
	inner    RequestResponse[I, O]
	cb       *resilience.CircuitBreaker
	rl       *resilience.RateLimiter
	retryCfg *resilience.RetryConfig
}

func (r *resilientRR[I, O]) Name() string { return r.inner.Name() }

// IsAvailable reports false while the circuit is open.
func (r *resilientRR[I, O]) IsAvailable(ctx context.Context) bool {
	if r.cb != nil && r.cb.State() == resilience.StateOpen {
		return false
	}
	return r.inner.IsAvailable(ctx)
}

func (r *resilientRR[I, O]) Execute(ctx context.Context, input I) (O, error) {
	var zero O
	if r.rl != nil {
		if err := r.rl.Wait(ctx); err != nil {
			return zero, wrapResilienceError(r.inner.Name(), err)
		}
	}

	call := func() (O, error) { return r.inner.Execute(ctx, input) }
	if r.retryCfg != nil {
		retryCfg := *r.retryCfg
		bare := call
		call = func() (O, error) { return resilience.Retry(ctx, retryCfg, bare) }
	}

	if r.cb == nil {
		return call()
	}
	var result O
	var callErr error
	cbErr := r.cb.Execute(func() error {
		result, callErr = call()
		return callErr
	})
	if cbErr != nil && callErr == nil {
		return zero, wrapResilienceError(r.inner.Name(), cbErr)
	}
	return result, callErr
}

// wrapResilienceError converts resilience sentinels and context errors to AppErrors.
func wrapResilienceError(name string, err error) error {
	if _, ok := apperrors.AsAppError(err); ok {
		return err
	}
	switch {
	case errors.Is(err, resilience.ErrCircuitOpen):
		return apperrors.ServiceUnavailable(name).WithCause(err)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return apperrors.Timeout(name).WithCause(err)
	default:
		return err
	}
}
