package provider

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	apperrors "github.com/kbukum/videoscribe/errors"
	"github.com/kbukum/videoscribe/logger"
	"github.com/kbukum/videoscribe/resilience"
)

type echo struct {
	calls     int
	failUntil int
	err       error
}

func (e *echo) Name() string                     { return "echo" }
func (e *echo) IsAvailable(context.Context) bool { return true }
func (e *echo) Execute(_ context.Context, in string) (string, error) {
	e.calls++
	if e.calls <= e.failUntil {
		return "", e.err
	}
	return "echo:" + in, nil
}

func TestRegistryRegisterAndCreate(t *testing.T) {
	reg := NewRegistry[RequestResponse[string, string]]()
	reg.RegisterFactory("echo", func(cfg map[string]any) (RequestResponse[string, string], error) {
		return &echo{}, nil
	})

	p, err := reg.Create("echo", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Name() != "echo" {
		t.Errorf("expected echo, got %s", p.Name())
	}

	_, err = reg.Create("missing", nil)
	if !errors.Is(err, ErrNotRegistered) || !strings.Contains(err.Error(), `"missing" (available: echo)`) {
		t.Errorf("expected not-registered error naming the backend, got %v", err)
	}
}

func TestRegistryList(t *testing.T) {
	reg := NewRegistry[RequestResponse[string, string]]()
	f := func(map[string]any) (RequestResponse[string, string], error) { return &echo{}, nil }
	reg.RegisterFactory("b", f)
	reg.RegisterFactory("a", f)
	got := reg.List()
	if len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Errorf("expected [a b], got %v", got)
	}
}

func TestChain_Order(t *testing.T) {
	var order []string
	tag := func(name string) Middleware[string, string] {
		return func(inner RequestResponse[string, string]) RequestResponse[string, string] {
			return Func(inner.Name(), func(ctx context.Context, in string) (string, error) {
				order = append(order, name)
				return inner.Execute(ctx, in)
			})
		}
	}
	p := Chain(tag("outer"), tag("inner"))(&echo{})
	out, err := p.Execute(context.Background(), "x")
	if err != nil || out != "echo:x" {
		t.Fatalf("unexpected result %q, %v", out, err)
	}
	if len(order) != 2 || order[0] != "outer" || order[1] != "inner" {
		t.Errorf("expected [outer inner], got %v", order)
	}
}

func TestFunc(t *testing.T) {
	p := Func("upper", func(_ context.Context, in string) (string, error) {
		return strings.ToUpper(in), nil
	})
	if p.Name() != "upper" || !p.IsAvailable(context.Background()) {
		t.Error("unexpected name or availability")
	}
	if out, _ := p.Execute(context.Background(), "a"); out != "A" {
		t.Errorf("expected A, got %q", out)
	}
}

func TestWithLogging(t *testing.T) {
	var buf bytes.Buffer
	log := logger.NewWithWriter(&logger.Config{Level: "debug", Format: "json"}, "test", &buf)

	inner := &echo{failUntil: 1, err: errors.New("quota")}
	p := WithLogging[string, string](log)(inner)

	if _, err := p.Execute(context.Background(), "x"); err == nil {
		t.Fatal("expected first call to fail")
	}
	if !strings.Contains(buf.String(), "provider execute failed") || !strings.Contains(buf.String(), "quota") {
		t.Errorf("expected failure log, got %s", buf.String())
	}

	buf.Reset()
	if _, err := p.Execute(context.Background(), "x"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(buf.String(), "provider execute ok") {
		t.Errorf("expected success log, got %s", buf.String())
	}
}

func TestWithTracing_PassesThrough(t *testing.T) {
	p := WithTracing[string, string]("videoscribe")(&echo{})
	out, err := p.Execute(context.Background(), "x")
	if err != nil || out != "echo:x" {
		t.Errorf("unexpected result %q, %v", out, err)
	}
}

func TestWithResilience_EmptyIsPassthrough(t *testing.T) {
	inner := &echo{}
	if p := WithResilience[string, string](ResilienceConfig{})(inner); p != RequestResponse[string, string](inner) {
		t.Error("expected the inner provider to be returned unchanged")
	}
}

func TestWithResilience_RetriesRetryableErrors(t *testing.T) {
	inner := &echo{failUntil: 2, err: apperrors.RateLimited("echo")}
	retry := resilience.RetryConfig{
		MaxAttempts:    3,
		InitialBackoff: time.Millisecond,
		Sleep:          func(context.Context, time.Duration) error { return nil },
	}
	p := WithResilience[string, string](ResilienceConfig{Retry: &retry})(inner)

	out, err := p.Execute(context.Background(), "x")
	if err != nil || out != "echo:x" {
		t.Fatalf("expected success after retries, got %q, %v", out, err)
	}
	if inner.calls != 3 {
		t.Errorf("expected 3 calls, got %d", inner.calls)
	}
}

func TestWithResilience_CircuitOpens(t *testing.T) {
	inner := &echo{failUntil: 100, err: errors.New("down")}
	cb := resilience.CircuitBreakerConfig{Name: "echo", MaxFailures: 2, Timeout: time.Hour}
	p := WithResilience[string, string](ResilienceConfig{CircuitBreaker: &cb})(inner)

	for range 2 {
		_, _ = p.Execute(context.Background(), "x")
	}
	if p.IsAvailable(context.Background()) {
		t.Error("expected provider to be unavailable while circuit is open")
	}

	_, err := p.Execute(context.Background(), "x")
	appErr, ok := apperrors.AsAppError(err)
	if !ok || appErr.Code != apperrors.ErrCodeServiceUnavailable {
		t.Fatalf("expected SERVICE_UNAVAILABLE, got %v", err)
	}
	if inner.calls != 2 {
		t.Errorf("expected backend to be skipped while open, got %d calls", inner.calls)
	}
}

func TestWrapResilienceError(t *testing.T) {
	err := wrapResilienceError("echo", context.DeadlineExceeded)
	appErr, ok := apperrors.AsAppError(err)
	if !ok || appErr.Code != apperrors.ErrCodeTimeout {
		t.Errorf("expected TIMEOUT, got %v", err)
	}
	plain := errors.New("x")
	if wrapResilienceError("echo", plain) != plain {
		t.Error("expected unknown errors to pass through")
	}
}
