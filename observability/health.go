package observability

import (
	"context"
	"time"
)

// HealthStatus is "up", "degraded" or "down".
type HealthStatus string

const (
	HealthStatusUp       HealthStatus = "up"
	HealthStatusDegraded HealthStatus = "degraded"
	HealthStatusDown     HealthStatus = "down"
)

// DefaultCheckTimeout bounds a single dependency probe.
const DefaultCheckTimeout = 2 * time.Second

// Health is the result of probing one dependency.
type Health struct {
	Name      string       `json:"name"`
	Status    HealthStatus `json:"status"`
	Message   string       `json:"message,omitempty"`
	LatencyMs int64        `json:"latency_ms"`
}

// ServiceHealth aggregates dependency results. The worst status wins.
type ServiceHealth struct {
	Service    string       `json:"service"`
	Status     HealthStatus `json:"status"`
	Version    string       `json:"version,omitempty"`
	CheckedAt  time.Time    `json:"checked_at"`
	Components []Health     `json:"components,omitempty"`
}

// HealthChecker probes one dependency.
type HealthChecker interface {
	CheckHealth(ctx context.Context) Health
}

// Dependency probes an external requirement such as the inference backend
// or the ffprobe binary. An unavailable critical dependency reports down, an
// optional one degraded.
type Dependency struct {
	Name      string
	Available func(ctx context.Context) bool
	Critical  bool
	// Message is reported while the dependency is unavailable.
	Message string
}

// CheckHealth implements HealthChecker.
func (d Dependency) CheckHealth(ctx context.Context) Health {
	if d.Available(ctx) {
		return Health{Name: d.Name, Status: HealthStatusUp}
	}
	status := HealthStatusDegraded
	if d.Critical {
		status = HealthStatusDown
	}
	return Health{Name: d.Name, Status: status, Message: d.Message}
}

// NewServiceHealth starts an aggregate in the up state.
func NewServiceHealth(service, version string) *ServiceHealth {
	return &ServiceHealth{Service: service, Status: HealthStatusUp, Version: version, CheckedAt: time.Now().UTC()}
}

// AddComponent records a result and lowers the aggregate status if needed.
func (sh *ServiceHealth) AddComponent(h Health) {
	sh.Components = append(sh.Components, h)
	if rank(h.Status) > rank(sh.Status) {
		sh.Status = h.Status
	}
}

// CheckAll probes every checker in order, each under its own timeout, and
// records how long each probe took.
func CheckAll(ctx context.Context, service, version string, timeout time.Duration, checkers ...HealthChecker) *ServiceHealth {
	if timeout <= 0 {
		timeout = DefaultCheckTimeout
	}
	sh := NewServiceHealth(service, version)
	for _, c := range checkers {
		checkCtx, cancel := context.WithTimeout(ctx, timeout)
		start := time.Now()
		h := c.CheckHealth(checkCtx)
		cancel()
		h.LatencyMs = time.Since(start).Milliseconds()
		sh.AddComponent(h)
	}
	return sh
}

func rank(s HealthStatus) int {
	switch s {
	case HealthStatusDown:
		return 2
	case HealthStatusDegraded:
		return 1
	default:
		return 0
	}
}
