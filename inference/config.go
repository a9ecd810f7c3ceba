package inference

import (
	"os"
	"time"

	"github.com/kbukum/videoscribe/provider"
	"github.com/kbukum/videoscribe/resilience"
	"github.com/kbukum/videoscribe/util"
	"github.com/kbukum/videoscribe/validation"
)

const (
	defaultBackend     = "gemini"
	defaultTimeout     = 10 * time.Minute
	defaultMaxAttempts = 3
	defaultMaxFailures = 5

	// APIKeyEnv is consulted when no api_key is configured.
	APIKeyEnv = "GEMINI_API_KEY"
)

// Config selects and configures the inference backend.
type Config struct {
	// Backend is the registered backend name.
	Backend string `yaml:"backend" mapstructure:"backend" validate:"required"`
	// BaseURL overrides the backend's default endpoint.
	BaseURL string `yaml:"base_url" mapstructure:"base_url" validate:"omitempty,url"`
	// Model overrides the backend's default model.
	Model string `yaml:"model" mapstructure:"model"`
	// APIKey authenticates against the backend. Falls back to GEMINI_API_KEY.
	APIKey string `yaml:"api_key" mapstructure:"api_key"`
	// Temperature is the sampling temperature.
	Temperature float64 `yaml:"temperature" mapstructure:"temperature" validate:"gte=0,lte=2"`
	// Timeout bounds one backend call.
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout"`
	// MaxAttempts is the number of tries per segment including the first.
	MaxAttempts int `yaml:"max_attempts" mapstructure:"max_attempts" validate:"gte=1,lte=10"`
	// MaxFailures opens the circuit breaker after this many consecutive failures.
	MaxFailures int `yaml:"max_failures" mapstructure:"max_failures" validate:"gte=1"`
	// RequestsPerSecond throttles backend calls. Zero disables the limiter.
	RequestsPerSecond float64 `yaml:"requests_per_second" mapstructure:"requests_per_second" validate:"gte=0"`
}

// ApplyDefaults fills zero fields.
func (c *Config) ApplyDefaults() {
	if c.Backend == "" {
		c.Backend = defaultBackend
	}
	if c.APIKey == "" {
		c.APIKey = util.SanitizeEnvValue(os.Getenv(APIKeyEnv))
	}
	if c.Timeout <= 0 {
		c.Timeout = defaultTimeout
	}
	if c.MaxAttempts <= 0 {
		c.MaxAttempts = defaultMaxAttempts
	}
	if c.MaxFailures <= 0 {
		c.MaxFailures = defaultMaxFailures
	}
}

// Validate checks field constraints. Backend-specific requirements such as
// the API key are checked by the backend factory.
func (c *Config) Validate() error {
	return validation.Validate(c)
}

// FactoryConfig flattens the config into the map handed to backend factories.
func (c *Config) FactoryConfig() map[string]any {
	return map[string]any{
		"base_url":    c.BaseURL,
		"model":       c.Model,
		"api_key":     c.APIKey,
		"temperature": c.Temperature,
		"timeout":     c.Timeout,
	}
}

// Resilience returns the retry and circuit breaker policies around the backend.
func (c *Config) Resilience() provider.ResilienceConfig {
	retry := resilience.DefaultRetryConfig()
	retry.MaxAttempts = c.MaxAttempts
	cb := resilience.DefaultCircuitBreakerConfig(c.Backend)
	cb.MaxFailures = c.MaxFailures

	rc := provider.ResilienceConfig{Retry: &retry, CircuitBreaker: &cb}
	if c.RequestsPerSecond > 0 {
		rl := resilience.DefaultRateLimiterConfig(c.Backend)
		rl.Rate = c.RequestsPerSecond
		rc.RateLimiter = &rl
	}
	return rc
}
