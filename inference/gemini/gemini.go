// Package gemini implements inference.Adapter on the Gemini generateContent
// REST API with inline base64 media and a JSON response schema.
package gemini

import (
	"context"
	"net/http"
	"strings"
	"time"

	apperrors "github.com/kbukum/videoscribe/errors"
	"github.com/kbukum/videoscribe/httpclient"
	"github.com/kbukum/videoscribe/inference"
	"github.com/kbukum/videoscribe/provider"
	"github.com/kbukum/videoscribe/transcript"
	"github.com/kbukum/videoscribe/version"
)

const (
	// ProviderName is the registered backend name.
	ProviderName = "gemini"

	defaultBaseURL     = "https://generativelanguage.googleapis.com/v1beta"
	defaultModel       = "gemini-2.5-flash"
	defaultTimeout     = 10 * time.Minute
	defaultTemperature = 0.2
	apiKeyHeader       = "x-goog-api-key"
)

// Config holds the Gemini backend settings.
type Config struct {
	BaseURL     string
	Model       string
	APIKey      string
	Temperature float64
	Timeout     time.Duration
}

// Provider calls Gemini once per request.
type Provider struct {
	cfg    Config
	client *httpclient.Adapter
}

var _ inference.Adapter = (*Provider)(nil)

// NewProvider creates a Gemini provider. A missing API key is a
// configuration error.
func NewProvider(cfg Config) (*Provider, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, apperrors.Configuration("gemini: api key is required (set inference.api_key or " + inference.APIKeyEnv + ")")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = defaultModel
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.Temperature == 0 {
		cfg.Temperature = defaultTemperature
	}

	client, err := httpclient.New(httpclient.Config{
		Name:    ProviderName,
		BaseURL: cfg.BaseURL,
		Timeout: cfg.Timeout,
		Auth:    httpclient.APIKeyAuthHeader(cfg.APIKey, apiKeyHeader),
		Headers: map[string]string{"User-Agent": version.UserAgent()},
	})
	if err != nil {
		return nil, err
	}
	return &Provider{cfg: cfg, client: client}, nil
}

// Factory returns a provider.Factory building Gemini providers from a config map.
func Factory() provider.Factory[inference.Adapter] {
	return func(m map[string]any) (inference.Adapter, error) {
		var cfg Config
		if v, ok := m["base_url"].(string); ok {
			cfg.BaseURL = v
		}
		if v, ok := m["model"].(string); ok {
			cfg.Model = v
		}
		if v, ok := m["api_key"].(string); ok {
			cfg.APIKey = v
		}
		if v, ok := m["temperature"].(float64); ok {
			cfg.Temperature = v
		}
		if v, ok := m["timeout"].(time.Duration); ok {
			cfg.Timeout = v
		}
		return NewProvider(cfg)
	}
}

// Register adds the Gemini factory to reg.
func Register(reg *inference.Registry) {
	reg.RegisterFactory(ProviderName, Factory())
}

// Name returns the provider name.
func (p *Provider) Name() string { return ProviderName }

// IsAvailable reports whether credentials are configured.
func (p *Provider) IsAvailable(_ context.Context) bool { return p.cfg.APIKey != "" }

// Execute sends the payload and decodes the structured analysis.
func (p *Provider) Execute(ctx context.Context, req inference.Request) (*transcript.AnalysisResult, error) {
	if req.Payload.Data == "" {
		return nil, apperrors.InvalidInput("payload", "media payload is empty")
	}

	resp, err := p.client.Do(ctx, httpclient.Request{
		Method: http.MethodPost,
		Path:   "/models/" + p.cfg.Model + ":generateContent",
		Body:   p.buildRequest(req),
	})
	if err != nil {
		return nil, err
	}

	var out generateResponse
	if err := resp.JSON(&out); err != nil {
		return nil, apperrors.ExternalServiceError(ProviderName, err)
	}
	text, err := out.text()
	if err != nil {
		return nil, err
	}
	return decodeAnalysis(text, req.Hints)
}

func (p *Provider) buildRequest(req inference.Request) generateRequest {
	return generateRequest{
		Contents: []content{{
			Role: "user",
			Parts: []part{
				{InlineData: &inlineData{MimeType: req.Payload.MimeType, Data: req.Payload.Data}},
				{Text: buildPrompt(req.Hints, req.Payload.Clipped)},
			},
		}},
		GenerationConfig: generationConfig{
			Temperature:      p.cfg.Temperature,
			ResponseMimeType: "application/json",
			ResponseSchema:   analysisSchema,
		},
	}
}
