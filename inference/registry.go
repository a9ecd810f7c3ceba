package inference

import (
	"fmt"

	apperrors "github.com/kbukum/videoscribe/errors"
	"github.com/kbukum/videoscribe/logger"
	"github.com/kbukum/videoscribe/provider"
	"github.com/kbukum/videoscribe/transcript"
)

// Registry holds backend factories keyed by name.
type Registry = provider.Registry[Adapter]

// NewRegistry creates an empty backend registry.
func NewRegistry() *Registry {
	return provider.NewRegistry[Adapter]()
}

// New builds the configured backend from reg and wraps it as
// logging(tracing(resilience(backend))). Configuration problems surface as
// CONFIGURATION_ERROR before any media is sent.
func New(cfg Config, reg *Registry, log *logger.Logger) (Adapter, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, apperrors.Configuration("invalid inference config").WithCause(err)
	}

	backend, err := reg.Create(cfg.Backend, cfg.FactoryConfig())
	if err != nil {
		if _, ok := apperrors.AsAppError(err); ok {
			return nil, err
		}
		return nil, apperrors.Configuration(fmt.Sprintf("inference backend %q", cfg.Backend)).WithCause(err)
	}

	if log == nil {
		log = logger.GetGlobalLogger()
	}
	chain := provider.Chain(
		provider.WithLogging[Request, *transcript.AnalysisResult](log.WithComponent("inference")),
		provider.WithTracing[Request, *transcript.AnalysisResult]("inference"),
		provider.WithResilience[Request, *transcript.AnalysisResult](cfg.Resilience()),
	)
	return chain(backend), nil
}
