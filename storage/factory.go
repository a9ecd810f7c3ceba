package storage

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	apperrors "github.com/kbukum/videoscribe/errors"
	"github.com/kbukum/videoscribe/logger"
)

// Factory creates a Storage backend from the shared config.
type Factory func(ctx context.Context, cfg Config, log *logger.Logger) (Storage, error)

var factories = make(map[string]Factory)

// RegisterFactory registers a backend factory for the given provider name.
// Backend packages call this from init.
func RegisterFactory(name string, f Factory) {
	factories[name] = f
}

// New creates the configured backend. Import the backend package (for
// example _ "github.com/kbukum/videoscribe/storage/local") so its factory is
// registered. Keys are scoped under cfg.Prefix.
func New(ctx context.Context, cfg Config, log *logger.Logger) (Storage, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if !cfg.Enabled() {
		return nil, apperrors.Configuration("storage: no provider configured")
	}

	f, ok := factories[cfg.Provider]
	if !ok {
		return nil, apperrors.Configuration(fmt.Sprintf("storage: provider %q not registered", cfg.Provider))
	}

	l := log.WithComponent("storage")
	l.Info("initializing storage", logger.Fields(
		"provider", cfg.Provider,
		"prefix", cfg.Prefix,
	))

	s, err := f(ctx, cfg, l)
	if err != nil {
		return nil, err
	}
	if prefix := strings.Trim(cfg.Prefix, "/"); prefix != "" {
		s = &prefixed{Storage: s, prefix: prefix}
	}
	return s, nil
}

// prefixed scopes every key under a fixed prefix.
type prefixed struct {
	Storage
	prefix string
}

func (p *prefixed) key(k string) string { return path.Join(p.prefix, k) }

func (p *prefixed) Upload(ctx context.Context, key string, body io.ReadSeeker, contentType string) error {
	return p.Storage.Upload(ctx, p.key(key), body, contentType)
}

func (p *prefixed) Download(ctx context.Context, key string) (io.ReadCloser, error) {
	return p.Storage.Download(ctx, p.key(key))
}
