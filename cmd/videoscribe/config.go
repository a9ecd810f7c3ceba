package main

import (
	"fmt"

	"github.com/kbukum/videoscribe/analyzer"
	"github.com/kbukum/videoscribe/config"
	apperrors "github.com/kbukum/videoscribe/errors"
	"github.com/kbukum/videoscribe/inference"
	"github.com/kbukum/videoscribe/observability"
	"github.com/kbukum/videoscribe/server"
	"github.com/kbukum/videoscribe/storage"
)

const serviceName = "videoscribe"

// Config is the full configuration of the videoscribe binary.
type Config struct {
	config.ServiceConfig `yaml:",inline" mapstructure:",squash"`

	Chunking      analyzer.Config      `yaml:"chunking" mapstructure:"chunking"`
	Inference     inference.Config     `yaml:"inference" mapstructure:"inference"`
	Server        server.Config        `yaml:"server" mapstructure:"server"`
	Observability observability.Config `yaml:"observability" mapstructure:"observability"`
	Storage       storage.Config       `yaml:"storage" mapstructure:"storage"`
}

// ApplyDefaults fills every section.
func (c *Config) ApplyDefaults() {
	if c.Name == "" {
		c.Name = serviceName
	}
	c.ServiceConfig.ApplyDefaults()
	c.Chunking.ApplyDefaults()
	c.Inference.ApplyDefaults()
	c.Server.ApplyDefaults()
	c.Observability.ApplyDefaults()
	c.Storage.ApplyDefaults()
	c.Observability.Environment = c.Environment
}

// Validate checks every section and reports the first failure as a
// configuration error.
func (c *Config) Validate() error {
	checks := []struct {
		section string
		fn      func() error
	}{
		{"service", c.ServiceConfig.Validate},
		{"chunking", c.Chunking.Validate},
		{"inference", c.Inference.Validate},
		{"server", c.Server.Validate},
		{"observability", c.Observability.Validate},
		{"storage", c.Storage.Validate},
	}
	for _, check := range checks {
		if err := check.fn(); err != nil {
			return apperrors.Configuration(fmt.Sprintf("invalid %s config", check.section)).WithCause(err)
		}
	}
	return nil
}

// loadConfig reads config.yml, .env and VIDEOSCRIBE_* variables. An explicit
// path overrides the search.
func loadConfig(path string) (*Config, error) {
	var opts []config.LoaderOption
	if path != "" {
		opts = append(opts, config.WithConfigFile(path))
	}

	cfg := &Config{}
	if err := config.LoadConfig(serviceName, cfg, opts...); err != nil {
		return nil, apperrors.Configuration("loading config").WithCause(err)
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
