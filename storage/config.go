package storage

import (
	"github.com/kbukum/videoscribe/validation"
)

// Provider names.
const (
	ProviderLocal = "local"
	ProviderS3    = "s3"
)

const (
	DefaultBasePath = "./reports"
	DefaultRegion   = "us-east-1"
)

// Config selects and configures the report store.
type Config struct {
	// Provider is "local", "s3" or empty to disable storage.
	Provider string `yaml:"provider" mapstructure:"provider" json:"provider" validate:"omitempty,oneof=local s3"`

	// Prefix is prepended to every key.
	Prefix string `yaml:"prefix" mapstructure:"prefix" json:"prefix"`

	// BasePath is the root directory for local storage.
	BasePath string `yaml:"base_path" mapstructure:"base_path" json:"base_path"`

	// Bucket is the S3 bucket name.
	Bucket string `yaml:"bucket" mapstructure:"bucket" json:"bucket" validate:"required_if=Provider s3"`

	// Region is the AWS region for S3.
	Region string `yaml:"region" mapstructure:"region" json:"region"`

	// Endpoint is a custom S3-compatible endpoint (e.g. MinIO).
	Endpoint string `yaml:"endpoint" mapstructure:"endpoint" json:"endpoint" validate:"omitempty,url"`

	// AccessKey is the AWS access key ID. Empty uses the default credential chain.
	AccessKey string `yaml:"access_key" mapstructure:"access_key" json:"access_key"`

	// SecretKey is the AWS secret access key.
	SecretKey string `yaml:"secret_key" mapstructure:"secret_key" json:"-"`

	// ForcePathStyle forces path-style URLs instead of virtual-hosted-style.
	ForcePathStyle bool `yaml:"force_path_style" mapstructure:"force_path_style" json:"force_path_style"`
}

// Enabled reports whether a provider is configured.
func (c *Config) Enabled() bool {
	return c.Provider != ""
}

// ApplyDefaults fills in zero-valued fields for the selected provider.
func (c *Config) ApplyDefaults() {
	switch c.Provider {
	case ProviderLocal:
		if c.BasePath == "" {
			c.BasePath = DefaultBasePath
		}
	case ProviderS3:
		if c.Region == "" {
			c.Region = DefaultRegion
		}
	}
}

// Validate checks field constraints.
func (c *Config) Validate() error {
	return validation.Validate(c)
}
