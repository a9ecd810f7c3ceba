package analyzer

import (
	"time"

	"github.com/kbukum/videoscribe/media"
	"github.com/kbukum/videoscribe/util"
	"github.com/kbukum/videoscribe/validation"
)

const (
	defaultMaxSize            = "100MB"
	defaultMaxDurationMinutes = 30
	defaultSegmentMinutes     = 10
	defaultCooldown           = time.Second
	defaultFFmpeg             = "ffmpeg"
	defaultFFprobe            = "ffprobe"
	defaultToolTimeout        = 10 * time.Minute
)

// Config holds the chunking policy and media tooling settings.
type Config struct {
	// MaxSize is the largest item sent unsplit, e.g. "100MB".
	MaxSize string `yaml:"max_size" mapstructure:"max_size" validate:"required"`
	// MaxDurationMinutes is the longest item sent unsplit.
	MaxDurationMinutes float64 `yaml:"max_duration_minutes" mapstructure:"max_duration_minutes" validate:"gt=0"`
	// SegmentMinutes is the length of each planned segment, at least 30s.
	SegmentMinutes float64 `yaml:"segment_minutes" mapstructure:"segment_minutes" validate:"gte=0.5"`
	// FallbackSize decides splitting when the duration is unknown. Empty means
	// half of MaxSize.
	FallbackSize string `yaml:"fallback_size" mapstructure:"fallback_size"`
	// Cooldown is the pause between consecutive backend calls.
	Cooldown time.Duration `yaml:"cooldown" mapstructure:"cooldown" validate:"gte=0"`
	// Materializer is "full" or "range".
	Materializer string `yaml:"materializer" mapstructure:"materializer" validate:"oneof=full range"`
	// FFmpeg is the ffmpeg binary used by the range materializer.
	FFmpeg string `yaml:"ffmpeg" mapstructure:"ffmpeg"`
	// FFprobe is the ffprobe binary used for duration probing.
	FFprobe string `yaml:"ffprobe" mapstructure:"ffprobe"`
	// ToolTimeout bounds one ffmpeg or ffprobe invocation.
	ToolTimeout time.Duration `yaml:"tool_timeout" mapstructure:"tool_timeout"`
}

// ApplyDefaults fills zero fields. Cooldown is left alone when negative so a
// config can turn it off with -1s.
func (c *Config) ApplyDefaults() {
	if c.MaxSize == "" {
		c.MaxSize = defaultMaxSize
	}
	if c.MaxDurationMinutes == 0 {
		c.MaxDurationMinutes = defaultMaxDurationMinutes
	}
	if c.SegmentMinutes == 0 {
		c.SegmentMinutes = defaultSegmentMinutes
	}
	if c.Cooldown == 0 {
		c.Cooldown = defaultCooldown
	} else if c.Cooldown < 0 {
		c.Cooldown = 0
	}
	if c.Materializer == "" {
		c.Materializer = media.MaterializerFull
	}
	if c.FFmpeg == "" {
		c.FFmpeg = defaultFFmpeg
	}
	if c.FFprobe == "" {
		c.FFprobe = defaultFFprobe
	}
	if c.ToolTimeout <= 0 {
		c.ToolTimeout = defaultToolTimeout
	}
}

// Validate checks field constraints.
func (c *Config) Validate() error {
	return validation.Validate(c)
}

// Policy converts the size strings into a partition policy.
func (c *Config) Policy() media.PartitionPolicy {
	maxMB := util.ParseSizeMB(c.MaxSize, 100)
	return media.PartitionPolicy{
		MaxSizeMB:          maxMB,
		MaxDurationMinutes: c.MaxDurationMinutes,
		FallbackSizeMB:     util.ParseSizeMB(c.FallbackSize, maxMB/2),
	}
}
