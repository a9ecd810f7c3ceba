package main

import (
	"context"
	"time"

	"github.com/kbukum/videoscribe/analyzer"
	"github.com/kbukum/videoscribe/inference"
	"github.com/kbukum/videoscribe/inference/gemini"
	"github.com/kbukum/videoscribe/logger"
	"github.com/kbukum/videoscribe/observability"
	"github.com/kbukum/videoscribe/server"
	"github.com/kbukum/videoscribe/storage"
	_ "github.com/kbukum/videoscribe/storage/local"
	_ "github.com/kbukum/videoscribe/storage/s3"
	"github.com/kbukum/videoscribe/util"
	"github.com/kbukum/videoscribe/version"
)

const shutdownTimeout = 10 * time.Second

// app holds the wired components shared by the commands.
type app struct {
	cfg      *Config
	adapter  inference.Adapter
	analyzer *analyzer.Analyzer
	archive  *analyzer.Archive
	shutdown observability.ShutdownFunc
}

// newApp loads configuration and wires logging, telemetry, the inference
// backend, the analyzer and, when configured, the report archive.
func newApp(ctx context.Context, configPath string) (*app, error) {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return nil, err
	}

	logger.Init(cfg.Logging, cfg.Name)
	log := logger.GetGlobalLogger()

	shutdown, err := observability.Init(ctx, cfg.Observability, cfg.Name, version.GetShortVersion())
	if err != nil {
		log.Warn("telemetry disabled", logger.MergeWithError(logger.Fields(
			"endpoint", cfg.Observability.Endpoint,
		), err))
	}

	reg := inference.NewRegistry()
	gemini.Register(reg)
	adapter, err := inference.New(cfg.Inference, reg, log)
	if err != nil {
		_ = shutdown(ctx)
		return nil, err
	}

	a, err := analyzer.New(cfg.Chunking, adapter,
		analyzer.WithLogger(log.WithComponent("analyzer")),
		analyzer.WithMetrics(observability.DefaultMetrics()),
	)
	if err != nil {
		_ = shutdown(ctx)
		return nil, err
	}

	var archive *analyzer.Archive
	if cfg.Storage.Enabled() {
		store, err := storage.New(ctx, cfg.Storage, log)
		if err != nil {
			_ = shutdown(ctx)
			return nil, err
		}
		archive = analyzer.NewArchive(store, log.WithComponent("archive"))
	}

	log.Debug("configuration loaded", logger.Fields(
		"environment", cfg.Environment,
		"backend", cfg.Inference.Backend,
		"api_key", util.MaskSecret(cfg.Inference.APIKey, 4),
		"materializer", cfg.Chunking.Materializer,
		"segment_minutes", cfg.Chunking.SegmentMinutes,
		"storage", cfg.Storage.Provider,
	))
	return &app{cfg: cfg, adapter: adapter, analyzer: a, archive: archive, shutdown: shutdown}, nil
}

// reportArchive returns the archive as the server interface, nil when
// storage is disabled.
func (a *app) reportArchive() server.ReportArchive {
	if a.archive == nil {
		return nil
	}
	return a.archive
}

// close flushes telemetry.
func (a *app) close() {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := a.shutdown(ctx); err != nil {
		logger.Warn("telemetry shutdown failed", logger.Fields(logger.FieldError, err.Error()))
	}
}
