package main

import (
	"context"
	"flag"
	"os"

	"github.com/kbukum/videoscribe/logger"
	"github.com/kbukum/videoscribe/media"
	"github.com/kbukum/videoscribe/observability"
	"github.com/kbukum/videoscribe/server"
)

func runServe(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	configPath := fs.String("config", "", "config file (default: search ./cmd/videoscribe, ./)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	a, err := newApp(ctx, *configPath)
	if err != nil {
		return err
	}
	defer a.close()

	srv := server.New(a.cfg.Server, logger.GetGlobalLogger())
	details := map[string]string{
		"backend":      a.cfg.Inference.Backend,
		"model":        a.cfg.Inference.Model,
		"materializer": a.cfg.Chunking.Materializer,
		"storage":      a.cfg.Storage.Provider,
	}
	srv.RegisterDefaultEndpoints(a.cfg.Name, details,
		observability.Dependency{
			Name:      "inference",
			Available: a.adapter.IsAvailable,
			Critical:  true,
			Message:   "backend " + a.cfg.Inference.Backend + " unavailable",
		},
		observability.Dependency{
			Name:      "ffprobe",
			Available: media.NewFFProbe(a.cfg.Chunking.FFprobe, nil).Available,
			Message:   "durations unknown; large uploads cannot be split",
		},
	)
	srv.RegisterAnalyses(a.analyzer, a.reportArchive())

	if err := srv.Start(ctx); err != nil {
		return err
	}
	<-ctx.Done()
	return srv.Stop(context.Background())
}
