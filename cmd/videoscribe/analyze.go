package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/kbukum/videoscribe/dispatch"
	"github.com/kbukum/videoscribe/inference"
)

var errUsage = errors.New("usage error")

type analyzeFlags struct {
	config   string
	input    string
	output   string
	title    string
	speaker  string
	category string
	quiet    bool
}

func parseAnalyzeFlags(args []string, stderr io.Writer) (*analyzeFlags, error) {
	f := &analyzeFlags{}
	fs := flag.NewFlagSet("analyze", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&f.config, "config", "", "config file (default: search ./cmd/videoscribe, ./)")
	fs.StringVar(&f.input, "input", "", "input video file (-i)")
	fs.StringVar(&f.input, "i", "", "input video file")
	fs.StringVar(&f.output, "output", "", "output JSON file, stdout when empty (-o)")
	fs.StringVar(&f.output, "o", "", "output JSON file")
	fs.StringVar(&f.title, "title", "", "title hint")
	fs.StringVar(&f.speaker, "speaker", "", "speaker hint")
	fs.StringVar(&f.category, "category", "", "category hint")
	fs.BoolVar(&f.quiet, "quiet", false, "suppress progress lines")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if f.input == "" {
		fmt.Fprintln(stderr, "missing --input/-i video path")
		return nil, errUsage
	}
	return f, nil
}

func runAnalyze(ctx context.Context, args []string) error {
	f, err := parseAnalyzeFlags(args, os.Stderr)
	if err != nil {
		return err
	}

	a, err := newApp(ctx, f.config)
	if err != nil {
		return err
	}
	defer a.close()

	item, err := a.analyzer.Open(ctx, f.input)
	if err != nil {
		return err
	}

	var obs dispatch.Observers
	if !f.quiet {
		obs.OnProgress = progressPrinter(os.Stderr)
	}
	hints := inference.Hints{Title: f.title, Speaker: f.speaker, Category: f.category}
	report, err := a.analyzer.Analyze(ctx, item, hints, obs)
	if err != nil {
		return err
	}

	if err := writeResult(f.output, os.Stdout, report.Result); err != nil {
		return err
	}
	if a.archive != nil {
		key, err := a.archive.Save(ctx, report)
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "report %s archived as %s\n", report.RunID, key)
	}
	if report.FailedSegments > 0 {
		fmt.Fprintf(os.Stderr, "warning: %d of %d segments failed and were replaced by placeholders\n",
			report.FailedSegments, report.Segments)
	}
	return nil
}

// progressPrinter renders each notification as one line.
func progressPrinter(w io.Writer) func(dispatch.Progress) {
	return func(p dispatch.Progress) {
		fmt.Fprintf(w, "[%3.0f%%] segment %d/%d %s\n", p.Percent, p.SegmentIndex+1, p.TotalSegments, p.Status)
	}
}

// writeResult writes v as indented JSON to path, or to stdout when path is empty.
func writeResult(path string, stdout io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding result: %w", err)
	}
	data = append(data, '\n')
	if path == "" {
		_, err = stdout.Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
