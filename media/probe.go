package media

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/kbukum/videoscribe/process"
)

// Prober determines the duration of a media file in seconds.
type Prober interface {
	Probe(ctx context.Context, path string) (float64, error)
}

// FFProbe reads the container duration with ffprobe.
type FFProbe struct {
	tool *process.Tool[string, float64]
}

// NewFFProbe creates a prober running binary (default "ffprobe") through
// runner. A nil runner executes the binary directly.
func NewFFProbe(binary string, runner process.Runner) *FFProbe {
	if binary == "" {
		binary = "ffprobe"
	}
	build := func(path string) process.Command {
		return process.Command{
			Binary: binary,
			Args:   []string{"-v", "error", "-show_entries", "format=duration", "-of", "json", path},
		}
	}
	return &FFProbe{tool: process.NewTool(binary, runner, build, parseFFProbeDuration)}
}

// Available reports whether the ffprobe binary is on PATH.
func (p *FFProbe) Available(ctx context.Context) bool {
	return p.tool.IsAvailable(ctx)
}

// Probe returns the container duration of path.
func (p *FFProbe) Probe(ctx context.Context, path string) (float64, error) {
	return p.tool.Execute(ctx, path)
}

type ffprobeOutput struct {
	Format struct {
		Duration string `json:"duration"`
	} `json:"format"`
}

func parseFFProbeDuration(result *process.Result) (float64, error) {
	var out ffprobeOutput
	if err := json.Unmarshal(result.Stdout, &out); err != nil {
		return 0, fmt.Errorf("ffprobe: decoding output: %w", err)
	}
	if out.Format.Duration == "" || out.Format.Duration == "N/A" {
		return 0, fmt.Errorf("ffprobe: duration not reported")
	}
	d, err := strconv.ParseFloat(out.Format.Duration, 64)
	if err != nil {
		return 0, fmt.Errorf("ffprobe: parsing duration %q: %w", out.Format.Duration, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("ffprobe: negative duration %v", d)
	}
	return d, nil
}
