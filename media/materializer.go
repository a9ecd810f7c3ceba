package media

import (
	"context"
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	apperrors "github.com/kbukum/videoscribe/errors"
	"github.com/kbukum/videoscribe/process"
)

// Materializer kinds accepted by NewMaterializer.
const (
	MaterializerFull  = "full"
	MaterializerRange = "range"
)

// Payload is a self-contained, transferable encoding of media bytes.
type Payload struct {
	MimeType string
	// Size is the raw byte length before encoding.
	Size int64
	// Data is the standard base64 encoding of the bytes.
	Data string
	// Clipped is true when Data holds only the segment's time range.
	Clipped bool
}

// Materializer produces the payload sent to the backend for one segment.
type Materializer interface {
	Materialize(ctx context.Context, item Item, seg Segment) (Payload, error)
}

// RunScoped is implemented by materializers that hold state which must not
// outlive one dispatch run.
type RunScoped interface {
	ForRun() Materializer
}

// ForRun returns the per-run instance of m, or m itself when it keeps no state.
func ForRun(m Materializer) Materializer {
	if s, ok := m.(RunScoped); ok {
		return s.ForRun()
	}
	return m
}

// NewMaterializer returns the materializer for kind. An empty kind selects
// the full materializer.
func NewMaterializer(kind, ffmpegBinary string, runner process.Runner) (Materializer, error) {
	switch kind {
	case "", MaterializerFull:
		return NewFullMaterializer(), nil
	case MaterializerRange:
		return NewRangeMaterializer(ffmpegBinary, runner), nil
	default:
		return nil, apperrors.Configuration(fmt.Sprintf("unknown materializer %q", kind))
	}
}

// FullMaterializer sends the whole file for every segment. The segment only
// reaches the backend through the request hints. The encoding of the most
// recent item is cached so an N-segment run reads the file once; dispatchers
// take a fresh instance per run through ForRun so the cache dies with the run.
type FullMaterializer struct {
	mu      sync.Mutex
	key     string
	payload Payload
}

// NewFullMaterializer creates a FullMaterializer.
func NewFullMaterializer() *FullMaterializer {
	return &FullMaterializer{}
}

// ForRun returns an empty FullMaterializer for one dispatch run.
func (m *FullMaterializer) ForRun() Materializer {
	return NewFullMaterializer()
}

// Materialize encodes the whole item, ignoring seg.
func (m *FullMaterializer) Materialize(ctx context.Context, item Item, _ Segment) (Payload, error) {
	if err := ctx.Err(); err != nil {
		return Payload{}, err
	}
	key := item.Path + ":" + strconv.FormatInt(item.Size, 10)

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.key == key {
		return m.payload, nil
	}
	payload, err := encodeFile(item.Path, item.MimeType)
	if err != nil {
		return Payload{}, err
	}
	m.key, m.payload = key, payload
	return payload, nil
}

// RangeMaterializer cuts [Start, End) out of the item with ffmpeg stream copy.
// Cuts land on the nearest keyframes, so segment edges are approximate.
type RangeMaterializer struct {
	binary string
	runner process.Runner
}

// NewRangeMaterializer creates a RangeMaterializer. binary defaults to
// "ffmpeg"; a nil runner executes it directly.
func NewRangeMaterializer(binary string, runner process.Runner) *RangeMaterializer {
	if binary == "" {
		binary = "ffmpeg"
	}
	if runner == nil {
		runner = process.RunnerFunc(process.Run)
	}
	return &RangeMaterializer{binary: binary, runner: runner}
}

// Materialize extracts the segment's time range into a temporary file and
// encodes it.
func (m *RangeMaterializer) Materialize(ctx context.Context, item Item, seg Segment) (Payload, error) {
	if seg.Duration <= 0 {
		return NewFullMaterializer().Materialize(ctx, item, seg)
	}

	dir, err := os.MkdirTemp("", "videoscribe-seg-")
	if err != nil {
		return Payload{}, fmt.Errorf("range materializer: %w", err)
	}
	defer os.RemoveAll(dir)

	out := filepath.Join(dir, fmt.Sprintf("segment-%03d%s", seg.Index, filepath.Ext(item.Path)))
	cmd := process.Command{
		Binary: m.binary,
		Args: []string{
			"-hide_banner", "-v", "error",
			"-ss", formatSeconds(seg.Start),
			"-i", item.Path,
			"-t", formatSeconds(seg.Duration),
			"-c", "copy",
			"-y", out,
		},
	}
	result, err := m.runner.Run(ctx, cmd)
	if err != nil {
		if tail := result.StderrTail(3); tail != "" {
			return Payload{}, fmt.Errorf("range materializer: segment %d: %w: %s", seg.Index, err, tail)
		}
		return Payload{}, fmt.Errorf("range materializer: segment %d: %w", seg.Index, err)
	}
	payload, err := encodeFile(out, item.MimeType)
	if err != nil {
		return Payload{}, err
	}
	payload.Clipped = true
	return payload, nil
}

func encodeFile(path, mimeType string) (Payload, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Payload{}, apperrors.MediaUnreadable(path, err)
	}
	return Payload{
		MimeType: mimeType,
		Size:     int64(len(data)),
		Data:     base64.StdEncoding.EncodeToString(data),
	}, nil
}

func formatSeconds(s float64) string {
	return strconv.FormatFloat(s, 'f', 3, 64)
}
