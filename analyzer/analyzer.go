package analyzer

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/kbukum/videoscribe/dispatch"
	apperrors "github.com/kbukum/videoscribe/errors"
	"github.com/kbukum/videoscribe/inference"
	"github.com/kbukum/videoscribe/logger"
	"github.com/kbukum/videoscribe/media"
	"github.com/kbukum/videoscribe/observability"
	"github.com/kbukum/videoscribe/process"
	"github.com/kbukum/videoscribe/transcript"
)

// Analysis outcomes recorded in metrics.
const (
	statusOK        = "ok"
	statusFailed    = "failed"
	statusCancelled = "cancelled"
)

// Report is the outcome of one run.
type Report struct {
	RunID          string                    `json:"run_id"`
	Segments       int                       `json:"segments"`
	FailedSegments int                       `json:"failed_segments"`
	Result         transcript.AnalysisResult `json:"result"`
}

// Analyzer orchestrates planning, dispatch, merge and dedupe.
type Analyzer struct {
	cfg          Config
	policy       media.PartitionPolicy
	adapter      inference.Adapter
	runner       process.Runner
	prober       media.Prober
	dispatcher   *dispatch.Dispatcher
	dispatchOpts []dispatch.Option
	log          *logger.Logger
	metrics      *observability.Metrics
	newRunID     func() string
}

// Option configures an Analyzer.
type Option func(*Analyzer)

// WithRunner sets the runner used for ffprobe and ffmpeg.
func WithRunner(r process.Runner) Option {
	return func(a *Analyzer) { a.runner = r }
}

// WithProber replaces the ffprobe duration prober.
func WithProber(p media.Prober) Option {
	return func(a *Analyzer) { a.prober = p }
}

// WithLogger sets the logger.
func WithLogger(l *logger.Logger) Option {
	return func(a *Analyzer) { a.log = l }
}

// WithMetrics sets the metric instruments.
func WithMetrics(m *observability.Metrics) Option {
	return func(a *Analyzer) { a.metrics = m }
}

// WithDispatchOptions appends options for the underlying dispatcher. They are
// applied after the ones derived from Config.
func WithDispatchOptions(opts ...dispatch.Option) Option {
	return func(a *Analyzer) { a.dispatchOpts = append(a.dispatchOpts, opts...) }
}

// New validates cfg and wires an Analyzer around adapter.
func New(cfg Config, adapter inference.Adapter, opts ...Option) (*Analyzer, error) {
	if adapter == nil {
		return nil, apperrors.Configuration("inference adapter is required")
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	a := &Analyzer{
		cfg:      cfg,
		policy:   cfg.Policy(),
		adapter:  adapter,
		newRunID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.log == nil {
		a.log = logger.WithComponent("analyzer")
	}
	if a.runner == nil {
		a.runner = process.NewAdapter(process.Config{Name: "media", Timeout: cfg.ToolTimeout})
	}
	if a.prober == nil {
		a.prober = media.NewFFProbe(cfg.FFprobe, a.runner)
	}

	materializer, err := media.NewMaterializer(cfg.Materializer, cfg.FFmpeg, a.runner)
	if err != nil {
		return nil, err
	}
	dopts := []dispatch.Option{
		dispatch.WithCooldown(cfg.Cooldown),
		dispatch.WithLogger(a.log.WithComponent("dispatch")),
		dispatch.WithMetrics(a.metrics),
	}
	a.dispatcher = dispatch.New(adapter, materializer, append(dopts, a.dispatchOpts...)...)
	return a, nil
}

// Open reads path into a media item, probing its duration when possible.
func (a *Analyzer) Open(ctx context.Context, path string) (media.Item, error) {
	return media.Open(ctx, path, a.prober)
}

// Analyze runs item through the full pipeline. Segment failures are absorbed
// as placeholders; only configuration, planning, merge and cancellation
// errors are returned.
func (a *Analyzer) Analyze(ctx context.Context, item media.Item, hints inference.Hints, obs dispatch.Observers) (*Report, error) {
	runID := a.newRunID()
	ctx = logger.ContextWithRunID(ctx, runID)
	ctx, span := observability.StartSpan(ctx, observability.SpanAnalyze)
	defer span.End()
	observability.SetSpanAttribute(ctx, observability.AttrRunID, runID)
	observability.SetSpanAttribute(ctx, observability.AttrProvider, a.adapter.Name())
	observability.SetSpanAttribute(ctx, observability.AttrMediaBytes, item.Size)

	log := a.log.WithContext(ctx)
	log.Info("analysis started", logger.Fields(
		logger.FieldMediaPath, item.Path,
		"size_mb", item.SizeMB(),
		logger.FieldDuration, int64(item.Duration*1000),
	))

	report, err := a.run(ctx, item, hints, obs)
	if err != nil {
		status := statusFailed
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			status = statusCancelled
		}
		observability.SetSpanError(ctx, err)
		a.metrics.RecordAnalysis(ctx, status)
		log.Error("analysis failed", logger.MergeWithError(logger.Fields(logger.FieldStatus, status), err))
		return nil, err
	}
	report.RunID = runID

	a.metrics.RecordAnalysis(ctx, statusOK)
	log.Info("analysis finished", logger.Fields(
		"segments", report.Segments,
		"failed", report.FailedSegments,
		"entries", len(report.Result.Transcript),
	))
	return report, nil
}

func (a *Analyzer) run(ctx context.Context, item media.Item, hints inference.Hints, obs dispatch.Observers) (*Report, error) {
	segments, err := a.plan(item, obs)
	if err != nil {
		return nil, err
	}

	parts, err := a.dispatcher.RunAll(ctx, item, segments, hints, obs)
	if err != nil {
		return nil, err
	}

	result, err := a.merge(ctx, parts)
	if err != nil {
		return nil, err
	}

	failed := 0
	for _, p := range parts {
		if p.Failed() {
			failed++
		}
	}
	return &Report{Segments: len(segments), FailedSegments: failed, Result: result}, nil
}

// plan returns the segments for item. An item under every threshold is sent
// whole.
func (a *Analyzer) plan(item media.Item, obs dispatch.Observers) ([]media.Segment, error) {
	if !a.policy.ShouldPartition(item) {
		obs.NotifyPlanned(0, 1)
		return []media.Segment{media.WholeSegment(item)}, nil
	}
	if !item.DurationKnown() {
		return nil, apperrors.InvalidInput("duration", "media must be split but its duration is unknown")
	}
	return media.PlanSegments(item, a.cfg.SegmentMinutes, func(seg media.Segment, total int) {
		obs.NotifyPlanned(seg.Index, total)
	})
}

func (a *Analyzer) merge(ctx context.Context, parts []dispatch.Part) (transcript.AnalysisResult, error) {
	ctx, span := observability.StartSpan(ctx, observability.SpanMerge)
	defer span.End()

	merged, err := transcript.Merge(parts)
	if err != nil {
		observability.SetSpanError(ctx, err)
		return transcript.AnalysisResult{}, err
	}
	before := len(merged.Transcript)
	merged.Transcript = transcript.Dedupe(merged.Transcript)
	if dropped := before - len(merged.Transcript); dropped > 0 {
		a.log.WithContext(ctx).Debug("boundary duplicates removed", logger.Fields("dropped", dropped))
	}
	return merged, nil
}
