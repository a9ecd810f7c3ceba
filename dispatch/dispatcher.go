package dispatch

import (
	"context"
	"time"

	"github.com/kbukum/videoscribe/inference"
	"github.com/kbukum/videoscribe/logger"
	"github.com/kbukum/videoscribe/media"
	"github.com/kbukum/videoscribe/observability"
	"github.com/kbukum/videoscribe/pipeline"
	"github.com/kbukum/videoscribe/resilience"
	"github.com/kbukum/videoscribe/transcript"
)

// DefaultCooldown separates consecutive backend calls.
const DefaultCooldown = time.Second

// Part is a segment result paired with the segment's duration.
type Part = transcript.Part

// Dispatcher runs segments through a materializer and an inference adapter.
type Dispatcher struct {
	adapter      inference.Adapter
	materializer media.Materializer
	pacer        *resilience.Pacer
	log          *logger.Logger
	metrics      *observability.Metrics
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithCooldown sets the pause between consecutive calls. Zero disables it.
func WithCooldown(d time.Duration) Option {
	return func(disp *Dispatcher) { disp.pacer = resilience.NewPacer(d) }
}

// WithPacer replaces the cool-down pacer.
func WithPacer(p *resilience.Pacer) Option {
	return func(disp *Dispatcher) { disp.pacer = p }
}

// WithLogger sets the logger.
func WithLogger(l *logger.Logger) Option {
	return func(disp *Dispatcher) { disp.log = l }
}

// WithMetrics sets the metric instruments. Nil disables recording.
func WithMetrics(m *observability.Metrics) Option {
	return func(disp *Dispatcher) { disp.metrics = m }
}

// New creates a Dispatcher. A nil materializer sends the full media.
func New(adapter inference.Adapter, materializer media.Materializer, opts ...Option) *Dispatcher {
	if materializer == nil {
		materializer = media.NewFullMaterializer()
	}
	d := &Dispatcher{
		adapter:      adapter,
		materializer: materializer,
		pacer:        resilience.NewPacer(DefaultCooldown),
	}
	for _, opt := range opts {
		opt(d)
	}
	if d.log == nil {
		d.log = logger.WithComponent("dispatch")
	}
	return d
}

type positioned = pipeline.Indexed[media.Segment]

// RunAll dispatches segments in order and returns one Part per segment.
// Failures become placeholder parts. If ctx is cancelled the parts completed
// so far are returned together with ctx's error.
func (d *Dispatcher) RunAll(ctx context.Context, item media.Item, segments []media.Segment, hints inference.Hints, obs Observers) ([]Part, error) {
	total := len(segments)
	log := d.log.WithContext(ctx)
	log.Info("dispatch started", logger.Fields(
		logger.FieldMediaPath, item.Path,
		logger.FieldSegmentTotal, total,
		"provider", d.adapter.Name(),
	))

	materializer := media.ForRun(d.materializer)
	parts := pipeline.Map(pipeline.Enumerate(pipeline.FromSlice(segments)), func(ctx context.Context, p positioned) (Part, error) {
		if p.Index > 0 {
			if err := d.pacer.Pause(ctx); err != nil {
				return Part{}, err
			}
		}
		obs.progress(dispatching(p.Index, total))
		return d.dispatchOne(ctx, materializer, item, p.Value, p.Index, total, hints)
	})

	var pos int
	parts = pipeline.Tap(parts, func(_ context.Context, part Part) error {
		obs.progress(dispatched(pos, total, part.Failed()))
		obs.segmentDone(pos, total)
		pos++
		return nil
	})

	out, err := pipeline.Collect(ctx, parts)
	if err != nil {
		log.Warn("dispatch interrupted", logger.MergeWithError(logger.Fields(
			"completed", len(out),
			logger.FieldSegmentTotal, total,
		), err))
		return out, err
	}

	failed := 0
	for _, p := range out {
		if p.Failed() {
			failed++
		}
	}
	log.Info("dispatch finished", logger.Fields(
		logger.FieldSegmentTotal, total,
		"failed", failed,
	))
	return out, nil
}

// dispatchOne materializes and analyses one segment. Only cancellation of ctx
// is returned as an error; every other failure becomes a placeholder.
func (d *Dispatcher) dispatchOne(ctx context.Context, materializer media.Materializer, item media.Item, seg media.Segment, pos, total int, base inference.Hints) (Part, error) {
	ctx, span := observability.StartSpan(ctx, observability.SpanDispatchSegment)
	defer span.End()
	observability.SetSpanAttribute(ctx, observability.AttrSegmentIndex, pos)
	observability.SetSpanAttribute(ctx, observability.AttrSegmentTotal, total)
	observability.SetSpanAttribute(ctx, observability.AttrSegmentStart, seg.Start)
	observability.SetSpanAttribute(ctx, observability.AttrSegmentEnd, seg.End)

	start := time.Now()
	outcome := d.analyse(ctx, materializer, item, seg, pos, total, base)
	elapsed := time.Since(start)

	if outcome.Failed() && ctx.Err() != nil {
		observability.SetSpanError(ctx, ctx.Err())
		return Part{}, ctx.Err()
	}

	part := outcome.Part(base, pos+1, seg.Duration)
	d.metrics.RecordSegment(ctx, d.adapter.Name(), part.Failed(), elapsed)

	fields := logger.MergeWithDuration(logger.SegmentFields(pos, total, seg.Start, seg.End), elapsed)
	if part.Failed() {
		observability.SetSpanError(ctx, part.Err)
		observability.SetSpanAttribute(ctx, observability.AttrOutcome, "placeholder")
		d.log.WithContext(ctx).Warn("segment failed, using placeholder", logger.MergeWithError(fields, part.Err))
	} else {
		observability.SetSpanAttribute(ctx, observability.AttrOutcome, "ok")
		fields["entries"] = len(part.Result.Transcript)
		d.log.WithContext(ctx).Debug("segment analysed", fields)
	}
	return part, nil
}

func (d *Dispatcher) analyse(ctx context.Context, materializer media.Materializer, item media.Item, seg media.Segment, pos, total int, base inference.Hints) Outcome {
	payload, err := materializer.Materialize(ctx, item, seg)
	if err != nil {
		return Failure(err)
	}
	observability.SetSpanAttribute(ctx, observability.AttrMediaBytes, payload.Size)

	hints := base
	hints.SegmentIndex = pos
	hints.SegmentTotal = total
	hints.Start = seg.Start
	hints.End = seg.End
	if total > 1 {
		hints.Title = inference.SegmentTitle(base.Title, pos, total)
	}

	res, err := d.adapter.Execute(ctx, inference.Request{Payload: payload, Hints: hints})
	if err != nil {
		return Failure(err)
	}
	return Success(res)
}
