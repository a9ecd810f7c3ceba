package dispatch

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"testing"
	"time"

	apperrors "github.com/kbukum/videoscribe/errors"
	"github.com/kbukum/videoscribe/inference"
	"github.com/kbukum/videoscribe/logger"
	"github.com/kbukum/videoscribe/media"
	"github.com/kbukum/videoscribe/provider"
	"github.com/kbukum/videoscribe/resilience"
	"github.com/kbukum/videoscribe/transcript"
)

type stubMaterializer struct{ failAt int }

func (m stubMaterializer) Materialize(_ context.Context, _ media.Item, seg media.Segment) (media.Payload, error) {
	if m.failAt >= 0 && seg.Index == m.failAt {
		return media.Payload{}, errors.New("ffmpeg exploded")
	}
	return media.Payload{MimeType: "video/mp4", Size: 1, Data: "QQ=="}, nil
}

// scopedMaterializer hands out a fresh run instance per RunAll and counts
// materializations on each.
type scopedMaterializer struct {
	runs []*scopedMaterializer
	uses int
}

func (m *scopedMaterializer) ForRun() media.Materializer {
	run := &scopedMaterializer{}
	m.runs = append(m.runs, run)
	return run
}

func (m *scopedMaterializer) Materialize(_ context.Context, _ media.Item, _ media.Segment) (media.Payload, error) {
	m.uses++
	return media.Payload{MimeType: "video/mp4", Size: 1, Data: "QQ=="}, nil
}

// recordingSleeper records pauses instead of sleeping.
type recordingSleeper struct{ pauses []time.Duration }

func (r *recordingSleeper) sleep(ctx context.Context, d time.Duration) error {
	r.pauses = append(r.pauses, d)
	return ctx.Err()
}

func segments(durations ...float64) []media.Segment {
	var out []media.Segment
	start := 0.0
	for i, d := range durations {
		out = append(out, media.Segment{Index: i, Start: start, End: start + d, Duration: d})
		start += d
	}
	return out
}

var baseHints = inference.Hints{Title: "Keynote", Speaker: "Ann", Category: "tech"}

func echoAdapter(calls *[]inference.Hints, failAt int) inference.Adapter {
	return provider.Func("stub", func(_ context.Context, req inference.Request) (*transcript.AnalysisResult, error) {
		*calls = append(*calls, req.Hints)
		if req.Hints.SegmentIndex == failAt {
			return nil, apperrors.ServiceUnavailable("stub")
		}
		return &transcript.AnalysisResult{
			Metadata: transcript.Metadata{
				Title:    req.Hints.Title,
				Summary:  fmt.Sprintf("part %d", req.Hints.SegmentIndex),
				Language: "English",
			},
			Transcript: []transcript.Entry{{Timestamp: "00:05", Speaker: "Ann", Text: "hi"}},
		}, nil
	})
}

func newTestDispatcher(adapter inference.Adapter, m media.Materializer, sleeper *recordingSleeper) *Dispatcher {
	return New(adapter, m,
		WithPacer(resilience.NewPacer(DefaultCooldown, resilience.WithSleep(sleeper.sleep))),
		WithLogger(logger.Nop()),
	)
}

func TestRunAll_AllSucceed(t *testing.T) {
	var calls []inference.Hints
	sleeper := &recordingSleeper{}
	d := newTestDispatcher(echoAdapter(&calls, -1), stubMaterializer{failAt: -1}, sleeper)

	parts, err := d.RunAll(context.Background(), media.Item{Path: "talk.mp4"}, segments(600, 600, 300), baseHints, Observers{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(parts) != 3 {
		t.Fatalf("expected 3 parts, got %d", len(parts))
	}
	wantDurations := []float64{600, 600, 300}
	for i, p := range parts {
		if p.Failed() {
			t.Errorf("part %d unexpectedly failed: %v", i, p.Err)
		}
		if p.Duration != wantDurations[i] {
			t.Errorf("part %d: expected duration %v, got %v", i, wantDurations[i], p.Duration)
		}
		if p.Result.Metadata.Title != "Keynote" {
			t.Errorf("part %d: expected base title, got %q", i, p.Result.Metadata.Title)
		}
	}

	wantTitles := []string{"Keynote (Segment 1/3)", "Keynote (Segment 2/3)", "Keynote (Segment 3/3)"}
	for i, h := range calls {
		if h.Title != wantTitles[i] {
			t.Errorf("call %d: expected title %q, got %q", i, wantTitles[i], h.Title)
		}
		if h.SegmentIndex != i || h.SegmentTotal != 3 || h.Speaker != "Ann" || h.Category != "tech" {
			t.Errorf("call %d: unexpected hints %+v", i, h)
		}
	}
	if calls[1].Start != 600 || calls[1].End != 1200 {
		t.Errorf("expected second call to cover 600-1200, got %v-%v", calls[1].Start, calls[1].End)
	}

	if !reflect.DeepEqual(sleeper.pauses, []time.Duration{DefaultCooldown, DefaultCooldown}) {
		t.Errorf("expected cool-down between calls only, got %v", sleeper.pauses)
	}
}

func TestRunAll_MaterializerScopedToRun(t *testing.T) {
	var calls []inference.Hints
	m := &scopedMaterializer{}
	d := newTestDispatcher(echoAdapter(&calls, -1), m, &recordingSleeper{})

	for range 2 {
		if _, err := d.RunAll(context.Background(), media.Item{Path: "talk.mp4"}, segments(600, 600), baseHints, Observers{}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if m.uses != 0 {
		t.Errorf("expected the shared materializer to stay unused, got %d uses", m.uses)
	}
	if len(m.runs) != 2 {
		t.Fatalf("expected one run instance per RunAll, got %d", len(m.runs))
	}
	for i, run := range m.runs {
		if run.uses != 2 {
			t.Errorf("run %d: expected 2 materializations, got %d", i, run.uses)
		}
	}
}

func TestRunAll_FailureBecomesPlaceholder(t *testing.T) {
	var calls []inference.Hints
	d := newTestDispatcher(echoAdapter(&calls, 1), stubMaterializer{failAt: -1}, &recordingSleeper{})

	parts, err := d.RunAll(context.Background(), media.Item{}, segments(600, 600, 300), baseHints, Observers{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(parts) != 3 || len(calls) != 3 {
		t.Fatalf("expected the run to continue past the failure, got %d parts and %d calls", len(parts), len(calls))
	}

	failed := parts[1]
	if !failed.Failed() {
		t.Fatal("expected second part to be a placeholder")
	}
	if failed.Duration != 600 {
		t.Errorf("expected placeholder to keep the segment duration, got %v", failed.Duration)
	}
	want := transcript.Metadata{
		Title: "Keynote", Speaker: "Ann", Category: "tech",
		Summary: "Chunk 2 processing failed", Tags: []string{}, Language: "Unknown",
	}
	if !reflect.DeepEqual(failed.Result.Metadata, want) {
		t.Errorf("expected placeholder metadata %+v, got %+v", want, failed.Result.Metadata)
	}
	if len(failed.Result.Transcript) != 0 {
		t.Errorf("expected empty placeholder transcript, got %+v", failed.Result.Transcript)
	}

	merged, err := transcript.Merge(parts)
	if err != nil {
		t.Fatalf("unexpected merge error: %v", err)
	}
	got := []string{merged.Transcript[0].Timestamp, merged.Transcript[1].Timestamp}
	if !reflect.DeepEqual(got, []string{"00:05", "20:05"}) {
		t.Errorf("expected offsets to survive the failure, got %v", got)
	}
}

func TestRunAll_MaterializerFailureIsLocal(t *testing.T) {
	var calls []inference.Hints
	d := newTestDispatcher(echoAdapter(&calls, -1), stubMaterializer{failAt: 0}, &recordingSleeper{})

	parts, err := d.RunAll(context.Background(), media.Item{}, segments(10, 10), baseHints, Observers{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !parts[0].Failed() || parts[1].Failed() {
		t.Errorf("expected only the first part to fail, got %v / %v", parts[0].Err, parts[1].Err)
	}
	if len(calls) != 1 {
		t.Errorf("expected the adapter to be skipped for the failed segment, got %d calls", len(calls))
	}
}

func TestRunAll_SingleSegmentKeepsTitle(t *testing.T) {
	var calls []inference.Hints
	d := newTestDispatcher(echoAdapter(&calls, -1), stubMaterializer{failAt: -1}, &recordingSleeper{})
	if _, err := d.RunAll(context.Background(), media.Item{}, segments(30), baseHints, Observers{}); err != nil {
		t.Fatal(err)
	}
	if calls[0].Title != "Keynote" {
		t.Errorf("expected unsuffixed title for a single segment, got %q", calls[0].Title)
	}
}

func TestRunAll_Progress(t *testing.T) {
	var calls []inference.Hints
	var events []Progress
	var done [][2]int
	obs := Observers{
		OnProgress:    func(p Progress) { events = append(events, p) },
		OnSegmentDone: func(i, n int) { done = append(done, [2]int{i, n}) },
	}
	d := newTestDispatcher(echoAdapter(&calls, 1), stubMaterializer{failAt: -1}, &recordingSleeper{})
	if _, err := d.RunAll(context.Background(), media.Item{}, segments(1, 1), baseHints, obs); err != nil {
		t.Fatal(err)
	}

	want := []Progress{
		{SegmentIndex: 0, TotalSegments: 2, Percent: 10, Status: StatusDispatching},
		{SegmentIndex: 0, TotalSegments: 2, Percent: 55, Status: StatusCompleted},
		{SegmentIndex: 1, TotalSegments: 2, Percent: 55, Status: StatusDispatching},
		{SegmentIndex: 1, TotalSegments: 2, Percent: 100, Status: StatusFailed},
	}
	if !reflect.DeepEqual(events, want) {
		t.Errorf("expected %+v, got %+v", want, events)
	}
	if !reflect.DeepEqual(done, [][2]int{{0, 2}, {1, 2}}) {
		t.Errorf("unexpected segment-done callbacks %v", done)
	}
}

func TestRunAll_CancelledBetweenSegments(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	var calls int
	adapter := provider.Func("stub", func(context.Context, inference.Request) (*transcript.AnalysisResult, error) {
		calls++
		if calls == 1 {
			cancel()
		}
		return &transcript.AnalysisResult{}, nil
	})
	d := newTestDispatcher(adapter, stubMaterializer{failAt: -1}, &recordingSleeper{})

	parts, err := d.RunAll(ctx, media.Item{}, segments(10, 10, 10), baseHints, Observers{})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if len(parts) != 1 || calls != 1 {
		t.Errorf("expected to stop after the first segment, got %d parts and %d calls", len(parts), calls)
	}
}

func TestRunAll_CancelledDuringCall(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	adapter := provider.Func("stub", func(ctx context.Context, _ inference.Request) (*transcript.AnalysisResult, error) {
		cancel()
		return nil, ctx.Err()
	})
	d := newTestDispatcher(adapter, stubMaterializer{failAt: -1}, &recordingSleeper{})

	parts, err := d.RunAll(ctx, media.Item{}, segments(10, 10), baseHints, Observers{})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if len(parts) != 0 {
		t.Errorf("expected no placeholder for a cancelled call, got %d parts", len(parts))
	}
}

func TestRunAll_Empty(t *testing.T) {
	d := newTestDispatcher(echoAdapter(&[]inference.Hints{}, -1), nil, &recordingSleeper{})
	parts, err := d.RunAll(context.Background(), media.Item{}, nil, baseHints, Observers{})
	if err != nil || len(parts) != 0 {
		t.Errorf("expected no parts and no error, got %d, %v", len(parts), err)
	}
}

func TestRunAll_ZeroCooldown(t *testing.T) {
	var calls []inference.Hints
	d := New(echoAdapter(&calls, -1), stubMaterializer{failAt: -1}, WithCooldown(0), WithLogger(logger.Nop()))
	start := time.Now()
	if _, err := d.RunAll(context.Background(), media.Item{}, segments(1, 1, 1), baseHints, Observers{}); err != nil {
		t.Fatal(err)
	}
	if time.Since(start) > 500*time.Millisecond {
		t.Errorf("expected no cool-down, took %v", time.Since(start))
	}
}
