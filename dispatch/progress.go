package dispatch

// Status describes the stage a progress notification refers to.
type Status string

const (
	StatusPlanned     Status = "planned"
	StatusDispatching Status = "dispatching"
	StatusCompleted   Status = "completed"
	StatusFailed      Status = "failed"
)

// Planning covers 0-10 percent of a run, dispatch 10-100.
const planningShare = 10.0

// Progress is one notification. SegmentIndex is 0-based.
type Progress struct {
	SegmentIndex  int     `json:"segment_index"`
	TotalSegments int     `json:"total_segments"`
	Percent       float64 `json:"percent"`
	Status        Status  `json:"status"`
}

// Observers receive run notifications. Both callbacks are optional and are
// invoked synchronously from the dispatch goroutine.
type Observers struct {
	// OnProgress fires after each segment is planned, before each dispatch and
	// after each dispatch.
	OnProgress func(Progress)
	// OnSegmentDone fires after each dispatch with the 0-based segment index.
	OnSegmentDone func(index, total int)
}

func (o Observers) progress(p Progress) {
	if o.OnProgress != nil {
		o.OnProgress(p)
	}
}

func (o Observers) segmentDone(index, total int) {
	if o.OnSegmentDone != nil {
		o.OnSegmentDone(index, total)
	}
}

// Planned returns the notification for a planned segment.
func Planned(index, total int) Progress {
	return Progress{
		SegmentIndex:  index,
		TotalSegments: total,
		Percent:       share(0, planningShare, index+1, total),
		Status:        StatusPlanned,
	}
}

// NotifyPlanned forwards a planning notification to o.
func (o Observers) NotifyPlanned(index, total int) {
	o.progress(Planned(index, total))
}

func dispatching(index, total int) Progress {
	return Progress{
		SegmentIndex:  index,
		TotalSegments: total,
		Percent:       share(planningShare, 100, index, total),
		Status:        StatusDispatching,
	}
}

func dispatched(index, total int, failed bool) Progress {
	status := StatusCompleted
	if failed {
		status = StatusFailed
	}
	return Progress{
		SegmentIndex:  index,
		TotalSegments: total,
		Percent:       share(planningShare, 100, index+1, total),
		Status:        status,
	}
}

// share maps done/total onto [from, to].
func share(from, to float64, done, total int) float64 {
	if total <= 0 {
		return to
	}
	return from + (to-from)*float64(done)/float64(total)
}
