package media

import (
	"fmt"
	"math"

	apperrors "github.com/kbukum/videoscribe/errors"
	"github.com/kbukum/videoscribe/logger"
)

// Segment is a half-open slice of the media timeline in seconds.
type Segment struct {
	Index    int     `json:"index"`
	Start    float64 `json:"start"`
	End      float64 `json:"end"`
	Duration float64 `json:"duration"`
}

// PartitionPolicy holds the thresholds above which an item is split.
type PartitionPolicy struct {
	MaxSizeMB          float64
	MaxDurationMinutes float64
	// FallbackSizeMB applies when the duration is unknown. Zero means half of
	// MaxSizeMB.
	FallbackSizeMB float64
}

// ShouldPartition reports whether item must be split. Size is checked first,
// then duration when known. With an unknown duration the smaller fallback
// size threshold decides, so uncertain items lean towards splitting.
func (p PartitionPolicy) ShouldPartition(item Item) bool {
	sizeMB := item.SizeMB()
	if sizeMB > p.MaxSizeMB {
		return true
	}
	if item.DurationKnown() {
		return item.Duration > p.MaxDurationMinutes*60
	}
	return sizeMB > p.fallbackSizeMB()
}

func (p PartitionPolicy) fallbackSizeMB() float64 {
	if p.FallbackSizeMB > 0 && p.FallbackSizeMB < p.MaxSizeMB {
		return p.FallbackSizeMB
	}
	return p.MaxSizeMB / 2
}

// ShouldPartition applies a PartitionPolicy with the default fallback.
func ShouldPartition(item Item, maxSizeMB, maxDurationMinutes float64) bool {
	return PartitionPolicy{MaxSizeMB: maxSizeMB, MaxDurationMinutes: maxDurationMinutes}.ShouldPartition(item)
}

// MaxSegments bounds the number of segments a single item may be split into.
const MaxSegments = 10000

// PlannedFunc is notified once per planned segment.
type PlannedFunc func(seg Segment, total int)

// PlanSegments splits the item's timeline into ceil(D/L) contiguous segments of
// L = segmentMinutes*60 seconds; the last one ends exactly at D. onPlanned may
// be nil.
func PlanSegments(item Item, segmentMinutes float64, onPlanned PlannedFunc) ([]Segment, error) {
	if segmentMinutes <= 0 || math.IsNaN(segmentMinutes) || math.IsInf(segmentMinutes, 0) {
		return nil, apperrors.InvalidInput("segment_minutes", "must be a positive number of minutes")
	}
	total := item.Duration
	if total < 0 || math.IsNaN(total) || math.IsInf(total, 0) {
		return nil, apperrors.InvalidInput("duration", "must be a finite non-negative number of seconds")
	}
	if total == 0 {
		return nil, apperrors.NothingToProcess(item.Path)
	}

	length := segmentMinutes * 60
	planned := math.Ceil(total / length)
	if planned > MaxSegments {
		return nil, apperrors.InvalidInput("segment_minutes",
			fmt.Sprintf("%.0f segments exceed the limit of %d", planned, MaxSegments))
	}
	count := int(planned)
	segments := make([]Segment, 0, count)
	for i := range count {
		start := float64(i) * length
		if start >= total {
			break
		}
		end := math.Min(float64(i+1)*length, total)
		if i == count-1 {
			end = total
		}
		segments = append(segments, Segment{Index: i, Start: start, End: end, Duration: end - start})
	}

	log := logger.WithComponent("planner")
	for _, seg := range segments {
		log.Debug("segment planned", logger.SegmentFields(seg.Index, len(segments), seg.Start, seg.End))
		if onPlanned != nil {
			onPlanned(seg, len(segments))
		}
	}
	return segments, nil
}

// WholeSegment covers the entire item as a single segment. Used when the item
// is small enough to send unsplit; Duration may be zero if unknown.
func WholeSegment(item Item) Segment {
	return Segment{Index: 0, Start: 0, End: item.Duration, Duration: item.Duration}
}
