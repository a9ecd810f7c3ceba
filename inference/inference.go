package inference

import (
	"fmt"

	"github.com/kbukum/videoscribe/media"
	"github.com/kbukum/videoscribe/provider"
	"github.com/kbukum/videoscribe/transcript"
)

// Adapter analyses one media payload.
type Adapter = provider.RequestResponse[Request, *transcript.AnalysisResult]

// Request is the input to an Adapter.
type Request struct {
	Payload media.Payload
	Hints   Hints
}

// Hints carry caller context that steers the backend. SegmentIndex is 0-based;
// SegmentTotal is 1 for an unsplit item. Start and End are seconds into the
// original media.
type Hints struct {
	Title        string
	Speaker      string
	Category     string
	SegmentIndex int
	SegmentTotal int
	Start        float64
	End          float64
}

// Segmented reports whether the request covers one of several segments.
func (h Hints) Segmented() bool { return h.SegmentTotal > 1 }

// SegmentTitle returns "<title> (Segment i/N)" with a 1-based i.
func SegmentTitle(title string, index, total int) string {
	return fmt.Sprintf("%s (Segment %d/%d)", title, index+1, total)
}
