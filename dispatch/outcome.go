package dispatch

import (
	"errors"
	"fmt"

	"github.com/kbukum/videoscribe/inference"
	"github.com/kbukum/videoscribe/transcript"
)

// UnknownLanguage is the language of a placeholder result.
const UnknownLanguage = "Unknown"

var errNoResult = errors.New("backend returned no result")

// Outcome is the result of one adapter call: exactly one of Result and Err is
// meaningful.
type Outcome struct {
	Result *transcript.AnalysisResult
	Err    error
}

// Success wraps a backend result.
func Success(r *transcript.AnalysisResult) Outcome { return Outcome{Result: r} }

// Failure wraps a backend failure.
func Failure(err error) Outcome { return Outcome{Err: err} }

// Failed reports whether the outcome carries no usable result.
func (o Outcome) Failed() bool { return o.Err != nil || o.Result == nil }

// Part resolves the outcome into a transcript.Part paired with duration. A
// failure becomes the placeholder for 1-based chunk number. Title, speaker and
// category always come from base so the merged result never inherits a
// segment suffix.
func (o Outcome) Part(base inference.Hints, chunk int, duration float64) transcript.Part {
	if o.Failed() {
		err := o.Err
		if err == nil {
			err = errNoResult
		}
		return transcript.Part{Result: Placeholder(base, chunk), Duration: duration, Err: err}
	}

	res := *o.Result
	res.Metadata.Title = base.Title
	res.Metadata.Speaker = base.Speaker
	res.Metadata.Category = base.Category
	if res.Metadata.Tags == nil {
		res.Metadata.Tags = []string{}
	}
	if res.Transcript == nil {
		res.Transcript = []transcript.Entry{}
	}
	return transcript.Part{Result: res, Duration: duration}
}

// Placeholder is the result standing in for failed chunk (1-based).
func Placeholder(base inference.Hints, chunk int) transcript.AnalysisResult {
	return transcript.AnalysisResult{
		Metadata: transcript.Metadata{
			Title:    base.Title,
			Speaker:  base.Speaker,
			Category: base.Category,
			Summary:  fmt.Sprintf("Chunk %d processing failed", chunk),
			Tags:     []string{},
			Language: UnknownLanguage,
		},
		Transcript: []transcript.Entry{},
	}
}
