package transcript

// Entry is one utterance. Timestamp is MM:SS relative to the start of the
// media the entry was produced from.
type Entry struct {
	Timestamp string `json:"timestamp"`
	Speaker   string `json:"speaker"`
	Text      string `json:"text"`
	Tone      string `json:"tone"`
	Intent    string `json:"intent"`
}

// Metadata describes an analysed recording. Title, Speaker and Category are
// carried through from the caller; the rest is produced by the backend.
type Metadata struct {
	Title    string   `json:"title"`
	Speaker  string   `json:"speaker"`
	Category string   `json:"category"`
	Summary  string   `json:"summary"`
	Tags     []string `json:"tags"`
	Language string   `json:"language"`
}

// AnalysisResult pairs metadata with the ordered transcript.
type AnalysisResult struct {
	Metadata   Metadata `json:"metadata"`
	Transcript []Entry  `json:"transcript"`
}

// Part is the result of one segment together with the segment's length in
// seconds. Err is set when Result is a placeholder standing in for a failed
// segment; Merge ignores it.
type Part struct {
	Result   AnalysisResult
	Duration float64
	Err      error
}

// Failed reports whether the part is a placeholder.
func (p Part) Failed() bool { return p.Err != nil }
