package transcript

import (
	"strings"

	apperrors "github.com/kbukum/videoscribe/errors"
)

// MaxTags caps the merged tag list.
const MaxTags = 15

// Merge stitches parts into a single result. Title, speaker and category come
// from the first part. Every entry of part k is shifted by the sum of the
// Durations of parts before it. A malformed timestamp aborts the merge.
func Merge(parts []Part) (AnalysisResult, error) {
	if len(parts) == 0 {
		return AnalysisResult{}, apperrors.EmptyInput("merge")
	}

	first := parts[0].Result.Metadata
	merged := AnalysisResult{
		Metadata: Metadata{
			Title:    first.Title,
			Speaker:  first.Speaker,
			Category: first.Category,
		},
		Transcript: make([]Entry, 0, countEntries(parts)),
	}

	tags := newOrderedSet()
	languages := newOrderedSet()
	summaries := newOrderedSet()

	offset := 0.0
	for _, part := range parts {
		for _, entry := range part.Result.Transcript {
			ts, err := AdjustTimestamp(entry.Timestamp, offset)
			if err != nil {
				return AnalysisResult{}, err
			}
			entry.Timestamp = ts
			merged.Transcript = append(merged.Transcript, entry)
		}
		offset += part.Duration

		md := part.Result.Metadata
		for _, tag := range md.Tags {
			tags.add(strings.ToLower(strings.TrimSpace(tag)))
		}
		for _, lang := range strings.Split(md.Language, ",") {
			languages.add(strings.TrimSpace(lang))
		}
		summaries.add(strings.TrimSpace(md.Summary))
	}

	merged.Metadata.Tags = tags.first(MaxTags)
	merged.Metadata.Language = strings.Join(languages.items, ", ")
	merged.Metadata.Summary = strings.Join(summaries.items, " ")
	return merged, nil
}

func countEntries(parts []Part) int {
	n := 0
	for _, p := range parts {
		n += len(p.Result.Transcript)
	}
	return n
}

// orderedSet keeps non-empty strings in first-seen order.
type orderedSet struct {
	seen  map[string]struct{}
	items []string
}

func newOrderedSet() *orderedSet {
	return &orderedSet{seen: make(map[string]struct{})}
}

func (s *orderedSet) add(v string) {
	if v == "" {
		return
	}
	if _, ok := s.seen[v]; ok {
		return
	}
	s.seen[v] = struct{}{}
	s.items = append(s.items, v)
}

func (s *orderedSet) first(n int) []string {
	if len(s.items) > n {
		return s.items[:n]
	}
	if s.items == nil {
		return []string{}
	}
	return s.items
}
