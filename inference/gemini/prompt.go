package gemini

import (
	"fmt"
	"strings"

	"github.com/kbukum/videoscribe/inference"
	"github.com/kbukum/videoscribe/transcript"
	"github.com/kbukum/videoscribe/util"
)

const maxHintRunes = 200

func buildPrompt(h inference.Hints, clipped bool) string {
	var sb strings.Builder
	sb.WriteString("Analyze this video recording and return JSON matching the response schema.\n")
	sb.WriteString("Transcribe every utterance verbatim in its original language. Do not translate.\n")
	sb.WriteString("For each utterance give a timestamp as MM:SS, the speaker, the text, the tone and the intent.\n")
	sb.WriteString("In metadata give a short summary, up to 15 lower-case topic tags and the spoken languages as a comma-separated list.\n")

	if title := util.SanitizeHint(h.Title, maxHintRunes); title != "" {
		fmt.Fprintf(&sb, "Title: %s\n", title)
	}
	if speaker := util.SanitizeHint(h.Speaker, maxHintRunes); speaker != "" {
		fmt.Fprintf(&sb, "Main speaker: %s\n", speaker)
	}
	if category := util.SanitizeHint(h.Category, maxHintRunes); category != "" {
		fmt.Fprintf(&sb, "Category: %s\n", category)
	}
	if !h.Segmented() {
		return sb.String()
	}
	from, to := transcript.FormatTimestamp(int(h.Start)), transcript.FormatTimestamp(int(h.End))
	if clipped {
		fmt.Fprintf(&sb, "This clip is segment %d of %d, cut from %s to %s of the full recording. "+
			"Timestamps must be relative to the start of this clip.\n",
			h.SegmentIndex+1, h.SegmentTotal, from, to)
	} else {
		fmt.Fprintf(&sb, "This is segment %d of %d. Only analyze the range %s to %s of the recording. "+
			"Timestamps must be relative to the start of that range, so its first second is 00:00.\n",
			h.SegmentIndex+1, h.SegmentTotal, from, to)
	}
	return sb.String()
}
