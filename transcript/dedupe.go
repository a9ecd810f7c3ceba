package transcript

import "strings"

const fingerprintRunes = 20

// Dedupe removes verbatim repeats left at segment boundaries. An entry is
// dropped only when its fingerprint (timestamp plus the first 20 lower-cased
// runes of text) was seen before and it repeats the immediately preceding
// entry exactly (same timestamp, same text ignoring case). Fingerprint
// collisions between non-adjacent or differing entries are kept.
func Dedupe(entries []Entry) []Entry {
	out := make([]Entry, 0, len(entries))
	seen := make(map[string]struct{}, len(entries))
	for i, e := range entries {
		fp := fingerprint(e)
		if _, dup := seen[fp]; dup && i > 0 && repeats(entries[i-1], e) {
			continue
		}
		seen[fp] = struct{}{}
		out = append(out, e)
	}
	return out
}

func fingerprint(e Entry) string {
	text := []rune(strings.ToLower(e.Text))
	if len(text) > fingerprintRunes {
		text = text[:fingerprintRunes]
	}
	return e.Timestamp + "\x00" + string(text)
}

func repeats(prev, cur Entry) bool {
	return prev.Timestamp == cur.Timestamp && strings.EqualFold(prev.Text, cur.Text)
}
