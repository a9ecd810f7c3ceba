package transcript

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	apperrors "github.com/kbukum/videoscribe/errors"
)

// maxMinutes keeps minutes*60+59 within int.
const maxMinutes = (math.MaxInt - 59) / 60

// ParseTimestamp converts M+:SS into whole seconds. Minutes may have any
// number of digits up to maxMinutes and seconds must be two digits in 00-59.
func ParseTimestamp(ts string) (int, error) {
	s := strings.TrimSpace(ts)
	mm, ss, ok := strings.Cut(s, ":")
	if !ok || mm == "" || len(ss) != 2 || !allDigits(mm) || !allDigits(ss) {
		return 0, apperrors.MalformedTimestamp(ts)
	}
	minutes, err := strconv.Atoi(mm)
	if err != nil {
		return 0, apperrors.MalformedTimestamp(ts).WithCause(err)
	}
	seconds, _ := strconv.Atoi(ss)
	if seconds > 59 || minutes > maxMinutes {
		return 0, apperrors.MalformedTimestamp(ts)
	}
	return minutes*60 + seconds, nil
}

// FormatTimestamp renders seconds as MM:SS. Minutes are padded to two digits
// and keep growing past 59. Negative input renders as 00:00.
func FormatTimestamp(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}

// AdjustTimestamp shifts ts by offset seconds. Fractional results are floored.
// A shifted time that does not fit in int is reported as malformed.
func AdjustTimestamp(ts string, offset float64) (string, error) {
	base, err := ParseTimestamp(ts)
	if err != nil {
		return "", err
	}
	shifted := math.Floor(float64(base) + offset)
	if math.IsNaN(shifted) || shifted >= math.MaxInt {
		return "", apperrors.MalformedTimestamp(ts)
	}
	return FormatTimestamp(int(shifted)), nil
}

func allDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
