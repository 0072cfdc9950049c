package subtitle

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ErrMalformedTimestamp reports a timestamp that does not match the
// HH:MM:SS<sep>mmm grammar of the requested format.
var ErrMalformedTimestamp = errors.New("malformed timestamp")

// fractionSeparator returns the fractional-seconds separator for a format.
// SRT uses a comma, WebVTT a period; the grammars are otherwise identical.
func fractionSeparator(f Format) string {
	if f == FormatSRT {
		return ","
	}
	return "."
}

// ParseTimestamp decodes an HH:MM:SS<sep>mmm timestamp into a seconds offset.
func ParseTimestamp(text string, f Format) (float64, error) {
	sep := fractionSeparator(f)

	parts := strings.Split(strings.TrimSpace(text), sep)
	if len(parts) != 2 {
		return 0, fmt.Errorf("%w: %q", ErrMalformedTimestamp, text)
	}

	groups := strings.Split(parts[0], ":")
	if len(groups) != 3 {
		return 0, fmt.Errorf("%w: %q", ErrMalformedTimestamp, text)
	}

	hours, err1 := strconv.Atoi(groups[0])
	minutes, err2 := strconv.Atoi(groups[1])
	seconds, err3 := strconv.Atoi(groups[2])
	millis, err4 := strconv.Atoi(parts[1])
	if err1 != nil || err2 != nil || err3 != nil || err4 != nil {
		return 0, fmt.Errorf("%w: %q", ErrMalformedTimestamp, text)
	}

	return float64(hours*3600+minutes*60+seconds) + float64(millis)/1000.0, nil
}

// FormatTimestamp renders a seconds offset as HH:MM:SS<sep>mmm. Components
// are truncated, not rounded: sub-millisecond precision is dropped.
func FormatTimestamp(seconds float64, f Format) string {
	if seconds < 0 {
		seconds = 0
	}
	totalMs := int(math.Floor(seconds * 1000))
	h := totalMs / 3600000
	totalMs %= 3600000
	m := totalMs / 60000
	totalMs %= 60000
	s := totalMs / 1000
	ms := totalMs % 1000
	return fmt.Sprintf("%02d:%02d:%02d%s%03d", h, m, s, fractionSeparator(f), ms)
}
