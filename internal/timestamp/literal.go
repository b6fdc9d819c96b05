package timestamp

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// LiteralYearWindow bounds the literal fallback: an epoch-millisecond value is
// accepted only when its calendar year lies strictly within this many years of now.
const LiteralYearWindow = 100

// DateLayout is the canonical YYYY-MM-DD layout.
const DateLayout = "2006-01-02"

var (
	dateRegex    = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	integerRegex = regexp.MustCompile(`^[+-]?\d+$`)
)

// ParseDate parses a YYYY-MM-DD date as local midnight in loc.
func ParseDate(s string, loc *time.Location) (time.Time, error) {
	s = strings.TrimSpace(s)
	if !dateRegex.MatchString(s) {
		return time.Time{}, fmt.Errorf("invalid date: %q", s)
	}
	return time.ParseInLocation(DateLayout, s, loc)
}

// ParseDatetime parses a datetime in one of the accepted formats:
//   - RFC3339 (e.g. 2025-01-01T10:30:00Z, 2025-06-15T14:00:00+05:00)
//   - YYYY-MM-DDTHH:MM
//   - YYYY-MM-DDTHH:MM:SS
//   - YYYY-MM-DD HH:MM
func ParseDatetime(s string, loc *time.Location) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("invalid datetime: empty")
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}

	formats := []string{
		"2006-01-02T15:04",
		"2006-01-02T15:04:05",
		"2006-01-02 15:04",
		"2006-01-02 15:04:05",
	}
	for _, format := range formats {
		if t, err := time.ParseInLocation(format, s, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid datetime: %q", s)
}

func isInteger(s string) bool {
	return integerRegex.MatchString(s)
}

// parseLiteral accepts an epoch-millisecond integer whose calendar year is
// strictly between now-100 and now+100 years. The bound is a plausibility
// check, not a precise validation.
func parseLiteral(s string, now time.Time) (time.Time, bool) {
	if !isInteger(s) {
		return time.Time{}, false
	}
	ms, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return time.Time{}, false
	}
	t := time.UnixMilli(ms).In(now.Location())
	year := now.Year()
	if t.Year() <= year-LiteralYearWindow || t.Year() >= year+LiteralYearWindow {
		return time.Time{}, false
	}
	return t, true
}
