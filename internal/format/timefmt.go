package format

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
)

// Time format names.
const (
	TimeUnix     = "unix"
	TimeRelative = "relative"
	TimeDate     = "date"
)

// TimeFormats lists the accepted time formats.
var TimeFormats = []string{TimeUnix, TimeRelative, TimeDate}

// DefaultTimeFormat is relative ("3 days ago").
const DefaultTimeFormat = TimeRelative

// dateLayout matches the en-US short date, e.g. 3/4/2026.
const dateLayout = "1/2/2006"

// ValidateTimeFormat checks a time format name. Empty means the default.
func ValidateTimeFormat(name string) error {
	switch strings.ToLower(name) {
	case "", TimeUnix, TimeRelative, TimeDate:
		return nil
	}
	return fmt.Errorf("%w: time format %q (expected one of %s)", ErrUnsupportedFormat, name, strings.Join(TimeFormats, ", "))
}

// FormatTime renders an epoch-millisecond timestamp.
func FormatTime(ts int64, name string, now time.Time, loc *time.Location) (string, error) {
	t := time.UnixMilli(ts)
	switch strings.ToLower(name) {
	case TimeUnix:
		return strconv.FormatInt(ts, 10), nil
	case "", TimeRelative:
		return humanize.RelTime(t, now, "ago", "from now"), nil
	case TimeDate:
		if loc == nil {
			loc = time.Local
		}
		return t.In(loc).Format(dateLayout), nil
	}
	return "", ValidateTimeFormat(name)
}

func (o Options) formatTime(ts int64) (string, error) {
	return FormatTime(ts, o.TimeFormat, o.now(), o.location())
}
