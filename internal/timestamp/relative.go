package timestamp

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var relativeRegex = regexp.MustCompile(`^(?i)(?:(in)\s+)?([+-])?\s*(\d+(?:\.\d+)?)\s*([a-z]+)\.?(?:\s+(ago))?$`)

type unitKind int

const (
	unitFixed unitKind = iota
	unitMonth
	unitYear
)

const averageYear = float64(8766 * time.Hour)

type relativeUnit struct {
	kind unitKind
	size time.Duration
}

var relativeUnits = map[string]relativeUnit{
	"ms":           {unitFixed, time.Millisecond},
	"millisecond":  {unitFixed, time.Millisecond},
	"milliseconds": {unitFixed, time.Millisecond},
	"s":            {unitFixed, time.Second},
	"sec":          {unitFixed, time.Second},
	"secs":         {unitFixed, time.Second},
	"second":       {unitFixed, time.Second},
	"seconds":      {unitFixed, time.Second},
	"m":            {unitFixed, time.Minute},
	"min":          {unitFixed, time.Minute},
	"mins":         {unitFixed, time.Minute},
	"minute":       {unitFixed, time.Minute},
	"minutes":      {unitFixed, time.Minute},
	"h":            {unitFixed, time.Hour},
	"hr":           {unitFixed, time.Hour},
	"hrs":          {unitFixed, time.Hour},
	"hour":         {unitFixed, time.Hour},
	"hours":        {unitFixed, time.Hour},
	"d":            {unitFixed, 24 * time.Hour},
	"day":          {unitFixed, 24 * time.Hour},
	"days":         {unitFixed, 24 * time.Hour},
	"w":            {unitFixed, 7 * 24 * time.Hour},
	"wk":           {unitFixed, 7 * 24 * time.Hour},
	"wks":          {unitFixed, 7 * 24 * time.Hour},
	"week":         {unitFixed, 7 * 24 * time.Hour},
	"weeks":        {unitFixed, 7 * 24 * time.Hour},
	"mo":           {kind: unitMonth},
	"mos":          {kind: unitMonth},
	"month":        {kind: unitMonth},
	"months":       {kind: unitMonth},
	"y":            {kind: unitYear},
	"yr":           {kind: unitYear},
	"yrs":          {kind: unitYear},
	"year":         {kind: unitYear},
	"years":        {kind: unitYear},
}

// ParseRelative parses an offset from now such as "in 1 week", "-2 days",
// "2 days" or "3h ago". Offsets without a sign or "ago" point forward.
// Months and years only accept whole numbers. Offsets of LiteralYearWindow
// years or more are rejected.
func ParseRelative(input string, now time.Time) (time.Time, bool) {
	m := relativeRegex.FindStringSubmatch(strings.TrimSpace(input))
	if m == nil {
		return time.Time{}, false
	}
	in, sign, amount, unitName, ago := m[1], m[2], m[3], strings.ToLower(m[4]), m[5]

	unit, ok := relativeUnits[unitName]
	if !ok {
		return time.Time{}, false
	}
	n, err := strconv.ParseFloat(amount, 64)
	if err != nil {
		return time.Time{}, false
	}

	negative := sign == "-"
	if ago != "" {
		// "in -2 days ago" has no sensible reading.
		if in != "" || negative {
			return time.Time{}, false
		}
		negative = true
	}
	if negative {
		n = -n
	}

	window := float64(LiteralYearWindow)
	switch unit.kind {
	case unitMonth, unitYear:
		if n != math.Trunc(n) {
			return time.Time{}, false
		}
		if unit.kind == unitMonth {
			if math.Abs(n) >= window*12 {
				return time.Time{}, false
			}
			return now.AddDate(0, int(n), 0), true
		}
		if math.Abs(n) >= window {
			return time.Time{}, false
		}
		return now.AddDate(int(n), 0, 0), true
	default:
		d := n * float64(unit.size)
		if math.Abs(d) >= window*averageYear {
			return time.Time{}, false
		}
		return now.Add(time.Duration(d)), true
	}
}
