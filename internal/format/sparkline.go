package format

import "strings"

var sparkTicks = []rune("▁▂▃▄▅▆▇█")

// Sparkline renders values as a single line of block characters. The scale
// starts at zero unless a value is negative.
func Sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	lo, hi := 0.0, values[0]
	for _, v := range values {
		lo = min(lo, v)
		hi = max(hi, v)
	}

	var sb strings.Builder
	top := len(sparkTicks) - 1
	for _, v := range values {
		i := 0
		if hi > lo {
			i = int((v - lo) / (hi - lo) * float64(top))
		}
		sb.WriteRune(sparkTicks[min(max(i, 0), top)])
	}
	return sb.String()
}
