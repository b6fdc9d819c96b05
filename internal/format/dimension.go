package format

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ResolveDimension turns a --width or --height value into a cell count.
//
// An empty spec uses all of available, less one line for heights so the
// prompt stays visible. "N%" takes that share of available, rounded up.
// Anything else must be a positive integer and is used as-is.
func ResolveDimension(spec string, available int, isHeight bool) (int, error) {
	spec = strings.TrimSpace(spec)
	if spec == "" {
		if isHeight {
			return max(available-1, 1), nil
		}
		return max(available, 1), nil
	}

	if pct, ok := strings.CutSuffix(spec, "%"); ok {
		n, err := strconv.ParseFloat(strings.TrimSpace(pct), 64)
		if err != nil || n <= 0 || math.IsInf(n, 0) {
			return 0, fmt.Errorf("invalid dimension %q: percentage must be a positive number", spec)
		}
		return int(math.Ceil(float64(available) * n / 100)), nil
	}

	n, err := strconv.Atoi(spec)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid dimension %q: use a positive number or a percentage like 50%%", spec)
	}
	return n, nil
}

// Dimension is a pflag.Value for --width and --height.
type Dimension struct {
	spec string
}

// String returns the raw spec.
func (d *Dimension) String() string { return d.spec }

// Set validates the spec against a nominal terminal size.
func (d *Dimension) Set(s string) error {
	if _, err := ResolveDimension(s, 100, false); err != nil {
		return err
	}
	d.spec = strings.TrimSpace(s)
	return nil
}

// Type names the flag value in help output.
func (d *Dimension) Type() string { return "size" }

// Resolve returns the cell count for the available space.
func (d *Dimension) Resolve(available int, isHeight bool) (int, error) {
	return ResolveDimension(d.spec, available, isHeight)
}
