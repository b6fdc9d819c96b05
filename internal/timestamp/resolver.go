// Package timestamp turns user-supplied time expressions into epoch milliseconds.
//
// Three grammars are tried in order and the first success wins:
//   - natural language and ISO dates ("this Friday at 13:00", "5 days ago", "2025-02-01")
//   - relative offsets ("in 1 week", "-2 days", "3h ago")
//   - a literal epoch-millisecond integer within a hundred years of now
package timestamp

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/olebedev/when"
	"github.com/olebedev/when/rules/common"
	"github.com/olebedev/when/rules/en"
)

// ErrUnparseable indicates the input matched none of the timestamp grammars.
var ErrUnparseable = errors.New("unparseable timestamp")

// Resolver resolves timestamp expressions relative to a clock.
type Resolver struct {
	now    func() time.Time
	loc    *time.Location
	parser *when.Parser
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithClock sets the clock used as "now".
func WithClock(now func() time.Time) Option {
	return func(r *Resolver) {
		if now != nil {
			r.now = now
		}
	}
}

// WithLocation sets the zone used for calendar expressions.
func WithLocation(loc *time.Location) Option {
	return func(r *Resolver) {
		if loc != nil {
			r.loc = loc
		}
	}
}

// NewResolver returns a Resolver with English natural-language rules.
func NewResolver(opts ...Option) *Resolver {
	parser := when.New(nil)
	parser.Add(en.All...)
	parser.Add(common.All...)

	r := &Resolver{
		now:    time.Now,
		loc:    time.Local,
		parser: parser,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve returns the instant described by input in epoch milliseconds.
func (r *Resolver) Resolve(input string) (int64, error) {
	t, err := r.ResolveTime(input)
	if err != nil {
		return 0, err
	}
	return t.UnixMilli(), nil
}

// ResolveTime returns the instant described by input.
func (r *Resolver) ResolveTime(input string) (time.Time, error) {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return time.Time{}, fmt.Errorf("%w: empty input", ErrUnparseable)
	}
	now := r.now().In(r.loc)

	// A bare integer is never natural language; it goes straight to the
	// literal check so stray digits are not read as an hour or a day.
	if !isInteger(trimmed) {
		if t, ok := r.parseNatural(trimmed, now); ok {
			return t, nil
		}
		if t, ok := ParseRelative(trimmed, now); ok {
			return t, nil
		}
	}

	if t, ok := parseLiteral(trimmed, now); ok {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("%w: could not parse timestamp %q", ErrUnparseable, input)
}

func (r *Resolver) parseNatural(input string, now time.Time) (time.Time, bool) {
	if t, err := ParseDatetime(input, r.loc); err == nil {
		return t, true
	}
	if t, err := ParseDate(input, r.loc); err == nil {
		return t, true
	}

	result, err := r.parser.Parse(input, now)
	if err != nil || result == nil {
		return time.Time{}, false
	}
	return result.Time, true
}
