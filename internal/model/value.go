// Package model defines the stream and note types shared across nb.
package model

import (
	"math"
	"strconv"
	"strings"
)

// ValueKind distinguishes numeric observations from tallies.
type ValueKind int

const (
	// ValueNumeric is an observation that was recorded as a number.
	ValueNumeric ValueKind = iota
	// ValueTally is the placeholder for a non-numeric observation. It always reads as 1.
	ValueTally
)

// TallyValue is the number a tally contributes to charts and exports.
const TallyValue = 1.0

// NoteValue is the primary observation of a note.
// It is decided once, when the note is created, and never re-inferred on read.
type NoteValue struct {
	kind   ValueKind
	number float64
}

// Numeric returns a numeric note value.
func Numeric(v float64) NoteValue {
	return NoteValue{kind: ValueNumeric, number: v}
}

// Tally returns the tally note value.
func Tally() NoteValue {
	return NoteValue{kind: ValueTally, number: TallyValue}
}

// Kind reports whether the value is numeric or a tally.
func (v NoteValue) Kind() ValueKind { return v.kind }

// IsTally reports whether the value is the tally placeholder.
func (v NoteValue) IsTally() bool { return v.kind == ValueTally }

// Float returns the value as a number. Tallies read as 1.
func (v NoteValue) Float() float64 {
	if v.kind == ValueTally {
		return TallyValue
	}
	return v.number
}

// String formats the value the way it is shown in csv and table output.
func (v NoteValue) String() string {
	return strconv.FormatFloat(v.Float(), 'f', -1, 64)
}

// ParseNumber converts raw input to a number.
// Empty or whitespace-only input is not a number, and neither are NaN or infinities.
func ParseNumber(raw string) (float64, bool) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(trimmed, 64)
	if err != nil {
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// CleanTags trims every tag and drops the empty ones. Duplicates are kept.
func CleanTags(tags []string) []string {
	cleaned := make([]string, 0, len(tags))
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag == "" {
			continue
		}
		cleaned = append(cleaned, tag)
	}
	return cleaned
}

// ResolveContent applies the value/tag rule to raw user input.
//
// A value that converts cleanly to a number becomes a numeric value and the
// tags are kept as given. Any other non-empty value is prepended to the tags
// and the note becomes a tally. A nil value yields a tally with the tags alone.
func ResolveContent(value *string, tags []string) (NoteValue, []string) {
	cleaned := CleanTags(tags)
	if value == nil {
		return Tally(), cleaned
	}
	if f, ok := ParseNumber(*value); ok {
		return Numeric(f), cleaned
	}
	if trimmed := strings.TrimSpace(*value); trimmed != "" {
		return Tally(), append([]string{trimmed}, cleaned...)
	}
	return Tally(), cleaned
}
