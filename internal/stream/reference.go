package stream

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/echo-bravo-yahoo/nb/internal/model"
)

// DefaultIndexCeiling is the largest reference read as a position.
// Anything above it is read as an epoch-millisecond timestamp.
const DefaultIndexCeiling int64 = 10000

// Reference is an optional user-supplied note reference.
type Reference struct {
	Set   bool
	Value int64
}

// Latest is the absent reference. It addresses the last note.
var Latest = Reference{}

// RefOf returns a present reference.
func RefOf(v int64) Reference {
	return Reference{Set: true, Value: v}
}

// ParseReference parses raw CLI input. Blank input is the absent reference.
func ParseReference(raw string) (Reference, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Latest, nil
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return Latest, fmt.Errorf("%w: %q is not an index or timestamp", ErrInvalidReference, raw)
	}
	return RefOf(v), nil
}

func (r Reference) String() string {
	if !r.Set {
		return "latest"
	}
	return strconv.FormatInt(r.Value, 10)
}

// AddressKind says how a reference selects notes.
type AddressKind int

const (
	// AddressLatest selects the last note.
	AddressLatest AddressKind = iota
	// AddressIndex selects a zero-based position.
	AddressIndex
	// AddressTimestamp selects every note with an equal timestamp.
	AddressTimestamp
)

func (k AddressKind) String() string {
	switch k {
	case AddressIndex:
		return "index"
	case AddressTimestamp:
		return "timestamp"
	default:
		return "latest"
	}
}

// Address is a classified reference.
type Address struct {
	Kind  AddressKind
	Value int64
}

// ReferencePolicy decides whether a number is a position or a timestamp.
type ReferencePolicy struct {
	// IndexCeiling is the largest value read as a position.
	IndexCeiling int64
}

// DefaultPolicy returns the policy with DefaultIndexCeiling.
func DefaultPolicy() ReferencePolicy {
	return ReferencePolicy{IndexCeiling: DefaultIndexCeiling}
}

// IsIndex reports whether v is read as a position.
func (p ReferencePolicy) IsIndex(v int64) bool {
	return v <= p.IndexCeiling
}

// ResolveReference classifies ref under policy. This is the only place the
// index/timestamp boundary is applied.
func ResolveReference(ref Reference, policy ReferencePolicy) Address {
	if !ref.Set {
		return Address{Kind: AddressLatest}
	}
	if policy.IsIndex(ref.Value) {
		return Address{Kind: AddressIndex, Value: ref.Value}
	}
	return Address{Kind: AddressTimestamp, Value: ref.Value}
}

// correctionIndex finds the note a correction targets. An exact timestamp
// match wins; positions are only considered for index-like references, so a
// timestamp never lands on a note by coincidence of its position.
func correctionIndex(notes []model.Note, ref Reference, policy ReferencePolicy) (int, bool) {
	if len(notes) == 0 {
		return 0, false
	}
	addr := ResolveReference(ref, policy)
	if addr.Kind == AddressLatest {
		return len(notes) - 1, true
	}
	for i, n := range notes {
		if n.Timestamp == addr.Value {
			return i, true
		}
	}
	if addr.Kind == AddressIndex && addr.Value >= 0 && addr.Value < int64(len(notes)) {
		return int(addr.Value), true
	}
	return 0, false
}
