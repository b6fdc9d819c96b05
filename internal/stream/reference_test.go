package stream

import (
	"errors"
	"testing"

	"github.com/echo-bravo-yahoo/nb/internal/model"
)

func TestResolveReferenceBoundary(t *testing.T) {
	p := DefaultPolicy()
	tests := []struct {
		ref  Reference
		want Address
	}{
		{Latest, Address{Kind: AddressLatest}},
		{RefOf(0), Address{Kind: AddressIndex, Value: 0}},
		{RefOf(10000), Address{Kind: AddressIndex, Value: 10000}},
		{RefOf(10001), Address{Kind: AddressTimestamp, Value: 10001}},
		{RefOf(1700000000000), Address{Kind: AddressTimestamp, Value: 1700000000000}},
	}
	for _, tt := range tests {
		if got := ResolveReference(tt.ref, p); got != tt.want {
			t.Fatalf("ResolveReference(%s) = %+v, want %+v", tt.ref, got, tt.want)
		}
	}

	custom := ReferencePolicy{IndexCeiling: 50}
	if got := ResolveReference(RefOf(51), custom); got.Kind != AddressTimestamp {
		t.Fatalf("custom ceiling not applied: %+v", got)
	}
}

func TestParseReference(t *testing.T) {
	ref, err := ParseReference("  ")
	if err != nil || ref.Set {
		t.Fatalf("ParseReference(blank) = %+v, %v", ref, err)
	}
	ref, err = ParseReference("42")
	if err != nil || ref != RefOf(42) {
		t.Fatalf("ParseReference(42) = %+v, %v", ref, err)
	}
	if _, err := ParseReference("last"); !errors.Is(err, ErrInvalidReference) {
		t.Fatalf("ParseReference(last) error = %v", err)
	}
}

func TestCorrectionIndex(t *testing.T) {
	notes := []model.Note{{Timestamp: 1}, {Timestamp: 20000}, {Timestamp: 0}}
	p := DefaultPolicy()

	tests := []struct {
		name   string
		ref    Reference
		want   int
		wantOK bool
	}{
		{"latest", Latest, 2, true},
		{"timestamp wins over position", RefOf(0), 2, true},
		{"position when no timestamp matches", RefOf(2), 2, true},
		{"large timestamp", RefOf(20000), 1, true},
		{"out of range", RefOf(7), 0, false},
		{"unknown timestamp", RefOf(30000), 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := correctionIndex(notes, tt.ref, p)
			if ok != tt.wantOK || (ok && got != tt.want) {
				t.Fatalf("correctionIndex(%s) = %d, %v; want %d, %v", tt.ref, got, ok, tt.want, tt.wantOK)
			}
		})
	}

	if _, ok := correctionIndex(nil, Latest, p); ok {
		t.Fatalf("empty notes should not resolve")
	}
}
