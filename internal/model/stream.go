package model

import (
	"encoding/json"
	"sort"
)

// Stream is a named, ordered collection of notes.
type Stream struct {
	// ID is the storage key. It never changes once the stream exists.
	ID string `json:"id"`

	// Name is an optional display label.
	Name string `json:"name,omitempty"`

	// Values holds the notes, nominally in non-decreasing timestamp order.
	Values []Note `json:"values"`
}

// NewStream returns an empty stream with the given id.
func NewStream(id string) *Stream {
	return &Stream{ID: id, Values: []Note{}}
}

// DisplayName returns "name (id)" for named streams and the id otherwise.
func (s *Stream) DisplayName() string {
	if s.Name != "" {
		return s.Name + " (" + s.ID + ")"
	}
	return s.ID
}

// Len returns the number of notes in the stream.
func (s *Stream) Len() int { return len(s.Values) }

// Clone returns a deep copy of the stream.
func (s *Stream) Clone() *Stream {
	if s == nil {
		return nil
	}
	out := &Stream{ID: s.ID, Name: s.Name, Values: make([]Note, len(s.Values))}
	for i, n := range s.Values {
		out.Values[i] = n.Clone()
	}
	return out
}

// SortByTime orders the notes by timestamp. Equal timestamps keep their relative order.
func (s *Stream) SortByTime() {
	SortNotes(s.Values)
}

// Numbers returns the numeric value of every note in order.
func (s *Stream) Numbers() []float64 {
	out := make([]float64, len(s.Values))
	for i, n := range s.Values {
		out[i] = n.Value.Float()
	}
	return out
}

// TallyPositions returns the positions of tally notes. A tally and the
// number 1 share the same tuple, so the positions are stored beside it.
func (s *Stream) TallyPositions() []int {
	var out []int
	for i, n := range s.Values {
		if n.Value.IsTally() {
			out = append(out, i)
		}
	}
	return out
}

// MarkTallies turns the notes at positions into tallies. Positions outside
// the stream are ignored.
func (s *Stream) MarkTallies(positions []int) {
	for _, i := range positions {
		if i >= 0 && i < len(s.Values) {
			s.Values[i].Value = Tally()
		}
	}
}

type streamRecord struct {
	ID      string `json:"id"`
	Name    string `json:"name,omitempty"`
	Values  []Note `json:"values"`
	Tallies []int  `json:"tallies,omitempty"`
}

// MarshalJSON encodes the stream with the positions of its tallies.
func (s Stream) MarshalJSON() ([]byte, error) {
	return json.Marshal(streamRecord{ID: s.ID, Name: s.Name, Values: s.Values, Tallies: s.TallyPositions()})
}

// UnmarshalJSON decodes a stream and restores its tallies.
func (s *Stream) UnmarshalJSON(data []byte) error {
	var rec streamRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return err
	}
	s.ID, s.Name, s.Values = rec.ID, rec.Name, rec.Values
	s.MarkTallies(rec.Tallies)
	return nil
}

// SortNotes stable-sorts notes by timestamp.
func SortNotes(notes []Note) {
	sort.SliceStable(notes, func(i, j int) bool {
		return notes[i].Timestamp < notes[j].Timestamp
	})
}
