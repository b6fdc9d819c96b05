package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Note is a single timestamped observation.
// On disk it is the positional tuple [timestamp, value, tag...].
type Note struct {
	// Timestamp is the observation time in epoch milliseconds.
	Timestamp int64

	// Value is the primary observation.
	Value NoteValue

	// Tags are trimmed, non-empty labels in the order they were given.
	Tags []string
}

// NewNote builds a note from raw input using the value/tag rule.
func NewNote(timestamp int64, value *string, tags []string) Note {
	v, t := ResolveContent(value, tags)
	return Note{Timestamp: timestamp, Value: v, Tags: t}
}

// Time returns the note timestamp as a time.Time.
func (n Note) Time() time.Time {
	return time.UnixMilli(n.Timestamp)
}

// Clone returns a copy that shares no slices with n.
func (n Note) Clone() Note {
	out := n
	if n.Tags != nil {
		out.Tags = append([]string(nil), n.Tags...)
	}
	return out
}

// Tuple returns the note as [timestamp, value, tag...].
func (n Note) Tuple() []any {
	row := make([]any, 0, 2+len(n.Tags))
	row = append(row, n.Timestamp, n.Value.Float())
	for _, tag := range n.Tags {
		row = append(row, tag)
	}
	return row
}

// MarshalJSON encodes the note as a positional array.
func (n Note) MarshalJSON() ([]byte, error) {
	return json.Marshal(n.Tuple())
}

// UnmarshalJSON decodes a positional array.
//
// Records written by older versions may carry the raw user string as the
// value. A string that parses as a number is read as that number; any other
// string is read as a tally with the string moved to the front of the tags.
// A missing or null value is a tally.
func (n *Note) UnmarshalJSON(data []byte) error {
	var parts []json.RawMessage
	if err := json.Unmarshal(data, &parts); err != nil {
		return fmt.Errorf("note must be an array: %w", err)
	}
	if len(parts) == 0 {
		return fmt.Errorf("note is missing its timestamp")
	}

	ts, err := decodeTimestamp(parts[0])
	if err != nil {
		return err
	}

	var tags []string
	for _, raw := range parts[min(2, len(parts)):] {
		tags = append(tags, decodeTag(raw))
	}

	value := Tally()
	if len(parts) > 1 {
		var legacy string
		value, legacy, err = decodeValue(parts[1])
		if err != nil {
			return err
		}
		if legacy != "" {
			tags = append([]string{legacy}, tags...)
		}
	}

	n.Timestamp = ts
	n.Value = value
	n.Tags = CleanTags(tags)
	return nil
}

func decodeTimestamp(raw json.RawMessage) (int64, error) {
	var num json.Number
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&num); err != nil {
		return 0, fmt.Errorf("note timestamp must be a number: %w", err)
	}
	if i, err := num.Int64(); err == nil {
		return i, nil
	}
	f, err := num.Float64()
	if err != nil {
		return 0, fmt.Errorf("note timestamp must be a number: %w", err)
	}
	return int64(f), nil
}

func decodeValue(raw json.RawMessage) (NoteValue, string, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return Tally(), "", nil
	}
	if trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return NoteValue{}, "", err
		}
		if f, ok := ParseNumber(s); ok {
			return Numeric(f), "", nil
		}
		return Tally(), strings.TrimSpace(s), nil
	}
	var f float64
	if err := json.Unmarshal(trimmed, &f); err != nil {
		return NoteValue{}, "", fmt.Errorf("note value must be a number or string: %w", err)
	}
	return Numeric(f), "", nil
}

func decodeTag(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return string(bytes.TrimSpace(raw))
}
