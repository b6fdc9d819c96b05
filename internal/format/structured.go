package format

import (
	"bytes"
	"encoding/json"

	"gopkg.in/yaml.v3"

	"github.com/echo-bravo-yahoo/nb/internal/model"
)

// indexedStream is a stream with notes reshaped to [index, timestamp, value, tag...].
type indexedStream struct {
	ID     string  `json:"id" yaml:"id"`
	Name   string  `json:"name,omitempty" yaml:"name,omitempty"`
	Values [][]any `json:"values" yaml:"values,flow"`
}

func newIndexedStream(s *model.Stream, rows []Row) indexedStream {
	out := indexedStream{ID: s.ID, Name: s.Name, Values: make([][]any, len(rows))}
	for i, r := range rows {
		out.Values[i] = r.Tuple()
	}
	return out
}

func renderJSON(s *model.Stream, rows []Row) (string, error) {
	data, err := json.MarshalIndent(newIndexedStream(s, rows), "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func renderYAML(s *model.Stream, rows []Row) (string, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(newIndexedStream(s, rows)); err != nil {
		return "", err
	}
	if err := enc.Close(); err != nil {
		return "", err
	}
	return buf.String(), nil
}
