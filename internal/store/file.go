package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"

	"github.com/echo-bravo-yahoo/nb/internal/atomicfile"
	"github.com/echo-bravo-yahoo/nb/internal/model"
)

// File keeps every stream in a single JSON document that is rewritten
// atomically on each write.
type File struct {
	path    string
	streams map[string]*model.Stream
}

type fileDocument struct {
	Version int                      `json:"version"`
	Streams map[string]*model.Stream `json:"streams"`
}

// OpenFile loads the document at path, creating an empty store if it is missing.
func OpenFile(path string) (*File, error) {
	if err := ensureParentDir(path); err != nil {
		return nil, err
	}

	f := &File{path: path, streams: map[string]*model.Stream{}}
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return f, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read store %s: %w", path, err)
	}
	if len(data) == 0 {
		return f, nil
	}

	var doc fileDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse store %s: %w", path, err)
	}
	for id, s := range doc.Streams {
		if s == nil {
			continue
		}
		// The map key is authoritative for identity.
		s.ID = id
		if s.Values == nil {
			s.Values = []model.Note{}
		}
		f.streams[id] = s
	}
	return f, nil
}

// Path returns the document path.
func (f *File) Path() string { return f.path }

// Get returns a copy of the stream stored under id.
func (f *File) Get(id string) (*model.Stream, error) {
	s, ok := f.streams[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return s.Clone(), nil
}

// Put stores a copy of the stream and rewrites the document.
func (f *File) Put(s *model.Stream) error {
	if err := validID(s.ID); err != nil {
		return err
	}
	prev, had := f.streams[s.ID]
	f.streams[s.ID] = s.Clone()
	if err := f.flush(); err != nil {
		if had {
			f.streams[s.ID] = prev
		} else {
			delete(f.streams, s.ID)
		}
		return fmt.Errorf("failed to write stream %s: %w", s.ID, err)
	}
	return nil
}

// Delete removes the stream and rewrites the document.
func (f *File) Delete(id string) error {
	prev, ok := f.streams[id]
	if !ok {
		return nil
	}
	delete(f.streams, id)
	if err := f.flush(); err != nil {
		f.streams[id] = prev
		return fmt.Errorf("failed to delete stream %s: %w", id, err)
	}
	return nil
}

// Keys returns every stream id in lexicographic order.
func (f *File) Keys() ([]string, error) {
	keys := make([]string, 0, len(f.streams))
	for id := range f.streams {
		keys = append(keys, id)
	}
	sort.Strings(keys)
	return keys, nil
}

// Close is a no-op; every write is already on disk.
func (f *File) Close() error { return nil }

func (f *File) flush() error {
	return atomicfile.WriteJSON(f.path, fileDocument{Version: 1, Streams: f.streams}, 0o600)
}
