package store

import (
	"fmt"
	"sort"
	"sync"

	"github.com/echo-bravo-yahoo/nb/internal/model"
)

// Memory is a process-local store used by tests and the "memory" backend.
// It hands out copies so callers cannot mutate stored state in place.
type Memory struct {
	mu      sync.RWMutex
	streams map[string]*model.Stream

	// FailPut and FailDelete inject write failures keyed by stream id.
	FailPut    map[string]error
	FailDelete map[string]error
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{streams: map[string]*model.Stream{}}
}

// Get returns a copy of the stream stored under id.
func (m *Memory) Get(id string) (*model.Stream, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.streams[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return s.Clone(), nil
}

// Put stores a copy of the stream.
func (m *Memory) Put(s *model.Stream) error {
	if err := validID(s.ID); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.FailPut[s.ID]; err != nil {
		return err
	}
	m.streams[s.ID] = s.Clone()
	return nil
}

// Delete removes the stream.
func (m *Memory) Delete(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.FailDelete[id]; err != nil {
		return err
	}
	delete(m.streams, id)
	return nil
}

// Keys returns every stream id in lexicographic order.
func (m *Memory) Keys() ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	keys := make([]string, 0, len(m.streams))
	for id := range m.streams {
		keys = append(keys, id)
	}
	sort.Strings(keys)
	return keys, nil
}

// Close is a no-op.
func (m *Memory) Close() error { return nil }
