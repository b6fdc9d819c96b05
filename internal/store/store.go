// Package store persists streams keyed by stream id.
//
// Every backend offers the same contract: get, put, delete and list keys,
// with read-your-writes consistency inside one process and every write durable
// before it returns. There is no cross-process locking; two invocations that
// write the same stream race and the last write wins.
package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/echo-bravo-yahoo/nb/internal/model"
)

// ErrNotFound indicates the requested stream id has no record.
var ErrNotFound = errors.New("stream not found in store")

// Store is the durable stream id -> stream record mapping.
type Store interface {
	// Get returns a copy of the stream, or ErrNotFound.
	Get(id string) (*model.Stream, error)
	// Put writes the stream under s.ID, replacing any previous record.
	Put(s *model.Stream) error
	// Delete removes the record. Deleting a missing id is not an error.
	Delete(id string) error
	// Keys returns every stream id in lexicographic order.
	Keys() ([]string, error)
	// Close releases the backend.
	Close() error
}

// Backend names accepted by Open.
const (
	BackendSQLite = "sqlite"
	BackendFile   = "file"
	BackendMemory = "memory"
)

// Backends lists the backend names accepted by Open.
var Backends = []string{BackendSQLite, BackendFile, BackendMemory}

// Open opens the named backend at path.
func Open(backend, path string) (Store, error) {
	switch strings.ToLower(strings.TrimSpace(backend)) {
	case "", BackendSQLite:
		return OpenSQLite(path)
	case BackendFile:
		return OpenFile(path)
	case BackendMemory:
		return NewMemory(), nil
	default:
		return nil, fmt.Errorf("unknown store backend %q (expected one of %s)", backend, strings.Join(Backends, ", "))
	}
}

// Has reports whether id has a record.
func Has(s Store, id string) (bool, error) {
	_, err := s.Get(id)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func ensureParentDir(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create store directory: %w", err)
	}
	return nil
}

func validID(id string) error {
	if strings.TrimSpace(id) == "" {
		return fmt.Errorf("stream id is required")
	}
	return nil
}
