// Package watcher reports changes to an nb store file.
//
// It is used by `nb stream dashboard --watch` to redraw after another
// invocation writes to the store.
package watcher

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watcher monitors the directory holding a store file and calls OnChange
// once writes to that file settle.
type Watcher struct {
	storePath string
	dir       string
	base      string

	// Configuration
	debounceDelay time.Duration
	logger        *slog.Logger

	// Internal state
	fsWatcher *fsnotify.Watcher
	pending   time.Time
	last      state
	mu        sync.Mutex

	// Callbacks
	onChange func()
}

// Config holds configuration options for the Watcher.
type Config struct {
	StorePath     string
	DebounceDelay time.Duration // Default: 100ms
	Logger        *slog.Logger
	OnChange      func() // Required
}

// New creates a new Watcher with the given configuration.
func New(cfg Config) (*Watcher, error) {
	if cfg.StorePath == "" {
		return nil, fmt.Errorf("store path is required")
	}
	if cfg.OnChange == nil {
		return nil, fmt.Errorf("change callback is required")
	}

	debounce := cfg.DebounceDelay
	if debounce == 0 {
		debounce = 100 * time.Millisecond
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	abs, err := filepath.Abs(cfg.StorePath)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve store path: %w", err)
	}

	w := &Watcher{
		storePath:     abs,
		dir:           filepath.Dir(abs),
		base:          filepath.Base(abs),
		debounceDelay: debounce,
		logger:        logger,
		onChange:      cfg.OnChange,
	}
	w.last = w.snapshot()
	return w, nil
}

// state is what a store write leaves on disk: the store file and, for
// sqlite, the write-ahead log. Readers touch the -shm and create an empty
// -wal, neither of which changes it.
type state struct {
	size, modTime       int64
	walSize, walModTime int64
}

func (w *Watcher) snapshot() state {
	var s state
	if fi, err := os.Stat(w.storePath); err == nil {
		s.size, s.modTime = fi.Size(), fi.ModTime().UnixNano()
	}
	if fi, err := os.Stat(w.storePath + "-wal"); err == nil && fi.Size() > 0 {
		s.walSize, s.walModTime = fi.Size(), fi.ModTime().UnixNano()
	}
	return s
}

// Start begins watching the store for changes.
// It blocks until the context is cancelled.
func (w *Watcher) Start(ctx context.Context) error {
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return fmt.Errorf("failed to create store directory: %w", err)
	}

	var err error
	w.fsWatcher, err = fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer w.fsWatcher.Close()

	// The directory is watched rather than the file: atomic writes replace
	// the file, and sqlite also writes -wal and -journal siblings.
	if err := w.fsWatcher.Add(w.dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", w.dir, err)
	}
	w.logger.Debug("watcher: started", "store", w.storePath)

	ticker := time.NewTicker(w.debounceDelay / 2)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.logger.Debug("watcher: stopped")
			return nil

		case <-ticker.C:
			w.processPending()

		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return nil
			}
			w.handleEvent(event)

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watcher: error", "error", err)
		}
	}
}

// Matches reports whether a path belongs to the watched store: the store
// file itself or a sibling sqlite keeps next to it.
func (w *Watcher) Matches(path string) bool {
	name := filepath.Base(path)
	return name == w.base || strings.HasPrefix(name, w.base+"-")
}

// handleEvent processes a single filesystem event.
func (w *Watcher) handleEvent(event fsnotify.Event) {
	if !w.Matches(event.Name) {
		return
	}
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
		return
	}
	w.logger.Debug("watcher: event", "op", event.Op.String(), "path", event.Name)

	w.mu.Lock()
	w.pending = time.Now()
	w.mu.Unlock()
}

// processPending fires the callback once no event has arrived for the
// debounce delay and the store differs from the last time it fired.
// Events caused by the callback's own reads settle without firing again.
func (w *Watcher) processPending() {
	w.mu.Lock()
	if w.pending.IsZero() || time.Since(w.pending) < w.debounceDelay {
		w.mu.Unlock()
		return
	}
	w.pending = time.Time{}
	current := w.snapshot()
	changed := current != w.last
	w.last = current
	w.mu.Unlock()

	if !changed {
		w.logger.Debug("watcher: store unchanged", "store", w.storePath)
		return
	}
	w.onChange()
}
