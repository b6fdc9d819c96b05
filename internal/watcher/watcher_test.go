package watcher

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/echo-bravo-yahoo/nb/internal/model"
	"github.com/echo-bravo-yahoo/nb/internal/store"
)

func TestNewRequiresPathAndCallback(t *testing.T) {
	if _, err := New(Config{OnChange: func() {}}); err == nil {
		t.Fatal("expected error without store path")
	}
	if _, err := New(Config{StorePath: "nb.db"}); err == nil {
		t.Fatal("expected error without callback")
	}
}

func TestMatches(t *testing.T) {
	w, err := New(Config{StorePath: "/data/nb/nb.db", OnChange: func() {}})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	tests := []struct {
		path string
		want bool
	}{
		{"/data/nb/nb.db", true},
		{"/data/nb/nb.db-wal", true},
		{"/data/nb/nb.db-journal", true},
		{"/data/nb/nb.dbx", false},
		{"/data/nb/other.db", false},
	}
	for _, tt := range tests {
		if got := w.Matches(tt.path); got != tt.want {
			t.Errorf("Matches(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}

func TestDebouncedCallbackFiresOnce(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nb.json")
	calls := 0
	w, err := New(Config{StorePath: path, DebounceDelay: 10 * time.Millisecond, OnChange: func() { calls++ }})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := os.WriteFile(path, []byte(`{}`), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	for i := 0; i < 3; i++ {
		w.handleEvent(fsnotify.Event{Name: path, Op: fsnotify.Write})
	}
	w.handleEvent(fsnotify.Event{Name: filepath.Join(filepath.Dir(path), "unrelated.txt"), Op: fsnotify.Write})

	w.processPending()
	if calls != 0 {
		t.Fatalf("callback fired before the debounce delay")
	}
	time.Sleep(20 * time.Millisecond)
	w.processPending()
	w.processPending()
	if calls != 1 {
		t.Fatalf("calls = %d, want 1", calls)
	}
}

func TestEventsWithoutStoreChangeDoNotFire(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nb.db")
	if err := os.WriteFile(path, []byte("data"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	calls := 0
	w, err := New(Config{StorePath: path, DebounceDelay: 10 * time.Millisecond, OnChange: func() { calls++ }})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	// A reader creates an empty -wal and touches -shm.
	if err := os.WriteFile(path+"-wal", nil, 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	w.handleEvent(fsnotify.Event{Name: path + "-wal", Op: fsnotify.Create})
	w.handleEvent(fsnotify.Event{Name: path + "-shm", Op: fsnotify.Write})
	time.Sleep(20 * time.Millisecond)
	w.processPending()
	if calls != 0 {
		t.Fatalf("calls = %d, want 0 for an unchanged store", calls)
	}

	// A writer leaves frames in the log.
	if err := os.WriteFile(path+"-wal", []byte("frames"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	w.handleEvent(fsnotify.Event{Name: path + "-wal", Op: fsnotify.Write})
	time.Sleep(20 * time.Millisecond)
	w.processPending()
	if calls != 1 {
		t.Fatalf("calls = %d, want 1 after a logged write", calls)
	}
}

func TestSQLiteRedrawsOncePerWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nb.db")
	seed, err := store.OpenSQLite(path)
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	if err := seed.Put(model.NewStream("temp")); err != nil {
		t.Fatalf("Put: %v", err)
	}
	seed.Close()

	var redraws atomic.Int32
	w, err := New(Config{StorePath: path, DebounceDelay: 20 * time.Millisecond, OnChange: func() {
		redraws.Add(1)
		// Same reads as a dashboard redraw.
		s, err := store.OpenSQLite(path)
		if err != nil {
			t.Errorf("OpenSQLite: %v", err)
			return
		}
		defer s.Close()
		if _, err := s.Keys(); err != nil {
			t.Errorf("Keys: %v", err)
		}
	}})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- w.Start(ctx) }()
	time.Sleep(50 * time.Millisecond)

	writer, err := store.OpenSQLite(path)
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	note := model.NewStream("temp")
	note.Values = []model.Note{{Timestamp: 1, Value: model.Numeric(5)}}
	if err := writer.Put(note); err != nil {
		t.Fatalf("Put: %v", err)
	}
	writer.Close()

	time.Sleep(time.Second)
	cancel()
	if err := <-done; err != nil {
		t.Fatalf("Start returned %v", err)
	}
	// One redraw for the write; a second is tolerated if the redraw's own
	// close checkpointed the log. A feedback loop produces many more.
	if n := redraws.Load(); n < 1 || n > 2 {
		t.Fatalf("redraws = %d after a single write, want 1", n)
	}
}

func TestStartReportsWrites(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nb.json")

	changed := make(chan struct{}, 1)
	w, err := New(Config{StorePath: path, DebounceDelay: 20 * time.Millisecond, OnChange: func() {
		select {
		case changed <- struct{}{}:
		default:
		}
	}})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- w.Start(ctx) }()

	// Give the watcher a moment to register the directory.
	time.Sleep(50 * time.Millisecond)
	if err := os.WriteFile(path, []byte(`{}`), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	select {
	case <-changed:
	case <-time.After(2 * time.Second):
		t.Fatal("no change reported")
	}

	cancel()
	if err := <-done; err != nil {
		t.Fatalf("Start returned %v", err)
	}
}
