package store

import (
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/echo-bravo-yahoo/nb/internal/model"
)

// backends returns a fresh instance of every backend for contract tests.
func backends(t *testing.T) map[string]Store {
	t.Helper()

	sqliteMem, err := OpenSQLiteInMemory()
	if err != nil {
		t.Fatalf("OpenSQLiteInMemory() error = %v", err)
	}
	sqliteFile, err := OpenSQLite(filepath.Join(t.TempDir(), "data", "nb.db"))
	if err != nil {
		t.Fatalf("OpenSQLite() error = %v", err)
	}
	file, err := OpenFile(filepath.Join(t.TempDir(), "nb.json"))
	if err != nil {
		t.Fatalf("OpenFile() error = %v", err)
	}

	stores := map[string]Store{
		"sqlite-memory": sqliteMem,
		"sqlite-file":   sqliteFile,
		"file":          file,
		"memory":        NewMemory(),
	}
	t.Cleanup(func() {
		for _, s := range stores {
			_ = s.Close()
		}
	})
	return stores
}

func TestStoreContract(t *testing.T) {
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			if _, err := s.Get("missing"); !errors.Is(err, ErrNotFound) {
				t.Fatalf("Get(missing) error = %v, want ErrNotFound", err)
			}

			temp := &model.Stream{ID: "temp", Name: "Temperature", Values: []model.Note{
				{Timestamp: 10, Value: model.Numeric(72), Tags: []string{"morning"}},
				{Timestamp: 20, Value: model.Tally(), Tags: []string{"hot", "humid"}},
			}}
			if err := s.Put(temp); err != nil {
				t.Fatalf("Put() error = %v", err)
			}
			if err := s.Put(model.NewStream("alpha")); err != nil {
				t.Fatalf("Put() error = %v", err)
			}

			got, err := s.Get("temp")
			if err != nil {
				t.Fatalf("Get() error = %v", err)
			}
			if got.Name != "Temperature" || len(got.Values) != 2 {
				t.Fatalf("unexpected stream: %+v", got)
			}
			if got.Values[0].Value.Float() != 72 || !reflect.DeepEqual(got.Values[1].Tags, []string{"hot", "humid"}) {
				t.Fatalf("values did not round trip: %+v", got.Values)
			}
			if got.Values[0].Value.IsTally() || !got.Values[1].Value.IsTally() {
				t.Fatalf("value kinds did not round trip: %+v", got.Values)
			}

			// Mutating the returned copy must not leak into the store.
			got.Values = nil
			again, _ := s.Get("temp")
			if len(again.Values) != 2 {
				t.Fatalf("store returned shared state")
			}

			keys, err := s.Keys()
			if err != nil {
				t.Fatalf("Keys() error = %v", err)
			}
			if !reflect.DeepEqual(keys, []string{"alpha", "temp"}) {
				t.Fatalf("Keys() = %v", keys)
			}

			if err := s.Delete("temp"); err != nil {
				t.Fatalf("Delete() error = %v", err)
			}
			if err := s.Delete("temp"); err != nil {
				t.Fatalf("Delete() of missing id error = %v", err)
			}
			if ok, err := Has(s, "temp"); err != nil || ok {
				t.Fatalf("Has(temp) = %v, %v after delete", ok, err)
			}

			empty, err := s.Get("alpha")
			if err != nil {
				t.Fatalf("Get(alpha) error = %v", err)
			}
			if empty.Values == nil || len(empty.Values) != 0 || empty.Name != "" {
				t.Fatalf("unexpected empty stream: %+v", empty)
			}
		})
	}
}

func TestStoreRejectsEmptyID(t *testing.T) {
	for name, s := range backends(t) {
		if err := s.Put(&model.Stream{ID: "  "}); err == nil {
			t.Fatalf("%s: expected error for blank id", name)
		}
	}
}

func TestSQLitePersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nb.db")
	s, err := OpenSQLite(path)
	if err != nil {
		t.Fatalf("OpenSQLite() error = %v", err)
	}
	if err := s.Put(&model.Stream{ID: "mood", Values: []model.Note{{Timestamp: 1, Value: model.Tally(), Tags: []string{"happy"}}}}); err != nil {
		t.Fatalf("Put() error = %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	reopened, err := OpenSQLite(path)
	if err != nil {
		t.Fatalf("OpenSQLite() reopen error = %v", err)
	}
	defer reopened.Close()
	got, err := reopened.Get("mood")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if len(got.Values) != 1 || got.Values[0].Tags[0] != "happy" {
		t.Fatalf("unexpected stream after reopen: %+v", got)
	}
}

func TestFileStoreDocumentLayout(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nb.json")
	s, err := OpenFile(path)
	if err != nil {
		t.Fatalf("OpenFile() error = %v", err)
	}
	if err := s.Put(&model.Stream{ID: "temp", Values: []model.Note{{Timestamp: 5, Value: model.Numeric(72), Tags: []string{"morning"}}}}); err != nil {
		t.Fatalf("Put() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	compact := strings.Join(strings.Fields(string(data)), "")
	if !strings.Contains(compact, `"temp":{"id":"temp","values":[[5,72,"morning"]]}`) {
		t.Fatalf("unexpected document: %s", data)
	}

	reopened, err := OpenFile(path)
	if err != nil {
		t.Fatalf("OpenFile() reopen error = %v", err)
	}
	got, err := reopened.Get("temp")
	if err != nil || got.Values[0].Value.Float() != 72 {
		t.Fatalf("Get() after reopen = %+v, %v", got, err)
	}
}

func TestFileStoreReadsLegacyStringValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nb.json")
	doc := `{"streams":{"mood":{"id":"mood","values":[[1,"happy"],[2,"7"]]}}}`
	if err := os.WriteFile(path, []byte(doc), 0o600); err != nil {
		t.Fatal(err)
	}
	s, err := OpenFile(path)
	if err != nil {
		t.Fatalf("OpenFile() error = %v", err)
	}
	got, err := s.Get("mood")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if !got.Values[0].Value.IsTally() || got.Values[0].Tags[0] != "happy" {
		t.Fatalf("legacy string not read as tally: %+v", got.Values[0])
	}
	if got.Values[1].Value.Float() != 7 {
		t.Fatalf("legacy numeric string not read as number: %+v", got.Values[1])
	}
}

func TestOpenUnknownBackend(t *testing.T) {
	if _, err := Open("postgres", filepath.Join(t.TempDir(), "x")); err == nil {
		t.Fatalf("expected error for unknown backend")
	}
	s, err := Open("memory", "")
	if err != nil {
		t.Fatalf("Open(memory) error = %v", err)
	}
	_ = s.Close()
}

func TestMemoryFailureInjection(t *testing.T) {
	m := NewMemory()
	boom := errors.New("disk full")
	m.FailPut = map[string]error{"a": boom}
	if err := m.Put(model.NewStream("a")); !errors.Is(err, boom) {
		t.Fatalf("Put() error = %v, want injected failure", err)
	}
}

func TestTallyKindSurvivesReopen(t *testing.T) {
	open := map[string]func(path string) (Store, error){
		"sqlite": func(path string) (Store, error) { return OpenSQLite(path) },
		"file":   func(path string) (Store, error) { return OpenFile(path) },
	}
	for name, openStore := range open {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "nb."+name)
			s, err := openStore(path)
			if err != nil {
				t.Fatalf("open error = %v", err)
			}
			mood := &model.Stream{ID: "mood", Values: []model.Note{
				{Timestamp: 1, Value: model.Tally(), Tags: []string{"happy"}},
				{Timestamp: 2, Value: model.Numeric(1), Tags: []string{"one"}},
				{Timestamp: 3, Value: model.Tally(), Tags: []string{"tired"}},
			}}
			if err := s.Put(mood); err != nil {
				t.Fatalf("Put() error = %v", err)
			}
			if err := s.Close(); err != nil {
				t.Fatalf("Close() error = %v", err)
			}

			reopened, err := openStore(path)
			if err != nil {
				t.Fatalf("reopen error = %v", err)
			}
			defer reopened.Close()
			got, err := reopened.Get("mood")
			if err != nil {
				t.Fatalf("Get() error = %v", err)
			}
			want := []bool{true, false, true}
			for i, n := range got.Values {
				if n.Value.IsTally() != want[i] {
					t.Errorf("note %d IsTally = %v, want %v", i, n.Value.IsTally(), want[i])
				}
				if n.Value.Float() != 1 {
					t.Errorf("note %d value = %v, want 1", i, n.Value.Float())
				}
			}
		})
	}
}

func TestSQLiteMigratesVersionOneSchema(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nb.db")
	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("sql.Open() error = %v", err)
	}
	_, err = db.Exec(`
		CREATE TABLE meta (key TEXT PRIMARY KEY, value TEXT NOT NULL);
		CREATE TABLE streams (id TEXT PRIMARY KEY, name TEXT, note_values TEXT NOT NULL DEFAULT '[]', updated_at INTEGER NOT NULL);
		INSERT INTO meta (key, value) VALUES ('version', '1');
		INSERT INTO streams (id, note_values, updated_at) VALUES ('temp', '[[1,72]]', 0);
	`)
	if err != nil {
		t.Fatalf("seed error = %v", err)
	}
	db.Close()

	s, err := OpenSQLite(path)
	if err != nil {
		t.Fatalf("OpenSQLite() error = %v", err)
	}
	defer s.Close()
	got, err := s.Get("temp")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if len(got.Values) != 1 || got.Values[0].Value.Float() != 72 || got.Values[0].Value.IsTally() {
		t.Fatalf("unexpected stream after migration: %+v", got.Values)
	}

	var version string
	if err := s.db.QueryRow(`SELECT value FROM meta WHERE key = 'version'`).Scan(&version); err != nil {
		t.Fatalf("read version: %v", err)
	}
	if version != "2" {
		t.Fatalf("version = %s, want 2", version)
	}
}

func TestSQLiteReadOnlyOpenLeavesFileUnchanged(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nb.db")
	s, err := OpenSQLite(path)
	if err != nil {
		t.Fatalf("OpenSQLite() error = %v", err)
	}
	if err := s.Put(model.NewStream("temp")); err != nil {
		t.Fatalf("Put() error = %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	before, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}

	for i := 0; i < 3; i++ {
		r, err := OpenSQLite(path)
		if err != nil {
			t.Fatalf("OpenSQLite() error = %v", err)
		}
		if _, err := r.Keys(); err != nil {
			t.Fatalf("Keys() error = %v", err)
		}
		if err := r.Close(); err != nil {
			t.Fatalf("Close() error = %v", err)
		}
	}

	after, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if after.Size() != before.Size() || !after.ModTime().Equal(before.ModTime()) {
		t.Fatalf("read-only opens changed the database: %v/%v -> %v/%v",
			before.Size(), before.ModTime(), after.Size(), after.ModTime())
	}
}
