package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/echo-bravo-yahoo/nb/internal/model"
)

// CurrentSchemaVersion is the version recorded in the meta table.
const CurrentSchemaVersion = 2

// SQLite stores one row per stream in an SQLite database.
type SQLite struct {
	db   *sql.DB
	path string
}

// OpenSQLite opens or creates the database at path.
func OpenSQLite(path string) (*SQLite, error) {
	if err := ensureParentDir(path); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	s := &SQLite{db: db, path: path}
	if err := s.initialize(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// OpenSQLiteInMemory opens an in-memory database (for testing).
func OpenSQLiteInMemory() (*SQLite, error) {
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		return nil, err
	}
	// Each connection to :memory: is a separate database.
	db.SetMaxOpenConns(1)

	s := &SQLite{db: db, path: ":memory:"}
	if err := s.initialize(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Path returns the database file path.
func (s *SQLite) Path() string { return s.path }

func (s *SQLite) initialize() error {
	schema := `
		PRAGMA journal_mode = WAL;

		-- Every write must be on disk before the command reports success.
		PRAGMA synchronous = FULL;

		CREATE TABLE IF NOT EXISTS meta (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);

		CREATE TABLE IF NOT EXISTS streams (
			id TEXT PRIMARY KEY,
			name TEXT,
			note_values TEXT NOT NULL DEFAULT '[]',  -- JSON [[timestamp, value, tag...], ...]
			tallies TEXT NOT NULL DEFAULT '[]',      -- JSON positions of tally notes in note_values
			updated_at INTEGER NOT NULL
		);
	`
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to initialize database schema: %w", err)
	}

	return s.migrate()
}

// migrate brings an existing database up to CurrentSchemaVersion. Opening a
// current database writes nothing, so read-only commands leave the file alone.
func (s *SQLite) migrate() error {
	var version int
	err := s.db.QueryRow(`SELECT CAST(value AS INTEGER) FROM meta WHERE key = 'version'`).Scan(&version)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		version = 0
	case err != nil:
		return fmt.Errorf("failed to read database version: %w", err)
	}
	if version >= CurrentSchemaVersion {
		return nil
	}

	hasTallies, err := s.hasColumn("streams", "tallies")
	if err != nil {
		return err
	}
	if !hasTallies {
		if _, err := s.db.Exec(`ALTER TABLE streams ADD COLUMN tallies TEXT NOT NULL DEFAULT '[]'`); err != nil {
			return fmt.Errorf("failed to add tallies column: %w", err)
		}
	}

	_, err = s.db.Exec(`INSERT OR REPLACE INTO meta (key, value) VALUES ('version', ?)`,
		fmt.Sprintf("%d", CurrentSchemaVersion))
	if err != nil {
		return fmt.Errorf("failed to set database version: %w", err)
	}
	return nil
}

func (s *SQLite) hasColumn(table, column string) (bool, error) {
	var n int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM pragma_table_info(?) WHERE name = ?`, table, column).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("failed to inspect table %s: %w", table, err)
	}
	return n > 0, nil
}

// Get returns the stream stored under id.
func (s *SQLite) Get(id string) (*model.Stream, error) {
	var name sql.NullString
	var raw, rawTallies string
	err := s.db.QueryRow(`SELECT name, note_values, tallies FROM streams WHERE id = ?`, id).Scan(&name, &raw, &rawTallies)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read stream %s: %w", id, err)
	}

	stream := &model.Stream{ID: id, Name: name.String, Values: []model.Note{}}
	if err := json.Unmarshal([]byte(raw), &stream.Values); err != nil {
		return nil, fmt.Errorf("stream %s has a corrupt record: %w", id, err)
	}
	var tallies []int
	if err := json.Unmarshal([]byte(rawTallies), &tallies); err != nil {
		return nil, fmt.Errorf("stream %s has corrupt tally positions: %w", id, err)
	}
	stream.MarkTallies(tallies)
	return stream, nil
}

// Put writes the stream record.
func (s *SQLite) Put(stream *model.Stream) error {
	if err := validID(stream.ID); err != nil {
		return err
	}
	values := stream.Values
	if values == nil {
		values = []model.Note{}
	}
	raw, err := json.Marshal(values)
	if err != nil {
		return fmt.Errorf("failed to encode stream %s: %w", stream.ID, err)
	}
	tallies := stream.TallyPositions()
	if tallies == nil {
		tallies = []int{}
	}
	rawTallies, err := json.Marshal(tallies)
	if err != nil {
		return fmt.Errorf("failed to encode stream %s: %w", stream.ID, err)
	}

	var name any
	if stream.Name != "" {
		name = stream.Name
	}
	_, err = s.db.Exec(`
		INSERT INTO streams (id, name, note_values, tallies, updated_at) VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET name = excluded.name, note_values = excluded.note_values,
			tallies = excluded.tallies, updated_at = excluded.updated_at`,
		stream.ID, name, string(raw), string(rawTallies), time.Now().UnixMilli())
	if err != nil {
		return fmt.Errorf("failed to write stream %s: %w", stream.ID, err)
	}
	return nil
}

// Delete removes the stream record.
func (s *SQLite) Delete(id string) error {
	if _, err := s.db.Exec(`DELETE FROM streams WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete stream %s: %w", id, err)
	}
	return nil
}

// Keys returns every stream id in lexicographic order.
func (s *SQLite) Keys() ([]string, error) {
	rows, err := s.db.Query(`SELECT id FROM streams ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list streams: %w", err)
	}
	return scanRows(rows, func(rows *sql.Rows) (string, error) {
		var id string
		err := rows.Scan(&id)
		return id, err
	})
}

// Close closes the database.
func (s *SQLite) Close() error {
	return s.db.Close()
}

func scanRows[T any](rows *sql.Rows, scan func(*sql.Rows) (T, error)) ([]T, error) {
	defer rows.Close()

	out := []T{}
	for rows.Next() {
		item, err := scan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	return out, rows.Err()
}
