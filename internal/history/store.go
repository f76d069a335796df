// Package history records activated spans in a local sqlite database so
// the demo can show what was tapped across runs.
package history

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"

	"linklabel/internal/log"
	"linklabel/internal/span"
)

// Entry is one recorded tap.
type Entry struct {
	ID       int64
	Kind     span.Kind
	Text     string
	Target   string
	TappedAt time.Time
}

// Store provides access to the tap history database.
type Store struct {
	db   *sql.DB
	path string
}

const schema = `
CREATE TABLE IF NOT EXISTS taps (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	kind TEXT NOT NULL,
	text TEXT NOT NULL,
	target TEXT NOT NULL DEFAULT '',
	tapped_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS taps_tapped_at ON taps(tapped_at);
`

// Open connects to the history database at path, creating the file and
// schema as needed. Pass ":memory:" for an ephemeral store.
func Open(path string) (*Store, error) {
	dsn := path
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
			return nil, fmt.Errorf("creating history directory: %w", err)
		}
		dsn = "file:" + path
	}

	log.Debug(log.CatHistory, "Opening history database", "path", path)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		log.ErrorErr(log.CatHistory, "Failed to open history database", err, "path", path)
		return nil, err
	}
	if err := db.Ping(); err != nil {
		log.ErrorErr(log.CatHistory, "Failed to ping history database", err, "path", path)
		_ = db.Close()
		return nil, err
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("creating history schema: %w", err)
	}

	log.Info(log.CatHistory, "Connected to history database", "path", path)
	return &Store{db: db, path: path}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Record stores one activated span. Target carries the span's
// destination when it has one (a URL, an address), empty otherwise.
func (s *Store) Record(kind span.Kind, text, target string) error {
	_, err := s.db.Exec(
		`INSERT INTO taps (kind, text, target) VALUES (?, ?, ?)`,
		string(kind), text, target,
	)
	if err != nil {
		log.ErrorErr(log.CatHistory, "Failed to record tap", err, "kind", kind)
		return fmt.Errorf("recording tap: %w", err)
	}
	return nil
}

// Recent returns the most recently recorded taps, newest first.
func (s *Store) Recent(limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.Query(
		`SELECT id, kind, text, target, tapped_at
		 FROM taps ORDER BY tapped_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying taps: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var kind string
		if err := rows.Scan(&e.ID, &kind, &e.Text, &e.Target, &e.TappedAt); err != nil {
			return nil, fmt.Errorf("scanning tap: %w", err)
		}
		e.Kind = span.Kind(kind)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// CountByKind returns how many taps were recorded per span kind.
func (s *Store) CountByKind() (map[span.Kind]int, error) {
	rows, err := s.db.Query(`SELECT kind, COUNT(*) FROM taps GROUP BY kind`)
	if err != nil {
		return nil, fmt.Errorf("counting taps: %w", err)
	}
	defer func() { _ = rows.Close() }()

	counts := make(map[span.Kind]int)
	for rows.Next() {
		var kind string
		var n int
		if err := rows.Scan(&kind, &n); err != nil {
			return nil, fmt.Errorf("scanning count: %w", err)
		}
		counts[span.Kind(kind)] = n
	}
	return counts, rows.Err()
}
