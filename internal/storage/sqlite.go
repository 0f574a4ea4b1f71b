package storage

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/xolan/certtrack/internal/tracker"
)

// SQLiteStore keeps the JSON document as a single row keyed by DocumentKey.
type SQLiteStore struct {
	db   *sql.DB
	path string
}

// OpenSQLiteStore opens (and creates if needed) the database at path.
func OpenSQLiteStore(path string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	schema := `
	CREATE TABLE IF NOT EXISTS documents (
		key        TEXT PRIMARY KEY,
		body       TEXT NOT NULL,
		updated_at DATETIME NOT NULL
	);
	`
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &SQLiteStore{db: db, path: path}, nil
}

// Location implements Store.
func (s *SQLiteStore) Location() string {
	return "sqlite " + s.path
}

// Close implements Store.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Load reads the document row. No row is the empty document.
func (s *SQLiteStore) Load(ctx context.Context) (tracker.Document, error) {
	var body string
	err := s.db.QueryRowContext(ctx, `SELECT body FROM documents WHERE key = ?`, DocumentKey).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return EmptyDocument(), nil
	}
	if err != nil {
		return EmptyDocument(), err
	}
	return decodeDocument([]byte(body))
}

// Save upserts the document row.
func (s *SQLiteStore) Save(ctx context.Context, doc tracker.Document) error {
	data, err := encodeDocument(doc)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO documents (key, body, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET body = excluded.body, updated_at = excluded.updated_at`,
		DocumentKey, string(data), time.Now().UTC(),
	)
	return err
}

// UpdatedAt returns when the document was last saved, or the zero time if never.
func (s *SQLiteStore) UpdatedAt(ctx context.Context) (time.Time, error) {
	var updated time.Time
	err := s.db.QueryRowContext(ctx, `SELECT updated_at FROM documents WHERE key = ?`, DocumentKey).Scan(&updated)
	if errors.Is(err, sql.ErrNoRows) {
		return time.Time{}, nil
	}
	return updated, err
}
