package sqlite

import (
	"context"
	"database/sql"
	"time"
	"unicode/utf8"

	apperrors "github.com/FocuswithJustin/juniper-corpus/core/errors"
)

const schema = `
CREATE TABLE IF NOT EXISTS kv (
	key        TEXT PRIMARY KEY,
	value      BLOB NOT NULL,
	updated_at INTEGER NOT NULL
)`

// Store is a key-value store in a single SQLite table. It satisfies
// cache.Store.
type Store struct {
	db   *sql.DB
	path string
}

// OpenStore opens (creating if needed) the database at path. ":memory:"
// gives a private in-memory database.
func OpenStore(ctx context.Context, path string) (*Store, error) {
	db, err := Open(path)
	if err != nil {
		return nil, &apperrors.IOError{Operation: "open", Path: path, Err: err}
	}
	// A single connection keeps ":memory:" databases coherent and serializes
	// writers without relying on busy timeouts.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, &apperrors.IOError{Operation: "initialize", Path: path, Err: err}
	}
	return &Store{db: db, path: path}, nil
}

// Get returns the value stored under key.
func (s *Store) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var value []byte
	err := s.db.QueryRowContext(ctx, `SELECT value FROM kv WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, &apperrors.IOError{Operation: "read", Path: key, Err: err}
	}
	return value, true, nil
}

// Put stores value under key.
func (s *Store) Put(ctx context.Context, key string, value []byte) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO kv (key, value, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value, time.Now().UnixNano())
	if err != nil {
		return &apperrors.IOError{Operation: "write", Path: key, Err: err}
	}
	return nil
}

// DeletePrefix removes every key starting with prefix.
func (s *Store) DeletePrefix(ctx context.Context, prefix string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM kv WHERE substr(key, 1, ?) = ?`, utf8.RuneCountInString(prefix), prefix)
	if err != nil {
		return &apperrors.IOError{Operation: "delete", Path: prefix, Err: err}
	}
	return nil
}

// Keys returns every stored key in order.
func (s *Store) Keys(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT key FROM kv ORDER BY key`)
	if err != nil {
		return nil, &apperrors.IOError{Operation: "list", Path: s.path, Err: err}
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, &apperrors.IOError{Operation: "list", Path: s.path, Err: err}
		}
		keys = append(keys, k)
	}
	return keys, rows.Err()
}

// Path returns the database path the store was opened with.
func (s *Store) Path() string {
	return s.path
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}
