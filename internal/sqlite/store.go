// Package sqlite implements the persistence gateway for linkshelf. The Store
// issues parameterized queries against a single SQLite database and scopes
// multi-step mutations with WithTx; it carries no engine logic of its own.
package sqlite

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// DBFileName is the database file created under the data directory.
const DBFileName = "linkshelf.db"

// TimeFormat is how timestamps are stored in TEXT columns.
const TimeFormat = time.RFC3339

// Store is the SQLite persistence gateway.
type Store struct {
	db      *sql.DB
	dataDir string
}

// Open creates the data directory if needed, opens the database, and applies
// the schema. The schema is idempotent; existing data is preserved.
func Open(dataDir string) (*Store, error) {
	if dataDir == "" {
		dataDir = "."
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating data dir: %w", err)
	}

	db, err := sql.Open("sqlite", filepath.Join(dataDir, DBFileName))
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}
	for _, stmt := range schemaStatements {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("applying schema: %w", err)
		}
	}

	return &Store{db: db, dataDir: dataDir}, nil
}

// Close releases the database connection. Idempotent.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

// DataDir returns the directory holding the database file.
func (s *Store) DataDir() string { return s.dataDir }

// QueryRow issues a single-row parameterized query.
func (s *Store) QueryRow(query string, args ...any) *sql.Row {
	return s.db.QueryRow(query, args...)
}

// Query issues a multi-row parameterized query.
func (s *Store) Query(query string, args ...any) (*sql.Rows, error) {
	return s.db.Query(query, args...)
}

// Exec issues a parameterized mutation outside any transaction scope.
func (s *Store) Exec(query string, args ...any) (sql.Result, error) {
	return s.db.Exec(query, args...)
}

// WithTx runs fn inside one transaction. The transaction is rolled back if fn
// returns an error or panics, and committed otherwise. Partial application of
// a multi-step mutation is therefore impossible.
func (s *Store) WithTx(fn func(tx *sql.Tx) error) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// FormatTime renders a timestamp for storage.
func FormatTime(t time.Time) string {
	return t.UTC().Format(TimeFormat)
}

// ParseTime reads a stored timestamp. Invalid values yield the zero time
// rather than an error; legacy imports carry a few unparseable stamps.
func ParseTime(s string) time.Time {
	t, err := time.Parse(TimeFormat, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
