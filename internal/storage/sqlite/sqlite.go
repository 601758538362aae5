// Package sqlite persists accounts and ledgers in a single SQLite file
// through the pure-Go modernc.org/sqlite driver.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // Pure Go SQLite driver (no CGO)

	"github.com/debty-app/debty/internal/storage"
)

var _ storage.Store = (*SQLiteStore)(nil)

// SQLiteStore implements storage.Store using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// connPragmas run on every pooled connection. Foreign keys drive the
// person -> transaction cascade; WAL lets readers proceed during a write.
var connPragmas = []string{
	"foreign_keys(1)",
	"busy_timeout(5000)",
	"journal_mode(WAL)",
}

// New opens (creating if needed) the database at dbPath and migrates it
// to the current schema.
func New(dbPath string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	query := url.Values{}
	for _, p := range connPragmas {
		query.Add("_pragma", p)
	}
	db, err := sql.Open("sqlite", "file:"+dbPath+"?"+query.Encode())
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate %s: %w", dbPath, err)
	}

	return &SQLiteStore{db: db}, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Ping verifies the database connection is alive.
func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Journal returns the ledger journal scoped to ownerID.
func (s *SQLiteStore) Journal(ownerID string) storage.Journal {
	return &journal{db: s.db, ownerID: ownerID}
}
