package initcache

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver
)

const schema = `
CREATE TABLE IF NOT EXISTS init_cache (
    key TEXT PRIMARY KEY,
    types TEXT NOT NULL,
    created_at TEXT NOT NULL
);`

// SQLite is a Cache backed by a SQLite database file.
type SQLite struct {
	db *sql.DB
}

// OpenSQLite opens (creating if needed) the cache database at path.
func OpenSQLite(ctx context.Context, path string) (*SQLite, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create cache directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("failed to open cache database: %w", err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize cache schema: %w", err)
	}
	return &SQLite{db: db}, nil
}

// Load implements Cache.
func (s *SQLite) Load(ctx context.Context, key Key) ([]int, bool, error) {
	var raw string
	err := s.db.QueryRowContext(ctx, `SELECT types FROM init_cache WHERE key = ?`, key.String()).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to load %s: %w", key, err)
	}
	var types []int
	if err := json.Unmarshal([]byte(raw), &types); err != nil {
		return nil, false, fmt.Errorf("failed to decode %s: %w", key, err)
	}
	return types, true, nil
}

// Store implements Cache.
func (s *SQLite) Store(ctx context.Context, key Key, types []int) error {
	raw, err := json.Marshal(types)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO init_cache (key, types, created_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET types = excluded.types, created_at = excluded.created_at`,
		key.String(), string(raw), time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("failed to store %s: %w", key, err)
	}
	return nil
}

// Close releases the database handle.
func (s *SQLite) Close() error {
	return s.db.Close()
}
