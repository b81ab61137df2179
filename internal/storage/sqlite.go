package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/nikolayk812/storefront/internal/domain"
	"github.com/nikolayk812/storefront/internal/port"

	// pure Go driver, registers "sqlite"
	_ "modernc.org/sqlite"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS client_storage (
    key        TEXT PRIMARY KEY,
    value      BLOB NOT NULL,
    updated_at TEXT NOT NULL
);
`

// SQLite is a single-file store for deployments without redis or postgres.
type SQLite struct {
	db *sql.DB
}

var _ port.Storage = (*SQLite)(nil)

func OpenSQLite(ctx context.Context, path string) (*SQLite, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)", path)

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("sql.Open: %w", err)
	}

	// sqlite allows one writer at a time
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	return &SQLite{db: db}, nil
}

func (s *SQLite) Get(ctx context.Context, key string) ([]byte, error) {
	if key == "" {
		return nil, fmt.Errorf("key is empty")
	}

	var value []byte
	err := s.db.QueryRowContext(ctx, `SELECT value FROM client_storage WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("db.QueryRow: %w", err)
	}

	return value, nil
}

func (s *SQLite) Set(ctx context.Context, key string, value []byte) error {
	if key == "" {
		return fmt.Errorf("key is empty")
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO client_storage (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT (key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value, time.Now().UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("db.Exec: %w", err)
	}

	return nil
}

func (s *SQLite) Delete(ctx context.Context, key string) error {
	if key == "" {
		return fmt.Errorf("key is empty")
	}

	if _, err := s.db.ExecContext(ctx, `DELETE FROM client_storage WHERE key = ?`, key); err != nil {
		return fmt.Errorf("db.Exec: %w", err)
	}

	return nil
}

func (s *SQLite) Close() error {
	return s.db.Close()
}
