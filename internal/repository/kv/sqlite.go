package kv

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	// Registers the pure-Go "sqlite" database/sql driver.
	_ "modernc.org/sqlite"
)

const currentSchemaVersion = 1

// SQLiteStore persists keys in a SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLiteStore opens or creates the database at path and migrates its schema.
func OpenSQLiteStore(ctx context.Context, path string) (*SQLiteStore, error) {
	db, err := openDB(ctx, path)
	if err != nil {
		return nil, err
	}

	return &SQLiteStore{db: db}, nil
}

func openDB(ctx context.Context, path string) (*sql.DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return nil, fmt.Errorf("creating parent directories: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// One connection keeps the tentative/confirmed columns consistent
	// without relying on SQLite locking between pooled connections.
	db.SetMaxOpenConns(1)

	if _, err = db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("enabling WAL mode: %w", err)
	}

	if err = migrateSchema(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}

	return db, nil
}

func migrateSchema(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS schema_version (version INTEGER NOT NULL)`); err != nil {
		return fmt.Errorf("creating schema_version table: %w", err)
	}

	var version int

	err := db.QueryRowContext(ctx, "SELECT version FROM schema_version LIMIT 1").Scan(&version)

	switch {
	case errors.Is(err, sql.ErrNoRows):
		version = 0
	case err != nil:
		return fmt.Errorf("reading schema version: %w", err)
	}

	if version > currentSchemaVersion {
		return fmt.Errorf("database schema version %d is newer than supported (max: %d)", version, currentSchemaVersion)
	}

	if version == currentSchemaVersion {
		return nil
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin migration: %w", err)
	}

	defer func() { _ = tx.Rollback() }()

	statements := []string{
		`CREATE TABLE IF NOT EXISTS kv (
			key       TEXT PRIMARY KEY,
			value     TEXT NOT NULL,
			confirmed TEXT,
			dirty     INTEGER NOT NULL DEFAULT 1
		)`,
		`CREATE INDEX IF NOT EXISTS idx_kv_dirty ON kv(dirty)`,
		`DELETE FROM schema_version`,
		`INSERT INTO schema_version (version) VALUES (1)`,
	}

	for _, stmt := range statements {
		if _, err = tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migration v%d→v1: %w", version, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit migration: %w", err)
	}

	return nil
}

// Get returns the tentative value of key.
func (s *SQLiteStore) Get(ctx context.Context, key string) ([]byte, error) {
	var value string

	err := s.db.QueryRowContext(ctx, "SELECT value FROM kv WHERE key = ?", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("get %s: %w", key, err)
	}

	return []byte(value), nil
}

// GetConfirmed returns the confirmed value of key.
func (s *SQLiteStore) GetConfirmed(ctx context.Context, key string) ([]byte, error) {
	var value sql.NullString

	err := s.db.QueryRowContext(ctx, "SELECT confirmed FROM kv WHERE key = ?", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) || (err == nil && !value.Valid) {
		return nil, ErrNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("get confirmed %s: %w", key, err)
	}

	return []byte(value.String), nil
}

// Put stores a tentative value.
func (s *SQLiteStore) Put(ctx context.Context, key string, value []byte) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO kv (key, value, dirty) VALUES (?, ?, 1)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, dirty = 1
	`, key, string(value))
	if err != nil {
		return fmt.Errorf("put %s: %w", key, err)
	}

	return nil
}

// Confirm promotes tentative writes.
func (s *SQLiteStore) Confirm(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, "UPDATE kv SET confirmed = value, dirty = 0 WHERE dirty = 1"); err != nil {
		return fmt.Errorf("confirm: %w", err)
	}

	return nil
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
