package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	// sqlite driver
	_ "modernc.org/sqlite"
)

type sqliteUsageStore struct {
	db *sql.DB
}

// OpenSQLite opens (creating if needed) the sqlite database at path.
func OpenSQLite(ctx context.Context, path string) (*sql.DB, error) {
	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// A single writer avoids SQLITE_BUSY between concurrent increments.
	db.SetMaxOpenConns(1)
	for _, pragma := range []string{"PRAGMA journal_mode=WAL", "PRAGMA busy_timeout=5000"} {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to execute %s: %w", pragma, err)
		}
	}
	return db, nil
}

// NewSQLiteUsageStore creates the usage_counters table if needed and returns a
// UsageStore on top of it.
func NewSQLiteUsageStore(ctx context.Context, db *sql.DB) (UsageStore, error) {
	const schema = `
		CREATE TABLE IF NOT EXISTS usage_counters (
			usage_key  TEXT PRIMARY KEY,
			count      INTEGER NOT NULL DEFAULT 0,
			updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return nil, fmt.Errorf("creating usage_counters table: %w", err)
	}
	return &sqliteUsageStore{db: db}, nil
}

func (r *sqliteUsageStore) Get(ctx context.Context, key string) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT count FROM usage_counters WHERE usage_key = ?`, key).Scan(&count)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("reading usage %s: %w", key, err)
	}
	return count, nil
}

func (r *sqliteUsageStore) Increment(ctx context.Context, key string) (int, error) {
	const q = `
		INSERT INTO usage_counters (usage_key, count)
		VALUES (?, 1)
		ON CONFLICT (usage_key)
		DO UPDATE SET count = count + 1, updated_at = CURRENT_TIMESTAMP
		RETURNING count`
	var count int
	if err := r.db.QueryRowContext(ctx, q, key).Scan(&count); err != nil {
		return 0, fmt.Errorf("incrementing usage %s: %w", key, err)
	}
	return count, nil
}
