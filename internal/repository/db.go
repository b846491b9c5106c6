package repository

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// DBConfig holds connection pool configuration for the local database.
type DBConfig struct {
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	BusyTimeout     time.Duration
}

// DefaultDBConfig returns the local database configuration. SQLite allows one
// writer at a time and an in-memory database lives only as long as its
// connection, so the pool is pinned to a single connection that never expires.
func DefaultDBConfig() *DBConfig {
	return &DBConfig{
		MaxOpenConns:    1,
		MaxIdleConns:    1,
		ConnMaxLifetime: 0,
		BusyTimeout:     5 * time.Second,
	}
}

const localSchema = `
	CREATE TABLE IF NOT EXISTS kv (
		key   TEXT PRIMARY KEY,
		value TEXT NOT NULL
	)
`

// OpenLocalDB opens (creating if needed) the SQLite database at path and
// ensures its key/value table exists. Use ":memory:" for a throwaway store.
func OpenLocalDB(ctx context.Context, path string, config *DBConfig) (*sql.DB, error) {
	if config == nil {
		config = DefaultDBConfig()
	}

	if path != ":memory:" {
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("failed to create local store directory %s: %w", dir, err)
			}
		}
	}

	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(%d)", path, config.BusyTimeout.Milliseconds())
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open local database: %w", err)
	}

	db.SetMaxOpenConns(config.MaxOpenConns)
	db.SetMaxIdleConns(config.MaxIdleConns)
	db.SetConnMaxLifetime(config.ConnMaxLifetime)

	// Verify connectivity
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping local database: %w", err)
	}

	if _, err := db.ExecContext(ctx, localSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create local schema: %w", err)
	}

	return db, nil
}
