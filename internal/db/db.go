package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// Open opens (creating if needed) the embedded SQLite database and applies
// pending migrations. The pool is capped at a single connection: SQLite has
// one writer anyway, and a single shared handle keeps every multi-statement
// shift serialized by the engine itself.
func Open(ctx context.Context, path string) (*sql.DB, error) {
	if path == "" {
		return nil, errors.New("db path is required")
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
	}

	dsn := fmt.Sprintf("file:%s?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)", path)

	pool, err := sql.Open("sqlite", dsn)

	if err != nil {
		return nil, err
	}

	pool.SetMaxOpenConns(1)
	pool.SetMaxIdleConns(1)
	pool.SetConnMaxLifetime(0)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	err = pool.PingContext(pingCtx)

	if err != nil {
		pool.Close()
		return nil, err
	}

	// WAL lets public reads proceed while an admin mutation is in flight.
	_, err = pool.ExecContext(ctx, "PRAGMA journal_mode = WAL;")

	if err != nil {
		pool.Close()
		return nil, err
	}

	err = Migrate(ctx, pool)

	if err != nil {
		pool.Close()
		return nil, err
	}

	return pool, nil
}
