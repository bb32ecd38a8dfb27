package db

import (
	"context"
	"fmt"
	"strings"

	"github.com/dsjohal14/sentify/internal/seed"
	"github.com/jackc/pgx/v5/pgxpool"
)

const sqliteScheme = "sqlite://"

// DB wraps the database connection pool
type DB struct {
	pool *pgxpool.Pool
}

// New creates a new database connection
func New(ctx context.Context, connString string) (*DB, error) {
	pool, err := pgxpool.New(ctx, connString)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Test connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{pool: pool}, nil
}

// Close closes the database connection
func (d *DB) Close() {
	d.pool.Close()
}

// Pool returns the underlying connection pool
func (d *DB) Pool() *pgxpool.Pool {
	return d.pool
}

// Open picks a Storage implementation from the URL scheme.
// "sqlite://path" opens the embedded store, anything else is treated as a Postgres URL.
func Open(ctx context.Context, url string) (Storage, error) {
	if path, ok := strings.CutPrefix(url, sqliteScheme); ok {
		if path == "" {
			return nil, fmt.Errorf("sqlite URL has no path: %q", url)
		}
		store, err := NewSQLiteStore(path)
		if err != nil {
			return nil, err
		}
		return store, nil
	}

	conn, err := New(ctx, url)
	if err != nil {
		return nil, err
	}
	return NewPGStore(conn.Pool()), nil
}

// Bootstrap migrates the schema and seeds it when the directory is empty
func Bootstrap(ctx context.Context, store Storage, data *seed.Data) (bool, error) {
	if err := store.Migrate(ctx); err != nil {
		return false, fmt.Errorf("failed to migrate: %w", err)
	}

	n, err := store.Count(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to count companies: %w", err)
	}
	if n > 0 || data == nil {
		return false, nil
	}

	if err := store.Seed(ctx, data); err != nil {
		return false, fmt.Errorf("failed to seed: %w", err)
	}
	return true, nil
}
