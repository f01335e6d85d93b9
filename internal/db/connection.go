// Package db runs ad-hoc queries against a PostgreSQL database and turns the
// result set into tabular records.
package db

import (
	"context"
	"fmt"
	neturl "net/url"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DB holds the database connection pool
type DB struct {
	pool     *pgxpool.Pool
	url      string
	mu       sync.RWMutex
	readOnly bool
}

// ConnectOptions tunes Connect.
type ConnectOptions struct {
	// ReadOnly makes every session default to read-only transactions, so a
	// write that slips past IsWrite is still refused by the server.
	ReadOnly bool
}

// Connect establishes a lightweight connection (a single pooled connection).
// Queries from the CLI are one-shot, so there is no point in a bigger pool.
func Connect(ctx context.Context, url string, opts ConnectOptions) (*DB, error) {
	config, err := pgxpool.ParseConfig(url)
	if err != nil {
		return nil, fmt.Errorf("invalid connection URL: %w", err)
	}

	config.MaxConns = 1
	config.MinConns = 0
	config.MaxConnLifetime = time.Minute
	config.MaxConnIdleTime = 10 * time.Second

	db := &DB{
		url:      url,
		readOnly: opts.ReadOnly,
	}

	config.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		if !db.readOnly {
			return nil
		}
		if _, err := conn.Exec(ctx, "SET default_transaction_read_only = on"); err != nil {
			return fmt.Errorf("failed to make session read-only: %w", err)
		}
		return nil
	}

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to connect: %w", err)
	}

	// Test connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	db.pool = pool
	return db, nil
}

// Close closes the database connection
func (db *DB) Close() {
	db.mu.Lock()
	defer db.mu.Unlock()
	if db.pool != nil {
		db.pool.Close()
		db.pool = nil
	}
}

// Exec executes a statement without returning rows and reports the number of
// affected rows.
func (db *DB) Exec(ctx context.Context, sql string, args ...any) (int64, error) {
	tag, err := db.pool.Exec(ctx, sql, args...)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// Query executes a query and returns rows
func (db *DB) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return db.pool.Query(ctx, sql, args...)
}

// URL returns the connection URL
func (db *DB) URL() string {
	return db.url
}

// ReadOnly reports whether sessions default to read-only transactions.
func (db *DB) ReadOnly() bool {
	return db.readOnly
}

// IsConnected returns true if the database is connected
func (db *DB) IsConnected() bool {
	db.mu.RLock()
	defer db.mu.RUnlock()
	return db.pool != nil
}

// Ping tests the database connection
func (db *DB) Ping(ctx context.Context) error {
	return db.pool.Ping(ctx)
}

// Redacted returns the URL with any password masked, for error messages.
// Key/value connection strings are returned unchanged.
func Redacted(url string) string {
	u, err := neturl.Parse(url)
	if err != nil || u.Scheme == "" {
		return url
	}
	return u.Redacted()
}
