package database

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Pool sizing for a single-process bot. Every repository shares this pool
// through the unit of work, and sweep workers run alongside interaction
// handlers, so a handful of connections is plenty.
const (
	maxPoolConns    = 10
	minPoolConns    = 2
	maxConnLifetime = time.Hour
	pingTimeout     = 5 * time.Second
)

// DB wraps the pgx connection pool shared by every repository
type DB struct {
	*pgxpool.Pool
}

// NewConnection opens a connection pool against databaseURL and verifies it
// with a bounded ping before returning
func NewConnection(ctx context.Context, databaseURL string) (*DB, error) {
	poolConfig, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database url: %w", err)
	}

	poolConfig.MaxConns = maxPoolConns
	poolConfig.MinConns = minPoolConns
	poolConfig.MaxConnLifetime = maxConnLifetime

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{Pool: pool}, nil
}

// Close closes the underlying pool
func (db *DB) Close() {
	db.Pool.Close()
}
