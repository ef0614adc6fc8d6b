// Package db internal/infrastructure/db/pool.go
package db

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"
)

// Pool is the subset of pgxpool.Pool the repositories use. pgxmock satisfies
// it, which keeps repository tests off the network.
type Pool interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Begin(ctx context.Context) (pgx.Tx, error)
	Ping(ctx context.Context) error
	Close()
}

// NewPool creates a pgx connection pool for connString and verifies
// connectivity. The pool is constructed once at process start and injected
// into every component that needs it; it lives until Close.
func NewPool(ctx context.Context, connString string) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, &UnavailableError{Err: eris.Wrap(err, "db: parse config")}
	}

	cfg.MaxConns = 10
	cfg.MinConns = 1
	cfg.MaxConnLifetime = 30 * time.Minute
	cfg.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, &UnavailableError{Err: eris.Wrap(err, "db: create pool")}
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, &UnavailableError{Err: eris.Wrap(err, "db: ping")}
	}

	return pool, nil
}
