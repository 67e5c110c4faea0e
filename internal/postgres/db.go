// Package postgres holds the pgx pool setup and the unit-of-work surface
// shared by every repository.
package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Querier is the subset of pgx implemented by both *pgxpool.Pool and pgx.Tx.
// Repositories take a Querier per call, so the same method runs against the
// pool for plain reads or against the caller's transaction handle.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Tx is the explicit unit-of-work handle. Only the component that began the
// transaction may commit or roll it back; everything else receives it as a
// Querier.
type Tx interface {
	Querier
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// TxBeginner opens a new unit of work.
type TxBeginner interface {
	BeginTx(ctx context.Context) (Tx, error)
}

type DB struct {
	Pool *pgxpool.Pool
}

func (d *DB) BeginTx(ctx context.Context) (Tx, error) {
	return d.Pool.BeginTx(ctx, pgx.TxOptions{})
}

func (d *DB) Close() { d.Pool.Close() }

func Connect(ctx context.Context, dsn string) (*DB, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, err
	}
	cfg.MaxConns = 8
	cfg.MinConns = 1
	cfg.HealthCheckPeriod = 30 * time.Second
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return &DB{Pool: pool}, nil
}
