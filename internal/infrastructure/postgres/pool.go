package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
)

// DBTX is the subset of *sql.DB the repositories need.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// NewPool opens a bounded pgx pool. Once MaxConns connections are checked
// out, further acquisitions wait for a release instead of failing.
func NewPool(ctx context.Context, dsn string, maxConns, minConns int32, maxConnLife time.Duration) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, err
	}
	cfg.MaxConns = maxConns
	cfg.MinConns = minConns
	cfg.MaxConnLifetime = maxConnLife
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return pool, nil
}

// Store owns the pool and the database/sql view over it.
type Store struct {
	Pool *pgxpool.Pool
	DB   *sql.DB
}

// NewStore wraps pool for database/sql callers. Connections still come from,
// and are bounded by, pool.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{Pool: pool, DB: stdlib.OpenDBFromPool(pool)}
}

func (s *Store) Ping(ctx context.Context) error {
	return s.DB.PingContext(ctx)
}

// Close stops handing out connections and blocks until every acquired
// connection has been released.
func (s *Store) Close() error {
	err := s.DB.Close()
	s.Pool.Close()
	return err
}
