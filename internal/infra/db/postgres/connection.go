package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v4/pgxpool"
)

// NewPgxPool connects to Postgres and verifies the connection.
func NewPgxPool(ctx context.Context, dsn string, maxConns int32) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse postgres dsn: %w", err)
	}
	if maxConns > 0 {
		cfg.MaxConns = maxConns
	}
	pool, err := pgxpool.ConnectConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return pool, nil
}

// EnsureSchema creates the tables the tracker needs when they are missing.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	const ddl = `
CREATE TABLE IF NOT EXISTS subscriptions (
  id         TEXT PRIMARY KEY,
  name       TEXT NOT NULL,
  price      DOUBLE PRECISION NOT NULL DEFAULT 0,
  cycle      TEXT NOT NULL DEFAULT 'monthly',
  next_date  DATE NOT NULL,
  color      TEXT NOT NULL DEFAULT '',
  notes      TEXT NOT NULL DEFAULT '',
  created_at TIMESTAMPTZ NOT NULL,
  active     BOOLEAN NOT NULL DEFAULT TRUE
);
CREATE INDEX IF NOT EXISTS idx_subscriptions_next_date ON subscriptions(next_date);

CREATE TABLE IF NOT EXISTS entitlement (
  id            INT PRIMARY KEY DEFAULT 1 CHECK (id = 1),
  premium       BOOLEAN NOT NULL DEFAULT FALSE,
  premium_until TEXT NOT NULL DEFAULT '',
  plan          TEXT NOT NULL DEFAULT ''
);`
	if _, err := pool.Exec(ctx, ddl); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}
