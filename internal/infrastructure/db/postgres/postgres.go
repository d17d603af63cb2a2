package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	defaultTimeout  = 10 * time.Second
	defaultMaxConns = 10
)

// Config captures the settings for establishing a PostgreSQL pool.
type Config struct {
	URL      string
	MaxConns int
	Timeout  time.Duration
}

// DB is the subset of pgxpool.Pool the repositories use.
type DB interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// Connect builds a connection pool and verifies connectivity with a ping.
func Connect(ctx context.Context, cfg Config) (*pgxpool.Pool, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	maxConns := cfg.MaxConns
	if maxConns <= 0 {
		maxConns = defaultMaxConns
	}

	poolConfig, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parse pool config: %w", err)
	}

	poolConfig.MaxConns = int32(maxConns)
	poolConfig.MaxConnLifetime = 30 * time.Minute
	poolConfig.MaxConnIdleTime = 5 * time.Minute
	poolConfig.HealthCheckPeriod = time.Minute
	poolConfig.ConnConfig.ConnectTimeout = timeout

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("create connection pool: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres ping: %w", err)
	}

	return pool, nil
}

const (
	constraintUsersUsername = "users_username_key"
	constraintUsersEmail    = "users_email_key"
)

const schema = `
CREATE TABLE IF NOT EXISTS users (
	id            UUID PRIMARY KEY,
	seq           BIGSERIAL NOT NULL,
	username      TEXT NOT NULL,
	email         TEXT NOT NULL,
	password_hash TEXT NOT NULL,
	full_name     TEXT NOT NULL,
	role          TEXT NOT NULL CHECK (role IN ('admin', 'user')),
	is_active     BOOLEAN NOT NULL DEFAULT TRUE,
	created_at    TIMESTAMPTZ NOT NULL,
	updated_at    TIMESTAMPTZ NOT NULL,
	CONSTRAINT users_username_key UNIQUE (username),
	CONSTRAINT users_email_key UNIQUE (email)
);

CREATE TABLE IF NOT EXISTS pools (
	id                  UUID PRIMARY KEY,
	seq                 BIGSERIAL NOT NULL,
	home_owner_name     TEXT NOT NULL,
	phone               TEXT NOT NULL,
	address             TEXT NOT NULL,
	city                TEXT NOT NULL,
	state               TEXT NOT NULL,
	zip_code            TEXT NOT NULL,
	length              DOUBLE PRECISION NOT NULL,
	width               DOUBLE PRECISION NOT NULL,
	gallons             INTEGER NOT NULL,
	how_many_inlets     INTEGER NOT NULL,
	how_many_skimmers   INTEGER NOT NULL,
	how_many_ladders    INTEGER NOT NULL,
	how_many_steps      INTEGER NOT NULL,
	filter_brand        TEXT NOT NULL DEFAULT '',
	filter_model        TEXT NOT NULL DEFAULT '',
	filter_serial       TEXT NOT NULL DEFAULT '',
	pump_brand          TEXT NOT NULL DEFAULT '',
	pump_model          TEXT NOT NULL DEFAULT '',
	pump_serial         TEXT NOT NULL DEFAULT '',
	heater_brand_ng     TEXT NOT NULL DEFAULT '',
	heater_model_ng     TEXT NOT NULL DEFAULT '',
	heater_serial_ng    TEXT NOT NULL DEFAULT '',
	heater_brand_cbms   TEXT NOT NULL DEFAULT '',
	heater_model_cbms   TEXT NOT NULL DEFAULT '',
	heater_serial_cbms  TEXT NOT NULL DEFAULT '',
	pool_cleaner_brand  TEXT NOT NULL DEFAULT '',
	pool_cleaner_model  TEXT NOT NULL DEFAULT '',
	pool_cleaner_serial TEXT NOT NULL DEFAULT '',
	user_id             UUID REFERENCES users (id) ON DELETE SET NULL,
	created_at          TIMESTAMPTZ NOT NULL,
	updated_at          TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS pools_created_at_idx ON pools (created_at DESC, seq DESC);
CREATE INDEX IF NOT EXISTS pools_user_id_idx ON pools (user_id);
`

// Migrate creates the tables and indexes if they do not exist.
func Migrate(ctx context.Context, db DB) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if _, err := db.Exec(ctx, schema); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}
