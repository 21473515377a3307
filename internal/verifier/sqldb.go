package verifier

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

type DBConfig struct {
	// Driver is a database/sql driver name registered by the host binary
	// (e.g. "pgx" or "duckdb" for a local development target).
	Driver         string
	DSN            string
	ConnectTimeout time.Duration
	MaxOpenConns   int
}

// Open establishes the verification target connection pool. The connect
// ping is bounded so a dead target fails fast instead of hanging startup.
func Open(ctx context.Context, cfg DBConfig) (*sql.DB, error) {
	if cfg.Driver == "" {
		return nil, fmt.Errorf("target driver is required")
	}
	if cfg.DSN == "" && cfg.Driver != "duckdb" {
		return nil, fmt.Errorf("target dsn is required")
	}

	db, err := sql.Open(cfg.Driver, cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("open target db: %w", err)
	}
	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	}

	timeout := cfg.ConnectTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping target db: %w", err)
	}

	return db, nil
}
