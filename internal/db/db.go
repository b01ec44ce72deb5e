// Package db opens the PostgreSQL pool and owns the schema migrations.
package db

import (
	"context"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"

	"peacenest/internal/config"
)

// Open connects through the pgx stdlib driver and pings once.
func Open(ctx context.Context, cfg *config.Config) (*sqlx.DB, error) {
	conn, err := sqlx.Open("pgx", cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	conn.SetMaxOpenConns(cfg.DBMaxOpenConns)
	conn.SetConnMaxLifetime(cfg.DBConnMaxLifetime)

	if err := conn.PingContext(ctx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("ping db: %w", err)
	}
	return conn, nil
}
