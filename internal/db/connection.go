package db

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

func Connect(dsn string) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}

	cfg.MaxConns = 20
	cfg.MinConns = 2
	cfg.MaxConnIdleTime = 30 * time.Second
	cfg.MaxConnLifetime = 5 * time.Minute

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	p, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	return p, nil
}

func TestConnection(p *pgxpool.Pool) error {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	var now time.Time
	err := p.QueryRow(ctx, "SELECT NOW()").Scan(&now)
	if err != nil {
		return fmt.Errorf("test query: %w", err)
	}
	fmt.Printf("[DB] Connection successful at %s\n", now.Format(time.RFC3339))
	return nil
}

// Bootstrap ensures the price table and its uniqueness constraint exist.
// The unique index on (symbol, date) is what upserts conflict against.
func Bootstrap(ctx context.Context, p *pgxpool.Pool) error {
	const createTable = `
		CREATE TABLE IF NOT EXISTS price (
			id BIGSERIAL PRIMARY KEY,
			symbol VARCHAR(10) NOT NULL,
			date DATE NOT NULL,
			close NUMERIC(10, 2) NOT NULL
		)`
	const createIndex = `
		CREATE UNIQUE INDEX IF NOT EXISTS price_symbol_date_idx
		ON price (symbol, date)`

	if _, err := p.Exec(ctx, createTable); err != nil {
		return fmt.Errorf("create price table: %w", err)
	}
	if _, err := p.Exec(ctx, createIndex); err != nil {
		return fmt.Errorf("create price unique index: %w", err)
	}
	return nil
}
