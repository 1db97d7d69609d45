package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/fsp-labs/price-fetcher/internal/models"
)

type PriceRepo struct {
	pool *pgxpool.Pool
}

func NewPriceRepo(pool *pgxpool.Pool) *PriceRepo {
	return &PriceRepo{pool: pool}
}

// Upsert writes one price point. The insert-or-update is a single
// atomic statement conflicting on the (symbol, date) unique index, so
// concurrent writers for the same key resolve to last-write-wins.
func (r *PriceRepo) Upsert(ctx context.Context, p models.PricePoint) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO price (symbol, date, close)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (symbol, date) DO UPDATE SET close = EXCLUDED.close`,
		p.Symbol, p.Date, p.Close.StringFixed(2),
	)
	if err != nil {
		return fmt.Errorf("upsert price: %w", err)
	}
	return nil
}

// Exists reports whether a row is stored for (symbol, date). Used for
// read-after-write verification only, never to gate an upsert.
func (r *PriceRepo) Exists(ctx context.Context, symbol string, date time.Time) (bool, error) {
	var one int
	err := r.pool.QueryRow(ctx,
		`SELECT 1 FROM price WHERE symbol = $1 AND date = $2 LIMIT 1`,
		symbol, date,
	).Scan(&one)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("check price: %w", err)
	}
	return true, nil
}

// GetRange returns the stored points for symbol within [start, end],
// ordered ascending by date.
func (r *PriceRepo) GetRange(ctx context.Context, symbol string, start, end time.Time) ([]models.PricePoint, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT symbol, date, close::text FROM price
		 WHERE symbol = $1 AND date BETWEEN $2 AND $3
		 ORDER BY date ASC`,
		symbol, start, end,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectPoints(rows)
}

// GetLatest returns the most recent stored point for symbol, or nil
// when none exists.
func (r *PriceRepo) GetLatest(ctx context.Context, symbol string) (*models.PricePoint, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT symbol, date, close::text FROM price
		 WHERE symbol = $1 ORDER BY date DESC LIMIT 1`,
		symbol,
	)
	p, err := scanPoint(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

// --- scan helpers ---

type scannable interface {
	Scan(dest ...any) error
}

func scanPoint(row scannable) (*models.PricePoint, error) {
	var p models.PricePoint
	var closeStr string
	if err := row.Scan(&p.Symbol, &p.Date, &closeStr); err != nil {
		return nil, err
	}
	c, err := decimal.NewFromString(closeStr)
	if err != nil {
		return nil, fmt.Errorf("parse close %q: %w", closeStr, err)
	}
	p.Close = c
	p.Date = p.Date.UTC()
	return &p, nil
}

func collectPoints(rows pgx.Rows) ([]models.PricePoint, error) {
	var out []models.PricePoint
	for rows.Next() {
		p, err := scanPoint(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}
