// Package sync implements the price synchronization pipeline:
// fetch, validate, normalize, idempotent upsert, verification.
package sync

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fsp-labs/price-fetcher/internal/models"
	"github.com/fsp-labs/price-fetcher/internal/quotes"
)

// Source supplies raw quote data for a symbol.
type Source interface {
	Latest(ctx context.Context, symbol string) (quotes.RawQuote, error)
	Series(ctx context.Context, symbol string, start, end time.Time, interval models.Interval) ([]quotes.RawBar, error)
}

// Store persists price points keyed uniquely by (symbol, date).
type Store interface {
	Upsert(ctx context.Context, p models.PricePoint) error
	Exists(ctx context.Context, symbol string, date time.Time) (bool, error)
}

// Alerter carries out-of-band notifications for integrity anomalies.
type Alerter interface {
	Send(msg string)
}

type Service struct {
	source Source
	store  Store
	alert  Alerter
}

func NewService(source Source, store Store, alert Alerter) *Service {
	return &Service{source: source, store: store, alert: alert}
}

// Latest fetches the current price for symbol, persists it under its
// calendar date and returns the stored point. The read-after-write
// check is observational: a miss is reported but does not fail the call.
func (s *Service) Latest(ctx context.Context, symbol string) (models.PricePoint, error) {
	const op = "latest"
	sym := NormalizeSymbol(symbol)

	q, err := s.source.Latest(ctx, sym)
	if err != nil {
		if errors.Is(err, quotes.ErrNoData) {
			return models.PricePoint{}, failed(KindNoData, op, sym, err)
		}
		return models.PricePoint{}, failed(KindFetchFailed, op, sym, err)
	}

	point := pointFromQuote(sym, q)
	if err := s.store.Upsert(ctx, point); err != nil {
		s.alertf("persist failure: %s %s: %v", sym, point.Date.Format("2006-01-02"), err)
		return models.PricePoint{}, failed(KindPersistFailed, op, sym, err)
	}

	s.verify(ctx, point)
	return point, nil
}

// RangeHistory fetches the series covering req's window, persists every
// point and returns them in provider order. Points persisted before a
// mid-batch failure stay committed.
func (s *Service) RangeHistory(ctx context.Context, req models.SyncRequest) ([]models.PricePoint, error) {
	const op = "range_history"
	sym := NormalizeSymbol(req.Symbol)

	if req.Start.After(req.End) {
		return nil, failed(KindInvalidRange, op, sym, fmt.Errorf("start %s after end %s",
			req.Start.Format("2006-01-02"), req.End.Format("2006-01-02")))
	}

	bars, err := s.source.Series(ctx, sym, req.Start, req.End, req.Interval)
	if err != nil {
		if errors.Is(err, quotes.ErrNoData) {
			return nil, failed(KindNoData, op, sym, err)
		}
		return nil, failed(KindFetchFailed, op, sym, err)
	}
	if len(bars) == 0 {
		return nil, failed(KindNoData, op, sym, quotes.ErrNoData)
	}

	points := make([]models.PricePoint, len(bars))
	for i, b := range bars {
		points[i] = pointFromBar(sym, b)
	}

	if err := s.persist(ctx, op, sym, points); err != nil {
		return nil, err
	}
	return points, nil
}

// FirstTradingDayHistory fetches the daily series covering req's window,
// keeps the first trading day of each month, persists those points and
// returns them ordered ascending by date. Aggregation always runs on
// daily bars regardless of the requested interval.
func (s *Service) FirstTradingDayHistory(ctx context.Context, req models.SyncRequest) ([]models.PricePoint, error) {
	const op = "first_day_history"
	sym := NormalizeSymbol(req.Symbol)

	if req.Start.After(req.End) {
		return nil, failed(KindInvalidRange, op, sym, fmt.Errorf("start %s after end %s",
			req.Start.Format("2006-01-02"), req.End.Format("2006-01-02")))
	}

	bars, err := s.source.Series(ctx, sym, req.Start, req.End, models.IntervalDaily)
	if err != nil {
		if errors.Is(err, quotes.ErrNoData) {
			return nil, failed(KindNoData, op, sym, err)
		}
		return nil, failed(KindFetchFailed, op, sym, err)
	}
	if len(bars) == 0 {
		return nil, failed(KindNoData, op, sym, quotes.ErrNoData)
	}

	daily := make([]models.PricePoint, len(bars))
	for i, b := range bars {
		daily[i] = pointFromBar(sym, b)
	}

	points := FirstTradingDays(daily)
	if err := s.persist(ctx, op, sym, points); err != nil {
		return nil, err
	}
	return points, nil
}

func (s *Service) persist(ctx context.Context, op, sym string, points []models.PricePoint) error {
	for _, p := range points {
		if err := s.store.Upsert(ctx, p); err != nil {
			s.alertf("persist failure: %s %s: %v", sym, p.Date.Format("2006-01-02"), err)
			return failed(KindPersistFailed, op, sym,
				fmt.Errorf("upsert %s: %w", p.Date.Format("2006-01-02"), err))
		}
	}
	return nil
}

// alertf sends an integrity notification when an alerter is wired.
func (s *Service) alertf(format string, args ...any) {
	if s.alert != nil {
		s.alert.Send(fmt.Sprintf(format, args...))
	}
}

func (s *Service) verify(ctx context.Context, p models.PricePoint) {
	day := p.Date.Format("2006-01-02")
	ok, err := s.store.Exists(ctx, p.Symbol, p.Date)
	if err != nil {
		fmt.Printf("[SYNC] Verification read failed for %s %s: %v\n", p.Symbol, day, err)
		return
	}
	if !ok {
		fmt.Printf("[SYNC] Save verification failed for %s %s\n", p.Symbol, day)
		s.alertf("integrity anomaly: %s %s not found after upsert", p.Symbol, day)
		return
	}
	fmt.Printf("[SYNC] Saved %s %s = %s\n", p.Symbol, day, p.Close.StringFixed(2))
}
