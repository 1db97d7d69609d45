// Package quotes wraps the market-data provider behind a small adapter.
// It performs no retries of its own; callers decide retry policy.
package quotes

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/piquette/finance-go/chart"
	"github.com/piquette/finance-go/datetime"
	"github.com/piquette/finance-go/quote"
	"github.com/shopspring/decimal"

	"github.com/fsp-labs/price-fetcher/internal/models"
)

// ErrNoData signals an empty provider result for a valid symbol/window.
var ErrNoData = errors.New("no data from provider")

// RawQuote is one real-time quote as returned by the provider.
type RawQuote struct {
	Price decimal.Decimal
	Time  time.Time
}

// RawBar is one bar of a historical series.
type RawBar struct {
	Date  time.Time
	Close decimal.Decimal
}

// latestFallbackDays is the window scanned for the most recent daily
// close when no real-time quote is available.
const latestFallbackDays = 7

type Client struct{}

func NewClient() *Client {
	return &Client{}
}

// Latest returns the current price for symbol. It prefers the real-time
// quote, stamped with the call's wall-clock time, and falls back to the
// most recent daily close when no live price is available.
func (c *Client) Latest(ctx context.Context, symbol string) (RawQuote, error) {
	q, err := quote.Get(symbol)
	if err == nil && q != nil && q.RegularMarketPrice > 0 {
		return RawQuote{
			Price: decimal.NewFromFloat(q.RegularMarketPrice),
			Time:  time.Now().UTC(),
		}, nil
	}

	end := time.Now().UTC()
	start := end.AddDate(0, 0, -latestFallbackDays)
	bars, serr := c.Series(ctx, symbol, start, end, models.IntervalDaily)
	if serr != nil {
		if errors.Is(serr, ErrNoData) && err != nil {
			// Neither source produced anything; surface the quote fault.
			return RawQuote{}, fmt.Errorf("latest quote for %s: %w", symbol, err)
		}
		return RawQuote{}, serr
	}

	last := bars[len(bars)-1]
	return RawQuote{Price: last.Close, Time: last.Date}, nil
}

// Series returns the bars covering [start, end] at the given interval,
// in provider order (ascending by date). An empty series yields ErrNoData.
func (c *Client) Series(ctx context.Context, symbol string, start, end time.Time, interval models.Interval) ([]RawBar, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// The chart API treats End as exclusive; push it past midnight of
	// the end date so that date's own bar is included.
	chartEnd := seriesEnd(end)
	params := &chart.Params{
		Symbol:   symbol,
		Start:    datetime.New(&start),
		End:      datetime.New(&chartEnd),
		Interval: chartInterval(interval),
	}

	iter := chart.Get(params)

	var bars []RawBar
	for iter.Next() {
		bar := iter.Bar()
		bars = append(bars, RawBar{
			Date:  time.Unix(int64(bar.Timestamp), 0).UTC(),
			Close: bar.Close,
		})
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("chart for %s: %w", symbol, err)
	}
	if len(bars) == 0 {
		return nil, ErrNoData
	}
	return bars, nil
}

// seriesEnd returns the exclusive upper bound for an inclusive end date:
// midnight UTC of the following day.
func seriesEnd(end time.Time) time.Time {
	d := end.UTC()
	return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC).AddDate(0, 0, 1)
}

func chartInterval(i models.Interval) datetime.Interval {
	switch i {
	case models.IntervalWeekly:
		// The chart API accepts "1wk"; datetime doesn't name a weekly constant.
		return datetime.Interval("1wk")
	case models.IntervalMonthly:
		return datetime.Interval("1mo")
	default:
		return datetime.OneDay
	}
}
