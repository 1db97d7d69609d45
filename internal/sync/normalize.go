package sync

import (
	"strings"
	"time"

	"github.com/fsp-labs/price-fetcher/internal/models"
	"github.com/fsp-labs/price-fetcher/internal/quotes"
)

// NormalizeSymbol canonicalizes a ticker: trimmed, uppercase.
func NormalizeSymbol(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

// DateOnly truncates a timestamp to its UTC calendar date.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func pointFromQuote(symbol string, q quotes.RawQuote) models.PricePoint {
	return models.PricePoint{
		Symbol: symbol,
		Date:   DateOnly(q.Time),
		Close:  q.Price.Round(2),
	}
}

func pointFromBar(symbol string, b quotes.RawBar) models.PricePoint {
	return models.PricePoint{
		Symbol: symbol,
		Date:   DateOnly(b.Date),
		Close:  b.Close.Round(2),
	}
}
