package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// PricePoint is one closing price for one symbol on one trading date.
// The (Symbol, Date) pair is unique in the store; Close carries exactly
// two fractional digits.
type PricePoint struct {
	Symbol string          `json:"symbol"`
	Date   time.Time       `json:"date"`
	Close  decimal.Decimal `json:"close"`
}

// Interval is the granularity of a history request.
type Interval string

const (
	IntervalDaily   Interval = "1d"
	IntervalWeekly  Interval = "1wk"
	IntervalMonthly Interval = "1mo"
)

// ParseInterval maps a query-string interval to its canonical form.
// An absent interval means monthly.
func ParseInterval(s string) (Interval, bool) {
	switch s {
	case "1d", "daily":
		return IntervalDaily, true
	case "1wk", "weekly":
		return IntervalWeekly, true
	case "", "1mo", "monthly":
		return IntervalMonthly, true
	}
	return "", false
}

// SyncRequest drives one pipeline invocation. Start/End are inclusive
// and only meaningful for the history operations.
type SyncRequest struct {
	Symbol   string
	Start    time.Time
	End      time.Time
	Interval Interval
}
