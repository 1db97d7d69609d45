package sync

import (
	"sort"

	"github.com/fsp-labs/price-fetcher/internal/models"
)

// FirstTradingDays compresses a daily series into one point per calendar
// month: the point with the earliest date in each (year, month) group.
// One grouping pass plus a sort of the (small) per-month result; output
// is ordered ascending by date and deterministic for identical input.
func FirstTradingDays(points []models.PricePoint) []models.PricePoint {
	if len(points) == 0 {
		return nil
	}

	type yearMonth struct {
		year  int
		month int
	}

	first := make(map[yearMonth]models.PricePoint, len(points))
	for _, p := range points {
		y, m, _ := p.Date.Date()
		key := yearMonth{y, int(m)}
		if cur, ok := first[key]; !ok || p.Date.Before(cur.Date) {
			first[key] = p
		}
	}

	out := make([]models.PricePoint, 0, len(first))
	for _, p := range first {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out
}
