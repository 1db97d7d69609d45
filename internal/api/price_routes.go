package api

import (
	"fmt"
	"net/http"

	"github.com/fsp-labs/price-fetcher/internal/models"
	"github.com/fsp-labs/price-fetcher/internal/sync"
)

type pointJSON struct {
	Date  string `json:"date"`
	Close string `json:"close"`
}

type latestJSON struct {
	Symbol string `json:"symbol"`
	Date   string `json:"date"`
	Close  string `json:"close"`
}

type historyJSON struct {
	Symbol string      `json:"symbol"`
	Points []pointJSON `json:"points"`
}

func (s *Server) handleLatest(w http.ResponseWriter, r *http.Request) {
	symbol := r.PathValue("symbol")
	if !validateSymbol(symbol) {
		writeError(w, http.StatusBadRequest, "invalid symbol")
		return
	}

	p, err := s.svc.Latest(r.Context(), symbol)
	if err != nil {
		writeSyncError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, latestJSON{
		Symbol: p.Symbol,
		Date:   p.Date.Format("2006-01-02"),
		Close:  p.Close.StringFixed(2),
	})
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	req, ok := s.historyRequest(w, r)
	if !ok {
		return
	}

	points, err := s.svc.RangeHistory(r.Context(), req)
	if err != nil {
		writeSyncError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, historyResponse(req.Symbol, points))
}

func (s *Server) handleFirstDayHistory(w http.ResponseWriter, r *http.Request) {
	req, ok := s.historyRequest(w, r)
	if !ok {
		return
	}

	points, err := s.svc.FirstTradingDayHistory(r.Context(), req)
	if err != nil {
		writeSyncError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, historyResponse(req.Symbol, points))
}

func (s *Server) handleStored(w http.ResponseWriter, r *http.Request) {
	req, ok := s.historyRequest(w, r)
	if !ok {
		return
	}

	points, err := s.priceRepo.GetRange(r.Context(), req.Symbol, req.Start, req.End)
	if err != nil {
		fmt.Printf("[API] Error reading stored prices for %s: %v\n", req.Symbol, err)
		writeError(w, http.StatusInternalServerError, "failed to read stored prices")
		return
	}
	writeJSON(w, http.StatusOK, historyResponse(req.Symbol, points))
}

// historyRequest parses and validates the symbol, window and interval
// shared by the history-style routes, writing the error response itself.
func (s *Server) historyRequest(w http.ResponseWriter, r *http.Request) (models.SyncRequest, bool) {
	symbol := r.PathValue("symbol")
	if !validateSymbol(symbol) {
		writeError(w, http.StatusBadRequest, "invalid symbol")
		return models.SyncRequest{}, false
	}

	start, ok := parseDate(r.URL.Query().Get("start"))
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid start date, expected YYYY-MM-DD")
		return models.SyncRequest{}, false
	}
	end, ok := parseDate(r.URL.Query().Get("end"))
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid end date, expected YYYY-MM-DD")
		return models.SyncRequest{}, false
	}

	interval, ok := models.ParseInterval(r.URL.Query().Get("interval"))
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid interval, expected 1d, 1wk or 1mo")
		return models.SyncRequest{}, false
	}

	return models.SyncRequest{
		Symbol:   sync.NormalizeSymbol(symbol),
		Start:    start,
		End:      end,
		Interval: interval,
	}, true
}

func historyResponse(symbol string, points []models.PricePoint) historyJSON {
	out := historyJSON{Symbol: symbol, Points: make([]pointJSON, len(points))}
	for i, p := range points {
		out.Points[i] = pointJSON{
			Date:  p.Date.Format("2006-01-02"),
			Close: p.Close.StringFixed(2),
		}
	}
	return out
}

func writeSyncError(w http.ResponseWriter, err error) {
	switch sync.KindOf(err) {
	case sync.KindInvalidRange:
		writeError(w, http.StatusBadRequest, "start_after_end")
	case sync.KindNoData:
		writeError(w, http.StatusNotFound, "no_data")
	case sync.KindFetchFailed:
		fmt.Printf("[API] Fetch failed: %v\n", err)
		writeError(w, http.StatusBadGateway, "fetch_failed")
	case sync.KindPersistFailed:
		fmt.Printf("[API] Persist failed: %v\n", err)
		writeError(w, http.StatusInternalServerError, "persist_failed")
	default:
		fmt.Printf("[API] Unexpected error: %v\n", err)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}
