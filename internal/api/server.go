package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fsp-labs/price-fetcher/internal/repository"
	"github.com/fsp-labs/price-fetcher/internal/sync"
)

var (
	dateRegexp   = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	symbolRegexp = regexp.MustCompile(`^[A-Za-z0-9.^=-]{1,10}$`)
)

type Server struct {
	pool       *pgxpool.Pool
	svc        *sync.Service
	priceRepo  *repository.PriceRepo
	httpServer *http.Server
	apiKey     string
}

func NewServer(pool *pgxpool.Pool, svc *sync.Service, port int, apiKey, corsOrigin string) *Server {
	s := &Server{
		pool:      pool,
		svc:       svc,
		priceRepo: repository.NewPriceRepo(pool),
		apiKey:    apiKey,
	}

	mux := http.NewServeMux()

	// Sync routes
	mux.HandleFunc("GET /v1/prices/latest/{symbol}", s.handleLatest)
	mux.HandleFunc("GET /v1/prices/history/{symbol}", s.handleHistory)
	mux.HandleFunc("GET /v1/prices/history/first-day/{symbol}", s.handleFirstDayHistory)

	// Read-only store routes
	mux.HandleFunc("GET /v1/prices/stored/{symbol}", s.handleStored)

	// Probes (no auth required)
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /ready", s.handleReady)

	handler := s.authMiddleware(corsMiddleware(mux, corsOrigin))

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      handler,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 60 * time.Second,
	}

	return s
}

func (s *Server) Start() error {
	fmt.Printf("[API] REST API server started on http://localhost%s\n", s.httpServer.Addr)
	if s.apiKey != "" {
		fmt.Println("[API] Authentication: enabled (Bearer token)")
	} else {
		fmt.Println("[API] Authentication: disabled (no API_KEY configured)")
	}
	return s.httpServer.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// --- middleware ---

func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.apiKey == "" || r.URL.Path == "/health" || r.URL.Path == "/ready" {
			next.ServeHTTP(w, r)
			return
		}

		auth := r.Header.Get("Authorization")
		if auth == "" {
			writeError(w, http.StatusUnauthorized, "missing Authorization header")
			return
		}

		token := strings.TrimPrefix(auth, "Bearer ")
		if token == auth || token != s.apiKey {
			writeError(w, http.StatusUnauthorized, "invalid API key")
			return
		}

		next.ServeHTTP(w, r)
	})
}

func corsMiddleware(next http.Handler, allowOrigin string) http.Handler {
	if allowOrigin == "" {
		allowOrigin = "*"
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", allowOrigin)
		w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// --- validation helpers ---

func validateDate(date string) bool {
	if !dateRegexp.MatchString(date) {
		return false
	}
	_, err := time.Parse("2006-01-02", date)
	return err == nil
}

func validateSymbol(symbol string) bool {
	return symbolRegexp.MatchString(strings.TrimSpace(symbol))
}

func parseDate(s string) (time.Time, bool) {
	if !validateDate(s) {
		return time.Time{}, false
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, false
	}
	return t.UTC(), true
}

// --- response helpers ---

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
