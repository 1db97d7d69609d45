package api

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestAuthMiddleware_NoKeyConfigured(t *testing.T) {
	s := &Server{apiKey: ""}
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	handler := s.authMiddleware(inner)

	req := httptest.NewRequest(http.MethodGet, "/v1/prices/latest/AAPL", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200 when no API key configured, got %d", rr.Code)
	}
}

func TestAuthMiddleware_ProbeBypass(t *testing.T) {
	s := &Server{apiKey: "secret123"}
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	handler := s.authMiddleware(inner)

	for _, path := range []string{"/health", "/ready"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)

		if rr.Code != http.StatusOK {
			t.Fatalf("expected 200 for %s without auth, got %d", path, rr.Code)
		}
	}
}

func TestAuthMiddleware_MissingHeader(t *testing.T) {
	s := &Server{apiKey: "secret123"}
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	handler := s.authMiddleware(inner)

	req := httptest.NewRequest(http.MethodGet, "/v1/prices/latest/AAPL", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rr.Code)
	}
}

func TestAuthMiddleware_WrongKey(t *testing.T) {
	s := &Server{apiKey: "secret123"}
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	handler := s.authMiddleware(inner)

	req := httptest.NewRequest(http.MethodGet, "/v1/prices/latest/AAPL", nil)
	req.Header.Set("Authorization", "Bearer wrong_key")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rr.Code)
	}
}

func TestAuthMiddleware_CorrectKey(t *testing.T) {
	s := &Server{apiKey: "secret123"}
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	handler := s.authMiddleware(inner)

	req := httptest.NewRequest(http.MethodGet, "/v1/prices/latest/AAPL", nil)
	req.Header.Set("Authorization", "Bearer secret123")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
}

func TestAuthMiddleware_MalformedBearer(t *testing.T) {
	s := &Server{apiKey: "secret123"}
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	handler := s.authMiddleware(inner)

	req := httptest.NewRequest(http.MethodGet, "/v1/prices/latest/AAPL", nil)
	req.Header.Set("Authorization", "Basic secret123")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for non-Bearer auth, got %d", rr.Code)
	}
}

func TestValidateDate(t *testing.T) {
	valid := []string{"2024-01-15", "2025-12-31", "2020-02-29"}
	for _, d := range valid {
		if !validateDate(d) {
			t.Fatalf("expected %q to be valid", d)
		}
	}

	invalid := []string{
		"", "2024", "01-15-2024", "2024/01/15",
		"abcd-ef-gh", "2024-13-01", "2024-01-32",
		"2024-1-5", "20240115",
	}
	for _, d := range invalid {
		if validateDate(d) {
			t.Fatalf("expected %q to be invalid", d)
		}
	}
}

func TestValidateSymbol(t *testing.T) {
	valid := []string{"AAPL", "msft", "BRK-B", "^GSPC", "EURUSD=X", "7203.T", " aapl "}
	for _, s := range valid {
		if !validateSymbol(s) {
			t.Fatalf("expected %q to be valid", s)
		}
	}

	invalid := []string{"", "   ", "TOOLONGSYMBOL", "AA PL", "A/B", "sym$bol"}
	for _, s := range invalid {
		if validateSymbol(s) {
			t.Fatalf("expected %q to be invalid", s)
		}
	}
}

func TestParseDate(t *testing.T) {
	d, ok := parseDate("2024-03-15")
	if !ok {
		t.Fatal("expected 2024-03-15 to parse")
	}
	if got := d.Format("2006-01-02"); got != "2024-03-15" {
		t.Fatalf("parsed %s", got)
	}

	if _, ok := parseDate("2024-03-45"); ok {
		t.Fatal("expected out-of-range day to be rejected")
	}
	if _, ok := parseDate(""); ok {
		t.Fatal("expected empty date to be rejected")
	}
}
