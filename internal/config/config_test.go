package config

import (
	"strings"
	"testing"
)

func validConfig() *Config {
	return &Config{
		DBHost:           "localhost",
		DBPort:           5432,
		DBName:           "fsp",
		DBUser:           "fsp",
		DBPassword:       "fsp",
		APIPort:          8000,
		SyncIntervalMins: 60,
	}
}

func TestValidate(t *testing.T) {
	if err := validConfig().Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}

func TestValidate_WatchSymbolTooLong(t *testing.T) {
	cfg := validConfig()
	cfg.WatchSymbols = []string{"AAPL", "TOOLONGSYMBOL"}

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error for over-long watchlist symbol")
	}
	if !strings.Contains(err.Error(), "TOOLONGSYMBOL") {
		t.Fatalf("error does not name the offending symbol: %v", err)
	}
}

func TestValidate_WatchSymbolAtLimit(t *testing.T) {
	cfg := validConfig()
	cfg.WatchSymbols = []string{"ABCDEFGHIJ"}

	if err := cfg.Validate(); err != nil {
		t.Fatalf("ten-character symbol must pass: %v", err)
	}
}

func TestValidate_BadPort(t *testing.T) {
	cfg := validConfig()
	cfg.APIPort = 70000

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for out-of-range port")
	}
}

func TestEnvList(t *testing.T) {
	t.Setenv("TEST_LIST", " aapl , MSFT ,,GOOG ")
	got := envList("TEST_LIST")
	want := []string{"aapl", "MSFT", "GOOG"}
	if len(got) != len(want) {
		t.Fatalf("envList = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("envList[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}
