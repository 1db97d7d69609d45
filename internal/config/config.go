package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// maxSymbolLen matches the symbol column width in the price table.
const maxSymbolLen = 10

type Config struct {
	// Database
	DBHost     string
	DBPort     int
	DBName     string
	DBUser     string
	DBPassword string

	// API
	APIPort         int
	APIKey          string
	CORSAllowOrigin string

	// Watchlist sync scheduler
	WatchSymbols     []string
	SyncIntervalMins int

	// Alerting
	WebhookURL  string
	ServiceName string
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		// Database
		DBHost:     envStr("POSTGRES_HOST", "localhost"),
		DBPort:     envInt("POSTGRES_PORT", 5432),
		DBName:     envStr("POSTGRES_DB", "fsp"),
		DBUser:     envStr("POSTGRES_USER", "fsp"),
		DBPassword: envStr("POSTGRES_PASSWORD", "fsp"),

		// API
		APIPort:         envInt("API_PORT", 8000),
		APIKey:          envStr("API_KEY", ""),
		CORSAllowOrigin: envStr("CORS_ALLOW_ORIGIN", "*"),

		// Scheduler
		WatchSymbols:     envList("WATCH_SYMBOLS"),
		SyncIntervalMins: envInt("SYNC_INTERVAL_MINUTES", 60),

		// Alerting
		WebhookURL:  envStr("WEBHOOK_URL", ""),
		ServiceName: envStr("SERVICE_NAME", "PriceFetcher"),
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	var errs []string

	if c.DBUser == "" {
		errs = append(errs, "POSTGRES_USER is required")
	}
	if c.DBName == "" {
		errs = append(errs, "POSTGRES_DB is required")
	}
	if c.APIPort <= 0 || c.APIPort > 65535 {
		errs = append(errs, fmt.Sprintf("API_PORT %d is out of range", c.APIPort))
	}
	if c.SyncIntervalMins <= 0 {
		errs = append(errs, "SYNC_INTERVAL_MINUTES must be positive")
	}
	for _, sym := range c.WatchSymbols {
		// Same bound as the price table's symbol column.
		if len(sym) > maxSymbolLen {
			errs = append(errs, fmt.Sprintf("WATCH_SYMBOLS entry %q exceeds %d characters", sym, maxSymbolLen))
		}
	}

	if c.APIKey == "" {
		fmt.Println("[WARN] API_KEY not set — REST API has no authentication")
	}
	if c.WebhookURL == "" {
		fmt.Println("[WARN] WEBHOOK_URL not set — integrity alerts log to console only")
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  %s", strings.Join(errs, "\n  "))
	}
	return nil
}

func (c *Config) Print() {
	fmt.Println("=== Price Fetcher Configuration ===")
	fmt.Printf("Database: %s:%d/%s (user %s)\n", c.DBHost, c.DBPort, c.DBName, c.DBUser)
	fmt.Printf("API Port: %d\n", c.APIPort)
	fmt.Printf("Auth: %s\n", boolLabel(c.APIKey != "", "enabled", "disabled"))
	if len(c.WatchSymbols) > 0 {
		fmt.Printf("Watchlist: %s (every %d min)\n", strings.Join(c.WatchSymbols, ", "), c.SyncIntervalMins)
	} else {
		fmt.Println("Watchlist: none")
	}
	fmt.Printf("Webhook alerts: %s\n", boolLabel(c.WebhookURL != "", "configured", "not set"))
	fmt.Println("===================================")
}

func (c *Config) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName)
}

// --- helpers ---

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envList(key string) []string {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	var out []string
	for _, s := range strings.Split(v, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func boolLabel(cond bool, ifTrue, ifFalse string) string {
	if cond {
		return ifTrue
	}
	return ifFalse
}
