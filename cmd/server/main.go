package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fsp-labs/price-fetcher/internal/api"
	"github.com/fsp-labs/price-fetcher/internal/config"
	"github.com/fsp-labs/price-fetcher/internal/db"
	"github.com/fsp-labs/price-fetcher/internal/notifications"
	"github.com/fsp-labs/price-fetcher/internal/quotes"
	"github.com/fsp-labs/price-fetcher/internal/repository"
	"github.com/fsp-labs/price-fetcher/internal/scheduler"
	"github.com/fsp-labs/price-fetcher/internal/sync"
)

const banner = `
╔══════════════════════════════════════╗
║        Price Fetcher v1.0            ║
║                                      ║
╚══════════════════════════════════════╝
`

func main() {
	fmt.Print(banner)

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load error: %v\n", err)
		os.Exit(1)
	}

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}

	cfg.Print()

	// Database. Connectivity failures at startup are logged, not fatal:
	// the service starts degraded and /ready reflects store health.
	fmt.Printf("\n[DB] Connecting to %s:%d/%s ...\n", cfg.DBHost, cfg.DBPort, cfg.DBName)
	pool, err := db.Connect(cfg.DSN())
	if err != nil {
		fmt.Fprintf(os.Stderr, "[DB] Invalid configuration: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		pool.Close()
		fmt.Println("[DB] Connection pool closed")
	}()

	if err := db.TestConnection(pool); err != nil {
		fmt.Fprintf(os.Stderr, "[DB] Connection FAILED, starting degraded: %v\n", err)
	} else {
		bootCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		if err := db.Bootstrap(bootCtx, pool); err != nil {
			fmt.Fprintf(os.Stderr, "[DB] Schema bootstrap failed: %v\n", err)
		} else {
			fmt.Println("[DB] Schema OK (price table, unique index on symbol+date)")
		}
		cancel()
	}

	// Pipeline wiring
	priceRepo := repository.NewPriceRepo(pool)
	source := quotes.NewClient()
	alert := notifications.NewSender(cfg.WebhookURL, cfg.ServiceName)
	svc := sync.NewService(source, priceRepo, alert)

	// Graceful shutdown context
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 1. API server
	srv := api.NewServer(pool, svc, cfg.APIPort, cfg.APIKey, cfg.CORSAllowOrigin)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			fmt.Fprintf(os.Stderr, "[API] Server error: %v\n", err)
			os.Exit(1)
		}
	}()

	// 2. Watchlist scheduler
	var sched *scheduler.WatchScheduler
	if len(cfg.WatchSymbols) > 0 {
		sched = scheduler.NewWatchScheduler(svc, scheduler.Config{
			Symbols:  cfg.WatchSymbols,
			Interval: time.Duration(cfg.SyncIntervalMins) * time.Minute,
		})
		sched.Start()
	} else {
		fmt.Println("[SCHEDULER] Skipped - no WATCH_SYMBOLS configured")
	}

	fmt.Println("\nAll services started successfully")

	// Wait for shutdown signal
	<-ctx.Done()
	fmt.Println("\nShutting down gracefully...")

	if sched != nil {
		sched.Stop()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		fmt.Fprintf(os.Stderr, "[API] Shutdown error: %v\n", err)
	}
	fmt.Println("[API] Server closed")
	fmt.Println("Shutdown complete")
}
