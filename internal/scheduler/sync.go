// Package scheduler keeps a configured watchlist of symbols fresh by
// running a latest-price sync for each on a fixed interval.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/fsp-labs/price-fetcher/internal/models"
)

// Syncer is the subset of the sync service the scheduler drives.
type Syncer interface {
	Latest(ctx context.Context, symbol string) (models.PricePoint, error)
}

type Config struct {
	Symbols  []string
	Interval time.Duration // e.g. 1*time.Hour
	Timeout  time.Duration // per full watchlist pass
}

type WatchScheduler struct {
	svc Syncer
	cfg Config

	mu      sync.Mutex
	running bool
	stopCh  chan struct{}
}

func NewWatchScheduler(svc Syncer, cfg Config) *WatchScheduler {
	if cfg.Interval <= 0 {
		cfg.Interval = 1 * time.Hour
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 2 * time.Minute
	}
	return &WatchScheduler{svc: svc, cfg: cfg}
}

func (s *WatchScheduler) Start() {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		fmt.Println("[SCHEDULER] Already running")
		return
	}
	s.running = true
	s.stopCh = make(chan struct{})
	s.mu.Unlock()

	// Initial pass on startup (fire-and-forget)
	go s.runPass()

	go func() {
		ticker := time.NewTicker(s.cfg.Interval)
		defer ticker.Stop()
		for {
			select {
			case <-s.stopCh:
				return
			case <-ticker.C:
				s.runPass()
			}
		}
	}()

	fmt.Printf("[SCHEDULER] Started (%d symbols, every %s)\n", len(s.cfg.Symbols), s.cfg.Interval)
}

func (s *WatchScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.running {
		return
	}
	close(s.stopCh)
	s.running = false
	fmt.Println("[SCHEDULER] Stopped")
}

func (s *WatchScheduler) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// SyncNow runs one watchlist pass outside the normal schedule.
func (s *WatchScheduler) SyncNow(ctx context.Context) {
	fmt.Println("[SCHEDULER] Manual watchlist sync triggered")
	s.syncAll(ctx)
}

func (s *WatchScheduler) runPass() {
	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.Timeout)
	defer cancel()
	s.syncAll(ctx)
}

func (s *WatchScheduler) syncAll(ctx context.Context) {
	for _, symbol := range s.cfg.Symbols {
		p, err := s.svc.Latest(ctx, symbol)
		if err != nil {
			fmt.Printf("[SCHEDULER] Latest sync failed for %s: %v\n", symbol, err)
			continue
		}
		fmt.Printf("[SCHEDULER] Synced %s: %s = %s\n",
			p.Symbol, p.Date.Format("2006-01-02"), p.Close.StringFixed(2))
	}
}
