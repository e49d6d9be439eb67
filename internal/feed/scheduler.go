package feed

import (
	"context"
	"log/slog"
	"time"
)

// Scheduler refreshes all subscribed feeds on a fixed interval.
type Scheduler struct {
	fetcher  *Fetcher
	interval time.Duration
	log      *slog.Logger
}

func NewScheduler(fetcher *Fetcher, interval time.Duration, log *slog.Logger) *Scheduler {
	if interval <= 0 {
		interval = 30 * time.Minute
	}
	if log == nil {
		log = slog.Default()
	}
	return &Scheduler{fetcher: fetcher, interval: interval, log: log}
}

// Run starts the refresh loop. It blocks until ctx is cancelled.
func (s *Scheduler) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.log.Info("Feed scheduler started", "interval", s.interval.String())

	// Run once immediately at startup
	s.refresh(ctx)

	for {
		select {
		case <-ctx.Done():
			s.log.Info("Feed scheduler stopped")
			return
		case <-ticker.C:
			s.refresh(ctx)
		}
	}
}

func (s *Scheduler) refresh(ctx context.Context) {
	added, err := s.fetcher.RefreshAll(ctx)
	if err != nil {
		s.log.Error("Scheduled feed refresh failed", "error", err)
		return
	}
	if added > 0 {
		s.log.Info("Feed refresh complete", "new_entries", added)
	}
}
