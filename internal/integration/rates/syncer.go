// Package rates fetches exchange rates from the external provider.
package rates

import (
	"context"
	"log/slog"
	"time"

	"github.com/BlvckBrry/finance-tracker/internal/application/usecase/currency"
)

// Syncer periodically refreshes the currency rate table. A failed refresh
// keeps serving the previous table.
type Syncer struct {
	sync     *currency.SyncRatesUseCase
	interval time.Duration
}

// NewSyncer creates a new Syncer instance.
func NewSyncer(sync *currency.SyncRatesUseCase, interval time.Duration) *Syncer {
	return &Syncer{
		sync:     sync,
		interval: interval,
	}
}

// Start runs an immediate sync and then refreshes on the interval. It blocks
// until the context is cancelled.
func (s *Syncer) Start(ctx context.Context) {
	slog.Info("Rate syncer started", "interval", s.interval)

	s.runOnce(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("Rate syncer shutting down")
			return
		case <-ticker.C:
			s.runOnce(ctx)
		}
	}
}

func (s *Syncer) runOnce(ctx context.Context) {
	out, err := s.sync.Execute(ctx)
	if err != nil {
		slog.Error("Rate sync failed, keeping previous table", "error", err)
		return
	}
	slog.Info("Rate table refreshed", "updated", out.Updated, "skipped", out.Skipped)
}
