// Package ledger contains the balance-coupled transaction use cases.
package ledger

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// LimitMonitor checks an owner's monthly spending against their configured
// limit. The ledger calls it after an expense has been committed; failures
// are logged and never surfaced to the caller.
type LimitMonitor interface {
	Check(ctx context.Context, userID uuid.UUID) error
}

const monitorTimeout = 10 * time.Second

// notifyMonitor runs the limit check on its own goroutine with a fresh
// context, so the check outlives the originating request.
func notifyMonitor(monitor LimitMonitor, userID uuid.UUID) {
	if monitor == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), monitorTimeout)
		defer cancel()
		if err := monitor.Check(ctx, userID); err != nil {
			slog.Error("Spending limit check failed",
				"userId", userID,
				"error", err)
		}
	}()
}
