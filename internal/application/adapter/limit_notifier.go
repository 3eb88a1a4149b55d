// Package adapter defines interfaces that will be implemented in the integration layer.
package adapter

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/BlvckBrry/finance-tracker/internal/domain/entity"
)

// LimitNotification carries the figures included in a spending-limit notice.
type LimitNotification struct {
	User          *entity.User
	TotalSpending decimal.Decimal
	SpendingLimit decimal.Decimal
}

// LimitNotifier delivers spending-limit notifications. Delivery is
// fire-and-forget from the ledger's point of view: failures are logged by the
// caller and never surface to the triggering write.
type LimitNotifier interface {
	// NotifyWarning sends the threshold-warning notice.
	NotifyWarning(ctx context.Context, n LimitNotification) error

	// NotifyExceeded sends the limit-exceeded notice.
	NotifyExceeded(ctx context.Context, n LimitNotification) error
}
