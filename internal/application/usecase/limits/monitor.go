// Package limits contains the monthly spending limit monitor and its
// settings use cases.
package limits

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/BlvckBrry/finance-tracker/internal/application/adapter"
	"github.com/BlvckBrry/finance-tracker/internal/application/usecase/currency"
)

// DefaultWarningCooldown is the minimum interval between two warning
// notifications for the same user. Exceeded notifications are never
// throttled.
const DefaultWarningCooldown = 24 * time.Hour

// Monitor evaluates a user's monthly spending against their configured
// limit. It runs after the triggering expense has been committed, so the
// recomputed total already includes it and nothing is counted twice.
type Monitor struct {
	userRepo        adapter.UserRepository
	transactionRepo adapter.TransactionRepository
	converter       *currency.Converter
	notifier        adapter.LimitNotifier
	cooldown        time.Duration
	now             func() time.Time
}

// NewMonitor creates a new Monitor instance.
func NewMonitor(
	userRepo adapter.UserRepository,
	transactionRepo adapter.TransactionRepository,
	converter *currency.Converter,
	notifier adapter.LimitNotifier,
	cooldown time.Duration,
) *Monitor {
	if cooldown <= 0 {
		cooldown = DefaultWarningCooldown
	}
	return &Monitor{
		userRepo:        userRepo,
		transactionRepo: transactionRepo,
		converter:       converter,
		notifier:        notifier,
		cooldown:        cooldown,
		now:             time.Now,
	}
}

// CalculateMonthlySpending sums the user's expenses since the start of the
// current calendar month, each converted to the base currency at current
// rates. It is a pure query with no side effects.
func (m *Monitor) CalculateMonthlySpending(ctx context.Context, userID uuid.UUID) (decimal.Decimal, error) {
	now := m.now().UTC()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)

	expenses, err := m.transactionRepo.FindExpensesSince(ctx, userID, monthStart)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to load monthly expenses: %w", err)
	}

	total := decimal.Zero
	for _, txn := range expenses {
		converted, err := m.converter.ConvertToBase(ctx, txn.Amount, txn.CurrencyCode)
		if err != nil {
			return decimal.Zero, fmt.Errorf("failed to convert expense %s: %w", txn.ID, err)
		}
		total = total.Add(converted)
	}
	return total, nil
}

// Check recomputes the user's monthly spending and sends a notification if
// the limit is exceeded or the warning threshold is crossed. Warnings are
// suppressed within the cooldown window; exceeded notices always go out.
func (m *Monitor) Check(ctx context.Context, userID uuid.UUID) error {
	user, err := m.userRepo.FindByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to load user: %w", err)
	}
	if !user.HasSpendingLimit() {
		return nil
	}

	total, err := m.CalculateMonthlySpending(ctx, userID)
	if err != nil {
		return err
	}

	notification := adapter.LimitNotification{
		User:          user,
		TotalSpending: total,
		SpendingLimit: *user.SpendingLimit,
	}

	if total.GreaterThanOrEqual(*user.SpendingLimit) {
		if err := m.notifier.NotifyExceeded(ctx, notification); err != nil {
			return fmt.Errorf("failed to send exceeded notification: %w", err)
		}
		slog.Info("Spending limit exceeded notification sent",
			"userId", userID,
			"totalSpending", total.String(),
			"spendingLimit", user.SpendingLimit.String())
		return nil
	}

	if total.LessThan(user.WarningAmount()) {
		return nil
	}

	now := m.now().UTC()
	if user.LastWarningSentAt != nil && now.Sub(*user.LastWarningSentAt) < m.cooldown {
		return nil
	}

	if err := m.notifier.NotifyWarning(ctx, notification); err != nil {
		return fmt.Errorf("failed to send warning notification: %w", err)
	}
	if err := m.userRepo.SetLastWarningSentAt(ctx, userID, now); err != nil {
		return fmt.Errorf("failed to record warning timestamp: %w", err)
	}
	slog.Info("Spending limit warning sent",
		"userId", userID,
		"totalSpending", total.String(),
		"warningAmount", user.WarningAmount().String())
	return nil
}
