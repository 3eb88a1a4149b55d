// Package email provides email sending functionality.
package email

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/BlvckBrry/finance-tracker/internal/application/adapter"
	"github.com/BlvckBrry/finance-tracker/internal/domain/entity"
	domainerror "github.com/BlvckBrry/finance-tracker/internal/domain/error"
)

// Service queues spending-limit notification emails. Delivery happens
// asynchronously in the worker, so queueing is the only failure mode the
// ledger can ever observe.
type Service struct {
	queue        adapter.EmailQueueRepository
	baseCurrency string
}

// NewService creates a new email service.
func NewService(queue adapter.EmailQueueRepository, baseCurrency string) *Service {
	return &Service{
		queue:        queue,
		baseCurrency: baseCurrency,
	}
}

// NotifyWarning queues the threshold-warning email.
func (s *Service) NotifyWarning(ctx context.Context, n adapter.LimitNotification) error {
	subject := "Spending limit warning - Finance Tracker"
	job := entity.NewEmailJob(
		entity.TemplateLimitWarning,
		n.User.Email,
		n.User.Username,
		subject,
		s.templateData(n),
	)

	if err := s.queue.Create(ctx, job); err != nil {
		return domainerror.NewEmailError(
			domainerror.ErrCodeEmailQueueFailed,
			"failed to queue limit warning email",
			err,
		)
	}
	return nil
}

// NotifyExceeded queues the limit-exceeded email.
func (s *Service) NotifyExceeded(ctx context.Context, n adapter.LimitNotification) error {
	subject := "Spending limit exceeded - Finance Tracker"
	job := entity.NewEmailJob(
		entity.TemplateLimitExceeded,
		n.User.Email,
		n.User.Username,
		subject,
		s.templateData(n),
	)

	if err := s.queue.Create(ctx, job); err != nil {
		return domainerror.NewEmailError(
			domainerror.ErrCodeEmailQueueFailed,
			"failed to queue limit exceeded email",
			err,
		)
	}
	return nil
}

func (s *Service) templateData(n adapter.LimitNotification) map[string]interface{} {
	return map[string]interface{}{
		"user_name":      n.User.Username,
		"total_spending": n.TotalSpending.StringFixed(2),
		"spending_limit": n.SpendingLimit.StringFixed(2),
		"currency":       s.baseCurrency,
		"percent_used":   fmt.Sprintf("%s%%", n.TotalSpending.Div(n.SpendingLimit).Mul(decimal.NewFromInt(100)).Round(0)),
	}
}

// Ensure Service implements adapter.LimitNotifier.
var _ adapter.LimitNotifier = (*Service)(nil)
