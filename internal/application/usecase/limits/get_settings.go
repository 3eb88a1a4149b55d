// Package limits contains the monthly spending limit monitor and its
// settings use cases.
package limits

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/BlvckBrry/finance-tracker/internal/application/adapter"
)

// GetSettingsInput represents the input for spending settings retrieval.
type GetSettingsInput struct {
	UserID uuid.UUID
}

// GetSettingsOutput represents the output of spending settings retrieval.
// CurrentSpending is this month's total, so clients can render a progress
// figure without a second request.
type GetSettingsOutput struct {
	SpendingLimit    *decimal.Decimal
	WarningThreshold decimal.Decimal
	CurrentSpending  decimal.Decimal
}

// GetSettingsUseCase returns the user's spending limit configuration.
type GetSettingsUseCase struct {
	userRepo adapter.UserRepository
	monitor  *Monitor
}

// NewGetSettingsUseCase creates a new GetSettingsUseCase instance.
func NewGetSettingsUseCase(userRepo adapter.UserRepository, monitor *Monitor) *GetSettingsUseCase {
	return &GetSettingsUseCase{userRepo: userRepo, monitor: monitor}
}

// Execute performs the settings retrieval.
func (uc *GetSettingsUseCase) Execute(ctx context.Context, input GetSettingsInput) (*GetSettingsOutput, error) {
	user, err := uc.userRepo.FindByID(ctx, input.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	current, err := uc.monitor.CalculateMonthlySpending(ctx, input.UserID)
	if err != nil {
		return nil, err
	}

	return &GetSettingsOutput{
		SpendingLimit:    user.SpendingLimit,
		WarningThreshold: user.WarningThreshold,
		CurrentSpending:  current,
	}, nil
}
