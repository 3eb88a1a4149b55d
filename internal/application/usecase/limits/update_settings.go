// Package limits contains the monthly spending limit monitor and its
// settings use cases.
package limits

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/BlvckBrry/finance-tracker/internal/application/adapter"
	"github.com/BlvckBrry/finance-tracker/internal/domain/entity"
	domainerror "github.com/BlvckBrry/finance-tracker/internal/domain/error"
)

// UpdateSettingsInput represents the input for spending settings updates.
// A nil SpendingLimit clears the limit; a nil WarningThreshold keeps the
// default.
type UpdateSettingsInput struct {
	UserID           uuid.UUID
	SpendingLimit    *decimal.Decimal
	WarningThreshold *decimal.Decimal
}

// UpdateSettingsOutput represents the output of spending settings updates.
type UpdateSettingsOutput struct {
	SpendingLimit    *decimal.Decimal
	WarningThreshold decimal.Decimal
}

// UpdateSettingsUseCase updates the user's spending limit configuration.
type UpdateSettingsUseCase struct {
	userRepo adapter.UserRepository
}

// NewUpdateSettingsUseCase creates a new UpdateSettingsUseCase instance.
func NewUpdateSettingsUseCase(userRepo adapter.UserRepository) *UpdateSettingsUseCase {
	return &UpdateSettingsUseCase{userRepo: userRepo}
}

// Execute performs the settings update.
func (uc *UpdateSettingsUseCase) Execute(ctx context.Context, input UpdateSettingsInput) (*UpdateSettingsOutput, error) {
	if input.SpendingLimit != nil && !input.SpendingLimit.IsPositive() {
		return nil, domainerror.NewLedgerError(
			domainerror.ErrCodeInvalidAmount,
			"spending limit must be positive",
			domainerror.ErrInvalidAmount,
		)
	}

	threshold := entity.DefaultWarningThreshold
	if input.WarningThreshold != nil {
		t := *input.WarningThreshold
		if t.IsNegative() || t.GreaterThan(decimal.NewFromInt(100)) {
			return nil, domainerror.NewLedgerError(
				domainerror.ErrCodeInvalidAmount,
				"warning threshold must be between 0 and 100",
				domainerror.ErrInvalidAmount,
			)
		}
		threshold = t
	}

	settings := adapter.SpendingSettings{
		SpendingLimit:    input.SpendingLimit,
		WarningThreshold: threshold,
	}
	if err := uc.userRepo.UpdateSpendingSettings(ctx, input.UserID, settings); err != nil {
		return nil, fmt.Errorf("failed to update spending settings: %w", err)
	}

	return &UpdateSettingsOutput{
		SpendingLimit:    input.SpendingLimit,
		WarningThreshold: threshold,
	}, nil
}
