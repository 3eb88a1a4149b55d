// Package ledger contains the balance-coupled transaction use cases.
package ledger

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/BlvckBrry/finance-tracker/internal/application/adapter"
	"github.com/BlvckBrry/finance-tracker/internal/domain/entity"
)

// ResetAccountInput represents the input for an account reset.
type ResetAccountInput struct {
	UserID uuid.UUID
}

// ResetAccountOutput represents the output of an account reset.
type ResetAccountOutput struct {
	Balance *entity.Balance
}

// ResetAccountUseCase wipes all of the owner's transactions and categories
// and forces the balance to zero. Resetting an already-empty account is a
// no-op that still succeeds.
type ResetAccountUseCase struct {
	ledgerRepo adapter.LedgerRepository
}

// NewResetAccountUseCase creates a new ResetAccountUseCase instance.
func NewResetAccountUseCase(ledgerRepo adapter.LedgerRepository) *ResetAccountUseCase {
	return &ResetAccountUseCase{ledgerRepo: ledgerRepo}
}

// Execute performs the account reset.
func (uc *ResetAccountUseCase) Execute(ctx context.Context, input ResetAccountInput) (*ResetAccountOutput, error) {
	balance, err := uc.ledgerRepo.ResetOwner(ctx, input.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to reset account: %w", err)
	}
	return &ResetAccountOutput{Balance: balance}, nil
}
