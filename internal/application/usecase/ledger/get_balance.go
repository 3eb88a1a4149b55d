// Package ledger contains the balance-coupled transaction use cases.
package ledger

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/BlvckBrry/finance-tracker/internal/application/adapter"
	"github.com/BlvckBrry/finance-tracker/internal/domain/entity"
)

const recentTransactionCount = 5

// GetBalanceInput represents the input for balance retrieval.
type GetBalanceInput struct {
	UserID uuid.UUID
}

// GetBalanceOutput represents the output of balance retrieval.
type GetBalanceOutput struct {
	Balance            *entity.Balance
	RecentTransactions []*entity.Transaction
}

// GetBalanceUseCase returns the owner's balance, creating a zero row on
// first access, together with the most recent transactions.
type GetBalanceUseCase struct {
	ledgerRepo      adapter.LedgerRepository
	transactionRepo adapter.TransactionRepository
}

// NewGetBalanceUseCase creates a new GetBalanceUseCase instance.
func NewGetBalanceUseCase(
	ledgerRepo adapter.LedgerRepository,
	transactionRepo adapter.TransactionRepository,
) *GetBalanceUseCase {
	return &GetBalanceUseCase{
		ledgerRepo:      ledgerRepo,
		transactionRepo: transactionRepo,
	}
}

// Execute performs the balance retrieval.
func (uc *GetBalanceUseCase) Execute(ctx context.Context, input GetBalanceInput) (*GetBalanceOutput, error) {
	balance, err := uc.ledgerRepo.GetOrCreateBalance(ctx, input.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to get balance: %w", err)
	}

	recent, err := uc.transactionRepo.FindRecent(ctx, input.UserID, recentTransactionCount)
	if err != nil {
		return nil, fmt.Errorf("failed to load recent transactions: %w", err)
	}

	return &GetBalanceOutput{Balance: balance, RecentTransactions: recent}, nil
}
