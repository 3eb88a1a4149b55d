package ledger

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/BlvckBrry/finance-tracker/internal/application/adapter"
	"github.com/BlvckBrry/finance-tracker/internal/domain/entity"
)

// GetTransactionInput represents the input for reading a single transaction.
type GetTransactionInput struct {
	TransactionID uuid.UUID
	UserID        uuid.UUID
}

// GetTransactionOutput represents the output of reading a single transaction.
type GetTransactionOutput struct {
	Transaction *entity.Transaction
	Category    *entity.Category
}

// GetTransactionUseCase handles reading a single owned transaction.
type GetTransactionUseCase struct {
	transactionRepo adapter.TransactionRepository
	categoryRepo    adapter.CategoryRepository
}

// NewGetTransactionUseCase creates a new GetTransactionUseCase instance.
func NewGetTransactionUseCase(
	transactionRepo adapter.TransactionRepository,
	categoryRepo adapter.CategoryRepository,
) *GetTransactionUseCase {
	return &GetTransactionUseCase{
		transactionRepo: transactionRepo,
		categoryRepo:    categoryRepo,
	}
}

// Execute performs the transaction read.
func (uc *GetTransactionUseCase) Execute(ctx context.Context, input GetTransactionInput) (*GetTransactionOutput, error) {
	txn, err := findOwnedTransaction(ctx, uc.transactionRepo, input.TransactionID, input.UserID)
	if err != nil {
		return nil, err
	}

	category, err := uc.categoryRepo.FindByID(ctx, txn.CategoryID)
	if err != nil {
		return nil, fmt.Errorf("failed to load category: %w", err)
	}

	return &GetTransactionOutput{Transaction: txn, Category: category}, nil
}
