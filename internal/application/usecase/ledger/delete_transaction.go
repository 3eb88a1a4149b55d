// Package ledger contains the balance-coupled transaction use cases.
package ledger

import (
	"context"

	"github.com/google/uuid"

	"github.com/BlvckBrry/finance-tracker/internal/application/adapter"
	"github.com/BlvckBrry/finance-tracker/internal/application/usecase/currency"
	"github.com/BlvckBrry/finance-tracker/internal/domain/entity"
)

// DeleteTransactionInput represents the input for transaction deletion.
type DeleteTransactionInput struct {
	TransactionID uuid.UUID
	UserID        uuid.UUID
}

// DeleteTransactionOutput represents the output of transaction deletion.
type DeleteTransactionOutput struct {
	Balance *entity.Balance
}

// DeleteTransactionUseCase handles transaction deletion. The reverted effect
// is valued at current rates and may drive the balance negative; deletions
// are never solvency-checked.
type DeleteTransactionUseCase struct {
	ledgerRepo      adapter.LedgerRepository
	transactionRepo adapter.TransactionRepository
	converter       *currency.Converter
}

// NewDeleteTransactionUseCase creates a new DeleteTransactionUseCase instance.
func NewDeleteTransactionUseCase(
	ledgerRepo adapter.LedgerRepository,
	transactionRepo adapter.TransactionRepository,
	converter *currency.Converter,
) *DeleteTransactionUseCase {
	return &DeleteTransactionUseCase{
		ledgerRepo:      ledgerRepo,
		transactionRepo: transactionRepo,
		converter:       converter,
	}
}

// Execute performs the transaction deletion.
func (uc *DeleteTransactionUseCase) Execute(ctx context.Context, input DeleteTransactionInput) (*DeleteTransactionOutput, error) {
	txn, err := findOwnedTransaction(ctx, uc.transactionRepo, input.TransactionID, input.UserID)
	if err != nil {
		return nil, err
	}

	converted, err := uc.converter.ConvertToBase(ctx, txn.Amount, txn.CurrencyCode)
	if err != nil {
		return nil, err
	}
	revert := converted.Mul(txn.Sign()).Neg()

	balance, err := uc.ledgerRepo.DeleteApplied(ctx, txn, revert)
	if err != nil {
		return nil, err
	}

	return &DeleteTransactionOutput{Balance: balance}, nil
}
