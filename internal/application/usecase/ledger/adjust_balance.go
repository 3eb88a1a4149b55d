// Package ledger contains the balance-coupled transaction use cases.
package ledger

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/BlvckBrry/finance-tracker/internal/domain/entity"
	domainerror "github.com/BlvckBrry/finance-tracker/internal/domain/error"
)

// DefaultAdjustmentTitle is used when no reason is supplied.
const DefaultAdjustmentTitle = "Manual balance adjustment"

// AdjustBalanceInput represents the input for a manual balance adjustment.
// Amount is signed in the base currency; positive credits, negative debits.
type AdjustBalanceInput struct {
	UserID uuid.UUID
	Amount decimal.Decimal
	Reason string
}

// AdjustBalanceOutput represents the output of a manual balance adjustment.
type AdjustBalanceOutput struct {
	Transaction *entity.Transaction
	Balance     *entity.Balance
}

// AdjustBalanceUseCase synthesizes a transaction under the reserved
// adjustment category and routes it through the normal create path, so the
// audit trail and the solvency rules stay uniform.
type AdjustBalanceUseCase struct {
	create *CreateTransactionUseCase
}

// NewAdjustBalanceUseCase creates a new AdjustBalanceUseCase instance.
func NewAdjustBalanceUseCase(create *CreateTransactionUseCase) *AdjustBalanceUseCase {
	return &AdjustBalanceUseCase{create: create}
}

// Execute performs the balance adjustment.
func (uc *AdjustBalanceUseCase) Execute(ctx context.Context, input AdjustBalanceInput) (*AdjustBalanceOutput, error) {
	if input.Amount.IsZero() {
		return nil, domainerror.NewLedgerError(
			domainerror.ErrCodeZeroAdjustment,
			"adjustment amount must not be zero",
			domainerror.ErrZeroAdjustment,
		)
	}

	txnType := entity.TransactionTypeIncome
	if input.Amount.IsNegative() {
		txnType = entity.TransactionTypeExpense
	}
	title := input.Reason
	if title == "" {
		title = DefaultAdjustmentTitle
	}

	out, err := uc.create.Execute(ctx, CreateTransactionInput{
		UserID:       input.UserID,
		Type:         txnType,
		Amount:       input.Amount.Abs(),
		CategoryName: entity.AdjustmentCategoryName,
		Title:        title,
	})
	if err != nil {
		return nil, err
	}

	return &AdjustBalanceOutput{Transaction: out.Transaction, Balance: out.Balance}, nil
}
