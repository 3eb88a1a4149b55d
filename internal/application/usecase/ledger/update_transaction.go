// Package ledger contains the balance-coupled transaction use cases.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/BlvckBrry/finance-tracker/internal/application/adapter"
	"github.com/BlvckBrry/finance-tracker/internal/application/usecase/currency"
	"github.com/BlvckBrry/finance-tracker/internal/domain/entity"
	domainerror "github.com/BlvckBrry/finance-tracker/internal/domain/error"
)

// UpdateTransactionInput represents the input for transaction updates.
// Nil pointer fields keep the current value.
type UpdateTransactionInput struct {
	TransactionID uuid.UUID
	UserID        uuid.UUID
	Type          *entity.TransactionType
	Amount        *decimal.Decimal
	CurrencyCode  *string
	CategoryName  *string
	Title         *string
}

// UpdateTransactionOutput represents the output of transaction updates.
type UpdateTransactionOutput struct {
	Transaction *entity.Transaction
	Balance     *entity.Balance
}

// UpdateTransactionUseCase handles transaction updates. The old effect is
// recomputed at current rates, not at the rates in force when the row was
// written, so the balance shift is the difference between two present-rate
// valuations.
type UpdateTransactionUseCase struct {
	ledgerRepo      adapter.LedgerRepository
	transactionRepo adapter.TransactionRepository
	categoryRepo    adapter.CategoryRepository
	converter       *currency.Converter
	monitor         LimitMonitor
}

// NewUpdateTransactionUseCase creates a new UpdateTransactionUseCase instance.
func NewUpdateTransactionUseCase(
	ledgerRepo adapter.LedgerRepository,
	transactionRepo adapter.TransactionRepository,
	categoryRepo adapter.CategoryRepository,
	converter *currency.Converter,
	monitor LimitMonitor,
) *UpdateTransactionUseCase {
	return &UpdateTransactionUseCase{
		ledgerRepo:      ledgerRepo,
		transactionRepo: transactionRepo,
		categoryRepo:    categoryRepo,
		converter:       converter,
		monitor:         monitor,
	}
}

// Execute performs the transaction update.
func (uc *UpdateTransactionUseCase) Execute(ctx context.Context, input UpdateTransactionInput) (*UpdateTransactionOutput, error) {
	txn, err := findOwnedTransaction(ctx, uc.transactionRepo, input.TransactionID, input.UserID)
	if err != nil {
		return nil, err
	}

	oldDelta, err := uc.signedEffect(ctx, txn)
	if err != nil {
		return nil, err
	}
	prev := *txn

	if input.Type != nil {
		if err := validateType(*input.Type); err != nil {
			return nil, err
		}
		txn.Type = *input.Type
	}
	if input.Amount != nil {
		amount := input.Amount.Abs()
		if err := validateAmount(amount); err != nil {
			return nil, err
		}
		txn.Amount = amount
	}
	if input.CurrencyCode != nil {
		txn.CurrencyCode = normalizeCode(*input.CurrencyCode, uc.converter.BaseCode())
	}
	if input.Title != nil {
		if err := validateTitle(*input.Title); err != nil {
			return nil, err
		}
		txn.Title = *input.Title
	}
	if input.CategoryName != nil {
		name := strings.TrimSpace(*input.CategoryName)
		if name == "" {
			return nil, domainerror.NewCategoryError(
				domainerror.ErrCodeCategoryNameEmpty,
				"category name must not be empty",
				domainerror.ErrCategoryNameEmpty,
			)
		}
		category, err := uc.categoryRepo.FindOrCreate(ctx, name, input.UserID)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve category: %w", err)
		}
		txn.CategoryID = category.ID
	}

	newDelta, err := uc.signedEffect(ctx, txn)
	if err != nil {
		return nil, err
	}
	txn.UpdatedAt = time.Now().UTC()

	balance, err := uc.ledgerRepo.UpdateApplied(ctx, &prev, txn, newDelta.Sub(oldDelta))
	if err != nil {
		return nil, err
	}

	if txn.Type == entity.TransactionTypeExpense {
		notifyMonitor(uc.monitor, input.UserID)
	}

	return &UpdateTransactionOutput{Transaction: txn, Balance: balance}, nil
}

// signedEffect values the transaction in the base currency at current rates.
func (uc *UpdateTransactionUseCase) signedEffect(ctx context.Context, txn *entity.Transaction) (decimal.Decimal, error) {
	converted, err := uc.converter.ConvertToBase(ctx, txn.Amount, txn.CurrencyCode)
	if err != nil {
		return decimal.Zero, err
	}
	return converted.Mul(txn.Sign()), nil
}

// findOwnedTransaction loads the transaction and enforces ownership. A row
// owned by someone else is reported as not found.
func findOwnedTransaction(ctx context.Context, repo adapter.TransactionRepository, txnID, userID uuid.UUID) (*entity.Transaction, error) {
	txn, err := repo.FindByID(ctx, txnID)
	if err != nil {
		if errors.Is(err, domainerror.ErrTransactionNotFound) {
			return nil, domainerror.NewLedgerError(
				domainerror.ErrCodeTransactionNotFound,
				"transaction not found",
				domainerror.ErrTransactionNotFound,
			)
		}
		return nil, fmt.Errorf("failed to find transaction: %w", err)
	}
	if txn.UserID != userID {
		return nil, domainerror.NewLedgerError(
			domainerror.ErrCodeTransactionNotFound,
			"transaction not found",
			domainerror.ErrTransactionNotFound,
		)
	}
	return txn, nil
}
