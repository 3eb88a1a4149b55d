// Package ledger contains the balance-coupled transaction use cases.
package ledger

import (
	"context"
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

// MaxTitleLength is the maximum allowed length for transaction titles.
const MaxTitleLength = 255

// CreateTransactionInput represents the input for transaction creation.
// CreatedAt is optional; when set it overrides the record timestamp, which
// the import reader relies on.
type CreateTransactionInput struct {
	UserID       uuid.UUID
	Type         entity.TransactionType
	Amount       decimal.Decimal
	CurrencyCode string
	CategoryName string
	Title        string
	CreatedAt    *time.Time
}

// CreateTransactionOutput represents the output of transaction creation.
type CreateTransactionOutput struct {
	Transaction *entity.Transaction
	Category    *entity.Category
	Balance     *entity.Balance
}

// CreateTransactionUseCase handles transaction creation. The solvency check
// and the balance write happen inside one per-owner atomic unit in the
// ledger repository; this use case only prepares the signed base-converted
// delta and reacts to the outcome.
type CreateTransactionUseCase struct {
	ledgerRepo   adapter.LedgerRepository
	categoryRepo adapter.CategoryRepository
	converter    *currency.Converter
	monitor      LimitMonitor
}

// NewCreateTransactionUseCase creates a new CreateTransactionUseCase instance.
func NewCreateTransactionUseCase(
	ledgerRepo adapter.LedgerRepository,
	categoryRepo adapter.CategoryRepository,
	converter *currency.Converter,
	monitor LimitMonitor,
) *CreateTransactionUseCase {
	return &CreateTransactionUseCase{
		ledgerRepo:   ledgerRepo,
		categoryRepo: categoryRepo,
		converter:    converter,
		monitor:      monitor,
	}
}

// Execute performs the transaction creation.
func (uc *CreateTransactionUseCase) Execute(ctx context.Context, input CreateTransactionInput) (*CreateTransactionOutput, error) {
	if err := validateType(input.Type); err != nil {
		return nil, err
	}
	amount := input.Amount.Abs()
	if err := validateAmount(amount); err != nil {
		return nil, err
	}
	if err := validateTitle(input.Title); err != nil {
		return nil, err
	}

	categoryName := strings.TrimSpace(input.CategoryName)
	if categoryName == "" {
		return nil, domainerror.NewCategoryError(
			domainerror.ErrCodeCategoryNameEmpty,
			"category name must not be empty",
			domainerror.ErrCategoryNameEmpty,
		)
	}

	code := normalizeCode(input.CurrencyCode, uc.converter.BaseCode())
	converted, err := uc.converter.ConvertToBase(ctx, amount, code)
	if err != nil {
		return nil, err
	}

	category, err := uc.categoryRepo.FindOrCreate(ctx, categoryName, input.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve category: %w", err)
	}

	txn := entity.NewTransaction(input.UserID, input.Type, amount, code, category.ID, input.Title)
	if input.CreatedAt != nil {
		txn.CreatedAt = input.CreatedAt.UTC()
	}

	delta := converted.Mul(txn.Sign())
	balance, err := uc.ledgerRepo.CreateApplied(ctx, txn, delta)
	if err != nil {
		return nil, err
	}

	if txn.Type == entity.TransactionTypeExpense {
		notifyMonitor(uc.monitor, input.UserID)
	}

	return &CreateTransactionOutput{
		Transaction: txn,
		Category:    category,
		Balance:     balance,
	}, nil
}

// normalizeCode uppercases the code and folds the base currency into the
// empty string, so base-denominated rows never depend on the rate table.
func normalizeCode(code, baseCode string) string {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == baseCode {
		return ""
	}
	return code
}

func validateType(t entity.TransactionType) error {
	if t != entity.TransactionTypeIncome && t != entity.TransactionTypeExpense {
		return domainerror.NewLedgerError(
			domainerror.ErrCodeInvalidTransactionType,
			fmt.Sprintf("transaction type must be %q or %q", entity.TransactionTypeIncome, entity.TransactionTypeExpense),
			domainerror.ErrInvalidTransactionType,
		)
	}
	return nil
}

func validateAmount(amount decimal.Decimal) error {
	if amount.IsZero() {
		return domainerror.NewLedgerError(
			domainerror.ErrCodeInvalidAmount,
			"transaction amount must not be zero",
			domainerror.ErrInvalidAmount,
		)
	}
	return nil
}

func validateTitle(title string) error {
	if len(title) > MaxTitleLength {
		return domainerror.NewLedgerError(
			domainerror.ErrCodeTitleTooLong,
			fmt.Sprintf("title must not exceed %d characters", MaxTitleLength),
			domainerror.ErrTitleTooLong,
		)
	}
	return nil
}
