// Package entity defines the core business entities for the domain layer.
package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransactionType represents the type of transaction (expense or income).
type TransactionType string

const (
	TransactionTypeIncome  TransactionType = "income"
	TransactionTypeExpense TransactionType = "expense"
)

// Transaction represents a single income or expense record. Amount is always
// stored as an absolute value in the original currency; the sign of its
// effect on the balance is carried by Type. An empty CurrencyCode means the
// amount is already denominated in the base currency.
type Transaction struct {
	ID           uuid.UUID
	UserID       uuid.UUID
	Type         TransactionType
	Amount       decimal.Decimal
	CurrencyCode string
	CategoryID   uuid.UUID
	Title        string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// NewTransaction creates a new Transaction entity. The amount is normalized
// to its absolute value.
func NewTransaction(
	userID uuid.UUID,
	transactionType TransactionType,
	amount decimal.Decimal,
	currencyCode string,
	categoryID uuid.UUID,
	title string,
) *Transaction {
	now := time.Now().UTC()
	return &Transaction{
		ID:           uuid.New(),
		UserID:       userID,
		Type:         transactionType,
		Amount:       amount.Abs(),
		CurrencyCode: currencyCode,
		CategoryID:   categoryID,
		Title:        title,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// Sign returns +1 for income and -1 for expense.
func (t *Transaction) Sign() decimal.Decimal {
	if t.Type == TransactionTypeExpense {
		return decimal.NewFromInt(-1)
	}
	return decimal.NewFromInt(1)
}

// TransactionWithCategory pairs a transaction with its category.
type TransactionWithCategory struct {
	Transaction *Transaction
	Category    *Category
}

// TransactionListResult represents the result of listing transactions.
type TransactionListResult struct {
	Transactions []*TransactionWithCategory
	Total        int64
	Page         int
	Limit        int
	TotalPages   int
}
