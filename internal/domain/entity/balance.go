// Package entity defines the core business entities for the domain layer.
package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Balance is the materialized per-user running balance, denominated in the
// base currency. It is created lazily at zero on first access and must at all
// times equal the sum of the owner's signed, base-converted transactions.
type Balance struct {
	ID           uuid.UUID
	UserID       uuid.UUID
	Amount       decimal.Decimal
	CurrencyCode string
	UpdatedAt    time.Time
}

// NewBalance creates a zero balance for the given user in the given currency.
func NewBalance(userID uuid.UUID, currencyCode string) *Balance {
	return &Balance{
		ID:           uuid.New(),
		UserID:       userID,
		Amount:       decimal.Zero,
		CurrencyCode: currencyCode,
		UpdatedAt:    time.Now().UTC(),
	}
}
