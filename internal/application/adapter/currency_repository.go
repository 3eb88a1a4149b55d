// Package adapter defines interfaces that will be implemented in the integration layer.
package adapter

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/BlvckBrry/finance-tracker/internal/domain/entity"
)

// CurrencyRepository defines the interface for currency rate table operations.
type CurrencyRepository interface {
	// FindByCode retrieves a currency by its 3-letter code.
	FindByCode(ctx context.Context, code string) (*entity.Currency, error)

	// List retrieves all currencies ordered by code.
	List(ctx context.Context) ([]*entity.Currency, error)

	// Upsert inserts or updates a currency row keyed by code.
	Upsert(ctx context.Context, currency *entity.Currency) error
}

// RateSource fetches exchange rates from an external provider. Rates are
// expressed per one US dollar, mirroring the upstream API payload.
type RateSource interface {
	// FetchLatest returns the latest USD-relative rates keyed by currency code.
	FetchLatest(ctx context.Context) (map[string]decimal.Decimal, error)
}
