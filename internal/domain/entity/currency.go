// Package entity defines the core business entities for the domain layer.
package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Currency represents an exchange-rate table row. Rates are expressed
// relative to the base currency: one unit of Code equals RateToBase units of
// the base currency. The base currency row always carries a rate of 1.
type Currency struct {
	Code       string // 3-letter ISO code, unique
	Name       string
	RateToBase decimal.Decimal
	UpdatedAt  time.Time
}

// NewCurrency creates a Currency row with the given code, display name and
// rate to the base currency.
func NewCurrency(code, name string, rateToBase decimal.Decimal) *Currency {
	return &Currency{
		Code:       code,
		Name:       name,
		RateToBase: rateToBase,
		UpdatedAt:  time.Now().UTC(),
	}
}
