// Package currency contains currency rate table use cases.
package currency

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/BlvckBrry/finance-tracker/internal/application/adapter"
	domainerror "github.com/BlvckBrry/finance-tracker/internal/domain/error"
)

// Converter converts amounts into the base currency using the current rate
// table. The base currency code is injected at construction instead of being
// looked up from a magic database row.
type Converter struct {
	currencyRepo adapter.CurrencyRepository
	baseCode     string
}

// NewConverter creates a new Converter instance.
func NewConverter(currencyRepo adapter.CurrencyRepository, baseCode string) *Converter {
	return &Converter{
		currencyRepo: currencyRepo,
		baseCode:     strings.ToUpper(baseCode),
	}
}

// BaseCode returns the configured base currency code.
func (c *Converter) BaseCode() string {
	return c.baseCode
}

// GetRate returns the rate to the base currency for the given code.
func (c *Converter) GetRate(ctx context.Context, code string) (decimal.Decimal, error) {
	code = strings.ToUpper(code)
	if code == c.baseCode {
		return decimal.NewFromInt(1), nil
	}

	cur, err := c.currencyRepo.FindByCode(ctx, code)
	if err != nil {
		return decimal.Zero, domainerror.NewCurrencyError(
			domainerror.ErrCodeCurrencyNotFound,
			fmt.Sprintf("currency %q not found", code),
			domainerror.ErrCurrencyNotFound,
		)
	}
	return cur.RateToBase, nil
}

// ConvertToBase converts an amount denominated in code into the base
// currency. An empty code or the base code itself is an identity conversion
// and performs no rate lookup.
func (c *Converter) ConvertToBase(ctx context.Context, amount decimal.Decimal, code string) (decimal.Decimal, error) {
	code = strings.ToUpper(code)
	if code == "" || code == c.baseCode {
		return amount, nil
	}

	rate, err := c.GetRate(ctx, code)
	if err != nil {
		return decimal.Zero, err
	}
	return amount.Mul(rate), nil
}
