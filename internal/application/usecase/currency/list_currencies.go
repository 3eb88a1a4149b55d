// Package currency contains currency rate table use cases.
package currency

import (
	"context"
	"fmt"
	"strings"

	"github.com/BlvckBrry/finance-tracker/internal/application/adapter"
	"github.com/BlvckBrry/finance-tracker/internal/domain/entity"
	domainerror "github.com/BlvckBrry/finance-tracker/internal/domain/error"
)

// ListCurrenciesOutput represents the output of listing currencies.
type ListCurrenciesOutput struct {
	Currencies []*entity.Currency
}

// ListCurrenciesUseCase handles currency listing logic.
type ListCurrenciesUseCase struct {
	currencyRepo adapter.CurrencyRepository
}

// NewListCurrenciesUseCase creates a new ListCurrenciesUseCase instance.
func NewListCurrenciesUseCase(currencyRepo adapter.CurrencyRepository) *ListCurrenciesUseCase {
	return &ListCurrenciesUseCase{currencyRepo: currencyRepo}
}

// Execute retrieves all currencies in the rate table.
func (uc *ListCurrenciesUseCase) Execute(ctx context.Context) (*ListCurrenciesOutput, error) {
	currencies, err := uc.currencyRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list currencies: %w", err)
	}
	return &ListCurrenciesOutput{Currencies: currencies}, nil
}

// GetCurrencyInput represents the input for retrieving a single currency.
type GetCurrencyInput struct {
	Code string
}

// GetCurrencyOutput represents the output of retrieving a single currency.
type GetCurrencyOutput struct {
	Currency *entity.Currency
}

// GetCurrencyUseCase handles single-currency lookup logic.
type GetCurrencyUseCase struct {
	currencyRepo adapter.CurrencyRepository
}

// NewGetCurrencyUseCase creates a new GetCurrencyUseCase instance.
func NewGetCurrencyUseCase(currencyRepo adapter.CurrencyRepository) *GetCurrencyUseCase {
	return &GetCurrencyUseCase{currencyRepo: currencyRepo}
}

// Execute retrieves a currency by code.
func (uc *GetCurrencyUseCase) Execute(ctx context.Context, input GetCurrencyInput) (*GetCurrencyOutput, error) {
	code := strings.ToUpper(input.Code)
	cur, err := uc.currencyRepo.FindByCode(ctx, code)
	if err != nil {
		return nil, domainerror.NewCurrencyError(
			domainerror.ErrCodeCurrencyNotFound,
			fmt.Sprintf("currency %q not found", code),
			domainerror.ErrCurrencyNotFound,
		)
	}
	return &GetCurrencyOutput{Currency: cur}, nil
}
