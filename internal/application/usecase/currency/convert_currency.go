// Package currency contains currency rate table use cases.
package currency

import (
	"context"

	"github.com/shopspring/decimal"

	domainerror "github.com/BlvckBrry/finance-tracker/internal/domain/error"
)

// ConvertCurrencyInput represents the input for a currency conversion.
type ConvertCurrencyInput struct {
	Amount decimal.Decimal
	From   string
	To     string
}

// ConvertCurrencyOutput represents the output of a currency conversion.
type ConvertCurrencyOutput struct {
	Amount    decimal.Decimal
	From      string
	To        string
	Converted decimal.Decimal
}

// ConvertCurrencyUseCase converts an amount between two currencies through
// the base currency.
type ConvertCurrencyUseCase struct {
	converter *Converter
}

// NewConvertCurrencyUseCase creates a new ConvertCurrencyUseCase instance.
func NewConvertCurrencyUseCase(converter *Converter) *ConvertCurrencyUseCase {
	return &ConvertCurrencyUseCase{converter: converter}
}

// Execute performs the conversion.
func (uc *ConvertCurrencyUseCase) Execute(ctx context.Context, input ConvertCurrencyInput) (*ConvertCurrencyOutput, error) {
	if !input.Amount.IsPositive() {
		return nil, domainerror.NewCurrencyError(
			domainerror.ErrCodeInvalidConversionAmount,
			"amount must be greater than zero",
			domainerror.ErrInvalidConversionAmount,
		)
	}

	inBase, err := uc.converter.ConvertToBase(ctx, input.Amount, input.From)
	if err != nil {
		return nil, err
	}

	toRate, err := uc.converter.GetRate(ctx, input.To)
	if err != nil {
		return nil, err
	}

	return &ConvertCurrencyOutput{
		Amount:    input.Amount,
		From:      input.From,
		To:        input.To,
		Converted: inBase.Div(toRate),
	}, nil
}
