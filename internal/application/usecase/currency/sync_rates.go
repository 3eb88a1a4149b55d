// Package currency contains currency rate table use cases.
package currency

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/BlvckBrry/finance-tracker/internal/application/adapter"
	"github.com/BlvckBrry/finance-tracker/internal/domain/entity"
	domainerror "github.com/BlvckBrry/finance-tracker/internal/domain/error"
)

// currencyNames maps the codes the tracker cares about to display names.
// Codes outside this map are still stored, named by their code.
var currencyNames = map[string]string{
	"USD": "US Dollar",
	"EUR": "Euro",
	"UAH": "Ukrainian Hryvnia",
	"GBP": "British Pound",
	"JPY": "Japanese Yen",
	"CAD": "Canadian Dollar",
	"CHF": "Swiss Franc",
	"AUD": "Australian Dollar",
	"PLN": "Polish Zloty",
	"CZK": "Czech Koruna",
	"CNY": "Chinese Yuan",
}

// SyncRatesOutput represents the result of a rate table refresh.
type SyncRatesOutput struct {
	Updated int
	Skipped int
}

// SyncRatesUseCase refreshes the currency rate table from the external rate
// source. The upstream payload is USD-relative; rates to the base currency
// are derived as base_per_usd / code_per_usd. A fetch or parse failure leaves
// the existing rows untouched: stale rates beat no rates.
type SyncRatesUseCase struct {
	rateSource   adapter.RateSource
	currencyRepo adapter.CurrencyRepository
	baseCode     string
}

// NewSyncRatesUseCase creates a new SyncRatesUseCase instance.
func NewSyncRatesUseCase(rateSource adapter.RateSource, currencyRepo adapter.CurrencyRepository, baseCode string) *SyncRatesUseCase {
	return &SyncRatesUseCase{
		rateSource:   rateSource,
		currencyRepo: currencyRepo,
		baseCode:     strings.ToUpper(baseCode),
	}
}

// Execute performs the rate table refresh.
func (uc *SyncRatesUseCase) Execute(ctx context.Context) (*SyncRatesOutput, error) {
	rates, err := uc.rateSource.FetchLatest(ctx)
	if err != nil {
		return nil, domainerror.NewCurrencyError(
			domainerror.ErrCodeRateSourceUnavailable,
			"failed to fetch exchange rates",
			err,
		)
	}

	basePerUSD, ok := rates[uc.baseCode]
	if !ok || !basePerUSD.IsPositive() {
		return nil, domainerror.NewCurrencyError(
			domainerror.ErrCodeRateSourceUnavailable,
			fmt.Sprintf("base currency %q missing from rate payload", uc.baseCode),
			domainerror.ErrRateSourceUnavailable,
		)
	}

	output := &SyncRatesOutput{}
	for code, perUSD := range rates {
		code = strings.ToUpper(code)
		if code == uc.baseCode {
			continue
		}
		if !perUSD.IsPositive() {
			output.Skipped++
			continue
		}

		rateToBase := basePerUSD.Div(perUSD)
		if err := uc.currencyRepo.Upsert(ctx, entity.NewCurrency(code, uc.nameFor(code), rateToBase)); err != nil {
			slog.Warn("Failed to upsert currency rate",
				"code", code,
				"error", err,
			)
			output.Skipped++
			continue
		}
		output.Updated++
	}

	// The base row is re-asserted after every refresh so conversions for the
	// base currency can never go missing or drift from 1.
	if err := uc.currencyRepo.Upsert(ctx, entity.NewCurrency(uc.baseCode, uc.nameFor(uc.baseCode), decimal.NewFromInt(1))); err != nil {
		return nil, fmt.Errorf("failed to assert base currency row: %w", err)
	}
	output.Updated++

	slog.Info("Currency rates refreshed",
		"updated", output.Updated,
		"skipped", output.Skipped,
	)
	return output, nil
}

func (uc *SyncRatesUseCase) nameFor(code string) string {
	if name, ok := currencyNames[code]; ok {
		return name
	}
	return code
}
