// Package report contains the read-only reporting and Excel export reader.
package report

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/BlvckBrry/finance-tracker/internal/application/adapter"
	"github.com/BlvckBrry/finance-tracker/internal/application/usecase/currency"
	"github.com/BlvckBrry/finance-tracker/internal/domain/entity"
)

// SummaryInput represents the input for the summary report.
type SummaryInput struct {
	UserID    uuid.UUID
	StartDate time.Time
	EndDate   time.Time
}

// DailyPoint is one day of the summary trend. Net is the day's income minus
// expense; CumulativeNet folds the preceding days in.
type DailyPoint struct {
	Date          time.Time
	Income        decimal.Decimal
	Expense       decimal.Decimal
	Net           decimal.Decimal
	CumulativeNet decimal.Decimal
}

// SummaryOutput represents the output of the summary report. All amounts are
// base-currency valuations at current rates.
type SummaryOutput struct {
	TotalIncome    decimal.Decimal
	TotalExpense   decimal.Decimal
	Net            decimal.Decimal
	CurrentBalance decimal.Decimal
	Trend          []DailyPoint
}

// SummaryUseCase computes date-ranged totals and a daily cumulative trend.
type SummaryUseCase struct {
	transactionRepo adapter.TransactionRepository
	ledgerRepo      adapter.LedgerRepository
	converter       *currency.Converter
}

// NewSummaryUseCase creates a new SummaryUseCase instance.
func NewSummaryUseCase(
	transactionRepo adapter.TransactionRepository,
	ledgerRepo adapter.LedgerRepository,
	converter *currency.Converter,
) *SummaryUseCase {
	return &SummaryUseCase{
		transactionRepo: transactionRepo,
		ledgerRepo:      ledgerRepo,
		converter:       converter,
	}
}

// Execute computes the summary report.
func (uc *SummaryUseCase) Execute(ctx context.Context, input SummaryInput) (*SummaryOutput, error) {
	rows, err := uc.transactionRepo.FindByDateRange(ctx, input.UserID, input.StartDate, input.EndDate)
	if err != nil {
		return nil, fmt.Errorf("failed to load transactions: %w", err)
	}

	balance, err := uc.ledgerRepo.GetOrCreateBalance(ctx, input.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to get balance: %w", err)
	}

	totalIncome := decimal.Zero
	totalExpense := decimal.Zero
	daily := make(map[time.Time]*DailyPoint)

	for _, row := range rows {
		txn := row.Transaction
		converted, err := uc.converter.ConvertToBase(ctx, txn.Amount, txn.CurrencyCode)
		if err != nil {
			return nil, err
		}

		day := txn.CreatedAt.UTC().Truncate(24 * time.Hour)
		point, ok := daily[day]
		if !ok {
			point = &DailyPoint{Date: day, Income: decimal.Zero, Expense: decimal.Zero}
			daily[day] = point
		}

		if txn.Type == entity.TransactionTypeIncome {
			totalIncome = totalIncome.Add(converted)
			point.Income = point.Income.Add(converted)
		} else {
			totalExpense = totalExpense.Add(converted)
			point.Expense = point.Expense.Add(converted)
		}
	}

	trend := make([]DailyPoint, 0, len(daily))
	for _, point := range daily {
		point.Net = point.Income.Sub(point.Expense)
		trend = append(trend, *point)
	}
	sort.Slice(trend, func(i, j int) bool { return trend[i].Date.Before(trend[j].Date) })

	cumulative := decimal.Zero
	for i := range trend {
		cumulative = cumulative.Add(trend[i].Net)
		trend[i].CumulativeNet = cumulative
	}

	return &SummaryOutput{
		TotalIncome:    totalIncome,
		TotalExpense:   totalExpense,
		Net:            totalIncome.Sub(totalExpense),
		CurrentBalance: balance.Amount,
		Trend:          trend,
	}, nil
}
