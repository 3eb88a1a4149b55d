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

const topCategoryCount = 5

// CategoryBreakdownInput represents the input for the category breakdown.
type CategoryBreakdownInput struct {
	UserID    uuid.UUID
	StartDate time.Time
	EndDate   time.Time
}

// CategoryFigure aggregates one category within one transaction type.
// Percentage is the share of the type's total.
type CategoryFigure struct {
	CategoryID   uuid.UUID
	CategoryName string
	Total        decimal.Decimal
	Count        int
	Average      decimal.Decimal
	Percentage   decimal.Decimal
}

// CategoryBreakdownOutput represents the output of the category breakdown.
// Figures are sorted by total, descending.
type CategoryBreakdownOutput struct {
	Incomes      []CategoryFigure
	Expenses     []CategoryFigure
	TopIncomes   []CategoryFigure
	TopExpenses  []CategoryFigure
	TotalIncome  decimal.Decimal
	TotalExpense decimal.Decimal
}

// CategoryBreakdownUseCase aggregates transactions per category and type.
type CategoryBreakdownUseCase struct {
	transactionRepo adapter.TransactionRepository
	converter       *currency.Converter
}

// NewCategoryBreakdownUseCase creates a new CategoryBreakdownUseCase instance.
func NewCategoryBreakdownUseCase(
	transactionRepo adapter.TransactionRepository,
	converter *currency.Converter,
) *CategoryBreakdownUseCase {
	return &CategoryBreakdownUseCase{
		transactionRepo: transactionRepo,
		converter:       converter,
	}
}

// Execute computes the category breakdown.
func (uc *CategoryBreakdownUseCase) Execute(ctx context.Context, input CategoryBreakdownInput) (*CategoryBreakdownOutput, error) {
	rows, err := uc.transactionRepo.FindByDateRange(ctx, input.UserID, input.StartDate, input.EndDate)
	if err != nil {
		return nil, fmt.Errorf("failed to load transactions: %w", err)
	}

	incomes := map[uuid.UUID]*CategoryFigure{}
	expenses := map[uuid.UUID]*CategoryFigure{}

	for _, row := range rows {
		txn := row.Transaction
		converted, err := uc.converter.ConvertToBase(ctx, txn.Amount, txn.CurrencyCode)
		if err != nil {
			return nil, err
		}

		bucket := expenses
		if txn.Type == entity.TransactionTypeIncome {
			bucket = incomes
		}
		figure, ok := bucket[txn.CategoryID]
		if !ok {
			name := ""
			if row.Category != nil {
				name = row.Category.Name
			}
			figure = &CategoryFigure{
				CategoryID:   txn.CategoryID,
				CategoryName: name,
				Total:        decimal.Zero,
			}
			bucket[txn.CategoryID] = figure
		}
		figure.Total = figure.Total.Add(converted)
		figure.Count++
	}

	incomeFigures, totalIncome := finalize(incomes)
	expenseFigures, totalExpense := finalize(expenses)

	return &CategoryBreakdownOutput{
		Incomes:      incomeFigures,
		Expenses:     expenseFigures,
		TopIncomes:   top(incomeFigures),
		TopExpenses:  top(expenseFigures),
		TotalIncome:  totalIncome,
		TotalExpense: totalExpense,
	}, nil
}

// finalize computes averages and percentages and sorts by total descending.
func finalize(bucket map[uuid.UUID]*CategoryFigure) ([]CategoryFigure, decimal.Decimal) {
	total := decimal.Zero
	for _, figure := range bucket {
		total = total.Add(figure.Total)
	}

	figures := make([]CategoryFigure, 0, len(bucket))
	hundred := decimal.NewFromInt(100)
	for _, figure := range bucket {
		figure.Average = figure.Total.Div(decimal.NewFromInt(int64(figure.Count)))
		if total.IsPositive() {
			figure.Percentage = figure.Total.Mul(hundred).Div(total).Round(2)
		}
		figures = append(figures, *figure)
	}
	sort.Slice(figures, func(i, j int) bool {
		return figures[i].Total.GreaterThan(figures[j].Total)
	})
	return figures, total
}

func top(figures []CategoryFigure) []CategoryFigure {
	if len(figures) <= topCategoryCount {
		return figures
	}
	return figures[:topCategoryCount]
}
