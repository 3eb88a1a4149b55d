// Package report contains the read-only reporting and Excel export reader.
package report

import (
	"bytes"
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/BlvckBrry/finance-tracker/internal/application/adapter"
	"github.com/BlvckBrry/finance-tracker/internal/application/usecase/currency"
	"github.com/BlvckBrry/finance-tracker/internal/domain/entity"
	domainerror "github.com/BlvckBrry/finance-tracker/internal/domain/error"
)

// Workbook sheet names, fixed so existing spreadsheets keep importing.
const (
	sheetTransactions = "Transactions"
	sheetIncomes      = "Incomes by categories"
	sheetExpenses     = "Expenses by categories"
	sheetDaily        = "Daily statistic"
	sheetFilters      = "Filter info"
)

// ExportTransactionsInput represents the input for the Excel export.
// CategoryContains matches category names case-insensitively.
type ExportTransactionsInput struct {
	UserID           uuid.UUID
	Type             *entity.TransactionType
	CategoryContains string
	CurrencyCode     string
	StartDate        *time.Time
	EndDate          *time.Time
}

// ExportTransactionsOutput represents the output of the Excel export.
type ExportTransactionsOutput struct {
	Content  []byte
	Filename string
}

// ExportTransactionsUseCase renders the user's transactions into an xlsx
// workbook with aggregate sheets.
type ExportTransactionsUseCase struct {
	transactionRepo adapter.TransactionRepository
	converter       *currency.Converter
}

// NewExportTransactionsUseCase creates a new ExportTransactionsUseCase instance.
func NewExportTransactionsUseCase(
	transactionRepo adapter.TransactionRepository,
	converter *currency.Converter,
) *ExportTransactionsUseCase {
	return &ExportTransactionsUseCase{
		transactionRepo: transactionRepo,
		converter:       converter,
	}
}

// Execute builds the workbook.
func (uc *ExportTransactionsUseCase) Execute(ctx context.Context, input ExportTransactionsInput) (*ExportTransactionsOutput, error) {
	start := time.Time{}
	if input.StartDate != nil {
		start = *input.StartDate
	}
	end := time.Now().UTC()
	if input.EndDate != nil {
		end = *input.EndDate
	}

	rows, err := uc.transactionRepo.FindByDateRange(ctx, input.UserID, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to load transactions: %w", err)
	}

	filtered := filterRows(rows, input)
	if len(filtered) == 0 {
		return nil, domainerror.NewReportError(
			domainerror.ErrCodeNoReportData,
			"no transactions match the export filters",
			domainerror.ErrNoReportData,
		)
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := uc.writeTransactionsSheet(ctx, f, filtered); err != nil {
		return nil, err
	}
	if err := uc.writeCategorySheet(ctx, f, sheetIncomes, filtered, entity.TransactionTypeIncome); err != nil {
		return nil, err
	}
	if err := uc.writeCategorySheet(ctx, f, sheetExpenses, filtered, entity.TransactionTypeExpense); err != nil {
		return nil, err
	}
	if err := uc.writeDailySheet(ctx, f, filtered); err != nil {
		return nil, err
	}
	writeFilterSheet(f, input, len(filtered))

	// The default sheet excelize creates is replaced by the first data sheet.
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("failed to drop default sheet: %w", err)
	}
	index, err := f.GetSheetIndex(sheetTransactions)
	if err == nil {
		f.SetActiveSheet(index)
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("failed to render workbook: %w", err)
	}

	return &ExportTransactionsOutput{
		Content:  buf.Bytes(),
		Filename: fmt.Sprintf("transactions_%s.xlsx", time.Now().UTC().Format("20060102")),
	}, nil
}

func filterRows(rows []*entity.TransactionWithCategory, input ExportTransactionsInput) []*entity.TransactionWithCategory {
	needle := strings.ToLower(strings.TrimSpace(input.CategoryContains))
	code := strings.ToUpper(strings.TrimSpace(input.CurrencyCode))

	filtered := make([]*entity.TransactionWithCategory, 0, len(rows))
	for _, row := range rows {
		if input.Type != nil && row.Transaction.Type != *input.Type {
			continue
		}
		if needle != "" {
			name := ""
			if row.Category != nil {
				name = row.Category.Name
			}
			if !strings.Contains(strings.ToLower(name), needle) {
				continue
			}
		}
		if code != "" && row.Transaction.CurrencyCode != code {
			continue
		}
		filtered = append(filtered, row)
	}
	return filtered
}

func (uc *ExportTransactionsUseCase) writeTransactionsSheet(ctx context.Context, f *excelize.File, rows []*entity.TransactionWithCategory) error {
	if _, err := f.NewSheet(sheetTransactions); err != nil {
		return fmt.Errorf("failed to create sheet: %w", err)
	}

	headers := []string{"created_at", "type", "category", "amount", "currency", "title", "amount_" + strings.ToLower(uc.converter.BaseCode())}
	for i, h := range headers {
		cell := fmt.Sprintf("%c1", 'A'+i)
		f.SetCellValue(sheetTransactions, cell, h)
	}

	for idx, row := range rows {
		txn := row.Transaction
		converted, err := uc.converter.ConvertToBase(ctx, txn.Amount, txn.CurrencyCode)
		if err != nil {
			return err
		}
		code := txn.CurrencyCode
		if code == "" {
			code = uc.converter.BaseCode()
		}
		name := ""
		if row.Category != nil {
			name = row.Category.Name
		}

		n := idx + 2
		f.SetCellValue(sheetTransactions, fmt.Sprintf("A%d", n), txn.CreatedAt.UTC().Format("2006-01-02 15:04:05"))
		f.SetCellValue(sheetTransactions, fmt.Sprintf("B%d", n), string(txn.Type))
		f.SetCellValue(sheetTransactions, fmt.Sprintf("C%d", n), name)
		f.SetCellValue(sheetTransactions, fmt.Sprintf("D%d", n), txn.Amount.InexactFloat64())
		f.SetCellValue(sheetTransactions, fmt.Sprintf("E%d", n), code)
		f.SetCellValue(sheetTransactions, fmt.Sprintf("F%d", n), txn.Title)
		f.SetCellValue(sheetTransactions, fmt.Sprintf("G%d", n), converted.InexactFloat64())
	}

	f.SetColWidth(sheetTransactions, "A", "A", 20)
	f.SetColWidth(sheetTransactions, "C", "C", 18)
	f.SetColWidth(sheetTransactions, "F", "F", 30)
	return nil
}

func (uc *ExportTransactionsUseCase) writeCategorySheet(ctx context.Context, f *excelize.File, sheet string, rows []*entity.TransactionWithCategory, txnType entity.TransactionType) error {
	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("failed to create sheet: %w", err)
	}

	totals := map[string]decimal.Decimal{}
	counts := map[string]int{}
	for _, row := range rows {
		if row.Transaction.Type != txnType {
			continue
		}
		converted, err := uc.converter.ConvertToBase(ctx, row.Transaction.Amount, row.Transaction.CurrencyCode)
		if err != nil {
			return err
		}
		name := ""
		if row.Category != nil {
			name = row.Category.Name
		}
		totals[name] = totals[name].Add(converted)
		counts[name]++
	}

	names := make([]string, 0, len(totals))
	for name := range totals {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		return totals[names[i]].GreaterThan(totals[names[j]])
	})

	f.SetCellValue(sheet, "A1", "category")
	f.SetCellValue(sheet, "B1", "total_"+strings.ToLower(uc.converter.BaseCode()))
	f.SetCellValue(sheet, "C1", "count")
	for idx, name := range names {
		n := idx + 2
		f.SetCellValue(sheet, fmt.Sprintf("A%d", n), name)
		f.SetCellValue(sheet, fmt.Sprintf("B%d", n), totals[name].InexactFloat64())
		f.SetCellValue(sheet, fmt.Sprintf("C%d", n), counts[name])
	}
	f.SetColWidth(sheet, "A", "A", 18)
	return nil
}

func (uc *ExportTransactionsUseCase) writeDailySheet(ctx context.Context, f *excelize.File, rows []*entity.TransactionWithCategory) error {
	if _, err := f.NewSheet(sheetDaily); err != nil {
		return fmt.Errorf("failed to create sheet: %w", err)
	}

	type dayTotals struct {
		income  decimal.Decimal
		expense decimal.Decimal
	}
	daily := map[string]*dayTotals{}
	for _, row := range rows {
		converted, err := uc.converter.ConvertToBase(ctx, row.Transaction.Amount, row.Transaction.CurrencyCode)
		if err != nil {
			return err
		}
		day := row.Transaction.CreatedAt.UTC().Format("2006-01-02")
		totals, ok := daily[day]
		if !ok {
			totals = &dayTotals{income: decimal.Zero, expense: decimal.Zero}
			daily[day] = totals
		}
		if row.Transaction.Type == entity.TransactionTypeIncome {
			totals.income = totals.income.Add(converted)
		} else {
			totals.expense = totals.expense.Add(converted)
		}
	}

	days := make([]string, 0, len(daily))
	for day := range daily {
		days = append(days, day)
	}
	sort.Strings(days)

	f.SetCellValue(sheetDaily, "A1", "date")
	f.SetCellValue(sheetDaily, "B1", "income")
	f.SetCellValue(sheetDaily, "C1", "expense")
	f.SetCellValue(sheetDaily, "D1", "net")
	for idx, day := range days {
		totals := daily[day]
		n := idx + 2
		f.SetCellValue(sheetDaily, fmt.Sprintf("A%d", n), day)
		f.SetCellValue(sheetDaily, fmt.Sprintf("B%d", n), totals.income.InexactFloat64())
		f.SetCellValue(sheetDaily, fmt.Sprintf("C%d", n), totals.expense.InexactFloat64())
		f.SetCellValue(sheetDaily, fmt.Sprintf("D%d", n), totals.income.Sub(totals.expense).InexactFloat64())
	}
	f.SetColWidth(sheetDaily, "A", "A", 12)
	return nil
}

func writeFilterSheet(f *excelize.File, input ExportTransactionsInput, matched int) {
	// Best-effort metadata sheet; creation errors would already have
	// surfaced on the data sheets.
	f.NewSheet(sheetFilters)

	txnType := "all"
	if input.Type != nil {
		txnType = string(*input.Type)
	}
	rangeStart := "beginning"
	if input.StartDate != nil {
		rangeStart = input.StartDate.UTC().Format("2006-01-02")
	}
	rangeEnd := "now"
	if input.EndDate != nil {
		rangeEnd = input.EndDate.UTC().Format("2006-01-02")
	}

	lines := [][2]string{
		{"generated_at", time.Now().UTC().Format("2006-01-02 15:04:05")},
		{"type", txnType},
		{"category_contains", input.CategoryContains},
		{"currency", input.CurrencyCode},
		{"from", rangeStart},
		{"to", rangeEnd},
		{"matched_rows", fmt.Sprintf("%d", matched)},
	}
	for idx, line := range lines {
		n := idx + 1
		f.SetCellValue(sheetFilters, fmt.Sprintf("A%d", n), line[0])
		f.SetCellValue(sheetFilters, fmt.Sprintf("B%d", n), line[1])
	}
	f.SetColWidth(sheetFilters, "A", "A", 18)
}
