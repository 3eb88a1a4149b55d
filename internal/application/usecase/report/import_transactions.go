// Package report contains the read-only reporting and Excel export reader.
package report

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/BlvckBrry/finance-tracker/internal/application/usecase/ledger"
	"github.com/BlvckBrry/finance-tracker/internal/domain/entity"
	domainerror "github.com/BlvckBrry/finance-tracker/internal/domain/error"
)

// requiredImportColumns are the headers the first sheet must carry, matched
// case-insensitively in any order.
var requiredImportColumns = []string{"created_at", "type", "category", "amount", "currency", "title"}

// importDateFormats are tried in order when parsing created_at cells.
var importDateFormats = []string{
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05Z07:00",
	"2006-01-02",
	"01-02-06",
	"1/2/06 15:04",
}

// RowError describes why a single spreadsheet row was skipped.
type RowError struct {
	Row     int
	Message string
}

// ImportTransactionsInput represents the input for the Excel import.
type ImportTransactionsInput struct {
	UserID uuid.UUID
	Reader io.Reader
}

// ImportTransactionsOutput represents the output of the Excel import.
type ImportTransactionsOutput struct {
	ImportedCount int
	TotalRows     int
	Errors        []RowError
}

// ImportTransactionsUseCase reads transactions from an uploaded workbook.
// Each row goes through the normal create path, so imports respect the same
// validation and solvency rules as the API. Row failures accumulate without
// aborting the rest of the file.
type ImportTransactionsUseCase struct {
	create *ledger.CreateTransactionUseCase
}

// NewImportTransactionsUseCase creates a new ImportTransactionsUseCase instance.
func NewImportTransactionsUseCase(create *ledger.CreateTransactionUseCase) *ImportTransactionsUseCase {
	return &ImportTransactionsUseCase{create: create}
}

// Execute performs the import.
func (uc *ImportTransactionsUseCase) Execute(ctx context.Context, input ImportTransactionsInput) (*ImportTransactionsOutput, error) {
	f, err := excelize.OpenReader(input.Reader)
	if err != nil {
		return nil, domainerror.NewReportError(
			domainerror.ErrCodeUnreadableImportFile,
			"uploaded file is not a readable xlsx workbook",
			domainerror.ErrUnreadableImportFile,
		)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, domainerror.NewReportError(
			domainerror.ErrCodeUnreadableImportFile,
			"workbook contains no sheets",
			domainerror.ErrUnreadableImportFile,
		)
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, domainerror.NewReportError(
			domainerror.ErrCodeUnreadableImportFile,
			"failed to read the first sheet",
			domainerror.ErrUnreadableImportFile,
		)
	}
	if len(rows) == 0 {
		return nil, missingColumnsError(requiredImportColumns)
	}

	columns, missing := mapColumns(rows[0])
	if len(missing) > 0 {
		return nil, missingColumnsError(missing)
	}

	out := &ImportTransactionsOutput{TotalRows: len(rows) - 1}
	for i, row := range rows[1:] {
		rowNumber := i + 2
		if isBlankRow(row) {
			out.TotalRows--
			continue
		}
		if err := uc.importRow(ctx, input.UserID, columns, row); err != nil {
			out.Errors = append(out.Errors, RowError{Row: rowNumber, Message: err.Error()})
			continue
		}
		out.ImportedCount++
	}
	return out, nil
}

func (uc *ImportTransactionsUseCase) importRow(ctx context.Context, userID uuid.UUID, columns map[string]int, row []string) error {
	createdAt, err := parseImportDate(cell(row, columns["created_at"]))
	if err != nil {
		return err
	}

	txnType := entity.TransactionType(strings.ToLower(strings.TrimSpace(cell(row, columns["type"]))))
	amount, err := decimal.NewFromString(strings.TrimSpace(cell(row, columns["amount"])))
	if err != nil {
		return fmt.Errorf("invalid amount %q", cell(row, columns["amount"]))
	}

	_, err = uc.create.Execute(ctx, ledger.CreateTransactionInput{
		UserID:       userID,
		Type:         txnType,
		Amount:       amount,
		CurrencyCode: cell(row, columns["currency"]),
		CategoryName: cell(row, columns["category"]),
		Title:        cell(row, columns["title"]),
		CreatedAt:    &createdAt,
	})
	return err
}

// mapColumns resolves required header names to their column indexes.
func mapColumns(header []string) (map[string]int, []string) {
	indexes := map[string]int{}
	for i, name := range header {
		indexes[strings.ToLower(strings.TrimSpace(name))] = i
	}

	columns := map[string]int{}
	var missing []string
	for _, name := range requiredImportColumns {
		idx, ok := indexes[name]
		if !ok {
			missing = append(missing, name)
			continue
		}
		columns[name] = idx
	}
	return columns, missing
}

func missingColumnsError(missing []string) error {
	return domainerror.NewReportError(
		domainerror.ErrCodeMissingImportColumns,
		fmt.Sprintf("missing required columns: %s", strings.Join(missing, ", ")),
		domainerror.ErrMissingImportColumns,
	)
}

func parseImportDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	for _, layout := range importDateFormats {
		if t, err := time.Parse(layout, value); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid created_at %q", value)
}

// cell reads a column from a row, tolerating trailing cells excelize trims.
func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return row[idx]
}

func isBlankRow(row []string) bool {
	for _, value := range row {
		if strings.TrimSpace(value) != "" {
			return false
		}
	}
	return true
}
