package report

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/BlvckBrry/finance-tracker/internal/application/usecase/currency"
	"github.com/BlvckBrry/finance-tracker/internal/application/usecase/ledger"
	"github.com/BlvckBrry/finance-tracker/internal/domain/entity"
	domainerror "github.com/BlvckBrry/finance-tracker/internal/domain/error"
	"github.com/BlvckBrry/finance-tracker/internal/integration/persistence"
	"github.com/BlvckBrry/finance-tracker/internal/integration/persistence/model"
)

type reportFixture struct {
	db        *gorm.DB
	create    *ledger.CreateTransactionUseCase
	summary   *SummaryUseCase
	breakdown *CategoryBreakdownUseCase
	export    *ExportTransactionsUseCase
	importUC  *ImportTransactionsUseCase
	userID    uuid.UUID
}

func newReportFixture(t *testing.T) *reportFixture {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	// A pooled second connection would see its own empty in-memory database.
	if sqlDB, err := db.DB(); err == nil {
		sqlDB.SetMaxOpenConns(1)
	}
	if err := db.AutoMigrate(
		&model.UserModel{},
		&model.CurrencyModel{},
		&model.CategoryModel{},
		&model.BalanceModel{},
		&model.TransactionModel{},
	); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	userID := uuid.New()
	user := &model.UserModel{
		ID:               userID,
		Email:            "report@example.com",
		Username:         "report",
		PasswordHash:     "x",
		WarningThreshold: entity.DefaultWarningThreshold,
		CreatedAt:        time.Now().UTC(),
		UpdatedAt:        time.Now().UTC(),
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to seed user: %v", err)
	}

	ledgerRepo := persistence.NewLedgerRepository(db, "UAH")
	categoryRepo := persistence.NewCategoryRepository(db)
	transactionRepo := persistence.NewTransactionRepository(db)
	converter := currency.NewConverter(persistence.NewCurrencyRepository(db), "UAH")
	create := ledger.NewCreateTransactionUseCase(ledgerRepo, categoryRepo, converter, nil)

	return &reportFixture{
		db:        db,
		create:    create,
		summary:   NewSummaryUseCase(transactionRepo, ledgerRepo, converter),
		breakdown: NewCategoryBreakdownUseCase(transactionRepo, converter),
		export:    NewExportTransactionsUseCase(transactionRepo, converter),
		importUC:  NewImportTransactionsUseCase(create),
		userID:    userID,
	}
}

func (f *reportFixture) seed(t *testing.T, txnType entity.TransactionType, amount, category string, createdAt time.Time) {
	t.Helper()
	_, err := f.create.Execute(context.Background(), ledger.CreateTransactionInput{
		UserID:       f.userID,
		Type:         txnType,
		Amount:       decimal.RequireFromString(amount),
		CategoryName: category,
		CreatedAt:    &createdAt,
	})
	if err != nil {
		t.Fatalf("failed to seed transaction: %v", err)
	}
}

func TestSummary(t *testing.T) {
	ctx := context.Background()
	day1 := time.Date(2026, time.March, 10, 10, 0, 0, 0, time.UTC)
	day2 := time.Date(2026, time.March, 11, 10, 0, 0, 0, time.UTC)

	t.Run("totals and daily trend", func(t *testing.T) {
		f := newReportFixture(t)
		f.seed(t, entity.TransactionTypeIncome, "1000", "Salary", day1)
		f.seed(t, entity.TransactionTypeExpense, "400", "Rent", day2)

		output, err := f.summary.Execute(ctx, SummaryInput{
			UserID:    f.userID,
			StartDate: day1.Add(-time.Hour),
			EndDate:   day2.Add(time.Hour),
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !output.TotalIncome.Equal(decimal.RequireFromString("1000")) {
			t.Errorf("expected income 1000, got %s", output.TotalIncome)
		}
		if !output.TotalExpense.Equal(decimal.RequireFromString("400")) {
			t.Errorf("expected expense 400, got %s", output.TotalExpense)
		}
		if !output.Net.Equal(decimal.RequireFromString("600")) {
			t.Errorf("expected net 600, got %s", output.Net)
		}
		if !output.CurrentBalance.Equal(decimal.RequireFromString("600")) {
			t.Errorf("expected balance 600, got %s", output.CurrentBalance)
		}

		if len(output.Trend) != 2 {
			t.Fatalf("expected 2 trend points, got %d", len(output.Trend))
		}
		first, second := output.Trend[0], output.Trend[1]
		if !first.Net.Equal(decimal.RequireFromString("1000")) {
			t.Errorf("expected day one net 1000, got %s", first.Net)
		}
		if !second.Net.Equal(decimal.RequireFromString("-400")) {
			t.Errorf("expected day two net -400, got %s", second.Net)
		}
		if !second.CumulativeNet.Equal(decimal.RequireFromString("600")) {
			t.Errorf("expected cumulative 600, got %s", second.CumulativeNet)
		}
	})

	t.Run("rows outside the range are excluded", func(t *testing.T) {
		f := newReportFixture(t)
		f.seed(t, entity.TransactionTypeIncome, "1000", "Salary", day1)

		output, err := f.summary.Execute(ctx, SummaryInput{
			UserID:    f.userID,
			StartDate: day2,
			EndDate:   day2.Add(24 * time.Hour),
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !output.TotalIncome.IsZero() {
			t.Errorf("expected zero income, got %s", output.TotalIncome)
		}
	})
}

func TestCategoryBreakdown(t *testing.T) {
	ctx := context.Background()
	day := time.Date(2026, time.March, 10, 10, 0, 0, 0, time.UTC)

	t.Run("per-category totals and percentages", func(t *testing.T) {
		f := newReportFixture(t)
		f.seed(t, entity.TransactionTypeIncome, "1000", "Salary", day)
		f.seed(t, entity.TransactionTypeExpense, "300", "Rent", day)
		f.seed(t, entity.TransactionTypeExpense, "100", "Groceries", day)

		output, err := f.breakdown.Execute(ctx, CategoryBreakdownInput{
			UserID:    f.userID,
			StartDate: day.Add(-time.Hour),
			EndDate:   day.Add(time.Hour),
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !output.TotalExpense.Equal(decimal.RequireFromString("400")) {
			t.Errorf("expected total expense 400, got %s", output.TotalExpense)
		}
		if len(output.Expenses) != 2 {
			t.Fatalf("expected 2 expense categories, got %d", len(output.Expenses))
		}
		// Sorted by total, largest first.
		if output.Expenses[0].CategoryName != "Rent" {
			t.Errorf("expected Rent first, got %s", output.Expenses[0].CategoryName)
		}
		if !output.Expenses[0].Percentage.Equal(decimal.RequireFromString("75")) {
			t.Errorf("expected 75 percent, got %s", output.Expenses[0].Percentage)
		}
		if len(output.TopExpenses) != 2 {
			t.Errorf("expected 2 top expenses, got %d", len(output.TopExpenses))
		}
	})

	t.Run("top lists are capped at five", func(t *testing.T) {
		f := newReportFixture(t)
		f.seed(t, entity.TransactionTypeIncome, "10000", "Salary", day)
		for _, name := range []string{"A", "B", "C", "D", "E", "F", "G"} {
			f.seed(t, entity.TransactionTypeExpense, "10", name, day)
		}

		output, err := f.breakdown.Execute(ctx, CategoryBreakdownInput{
			UserID:    f.userID,
			StartDate: day.Add(-time.Hour),
			EndDate:   day.Add(time.Hour),
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(output.TopExpenses) != 5 {
			t.Errorf("expected 5 top expenses, got %d", len(output.TopExpenses))
		}
		if len(output.Expenses) != 7 {
			t.Errorf("expected 7 expense categories, got %d", len(output.Expenses))
		}
	})
}

func TestExportTransactions(t *testing.T) {
	ctx := context.Background()
	day := time.Date(2026, time.March, 10, 10, 0, 0, 0, time.UTC)

	t.Run("renders all sheets and read-back rows", func(t *testing.T) {
		f := newReportFixture(t)
		f.seed(t, entity.TransactionTypeIncome, "1000", "Salary", day)
		f.seed(t, entity.TransactionTypeExpense, "250", "Rent", day)

		output, err := f.export.Execute(ctx, ExportTransactionsInput{UserID: f.userID})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if output.Filename == "" {
			t.Error("expected a filename")
		}

		wb, err := excelize.OpenReader(bytes.NewReader(output.Content))
		if err != nil {
			t.Fatalf("failed to reopen workbook: %v", err)
		}
		defer wb.Close()

		for _, sheet := range []string{"Transactions", "Incomes by categories", "Expenses by categories", "Daily statistic", "Filter info"} {
			if idx, err := wb.GetSheetIndex(sheet); err != nil || idx < 0 {
				t.Errorf("expected sheet %q", sheet)
			}
		}

		rows, err := wb.GetRows("Transactions")
		if err != nil {
			t.Fatalf("failed to read rows: %v", err)
		}
		// Header plus the two transactions.
		if len(rows) != 3 {
			t.Fatalf("expected 3 rows, got %d", len(rows))
		}
		if rows[0][0] != "created_at" || rows[0][3] != "amount" {
			t.Errorf("unexpected header row: %v", rows[0])
		}

		incomes, err := wb.GetRows("Incomes by categories")
		if err != nil {
			t.Fatalf("failed to read income sheet: %v", err)
		}
		if len(incomes) != 2 || incomes[1][0] != "Salary" {
			t.Errorf("unexpected income sheet: %v", incomes)
		}
	})

	t.Run("type filter narrows the export", func(t *testing.T) {
		f := newReportFixture(t)
		f.seed(t, entity.TransactionTypeIncome, "1000", "Salary", day)
		f.seed(t, entity.TransactionTypeExpense, "250", "Rent", day)

		txnType := entity.TransactionTypeExpense
		output, err := f.export.Execute(ctx, ExportTransactionsInput{UserID: f.userID, Type: &txnType})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		wb, err := excelize.OpenReader(bytes.NewReader(output.Content))
		if err != nil {
			t.Fatalf("failed to reopen workbook: %v", err)
		}
		defer wb.Close()

		rows, err := wb.GetRows("Transactions")
		if err != nil {
			t.Fatalf("failed to read rows: %v", err)
		}
		if len(rows) != 2 {
			t.Fatalf("expected header and one row, got %d rows", len(rows))
		}
		if rows[1][1] != "expense" {
			t.Errorf("expected an expense row, got %v", rows[1])
		}
	})

	t.Run("no matching rows is a report error", func(t *testing.T) {
		f := newReportFixture(t)

		_, err := f.export.Execute(ctx, ExportTransactionsInput{UserID: f.userID})
		var reportErr *domainerror.ReportError
		if !errors.As(err, &reportErr) || reportErr.Code != domainerror.ErrCodeNoReportData {
			t.Fatalf("expected no report data error, got %v", err)
		}
	})
}

func buildImportWorkbook(t *testing.T, rows [][]any) []byte {
	t.Helper()
	wb := excelize.NewFile()
	defer wb.Close()

	headers := []string{"created_at", "type", "category", "amount", "currency", "title"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		wb.SetCellValue("Sheet1", cell, h)
	}
	for r, row := range rows {
		for c, value := range row {
			cell, _ := excelize.CoordinatesToCellName(c+1, r+2)
			wb.SetCellValue("Sheet1", cell, value)
		}
	}

	var buf bytes.Buffer
	if err := wb.Write(&buf); err != nil {
		t.Fatalf("failed to build workbook: %v", err)
	}
	return buf.Bytes()
}

func TestImportTransactions(t *testing.T) {
	ctx := context.Background()

	t.Run("imports valid rows through the create path", func(t *testing.T) {
		f := newReportFixture(t)
		content := buildImportWorkbook(t, [][]any{
			{"2026-03-10 10:00:00", "income", "Salary", "1000", "", "March salary"},
			{"2026-03-11 09:00:00", "expense", "Rent", "400", "", ""},
		})

		output, err := f.importUC.Execute(ctx, ImportTransactionsInput{
			UserID: f.userID,
			Reader: bytes.NewReader(content),
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if output.ImportedCount != 2 || output.TotalRows != 2 {
			t.Errorf("expected 2 of 2 imported, got %d of %d", output.ImportedCount, output.TotalRows)
		}
		if len(output.Errors) != 0 {
			t.Errorf("expected no row errors, got %v", output.Errors)
		}

		var balanceModel model.BalanceModel
		if err := f.db.Where("user_id = ?", f.userID).First(&balanceModel).Error; err != nil {
			t.Fatalf("failed to load balance: %v", err)
		}
		if !balanceModel.Amount.Equal(decimal.RequireFromString("600")) {
			t.Errorf("expected balance 600, got %s", balanceModel.Amount)
		}
	})

	t.Run("bad rows accumulate errors without aborting", func(t *testing.T) {
		f := newReportFixture(t)
		content := buildImportWorkbook(t, [][]any{
			{"2026-03-10 10:00:00", "income", "Salary", "1000", "", ""},
			{"2026-03-11 09:00:00", "expense", "Rent", "not-a-number", "", ""},
			{"bad-date", "income", "Salary", "10", "", ""},
		})

		output, err := f.importUC.Execute(ctx, ImportTransactionsInput{
			UserID: f.userID,
			Reader: bytes.NewReader(content),
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if output.ImportedCount != 1 {
			t.Errorf("expected 1 imported, got %d", output.ImportedCount)
		}
		if len(output.Errors) != 2 {
			t.Fatalf("expected 2 row errors, got %d", len(output.Errors))
		}
		if output.Errors[0].Row != 3 || output.Errors[1].Row != 4 {
			t.Errorf("unexpected row numbers: %v", output.Errors)
		}
	})

	t.Run("insolvent rows are rejected like API writes", func(t *testing.T) {
		f := newReportFixture(t)
		content := buildImportWorkbook(t, [][]any{
			{"2026-03-10 10:00:00", "expense", "Rent", "400", "", ""},
		})

		output, err := f.importUC.Execute(ctx, ImportTransactionsInput{
			UserID: f.userID,
			Reader: bytes.NewReader(content),
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if output.ImportedCount != 0 || len(output.Errors) != 1 {
			t.Errorf("expected one rejected row, got %d imported and %v", output.ImportedCount, output.Errors)
		}
	})

	t.Run("a workbook without the required headers is rejected", func(t *testing.T) {
		f := newReportFixture(t)
		wb := excelize.NewFile()
		wb.SetCellValue("Sheet1", "A1", "wrong")
		var buf bytes.Buffer
		if err := wb.Write(&buf); err != nil {
			t.Fatalf("failed to build workbook: %v", err)
		}
		wb.Close()

		_, err := f.importUC.Execute(ctx, ImportTransactionsInput{
			UserID: f.userID,
			Reader: bytes.NewReader(buf.Bytes()),
		})
		var reportErr *domainerror.ReportError
		if !errors.As(err, &reportErr) || reportErr.Code != domainerror.ErrCodeMissingImportColumns {
			t.Fatalf("expected missing columns error, got %v", err)
		}
	})

	t.Run("a non-xlsx payload is rejected", func(t *testing.T) {
		f := newReportFixture(t)

		_, err := f.importUC.Execute(ctx, ImportTransactionsInput{
			UserID: f.userID,
			Reader: bytes.NewReader([]byte("not a workbook")),
		})
		var reportErr *domainerror.ReportError
		if !errors.As(err, &reportErr) || reportErr.Code != domainerror.ErrCodeUnreadableImportFile {
			t.Fatalf("expected unreadable file error, got %v", err)
		}
	})
}
