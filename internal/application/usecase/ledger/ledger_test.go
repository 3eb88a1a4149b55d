// Package ledger contains transaction and balance use cases.
package ledger

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/BlvckBrry/finance-tracker/internal/application/usecase/currency"
	"github.com/BlvckBrry/finance-tracker/internal/domain/entity"
	domainerror "github.com/BlvckBrry/finance-tracker/internal/domain/error"
	"github.com/BlvckBrry/finance-tracker/internal/integration/persistence"
	"github.com/BlvckBrry/finance-tracker/internal/integration/persistence/model"
)

const testBaseCurrency = "UAH"

type ledgerFixture struct {
	db     *gorm.DB
	create *CreateTransactionUseCase
	get    *GetTransactionUseCase
	update *UpdateTransactionUseCase
	delete *DeleteTransactionUseCase
	adjust *AdjustBalanceUseCase
	reset  *ResetAccountUseCase
	getBal *GetBalanceUseCase
	userID uuid.UUID
}

// recordingMonitor captures limit checks triggered by expenses.
type recordingMonitor struct {
	mu      sync.Mutex
	userIDs []uuid.UUID
	done    chan struct{}
}

func newRecordingMonitor() *recordingMonitor {
	return &recordingMonitor{done: make(chan struct{}, 16)}
}

func (m *recordingMonitor) Check(ctx context.Context, userID uuid.UUID) error {
	m.mu.Lock()
	m.userIDs = append(m.userIDs, userID)
	m.mu.Unlock()
	m.done <- struct{}{}
	return nil
}

func (m *recordingMonitor) waitForCheck(t *testing.T) uuid.UUID {
	t.Helper()
	select {
	case <-m.done:
	case <-time.After(2 * time.Second):
		t.Fatal("expected a limit check to run")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.userIDs[len(m.userIDs)-1]
}

func (m *recordingMonitor) checkCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.userIDs)
}

func newLedgerFixture(t *testing.T, monitor LimitMonitor) *ledgerFixture {
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
		Email:            "ledger@example.com",
		Username:         "ledger",
		PasswordHash:     "x",
		WarningThreshold: entity.DefaultWarningThreshold,
		CreatedAt:        time.Now().UTC(),
		UpdatedAt:        time.Now().UTC(),
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to seed user: %v", err)
	}

	ledgerRepo := persistence.NewLedgerRepository(db, testBaseCurrency)
	categoryRepo := persistence.NewCategoryRepository(db)
	transactionRepo := persistence.NewTransactionRepository(db)
	currencyRepo := persistence.NewCurrencyRepository(db)
	converter := currency.NewConverter(currencyRepo, testBaseCurrency)

	create := NewCreateTransactionUseCase(ledgerRepo, categoryRepo, converter, monitor)

	return &ledgerFixture{
		db:     db,
		create: create,
		get:    NewGetTransactionUseCase(transactionRepo, categoryRepo),
		update: NewUpdateTransactionUseCase(ledgerRepo, transactionRepo, categoryRepo, converter, monitor),
		delete: NewDeleteTransactionUseCase(ledgerRepo, transactionRepo, converter),
		adjust: NewAdjustBalanceUseCase(create),
		reset:  NewResetAccountUseCase(ledgerRepo),
		getBal: NewGetBalanceUseCase(ledgerRepo, transactionRepo),
		userID: userID,
	}
}

func (f *ledgerFixture) seedRate(t *testing.T, code string, rate string) {
	t.Helper()
	value, err := decimal.NewFromString(rate)
	if err != nil {
		t.Fatalf("bad rate: %v", err)
	}
	if err := f.db.Create(&model.CurrencyModel{
		Code:       code,
		Name:       code,
		RateToBase: value,
		UpdatedAt:  time.Now().UTC(),
	}).Error; err != nil {
		t.Fatalf("failed to seed rate: %v", err)
	}
}

func (f *ledgerFixture) balance(t *testing.T) decimal.Decimal {
	t.Helper()
	var balanceModel model.BalanceModel
	if err := f.db.Where("user_id = ?", f.userID).First(&balanceModel).Error; err != nil {
		t.Fatalf("failed to load balance: %v", err)
	}
	return balanceModel.Amount
}

func mustDecimal(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	value, err := decimal.NewFromString(s)
	if err != nil {
		t.Fatalf("bad decimal %q: %v", s, err)
	}
	return value
}

func TestCreateTransaction(t *testing.T) {
	ctx := context.Background()

	t.Run("income raises the balance", func(t *testing.T) {
		f := newLedgerFixture(t, nil)

		output, err := f.create.Execute(ctx, CreateTransactionInput{
			UserID:       f.userID,
			Type:         entity.TransactionTypeIncome,
			Amount:       mustDecimal(t, "1500.50"),
			CategoryName: "Salary",
			Title:        "October salary",
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if !output.Balance.Amount.Equal(mustDecimal(t, "1500.50")) {
			t.Errorf("expected balance 1500.50, got %s", output.Balance.Amount)
		}
		if output.Category == nil || output.Category.Name != "Salary" {
			t.Errorf("expected category Salary, got %+v", output.Category)
		}
	})

	t.Run("expense exceeding the balance is rejected", func(t *testing.T) {
		f := newLedgerFixture(t, nil)

		if _, err := f.create.Execute(ctx, CreateTransactionInput{
			UserID:       f.userID,
			Type:         entity.TransactionTypeIncome,
			Amount:       mustDecimal(t, "100"),
			CategoryName: "Salary",
		}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		_, err := f.create.Execute(ctx, CreateTransactionInput{
			UserID:       f.userID,
			Type:         entity.TransactionTypeExpense,
			Amount:       mustDecimal(t, "250"),
			CategoryName: "Groceries",
		})
		var ledgerErr *domainerror.LedgerError
		if !errors.As(err, &ledgerErr) || ledgerErr.Code != domainerror.ErrCodeInsufficientFunds {
			t.Fatalf("expected insufficient funds, got %v", err)
		}

		// The rejected expense must persist nothing.
		var count int64
		f.db.Model(&model.TransactionModel{}).Where("type = ?", "expense").Count(&count)
		if count != 0 {
			t.Errorf("expected no expense rows, got %d", count)
		}
		if !f.balance(t).Equal(mustDecimal(t, "100")) {
			t.Errorf("expected balance 100, got %s", f.balance(t))
		}
	})

	t.Run("expense down to exactly zero is allowed", func(t *testing.T) {
		f := newLedgerFixture(t, nil)

		if _, err := f.create.Execute(ctx, CreateTransactionInput{
			UserID:       f.userID,
			Type:         entity.TransactionTypeIncome,
			Amount:       mustDecimal(t, "100"),
			CategoryName: "Salary",
		}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		output, err := f.create.Execute(ctx, CreateTransactionInput{
			UserID:       f.userID,
			Type:         entity.TransactionTypeExpense,
			Amount:       mustDecimal(t, "100"),
			CategoryName: "Groceries",
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !output.Balance.Amount.IsZero() {
			t.Errorf("expected zero balance, got %s", output.Balance.Amount)
		}
	})

	t.Run("one cent over the balance is rejected", func(t *testing.T) {
		f := newLedgerFixture(t, nil)

		if _, err := f.create.Execute(ctx, CreateTransactionInput{
			UserID:       f.userID,
			Type:         entity.TransactionTypeIncome,
			Amount:       mustDecimal(t, "100"),
			CategoryName: "Salary",
		}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		_, err := f.create.Execute(ctx, CreateTransactionInput{
			UserID:       f.userID,
			Type:         entity.TransactionTypeExpense,
			Amount:       mustDecimal(t, "100.01"),
			CategoryName: "Groceries",
		})
		var ledgerErr *domainerror.LedgerError
		if !errors.As(err, &ledgerErr) || ledgerErr.Code != domainerror.ErrCodeInsufficientFunds {
			t.Fatalf("expected insufficient funds, got %v", err)
		}
	})

	t.Run("foreign currency amount is converted at the current rate", func(t *testing.T) {
		f := newLedgerFixture(t, nil)
		f.seedRate(t, "USD", "41.5")

		output, err := f.create.Execute(ctx, CreateTransactionInput{
			UserID:       f.userID,
			Type:         entity.TransactionTypeIncome,
			Amount:       mustDecimal(t, "10"),
			CurrencyCode: "usd",
			CategoryName: "Salary",
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !output.Balance.Amount.Equal(mustDecimal(t, "415")) {
			t.Errorf("expected balance 415, got %s", output.Balance.Amount)
		}
		// The stored row keeps the original amount and currency.
		if !output.Transaction.Amount.Equal(mustDecimal(t, "10")) || output.Transaction.CurrencyCode != "USD" {
			t.Errorf("expected original 10 USD on the row, got %s %s", output.Transaction.Amount, output.Transaction.CurrencyCode)
		}
	})

	t.Run("unknown currency is rejected", func(t *testing.T) {
		f := newLedgerFixture(t, nil)

		_, err := f.create.Execute(ctx, CreateTransactionInput{
			UserID:       f.userID,
			Type:         entity.TransactionTypeIncome,
			Amount:       mustDecimal(t, "10"),
			CurrencyCode: "XXX",
			CategoryName: "Misc",
		})
		var currencyErr *domainerror.CurrencyError
		if !errors.As(err, &currencyErr) || currencyErr.Code != domainerror.ErrCodeCurrencyNotFound {
			t.Fatalf("expected currency not found, got %v", err)
		}
	})

	t.Run("zero amount is rejected", func(t *testing.T) {
		f := newLedgerFixture(t, nil)

		_, err := f.create.Execute(ctx, CreateTransactionInput{
			UserID:       f.userID,
			Type:         entity.TransactionTypeIncome,
			Amount:       decimal.Zero,
			CategoryName: "Misc",
		})
		var ledgerErr *domainerror.LedgerError
		if !errors.As(err, &ledgerErr) || ledgerErr.Code != domainerror.ErrCodeInvalidAmount {
			t.Fatalf("expected invalid amount, got %v", err)
		}
	})

	t.Run("empty category name is rejected", func(t *testing.T) {
		f := newLedgerFixture(t, nil)

		_, err := f.create.Execute(ctx, CreateTransactionInput{
			UserID:       f.userID,
			Type:         entity.TransactionTypeIncome,
			Amount:       mustDecimal(t, "10"),
			CategoryName: "   ",
		})
		var categoryErr *domainerror.CategoryError
		if !errors.As(err, &categoryErr) || categoryErr.Code != domainerror.ErrCodeCategoryNameEmpty {
			t.Fatalf("expected empty category name error, got %v", err)
		}
	})

	t.Run("expense triggers a limit check, income does not", func(t *testing.T) {
		monitor := newRecordingMonitor()
		f := newLedgerFixture(t, monitor)

		if _, err := f.create.Execute(ctx, CreateTransactionInput{
			UserID:       f.userID,
			Type:         entity.TransactionTypeIncome,
			Amount:       mustDecimal(t, "1000"),
			CategoryName: "Salary",
		}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if _, err := f.create.Execute(ctx, CreateTransactionInput{
			UserID:       f.userID,
			Type:         entity.TransactionTypeExpense,
			Amount:       mustDecimal(t, "100"),
			CategoryName: "Groceries",
		}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if got := monitor.waitForCheck(t); got != f.userID {
			t.Errorf("expected check for %s, got %s", f.userID, got)
		}
		if monitor.checkCount() != 1 {
			t.Errorf("expected exactly one check, got %d", monitor.checkCount())
		}
	})
}

func TestGetTransaction(t *testing.T) {
	ctx := context.Background()

	t.Run("returns the transaction with its category", func(t *testing.T) {
		f := newLedgerFixture(t, nil)

		created, err := f.create.Execute(ctx, CreateTransactionInput{
			UserID:       f.userID,
			Type:         entity.TransactionTypeIncome,
			Amount:       mustDecimal(t, "1000"),
			CategoryName: "Salary",
			Title:        "October salary",
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		output, err := f.get.Execute(ctx, GetTransactionInput{
			TransactionID: created.Transaction.ID,
			UserID:        f.userID,
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if output.Transaction.ID != created.Transaction.ID {
			t.Errorf("expected transaction %s, got %s", created.Transaction.ID, output.Transaction.ID)
		}
		if !output.Transaction.Amount.Equal(mustDecimal(t, "1000")) {
			t.Errorf("expected amount 1000, got %s", output.Transaction.Amount)
		}
		if output.Category == nil || output.Category.Name != "Salary" {
			t.Errorf("expected category Salary, got %+v", output.Category)
		}
	})

	t.Run("another user's transaction is not found", func(t *testing.T) {
		f := newLedgerFixture(t, nil)

		created, err := f.create.Execute(ctx, CreateTransactionInput{
			UserID:       f.userID,
			Type:         entity.TransactionTypeIncome,
			Amount:       mustDecimal(t, "1000"),
			CategoryName: "Salary",
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		_, err = f.get.Execute(ctx, GetTransactionInput{
			TransactionID: created.Transaction.ID,
			UserID:        uuid.New(),
		})
		var ledgerErr *domainerror.LedgerError
		if !errors.As(err, &ledgerErr) || ledgerErr.Code != domainerror.ErrCodeTransactionNotFound {
			t.Fatalf("expected transaction not found, got %v", err)
		}
	})
}

func TestUpdateTransaction(t *testing.T) {
	ctx := context.Background()

	t.Run("amount change shifts the balance by the difference", func(t *testing.T) {
		f := newLedgerFixture(t, nil)

		created, err := f.create.Execute(ctx, CreateTransactionInput{
			UserID:       f.userID,
			Type:         entity.TransactionTypeIncome,
			Amount:       mustDecimal(t, "1000"),
			CategoryName: "Salary",
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		amount := mustDecimal(t, "600")
		output, err := f.update.Execute(ctx, UpdateTransactionInput{
			TransactionID: created.Transaction.ID,
			UserID:        f.userID,
			Amount:        &amount,
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !output.Balance.Amount.Equal(mustDecimal(t, "600")) {
			t.Errorf("expected balance 600, got %s", output.Balance.Amount)
		}
	})

	t.Run("type flip that would overdraw is rejected", func(t *testing.T) {
		f := newLedgerFixture(t, nil)

		created, err := f.create.Execute(ctx, CreateTransactionInput{
			UserID:       f.userID,
			Type:         entity.TransactionTypeIncome,
			Amount:       mustDecimal(t, "100"),
			CategoryName: "Salary",
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		flipped := entity.TransactionTypeExpense
		_, err = f.update.Execute(ctx, UpdateTransactionInput{
			TransactionID: created.Transaction.ID,
			UserID:        f.userID,
			Type:          &flipped,
		})
		var ledgerErr *domainerror.LedgerError
		if !errors.As(err, &ledgerErr) || ledgerErr.Code != domainerror.ErrCodeInsufficientFunds {
			t.Fatalf("expected insufficient funds, got %v", err)
		}

		// The row must keep its original type after the rejection.
		var row model.TransactionModel
		if err := f.db.First(&row, "id = ?", created.Transaction.ID).Error; err != nil {
			t.Fatalf("failed to reload row: %v", err)
		}
		if row.Type != "income" {
			t.Errorf("expected type income, got %s", row.Type)
		}
	})

	t.Run("another user's transaction is reported as not found", func(t *testing.T) {
		f := newLedgerFixture(t, nil)

		created, err := f.create.Execute(ctx, CreateTransactionInput{
			UserID:       f.userID,
			Type:         entity.TransactionTypeIncome,
			Amount:       mustDecimal(t, "100"),
			CategoryName: "Salary",
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		amount := mustDecimal(t, "50")
		_, err = f.update.Execute(ctx, UpdateTransactionInput{
			TransactionID: created.Transaction.ID,
			UserID:        uuid.New(),
			Amount:        &amount,
		})
		var ledgerErr *domainerror.LedgerError
		if !errors.As(err, &ledgerErr) || ledgerErr.Code != domainerror.ErrCodeTransactionNotFound {
			t.Fatalf("expected transaction not found, got %v", err)
		}
	})
}

func TestDeleteTransaction(t *testing.T) {
	ctx := context.Background()

	t.Run("create then delete is balance neutral", func(t *testing.T) {
		f := newLedgerFixture(t, nil)

		if _, err := f.create.Execute(ctx, CreateTransactionInput{
			UserID:       f.userID,
			Type:         entity.TransactionTypeIncome,
			Amount:       mustDecimal(t, "1000"),
			CategoryName: "Salary",
		}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		created, err := f.create.Execute(ctx, CreateTransactionInput{
			UserID:       f.userID,
			Type:         entity.TransactionTypeExpense,
			Amount:       mustDecimal(t, "200"),
			CategoryName: "Groceries",
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		output, err := f.delete.Execute(ctx, DeleteTransactionInput{
			TransactionID: created.Transaction.ID,
			UserID:        f.userID,
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !output.Balance.Amount.Equal(mustDecimal(t, "1000")) {
			t.Errorf("expected balance 1000, got %s", output.Balance.Amount)
		}
	})

	t.Run("deleting an income may drive the balance negative", func(t *testing.T) {
		f := newLedgerFixture(t, nil)

		income, err := f.create.Execute(ctx, CreateTransactionInput{
			UserID:       f.userID,
			Type:         entity.TransactionTypeIncome,
			Amount:       mustDecimal(t, "1000"),
			CategoryName: "Salary",
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if _, err := f.create.Execute(ctx, CreateTransactionInput{
			UserID:       f.userID,
			Type:         entity.TransactionTypeExpense,
			Amount:       mustDecimal(t, "400"),
			CategoryName: "Rent",
		}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		output, err := f.delete.Execute(ctx, DeleteTransactionInput{
			TransactionID: income.Transaction.ID,
			UserID:        f.userID,
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !output.Balance.Amount.Equal(mustDecimal(t, "-400")) {
			t.Errorf("expected balance -400, got %s", output.Balance.Amount)
		}
	})
}

func TestAdjustBalance(t *testing.T) {
	ctx := context.Background()

	t.Run("positive adjustment creates an income under the reserved category", func(t *testing.T) {
		f := newLedgerFixture(t, nil)

		output, err := f.adjust.Execute(ctx, AdjustBalanceInput{
			UserID: f.userID,
			Amount: mustDecimal(t, "500"),
			Reason: "Opening balance",
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if output.Transaction.Type != entity.TransactionTypeIncome {
			t.Errorf("expected income, got %s", output.Transaction.Type)
		}
		if !output.Balance.Amount.Equal(mustDecimal(t, "500")) {
			t.Errorf("expected balance 500, got %s", output.Balance.Amount)
		}

		var categoryModel model.CategoryModel
		if err := f.db.First(&categoryModel, "user_id = ?", f.userID).Error; err != nil {
			t.Fatalf("failed to load category: %v", err)
		}
		if categoryModel.Name != entity.AdjustmentCategoryName {
			t.Errorf("expected category %q, got %q", entity.AdjustmentCategoryName, categoryModel.Name)
		}
	})

	t.Run("zero adjustment is rejected", func(t *testing.T) {
		f := newLedgerFixture(t, nil)

		_, err := f.adjust.Execute(ctx, AdjustBalanceInput{
			UserID: f.userID,
			Amount: decimal.Zero,
		})
		var ledgerErr *domainerror.LedgerError
		if !errors.As(err, &ledgerErr) || ledgerErr.Code != domainerror.ErrCodeZeroAdjustment {
			t.Fatalf("expected zero adjustment error, got %v", err)
		}
	})

	t.Run("negative adjustment below the balance is rejected", func(t *testing.T) {
		f := newLedgerFixture(t, nil)

		_, err := f.adjust.Execute(ctx, AdjustBalanceInput{
			UserID: f.userID,
			Amount: mustDecimal(t, "-300"),
		})
		var ledgerErr *domainerror.LedgerError
		if !errors.As(err, &ledgerErr) || ledgerErr.Code != domainerror.ErrCodeInsufficientFunds {
			t.Fatalf("expected insufficient funds, got %v", err)
		}
	})
}

func TestResetAccount(t *testing.T) {
	ctx := context.Background()

	t.Run("reset wipes transactions and categories and zeroes the balance", func(t *testing.T) {
		f := newLedgerFixture(t, nil)

		if _, err := f.create.Execute(ctx, CreateTransactionInput{
			UserID:       f.userID,
			Type:         entity.TransactionTypeIncome,
			Amount:       mustDecimal(t, "1000"),
			CategoryName: "Salary",
		}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		output, err := f.reset.Execute(ctx, ResetAccountInput{UserID: f.userID})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !output.Balance.Amount.IsZero() {
			t.Errorf("expected zero balance, got %s", output.Balance.Amount)
		}

		var txnCount, categoryCount int64
		f.db.Model(&model.TransactionModel{}).Where("user_id = ?", f.userID).Count(&txnCount)
		f.db.Model(&model.CategoryModel{}).Where("user_id = ?", f.userID).Count(&categoryCount)
		if txnCount != 0 || categoryCount != 0 {
			t.Errorf("expected empty account, got %d transactions and %d categories", txnCount, categoryCount)
		}
	})

	t.Run("resetting an empty account succeeds", func(t *testing.T) {
		f := newLedgerFixture(t, nil)

		for i := 0; i < 2; i++ {
			output, err := f.reset.Execute(ctx, ResetAccountInput{UserID: f.userID})
			if err != nil {
				t.Fatalf("unexpected error on reset %d: %v", i, err)
			}
			if !output.Balance.Amount.IsZero() {
				t.Errorf("expected zero balance, got %s", output.Balance.Amount)
			}
		}
	})
}

func TestGetBalance(t *testing.T) {
	ctx := context.Background()

	t.Run("first read creates a zero row with the base currency", func(t *testing.T) {
		f := newLedgerFixture(t, nil)

		output, err := f.getBal.Execute(ctx, GetBalanceInput{UserID: f.userID})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !output.Balance.Amount.IsZero() {
			t.Errorf("expected zero balance, got %s", output.Balance.Amount)
		}
		if output.Balance.CurrencyCode != testBaseCurrency {
			t.Errorf("expected currency %s, got %s", testBaseCurrency, output.Balance.CurrencyCode)
		}
	})
}

func TestConcurrentExpenses(t *testing.T) {
	ctx := context.Background()
	f := newLedgerFixture(t, nil)

	if _, err := f.create.Execute(ctx, CreateTransactionInput{
		UserID:       f.userID,
		Type:         entity.TransactionTypeIncome,
		Amount:       mustDecimal(t, "1000"),
		CategoryName: "Salary",
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Fire concurrent expenses of 300 against a balance of 1000. At most
	// three can pass the solvency check; the rest must be rejected, and the
	// balance must equal the income minus the accepted expenses.
	const workers = 6
	var wg sync.WaitGroup
	var mu sync.Mutex
	accepted := 0

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.create.Execute(ctx, CreateTransactionInput{
				UserID:       f.userID,
				Type:         entity.TransactionTypeExpense,
				Amount:       mustDecimal(t, "300"),
				CategoryName: "Shopping",
			})
			if err == nil {
				mu.Lock()
				accepted++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if accepted > 3 {
		t.Errorf("expected at most 3 accepted expenses, got %d", accepted)
	}

	expected := mustDecimal(t, "1000").Sub(mustDecimal(t, "300").Mul(decimal.NewFromInt(int64(accepted))))
	if !f.balance(t).Equal(expected) {
		t.Errorf("expected balance %s, got %s", expected, f.balance(t))
	}
}
