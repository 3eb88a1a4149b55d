package limits

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/BlvckBrry/finance-tracker/internal/application/adapter"
	"github.com/BlvckBrry/finance-tracker/internal/application/usecase/currency"
	"github.com/BlvckBrry/finance-tracker/internal/domain/entity"
	"github.com/BlvckBrry/finance-tracker/internal/integration/persistence"
	"github.com/BlvckBrry/finance-tracker/internal/integration/persistence/model"
)

// recordingNotifier captures notifications instead of queueing emails.
type recordingNotifier struct {
	mu       sync.Mutex
	warnings []adapter.LimitNotification
	exceeded []adapter.LimitNotification
}

func (n *recordingNotifier) NotifyWarning(ctx context.Context, notification adapter.LimitNotification) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.warnings = append(n.warnings, notification)
	return nil
}

func (n *recordingNotifier) NotifyExceeded(ctx context.Context, notification adapter.LimitNotification) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.exceeded = append(n.exceeded, notification)
	return nil
}

func (n *recordingNotifier) counts() (int, int) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.warnings), len(n.exceeded)
}

type monitorFixture struct {
	db         *gorm.DB
	monitor    *Monitor
	notifier   *recordingNotifier
	userID     uuid.UUID
	categoryID uuid.UUID
}

func newMonitorFixture(t *testing.T, spendingLimit *decimal.Decimal) *monitorFixture {
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
		&model.TransactionModel{},
	); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	userID := uuid.New()
	user := &model.UserModel{
		ID:               userID,
		Email:            "limits@example.com",
		Username:         "limits",
		PasswordHash:     "x",
		SpendingLimit:    spendingLimit,
		WarningThreshold: entity.DefaultWarningThreshold,
		CreatedAt:        time.Now().UTC(),
		UpdatedAt:        time.Now().UTC(),
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to seed user: %v", err)
	}

	categoryID := uuid.New()
	if err := db.Create(&model.CategoryModel{
		ID:        categoryID,
		UserID:    userID,
		Name:      "Groceries",
		CreatedAt: time.Now().UTC(),
	}).Error; err != nil {
		t.Fatalf("failed to seed category: %v", err)
	}

	notifier := &recordingNotifier{}
	currencyRepo := persistence.NewCurrencyRepository(db)
	converter := currency.NewConverter(currencyRepo, "UAH")
	monitor := NewMonitor(
		persistence.NewUserRepository(db),
		persistence.NewTransactionRepository(db),
		converter,
		notifier,
		DefaultWarningCooldown,
	)

	return &monitorFixture{db: db, monitor: monitor, notifier: notifier, userID: userID, categoryID: categoryID}
}

func (f *monitorFixture) seedExpense(t *testing.T, amount string, occurredAt time.Time) {
	t.Helper()
	value, err := decimal.NewFromString(amount)
	if err != nil {
		t.Fatalf("bad amount: %v", err)
	}
	row := &model.TransactionModel{
		ID:         uuid.New(),
		UserID:     f.userID,
		Type:       "expense",
		Amount:     value,
		CategoryID: f.categoryID,
		CreatedAt:  occurredAt,
		UpdatedAt:  occurredAt,
	}
	if err := f.db.Create(row).Error; err != nil {
		t.Fatalf("failed to seed expense: %v", err)
	}
}

func limitOf(s string) *decimal.Decimal {
	value := decimal.RequireFromString(s)
	return &value
}

func TestMonitorCheck(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, time.March, 15, 12, 0, 0, 0, time.UTC)
	monthStart := time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)

	t.Run("no limit configured is a no-op", func(t *testing.T) {
		f := newMonitorFixture(t, nil)
		f.monitor.now = func() time.Time { return now }
		f.seedExpense(t, "10000", now.Add(-time.Hour))

		if err := f.monitor.Check(ctx, f.userID); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		warnings, exceeded := f.notifier.counts()
		if warnings != 0 || exceeded != 0 {
			t.Errorf("expected no notifications, got %d warnings and %d exceeded", warnings, exceeded)
		}
	})

	t.Run("spending below the threshold stays quiet", func(t *testing.T) {
		f := newMonitorFixture(t, limitOf("1000"))
		f.monitor.now = func() time.Time { return now }
		f.seedExpense(t, "500", now.Add(-time.Hour))

		if err := f.monitor.Check(ctx, f.userID); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		warnings, exceeded := f.notifier.counts()
		if warnings != 0 || exceeded != 0 {
			t.Errorf("expected no notifications, got %d warnings and %d exceeded", warnings, exceeded)
		}
	})

	t.Run("crossing the warning threshold sends a warning and stamps the user", func(t *testing.T) {
		f := newMonitorFixture(t, limitOf("1000"))
		f.monitor.now = func() time.Time { return now }
		f.seedExpense(t, "800", now.Add(-time.Hour))

		if err := f.monitor.Check(ctx, f.userID); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		warnings, exceeded := f.notifier.counts()
		if warnings != 1 || exceeded != 0 {
			t.Fatalf("expected one warning, got %d warnings and %d exceeded", warnings, exceeded)
		}
		if !f.notifier.warnings[0].TotalSpending.Equal(decimal.RequireFromString("800")) {
			t.Errorf("expected total 800, got %s", f.notifier.warnings[0].TotalSpending)
		}

		var userModel model.UserModel
		if err := f.db.First(&userModel, "id = ?", f.userID).Error; err != nil {
			t.Fatalf("failed to reload user: %v", err)
		}
		if userModel.LastWarningSentAt == nil {
			t.Error("expected LastWarningSentAt to be set")
		}
	})

	t.Run("a second warning inside the cooldown is suppressed", func(t *testing.T) {
		f := newMonitorFixture(t, limitOf("1000"))
		f.monitor.now = func() time.Time { return now }
		f.seedExpense(t, "800", now.Add(-time.Hour))

		if err := f.monitor.Check(ctx, f.userID); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		f.monitor.now = func() time.Time { return now.Add(time.Hour) }
		if err := f.monitor.Check(ctx, f.userID); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		warnings, _ := f.notifier.counts()
		if warnings != 1 {
			t.Errorf("expected one warning, got %d", warnings)
		}
	})

	t.Run("a warning after the cooldown goes out again", func(t *testing.T) {
		f := newMonitorFixture(t, limitOf("1000"))
		f.monitor.now = func() time.Time { return now }
		f.seedExpense(t, "800", now.Add(-time.Hour))

		if err := f.monitor.Check(ctx, f.userID); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		f.monitor.now = func() time.Time { return now.Add(25 * time.Hour) }
		if err := f.monitor.Check(ctx, f.userID); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		warnings, _ := f.notifier.counts()
		if warnings != 2 {
			t.Errorf("expected two warnings, got %d", warnings)
		}
	})

	t.Run("reaching the limit sends an exceeded notice every time", func(t *testing.T) {
		f := newMonitorFixture(t, limitOf("1000"))
		f.monitor.now = func() time.Time { return now }
		f.seedExpense(t, "1000", now.Add(-time.Hour))

		for i := 0; i < 2; i++ {
			if err := f.monitor.Check(ctx, f.userID); err != nil {
				t.Fatalf("unexpected error on check %d: %v", i, err)
			}
		}
		warnings, exceeded := f.notifier.counts()
		if warnings != 0 || exceeded != 2 {
			t.Errorf("expected two exceeded notices and no warnings, got %d warnings and %d exceeded", warnings, exceeded)
		}
	})

	t.Run("expenses from earlier months are ignored", func(t *testing.T) {
		f := newMonitorFixture(t, limitOf("1000"))
		f.monitor.now = func() time.Time { return now }
		f.seedExpense(t, "5000", monthStart.Add(-time.Hour))
		f.seedExpense(t, "100", now.Add(-time.Hour))

		if err := f.monitor.Check(ctx, f.userID); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		warnings, exceeded := f.notifier.counts()
		if warnings != 0 || exceeded != 0 {
			t.Errorf("expected no notifications, got %d warnings and %d exceeded", warnings, exceeded)
		}
	})
}

func TestCalculateMonthlySpending(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, time.March, 15, 12, 0, 0, 0, time.UTC)

	t.Run("foreign expenses are converted at current rates", func(t *testing.T) {
		f := newMonitorFixture(t, nil)
		f.monitor.now = func() time.Time { return now }
		if err := f.db.Create(&model.CurrencyModel{
			Code:       "USD",
			Name:       "USD",
			RateToBase: decimal.RequireFromString("40"),
			UpdatedAt:  now,
		}).Error; err != nil {
			t.Fatalf("failed to seed rate: %v", err)
		}

		f.seedExpense(t, "100", now.Add(-time.Hour))
		usd := &model.TransactionModel{
			ID:           uuid.New(),
			UserID:       f.userID,
			Type:         "expense",
			Amount:       decimal.RequireFromString("10"),
			CurrencyCode: "USD",
			CategoryID:   f.categoryID,
			CreatedAt:    now.Add(-time.Hour),
			UpdatedAt:    now.Add(-time.Hour),
		}
		if err := f.db.Create(usd).Error; err != nil {
			t.Fatalf("failed to seed expense: %v", err)
		}

		total, err := f.monitor.CalculateMonthlySpending(ctx, f.userID)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !total.Equal(decimal.RequireFromString("500")) {
			t.Errorf("expected total 500, got %s", total)
		}
	})
}

func TestUpdateSettings(t *testing.T) {
	ctx := context.Background()

	t.Run("setting a limit persists it", func(t *testing.T) {
		f := newMonitorFixture(t, nil)
		uc := NewUpdateSettingsUseCase(persistence.NewUserRepository(f.db))

		output, err := uc.Execute(ctx, UpdateSettingsInput{
			UserID:        f.userID,
			SpendingLimit: limitOf("2500"),
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if output.SpendingLimit == nil || !output.SpendingLimit.Equal(decimal.RequireFromString("2500")) {
			t.Errorf("expected limit 2500, got %v", output.SpendingLimit)
		}
	})

	t.Run("negative limit is rejected", func(t *testing.T) {
		f := newMonitorFixture(t, nil)
		uc := NewUpdateSettingsUseCase(persistence.NewUserRepository(f.db))

		if _, err := uc.Execute(ctx, UpdateSettingsInput{
			UserID:        f.userID,
			SpendingLimit: limitOf("-10"),
		}); err == nil {
			t.Fatal("expected an error for a negative limit")
		}
	})

	t.Run("threshold outside 0..100 is rejected", func(t *testing.T) {
		f := newMonitorFixture(t, nil)
		uc := NewUpdateSettingsUseCase(persistence.NewUserRepository(f.db))

		if _, err := uc.Execute(ctx, UpdateSettingsInput{
			UserID:           f.userID,
			WarningThreshold: limitOf("150"),
		}); err == nil {
			t.Fatal("expected an error for an out-of-range threshold")
		}
	})
}

func TestGetSettings(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, time.March, 15, 12, 0, 0, 0, time.UTC)

	t.Run("reports the current month's spending", func(t *testing.T) {
		f := newMonitorFixture(t, limitOf("1000"))
		f.monitor.now = func() time.Time { return now }
		f.seedExpense(t, "250", now.Add(-time.Hour))

		uc := NewGetSettingsUseCase(persistence.NewUserRepository(f.db), f.monitor)
		output, err := uc.Execute(ctx, GetSettingsInput{UserID: f.userID})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if output.SpendingLimit == nil || !output.SpendingLimit.Equal(decimal.RequireFromString("1000")) {
			t.Errorf("expected limit 1000, got %v", output.SpendingLimit)
		}
		if !output.WarningThreshold.Equal(entity.DefaultWarningThreshold) {
			t.Errorf("expected threshold %s, got %s", entity.DefaultWarningThreshold, output.WarningThreshold)
		}
		if !output.CurrentSpending.Equal(decimal.RequireFromString("250")) {
			t.Errorf("expected spending 250, got %s", output.CurrentSpending)
		}
	})
}
