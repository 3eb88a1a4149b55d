package category

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	domainerror "github.com/BlvckBrry/finance-tracker/internal/domain/error"
	"github.com/BlvckBrry/finance-tracker/internal/integration/persistence"
	"github.com/BlvckBrry/finance-tracker/internal/integration/persistence/model"
)

type categoryFixture struct {
	db     *gorm.DB
	create *CreateCategoryUseCase
	list   *ListCategoriesUseCase
	update *UpdateCategoryUseCase
	delete *DeleteCategoryUseCase
	userID uuid.UUID
}

func newCategoryFixture(t *testing.T) *categoryFixture {
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
	if err := db.AutoMigrate(&model.CategoryModel{}, &model.TransactionModel{}); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	categoryRepo := persistence.NewCategoryRepository(db)
	transactionRepo := persistence.NewTransactionRepository(db)

	return &categoryFixture{
		db:     db,
		create: NewCreateCategoryUseCase(categoryRepo),
		list:   NewListCategoriesUseCase(categoryRepo),
		update: NewUpdateCategoryUseCase(categoryRepo),
		delete: NewDeleteCategoryUseCase(categoryRepo, transactionRepo),
		userID: uuid.New(),
	}
}

func TestCreateCategory(t *testing.T) {
	ctx := context.Background()

	t.Run("creates a category for the user", func(t *testing.T) {
		f := newCategoryFixture(t)

		output, err := f.create.Execute(ctx, CreateCategoryInput{UserID: f.userID, Name: "Groceries"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if output.Category.Name != "Groceries" {
			t.Errorf("expected name Groceries, got %s", output.Category.Name)
		}
		if output.Category.UserID != f.userID {
			t.Errorf("expected owner %s, got %s", f.userID, output.Category.UserID)
		}
	})

	t.Run("duplicate names for the same user are rejected", func(t *testing.T) {
		f := newCategoryFixture(t)

		if _, err := f.create.Execute(ctx, CreateCategoryInput{UserID: f.userID, Name: "Groceries"}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		_, err := f.create.Execute(ctx, CreateCategoryInput{UserID: f.userID, Name: "Groceries"})
		var categoryErr *domainerror.CategoryError
		if !errors.As(err, &categoryErr) || categoryErr.Code != domainerror.ErrCodeCategoryNameExists {
			t.Fatalf("expected name exists error, got %v", err)
		}
	})

	t.Run("the same name under another user is allowed", func(t *testing.T) {
		f := newCategoryFixture(t)

		if _, err := f.create.Execute(ctx, CreateCategoryInput{UserID: f.userID, Name: "Groceries"}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if _, err := f.create.Execute(ctx, CreateCategoryInput{UserID: uuid.New(), Name: "Groceries"}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("blank names are rejected", func(t *testing.T) {
		f := newCategoryFixture(t)

		_, err := f.create.Execute(ctx, CreateCategoryInput{UserID: f.userID, Name: "  "})
		var categoryErr *domainerror.CategoryError
		if !errors.As(err, &categoryErr) || categoryErr.Code != domainerror.ErrCodeCategoryNameEmpty {
			t.Fatalf("expected empty name error, got %v", err)
		}
	})
}

func TestListCategories(t *testing.T) {
	ctx := context.Background()

	t.Run("returns only the user's categories", func(t *testing.T) {
		f := newCategoryFixture(t)

		for _, name := range []string{"Groceries", "Rent"} {
			if _, err := f.create.Execute(ctx, CreateCategoryInput{UserID: f.userID, Name: name}); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		}
		if _, err := f.create.Execute(ctx, CreateCategoryInput{UserID: uuid.New(), Name: "Other"}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		output, err := f.list.Execute(ctx, ListCategoriesInput{UserID: f.userID})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(output.Categories) != 2 {
			t.Errorf("expected 2 categories, got %d", len(output.Categories))
		}
	})
}

func TestUpdateCategory(t *testing.T) {
	ctx := context.Background()

	t.Run("renames an owned category", func(t *testing.T) {
		f := newCategoryFixture(t)

		created, err := f.create.Execute(ctx, CreateCategoryInput{UserID: f.userID, Name: "Groceries"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		output, err := f.update.Execute(ctx, UpdateCategoryInput{
			CategoryID: created.Category.ID,
			UserID:     f.userID,
			Name:       "Food",
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if output.Category.Name != "Food" {
			t.Errorf("expected name Food, got %s", output.Category.Name)
		}
	})

	t.Run("renaming onto an existing name is rejected", func(t *testing.T) {
		f := newCategoryFixture(t)

		created, err := f.create.Execute(ctx, CreateCategoryInput{UserID: f.userID, Name: "Groceries"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if _, err := f.create.Execute(ctx, CreateCategoryInput{UserID: f.userID, Name: "Rent"}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		_, err = f.update.Execute(ctx, UpdateCategoryInput{
			CategoryID: created.Category.ID,
			UserID:     f.userID,
			Name:       "Rent",
		})
		var categoryErr *domainerror.CategoryError
		if !errors.As(err, &categoryErr) || categoryErr.Code != domainerror.ErrCodeCategoryNameExists {
			t.Fatalf("expected name exists error, got %v", err)
		}
	})

	t.Run("another user's category is reported as not found", func(t *testing.T) {
		f := newCategoryFixture(t)

		created, err := f.create.Execute(ctx, CreateCategoryInput{UserID: f.userID, Name: "Groceries"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		_, err = f.update.Execute(ctx, UpdateCategoryInput{
			CategoryID: created.Category.ID,
			UserID:     uuid.New(),
			Name:       "Food",
		})
		var categoryErr *domainerror.CategoryError
		if !errors.As(err, &categoryErr) || categoryErr.Code != domainerror.ErrCodeCategoryNotFound {
			t.Fatalf("expected not found error, got %v", err)
		}
	})
}

func TestDeleteCategory(t *testing.T) {
	ctx := context.Background()

	t.Run("deletes an unused category", func(t *testing.T) {
		f := newCategoryFixture(t)

		created, err := f.create.Execute(ctx, CreateCategoryInput{UserID: f.userID, Name: "Groceries"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		output, err := f.delete.Execute(ctx, DeleteCategoryInput{
			CategoryID: created.Category.ID,
			UserID:     f.userID,
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !output.Success {
			t.Error("expected success")
		}

		var count int64
		f.db.Model(&model.CategoryModel{}).Where("id = ?", created.Category.ID).Count(&count)
		if count != 0 {
			t.Errorf("expected category to be gone, found %d rows", count)
		}
	})

	t.Run("a category referenced by a transaction cannot be deleted", func(t *testing.T) {
		f := newCategoryFixture(t)

		created, err := f.create.Execute(ctx, CreateCategoryInput{UserID: f.userID, Name: "Groceries"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		txn := &model.TransactionModel{
			ID:         uuid.New(),
			UserID:     f.userID,
			Type:       "expense",
			Amount:     decimal.RequireFromString("10"),
			CategoryID: created.Category.ID,
			CreatedAt:  time.Now().UTC(),
			UpdatedAt:  time.Now().UTC(),
		}
		if err := f.db.Create(txn).Error; err != nil {
			t.Fatalf("failed to seed transaction: %v", err)
		}

		_, err = f.delete.Execute(ctx, DeleteCategoryInput{
			CategoryID: created.Category.ID,
			UserID:     f.userID,
		})
		var categoryErr *domainerror.CategoryError
		if !errors.As(err, &categoryErr) || categoryErr.Code != domainerror.ErrCodeCategoryInUse {
			t.Fatalf("expected in-use error, got %v", err)
		}
	})
}
