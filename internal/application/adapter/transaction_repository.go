// Package adapter defines interfaces that will be implemented in the integration layer.
package adapter

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/BlvckBrry/finance-tracker/internal/domain/entity"
)

// TransactionFilter defines filter options for listing transactions.
type TransactionFilter struct {
	UserID      uuid.UUID
	CategoryIDs []uuid.UUID
	Type        *entity.TransactionType
	MinAmount   *decimal.Decimal
	MaxAmount   *decimal.Decimal
	StartDate   *time.Time
	EndDate     *time.Time
}

// TransactionPagination defines pagination options.
type TransactionPagination struct {
	Page  int
	Limit int
}

// TransactionRepository defines the read-only interface for transaction
// queries. All mutations go through LedgerRepository so that every write
// stays coupled to its balance effect.
type TransactionRepository interface {
	// FindByID retrieves a transaction by its ID.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Transaction, error)

	// FindByFilter retrieves transactions based on filter criteria with pagination.
	FindByFilter(ctx context.Context, filter TransactionFilter, pagination TransactionPagination) (*entity.TransactionListResult, error)

	// FindByDateRange retrieves all of a user's transactions in [start, end],
	// newest first, with categories attached. Used by the reporting reader.
	FindByDateRange(ctx context.Context, userID uuid.UUID, start, end time.Time) ([]*entity.TransactionWithCategory, error)

	// FindExpensesSince retrieves all expense transactions created at or
	// after the given instant. Used by the spending-limit monitor.
	FindExpensesSince(ctx context.Context, userID uuid.UUID, since time.Time) ([]*entity.Transaction, error)

	// FindRecent retrieves the user's most recent transactions.
	FindRecent(ctx context.Context, userID uuid.UUID, limit int) ([]*entity.Transaction, error)

	// FindByUser retrieves all transactions for a given user, newest first.
	FindByUser(ctx context.Context, userID uuid.UUID) ([]*entity.Transaction, error)

	// CountByCategory counts transactions referencing the given category.
	CountByCategory(ctx context.Context, categoryID uuid.UUID) (int64, error)
}
