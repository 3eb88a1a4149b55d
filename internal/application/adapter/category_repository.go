// Package adapter defines interfaces that will be implemented in the integration layer.
package adapter

import (
	"context"

	"github.com/google/uuid"

	"github.com/BlvckBrry/finance-tracker/internal/domain/entity"
)

// CategoryRepository defines the interface for category persistence operations.
type CategoryRepository interface {
	// Create creates a new category in the database.
	Create(ctx context.Context, category *entity.Category) error

	// FindByID retrieves a category by its ID.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Category, error)

	// FindByNameAndUser retrieves a category by its exact name for a user.
	FindByNameAndUser(ctx context.Context, name string, userID uuid.UUID) (*entity.Category, error)

	// FindOrCreate returns the category with the given (name, user) pair,
	// creating it when absent. The lookup is case-sensitive and idempotent.
	FindOrCreate(ctx context.Context, name string, userID uuid.UUID) (*entity.Category, error)

	// ListByUser retrieves all categories for a user ordered by creation time.
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*entity.Category, error)

	// ExistsByNameAndUser checks if a category name already exists for a user.
	ExistsByNameAndUser(ctx context.Context, name string, userID uuid.UUID) (bool, error)

	// Update updates an existing category.
	Update(ctx context.Context, category *entity.Category) error

	// Delete removes a category. Fails when transactions still reference it.
	Delete(ctx context.Context, id uuid.UUID) error
}
