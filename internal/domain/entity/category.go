// Package entity defines the core business entities for the domain layer.
package entity

import (
	"time"

	"github.com/google/uuid"
)

// AdjustmentCategoryName is the reserved category that manual balance
// adjustments are recorded under.
const AdjustmentCategoryName = "Balance adjustment"

// Category represents a per-user transaction bucket. The (Name, UserID) pair
// is unique; a category cannot be deleted while transactions reference it.
type Category struct {
	ID        uuid.UUID
	Name      string
	UserID    uuid.UUID
	CreatedAt time.Time
}

// NewCategory creates a new Category entity.
func NewCategory(name string, userID uuid.UUID) *Category {
	return &Category{
		ID:        uuid.New(),
		Name:      name,
		UserID:    userID,
		CreatedAt: time.Now().UTC(),
	}
}
