// Package adapter defines interfaces that will be implemented in the integration layer.
package adapter

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/BlvckBrry/finance-tracker/internal/domain/entity"
)

// SpendingSettings holds the per-user spending limit configuration.
type SpendingSettings struct {
	SpendingLimit    *decimal.Decimal
	WarningThreshold decimal.Decimal
}

// UserRepository defines the interface for user persistence operations.
type UserRepository interface {
	// Create creates a new user in the database.
	Create(ctx context.Context, user *entity.User) error

	// FindByID retrieves a user by its ID.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error)

	// FindByEmail retrieves a user by email.
	FindByEmail(ctx context.Context, email string) (*entity.User, error)

	// ExistsByEmail checks if a user with the given email exists.
	ExistsByEmail(ctx context.Context, email string) (bool, error)

	// ExistsByUsername checks if a user with the given username exists.
	ExistsByUsername(ctx context.Context, username string) (bool, error)

	// UpdateSpendingSettings updates the user's spending limit configuration.
	UpdateSpendingSettings(ctx context.Context, userID uuid.UUID, settings SpendingSettings) error

	// SetLastWarningSentAt records when the most recent limit warning was sent.
	SetLastWarningSentAt(ctx context.Context, userID uuid.UUID, sentAt time.Time) error
}
