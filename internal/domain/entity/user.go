// Package entity defines the core business entities for the domain layer.
package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DefaultWarningThreshold is the spending-limit warning threshold applied to
// new users, expressed as a percentage of the monthly limit.
var DefaultWarningThreshold = decimal.NewFromInt(80)

// User represents a user of the finance tracker.
type User struct {
	ID           uuid.UUID
	Email        string
	Username     string
	PasswordHash string

	// SpendingLimit is the optional monthly spending cap in the base
	// currency. Nil means no limit is enforced for this user.
	SpendingLimit *decimal.Decimal
	// WarningThreshold is the percentage of SpendingLimit at which a
	// warning notification is sent.
	WarningThreshold decimal.Decimal
	// LastWarningSentAt tracks the most recent warning notification, used
	// to throttle repeat warnings.
	LastWarningSentAt *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewUser creates a new User with default values.
func NewUser(email, username, passwordHash string) *User {
	now := time.Now().UTC()
	return &User{
		ID:               uuid.New(),
		Email:            email,
		Username:         username,
		PasswordHash:     passwordHash,
		WarningThreshold: DefaultWarningThreshold,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
}

// HasSpendingLimit reports whether a monthly spending limit is configured.
func (u *User) HasSpendingLimit() bool {
	return u.SpendingLimit != nil && u.SpendingLimit.IsPositive()
}

// WarningAmount returns the absolute base-currency amount at which the
// warning notification fires. Zero when no limit is set.
func (u *User) WarningAmount() decimal.Decimal {
	if !u.HasSpendingLimit() {
		return decimal.Zero
	}
	return u.SpendingLimit.Mul(u.WarningThreshold).Div(decimal.NewFromInt(100))
}
