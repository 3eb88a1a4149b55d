// Package model defines database models for persistence layer.
package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/BlvckBrry/finance-tracker/internal/domain/entity"
)

// UserModel represents the users table in the database.
type UserModel struct {
	ID                uuid.UUID        `gorm:"type:uuid;primaryKey"`
	Email             string           `gorm:"type:varchar(255);uniqueIndex;not null"`
	Username          string           `gorm:"type:varchar(100);uniqueIndex;not null"`
	PasswordHash      string           `gorm:"type:varchar(255);not null"`
	SpendingLimit     *decimal.Decimal `gorm:"type:decimal(15,2)"`
	WarningThreshold  decimal.Decimal  `gorm:"type:decimal(5,2);not null"`
	LastWarningSentAt *time.Time       `gorm:"type:timestamptz"`
	CreatedAt         time.Time        `gorm:"not null"`
	UpdatedAt         time.Time        `gorm:"not null"`
}

// TableName returns the table name for the UserModel.
func (UserModel) TableName() string {
	return "users"
}

// ToEntity converts a UserModel to a domain User entity.
func (m *UserModel) ToEntity() *entity.User {
	return &entity.User{
		ID:                m.ID,
		Email:             m.Email,
		Username:          m.Username,
		PasswordHash:      m.PasswordHash,
		SpendingLimit:     m.SpendingLimit,
		WarningThreshold:  m.WarningThreshold,
		LastWarningSentAt: m.LastWarningSentAt,
		CreatedAt:         m.CreatedAt,
		UpdatedAt:         m.UpdatedAt,
	}
}

// FromEntity creates a UserModel from a domain User entity.
func FromEntity(user *entity.User) *UserModel {
	return &UserModel{
		ID:                user.ID,
		Email:             user.Email,
		Username:          user.Username,
		PasswordHash:      user.PasswordHash,
		SpendingLimit:     user.SpendingLimit,
		WarningThreshold:  user.WarningThreshold,
		LastWarningSentAt: user.LastWarningSentAt,
		CreatedAt:         user.CreatedAt,
		UpdatedAt:         user.UpdatedAt,
	}
}
