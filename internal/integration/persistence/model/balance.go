// Package model defines database models for persistence layer.
package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/BlvckBrry/finance-tracker/internal/domain/entity"
)

// BalanceModel represents the balances table in the database. One row per
// user, enforced by the unique index.
type BalanceModel struct {
	ID           uuid.UUID       `gorm:"type:uuid;primaryKey"`
	UserID       uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex"`
	Amount       decimal.Decimal `gorm:"type:decimal(15,2);not null"`
	CurrencyCode string          `gorm:"type:varchar(3);not null"`
	UpdatedAt    time.Time       `gorm:"not null"`
}

// TableName returns the table name for the BalanceModel.
func (BalanceModel) TableName() string {
	return "balances"
}

// ToEntity converts a BalanceModel to a domain Balance entity.
func (m *BalanceModel) ToEntity() *entity.Balance {
	return &entity.Balance{
		ID:           m.ID,
		UserID:       m.UserID,
		Amount:       m.Amount,
		CurrencyCode: m.CurrencyCode,
		UpdatedAt:    m.UpdatedAt,
	}
}

// BalanceFromEntity creates a BalanceModel from a domain Balance entity.
func BalanceFromEntity(balance *entity.Balance) *BalanceModel {
	return &BalanceModel{
		ID:           balance.ID,
		UserID:       balance.UserID,
		Amount:       balance.Amount,
		CurrencyCode: balance.CurrencyCode,
		UpdatedAt:    balance.UpdatedAt,
	}
}
