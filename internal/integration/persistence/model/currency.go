// Package model defines database models for persistence layer.
package model

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/BlvckBrry/finance-tracker/internal/domain/entity"
)

// CurrencyModel represents the currencies table in the database.
type CurrencyModel struct {
	Code       string          `gorm:"type:varchar(3);primaryKey"`
	Name       string          `gorm:"type:varchar(50);not null"`
	RateToBase decimal.Decimal `gorm:"type:decimal(20,10);not null"`
	UpdatedAt  time.Time       `gorm:"not null"`
}

// TableName returns the table name for the CurrencyModel.
func (CurrencyModel) TableName() string {
	return "currencies"
}

// ToEntity converts a CurrencyModel to a domain Currency entity.
func (m *CurrencyModel) ToEntity() *entity.Currency {
	return &entity.Currency{
		Code:       m.Code,
		Name:       m.Name,
		RateToBase: m.RateToBase,
		UpdatedAt:  m.UpdatedAt,
	}
}

// CurrencyFromEntity creates a CurrencyModel from a domain Currency entity.
func CurrencyFromEntity(currency *entity.Currency) *CurrencyModel {
	return &CurrencyModel{
		Code:       currency.Code,
		Name:       currency.Name,
		RateToBase: currency.RateToBase,
		UpdatedAt:  currency.UpdatedAt,
	}
}
