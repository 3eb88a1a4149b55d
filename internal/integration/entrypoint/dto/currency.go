// Package dto defines data transfer objects for API requests and responses.
package dto

import (
	"time"

	"github.com/BlvckBrry/finance-tracker/internal/domain/entity"
)

// CurrencyResponse represents a currency rate row in API responses.
type CurrencyResponse struct {
	Code       string    `json:"code"`
	Name       string    `json:"name"`
	RateToBase string    `json:"rate_to_base"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// CurrencyListResponse represents the response for listing currencies.
type CurrencyListResponse struct {
	Base       string             `json:"base"`
	Currencies []CurrencyResponse `json:"currencies"`
}

// ConvertCurrencyRequest represents the request body for currency conversion.
type ConvertCurrencyRequest struct {
	Amount float64 `json:"amount" binding:"required"`
	From   string  `json:"from" binding:"required,len=3"`
	To     string  `json:"to" binding:"required,len=3"`
}

// ConvertCurrencyResponse represents the response for currency conversion.
type ConvertCurrencyResponse struct {
	Amount    string `json:"amount"`
	From      string `json:"from"`
	To        string `json:"to"`
	Converted string `json:"converted"`
}

// ToCurrencyResponse converts a domain Currency entity to a CurrencyResponse DTO.
func ToCurrencyResponse(currency *entity.Currency) CurrencyResponse {
	return CurrencyResponse{
		Code:       currency.Code,
		Name:       currency.Name,
		RateToBase: currency.RateToBase.String(),
		UpdatedAt:  currency.UpdatedAt,
	}
}
