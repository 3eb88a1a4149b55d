// Package dto defines data transfer objects for API requests and responses.
package dto

import (
	"time"

	"github.com/BlvckBrry/finance-tracker/internal/domain/entity"
)

// BalanceResponse represents the balance in API responses.
type BalanceResponse struct {
	Amount             string                `json:"amount"`
	Currency           string                `json:"currency"`
	UpdatedAt          time.Time             `json:"updated_at"`
	RecentTransactions []TransactionResponse `json:"recent_transactions,omitempty"`
}

// AdjustBalanceRequest represents the request body for a manual adjustment.
type AdjustBalanceRequest struct {
	Amount float64 `json:"amount" binding:"required"`
	Reason string  `json:"reason,omitempty" binding:"omitempty,max=255"`
}

// AdjustBalanceResponse represents the response for a manual adjustment.
type AdjustBalanceResponse struct {
	Transaction TransactionResponse `json:"transaction"`
	Balance     BalanceResponse     `json:"balance"`
}

// ToBalanceResponse converts a domain Balance entity to a BalanceResponse DTO.
func ToBalanceResponse(balance *entity.Balance, recent []*entity.Transaction) BalanceResponse {
	response := BalanceResponse{
		Amount:    balance.Amount.String(),
		Currency:  balance.CurrencyCode,
		UpdatedAt: balance.UpdatedAt,
	}
	for _, txn := range recent {
		response.RecentTransactions = append(response.RecentTransactions, ToTransactionResponse(txn))
	}
	return response
}
