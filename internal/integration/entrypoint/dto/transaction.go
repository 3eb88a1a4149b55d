// Package dto defines data transfer objects for API requests and responses.
package dto

import (
	"time"

	"github.com/BlvckBrry/finance-tracker/internal/application/usecase/ledger"
	"github.com/BlvckBrry/finance-tracker/internal/domain/entity"
)

// CreateTransactionRequest represents the request body for transaction creation.
type CreateTransactionRequest struct {
	Type     string  `json:"type" binding:"required,oneof=expense income"`
	Amount   float64 `json:"amount" binding:"required"`
	Currency string  `json:"currency,omitempty" binding:"omitempty,len=3"`
	Category string  `json:"category" binding:"required,min=1,max=100"`
	Title    string  `json:"title,omitempty" binding:"omitempty,max=255"`
}

// UpdateTransactionRequest represents the request body for transaction update.
type UpdateTransactionRequest struct {
	Type     *string  `json:"type,omitempty" binding:"omitempty,oneof=expense income"`
	Amount   *float64 `json:"amount,omitempty"`
	Currency *string  `json:"currency,omitempty" binding:"omitempty,len=3"`
	Category *string  `json:"category,omitempty" binding:"omitempty,min=1,max=100"`
	Title    *string  `json:"title,omitempty" binding:"omitempty,max=255"`
}

// TransactionCategoryResponse represents category information in transaction responses.
type TransactionCategoryResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// TransactionResponse represents a single transaction in API responses.
type TransactionResponse struct {
	ID         string                       `json:"id"`
	UserID     string                       `json:"user_id"`
	Type       string                       `json:"type"`
	Amount     string                       `json:"amount"`
	Currency   string                       `json:"currency,omitempty"`
	CategoryID string                       `json:"category_id"`
	Category   *TransactionCategoryResponse `json:"category,omitempty"`
	Title      string                       `json:"title"`
	CreatedAt  time.Time                    `json:"created_at"`
	UpdatedAt  time.Time                    `json:"updated_at"`
}

// TransactionPaginationResponse represents pagination information in API responses.
type TransactionPaginationResponse struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
}

// TransactionListResponse represents the response for listing transactions.
type TransactionListResponse struct {
	Transactions []TransactionResponse         `json:"transactions"`
	Pagination   TransactionPaginationResponse `json:"pagination"`
}

// ToTransactionResponse converts a domain Transaction entity to a TransactionResponse DTO.
func ToTransactionResponse(txn *entity.Transaction) TransactionResponse {
	return TransactionResponse{
		ID:         txn.ID.String(),
		UserID:     txn.UserID.String(),
		Type:       string(txn.Type),
		Amount:     txn.Amount.String(),
		Currency:   txn.CurrencyCode,
		CategoryID: txn.CategoryID.String(),
		Title:      txn.Title,
		CreatedAt:  txn.CreatedAt,
		UpdatedAt:  txn.UpdatedAt,
	}
}

// ToTransactionListResponse converts a list use case output to the API response.
func ToTransactionListResponse(output *ledger.ListTransactionsOutput) TransactionListResponse {
	result := output.Result
	transactions := make([]TransactionResponse, len(result.Transactions))
	for i, row := range result.Transactions {
		response := ToTransactionResponse(row.Transaction)
		if row.Category != nil {
			response.Category = &TransactionCategoryResponse{
				ID:   row.Category.ID.String(),
				Name: row.Category.Name,
			}
		}
		transactions[i] = response
	}

	return TransactionListResponse{
		Transactions: transactions,
		Pagination: TransactionPaginationResponse{
			Page:       result.Page,
			Limit:      result.Limit,
			Total:      result.Total,
			TotalPages: result.TotalPages,
		},
	}
}
