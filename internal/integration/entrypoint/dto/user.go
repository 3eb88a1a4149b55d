// Package dto defines data transfer objects for API requests and responses.
package dto

import (
	"github.com/BlvckBrry/finance-tracker/internal/application/usecase/limits"
)

// UpdateLimitsRequest represents the request body for spending limit updates.
// A null spending_limit clears the limit.
type UpdateLimitsRequest struct {
	SpendingLimit    *float64 `json:"spending_limit"`
	WarningThreshold *float64 `json:"warning_threshold" binding:"omitempty,gte=0,lte=100"`
}

// LimitsResponse represents the spending limit settings in API responses.
type LimitsResponse struct {
	SpendingLimit    *string `json:"spending_limit"`
	WarningThreshold string  `json:"warning_threshold"`
	CurrentSpending  string  `json:"current_spending,omitempty"`
}

// ToLimitsResponse converts the settings use case output to the API response.
func ToLimitsResponse(output *limits.GetSettingsOutput) LimitsResponse {
	response := LimitsResponse{
		WarningThreshold: output.WarningThreshold.String(),
		CurrentSpending:  output.CurrentSpending.String(),
	}
	if output.SpendingLimit != nil {
		limit := output.SpendingLimit.String()
		response.SpendingLimit = &limit
	}
	return response
}
