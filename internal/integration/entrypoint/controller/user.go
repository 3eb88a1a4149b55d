package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/BlvckBrry/finance-tracker/internal/application/usecase/limits"
	domainerror "github.com/BlvckBrry/finance-tracker/internal/domain/error"
	"github.com/BlvckBrry/finance-tracker/internal/integration/entrypoint/dto"
	"github.com/BlvckBrry/finance-tracker/internal/integration/entrypoint/middleware"
)

// UserController handles user settings endpoints.
type UserController struct {
	getSettingsUseCase    *limits.GetSettingsUseCase
	updateSettingsUseCase *limits.UpdateSettingsUseCase
}

// NewUserController creates a new user controller instance.
func NewUserController(
	getSettingsUseCase *limits.GetSettingsUseCase,
	updateSettingsUseCase *limits.UpdateSettingsUseCase,
) *UserController {
	return &UserController{
		getSettingsUseCase:    getSettingsUseCase,
		updateSettingsUseCase: updateSettingsUseCase,
	}
}

// GetLimits handles GET /users/me/limits requests.
func (c *UserController) GetLimits(ctx *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, dto.ErrorResponse{
			Error: "Authentication required",
			Code:  string(domainerror.ErrCodeMissingToken),
		})
		return
	}

	output, err := c.getSettingsUseCase.Execute(ctx.Request.Context(), limits.GetSettingsInput{UserID: userID})
	if err != nil {
		c.handleLimitsError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToLimitsResponse(output))
}

// UpdateLimits handles PUT /users/me/limits requests.
func (c *UserController) UpdateLimits(ctx *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, dto.ErrorResponse{
			Error: "Authentication required",
			Code:  string(domainerror.ErrCodeMissingToken),
		})
		return
	}

	var req dto.UpdateLimitsRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "Invalid request body",
			Details: err.Error(),
		})
		return
	}

	input := limits.UpdateSettingsInput{UserID: userID}
	if req.SpendingLimit != nil {
		limit := decimal.NewFromFloat(*req.SpendingLimit)
		input.SpendingLimit = &limit
	}
	if req.WarningThreshold != nil {
		threshold := decimal.NewFromFloat(*req.WarningThreshold)
		input.WarningThreshold = &threshold
	}

	output, err := c.updateSettingsUseCase.Execute(ctx.Request.Context(), input)
	if err != nil {
		c.handleLimitsError(ctx, err)
		return
	}

	response := dto.LimitsResponse{
		WarningThreshold: output.WarningThreshold.String(),
	}
	if output.SpendingLimit != nil {
		limit := output.SpendingLimit.String()
		response.SpendingLimit = &limit
	}

	ctx.JSON(http.StatusOK, response)
}

// handleLimitsError handles spending limit errors and returns appropriate HTTP responses.
func (c *UserController) handleLimitsError(ctx *gin.Context, err error) {
	var ledgerErr *domainerror.LedgerError
	if errors.As(err, &ledgerErr) {
		ctx.JSON(getStatusCodeForLedgerError(ledgerErr.Code), dto.ErrorResponse{
			Error: ledgerErr.Message,
			Code:  string(ledgerErr.Code),
		})
		return
	}

	var authErr *domainerror.AuthError
	if errors.As(err, &authErr) && authErr.Code == domainerror.ErrCodeUserNotFound {
		ctx.JSON(http.StatusNotFound, dto.ErrorResponse{
			Error: authErr.Message,
			Code:  string(authErr.Code),
		})
		return
	}

	ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{
		Error: "An internal error occurred",
	})
}
