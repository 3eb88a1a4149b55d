package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/BlvckBrry/finance-tracker/internal/application/usecase/ledger"
	domainerror "github.com/BlvckBrry/finance-tracker/internal/domain/error"
	"github.com/BlvckBrry/finance-tracker/internal/integration/entrypoint/dto"
	"github.com/BlvckBrry/finance-tracker/internal/integration/entrypoint/middleware"
)

// BalanceController handles balance endpoints.
type BalanceController struct {
	getBalanceUseCase *ledger.GetBalanceUseCase
	adjustUseCase     *ledger.AdjustBalanceUseCase
	resetUseCase      *ledger.ResetAccountUseCase
}

// NewBalanceController creates a new balance controller instance.
func NewBalanceController(
	getBalanceUseCase *ledger.GetBalanceUseCase,
	adjustUseCase *ledger.AdjustBalanceUseCase,
	resetUseCase *ledger.ResetAccountUseCase,
) *BalanceController {
	return &BalanceController{
		getBalanceUseCase: getBalanceUseCase,
		adjustUseCase:     adjustUseCase,
		resetUseCase:      resetUseCase,
	}
}

// Get handles GET /balance requests.
func (c *BalanceController) Get(ctx *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, dto.ErrorResponse{
			Error: "Authentication required",
			Code:  string(domainerror.ErrCodeMissingToken),
		})
		return
	}

	output, err := c.getBalanceUseCase.Execute(ctx.Request.Context(), ledger.GetBalanceInput{UserID: userID})
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{
			Error: "Failed to retrieve balance",
		})
		return
	}

	ctx.JSON(http.StatusOK, dto.ToBalanceResponse(output.Balance, output.RecentTransactions))
}

// Adjust handles POST /balance/adjust requests.
func (c *BalanceController) Adjust(ctx *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, dto.ErrorResponse{
			Error: "Authentication required",
			Code:  string(domainerror.ErrCodeMissingToken),
		})
		return
	}

	var req dto.AdjustBalanceRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "Invalid request body",
			Details: err.Error(),
		})
		return
	}

	input := ledger.AdjustBalanceInput{
		UserID: userID,
		Amount: decimal.NewFromFloat(req.Amount),
		Reason: req.Reason,
	}

	output, err := c.adjustUseCase.Execute(ctx.Request.Context(), input)
	if err != nil {
		c.handleLedgerError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.AdjustBalanceResponse{
		Transaction: dto.ToTransactionResponse(output.Transaction),
		Balance:     dto.ToBalanceResponse(output.Balance, nil),
	})
}

// Reset handles POST /balance/reset requests.
func (c *BalanceController) Reset(ctx *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, dto.ErrorResponse{
			Error: "Authentication required",
			Code:  string(domainerror.ErrCodeMissingToken),
		})
		return
	}

	output, err := c.resetUseCase.Execute(ctx.Request.Context(), ledger.ResetAccountInput{UserID: userID})
	if err != nil {
		c.handleLedgerError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToBalanceResponse(output.Balance, nil))
}

// handleLedgerError handles ledger errors and returns appropriate HTTP responses.
func (c *BalanceController) handleLedgerError(ctx *gin.Context, err error) {
	var ledgerErr *domainerror.LedgerError
	if errors.As(err, &ledgerErr) {
		ctx.JSON(getStatusCodeForLedgerError(ledgerErr.Code), dto.ErrorResponse{
			Error: ledgerErr.Message,
			Code:  string(ledgerErr.Code),
		})
		return
	}

	ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{
		Error: "An internal error occurred",
	})
}
