package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/BlvckBrry/finance-tracker/internal/application/usecase/currency"
	domainerror "github.com/BlvckBrry/finance-tracker/internal/domain/error"
	"github.com/BlvckBrry/finance-tracker/internal/integration/entrypoint/dto"
)

// CurrencyController handles currency endpoints.
type CurrencyController struct {
	listUseCase    *currency.ListCurrenciesUseCase
	getUseCase     *currency.GetCurrencyUseCase
	convertUseCase *currency.ConvertCurrencyUseCase
	baseCode       string
}

// NewCurrencyController creates a new currency controller instance.
func NewCurrencyController(
	listUseCase *currency.ListCurrenciesUseCase,
	getUseCase *currency.GetCurrencyUseCase,
	convertUseCase *currency.ConvertCurrencyUseCase,
	baseCode string,
) *CurrencyController {
	return &CurrencyController{
		listUseCase:    listUseCase,
		getUseCase:     getUseCase,
		convertUseCase: convertUseCase,
		baseCode:       baseCode,
	}
}

// List handles GET /currencies requests.
func (c *CurrencyController) List(ctx *gin.Context) {
	output, err := c.listUseCase.Execute(ctx.Request.Context())
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{
			Error: "Failed to list currencies",
		})
		return
	}

	response := dto.CurrencyListResponse{
		Base:       c.baseCode,
		Currencies: make([]dto.CurrencyResponse, len(output.Currencies)),
	}
	for i, cur := range output.Currencies {
		response.Currencies[i] = dto.ToCurrencyResponse(cur)
	}

	ctx.JSON(http.StatusOK, response)
}

// Get handles GET /currencies/:code requests.
func (c *CurrencyController) Get(ctx *gin.Context) {
	output, err := c.getUseCase.Execute(ctx.Request.Context(), currency.GetCurrencyInput{
		Code: ctx.Param("code"),
	})
	if err != nil {
		c.handleCurrencyError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToCurrencyResponse(output.Currency))
}

// Convert handles POST /currencies/convert requests.
func (c *CurrencyController) Convert(ctx *gin.Context) {
	var req dto.ConvertCurrencyRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "Invalid request body",
			Details: err.Error(),
		})
		return
	}

	input := currency.ConvertCurrencyInput{
		Amount: decimal.NewFromFloat(req.Amount),
		From:   req.From,
		To:     req.To,
	}

	output, err := c.convertUseCase.Execute(ctx.Request.Context(), input)
	if err != nil {
		c.handleCurrencyError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ConvertCurrencyResponse{
		Amount:    output.Amount.String(),
		From:      output.From,
		To:        output.To,
		Converted: output.Converted.String(),
	})
}

// handleCurrencyError handles currency errors and returns appropriate HTTP responses.
func (c *CurrencyController) handleCurrencyError(ctx *gin.Context, err error) {
	var currencyErr *domainerror.CurrencyError
	if errors.As(err, &currencyErr) {
		ctx.JSON(getStatusCodeForCurrencyError(currencyErr.Code), dto.ErrorResponse{
			Error: currencyErr.Message,
			Code:  string(currencyErr.Code),
		})
		return
	}

	ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{
		Error: "An internal error occurred",
	})
}

// getStatusCodeForCurrencyError maps currency error codes to HTTP status codes.
func getStatusCodeForCurrencyError(code domainerror.CurrencyErrorCode) int {
	switch code {
	case domainerror.ErrCodeCurrencyNotFound:
		return http.StatusNotFound
	case domainerror.ErrCodeInvalidConversionAmount:
		return http.StatusBadRequest
	case domainerror.ErrCodeRateSourceUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
