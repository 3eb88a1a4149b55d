package controller

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/BlvckBrry/finance-tracker/internal/application/usecase/report"
	"github.com/BlvckBrry/finance-tracker/internal/domain/entity"
	domainerror "github.com/BlvckBrry/finance-tracker/internal/domain/error"
	"github.com/BlvckBrry/finance-tracker/internal/integration/entrypoint/dto"
	"github.com/BlvckBrry/finance-tracker/internal/integration/entrypoint/middleware"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ReportController handles reporting and export endpoints.
type ReportController struct {
	summaryUseCase   *report.SummaryUseCase
	breakdownUseCase *report.CategoryBreakdownUseCase
	exportUseCase    *report.ExportTransactionsUseCase
	importUseCase    *report.ImportTransactionsUseCase
}

// NewReportController creates a new report controller instance.
func NewReportController(
	summaryUseCase *report.SummaryUseCase,
	breakdownUseCase *report.CategoryBreakdownUseCase,
	exportUseCase *report.ExportTransactionsUseCase,
	importUseCase *report.ImportTransactionsUseCase,
) *ReportController {
	return &ReportController{
		summaryUseCase:   summaryUseCase,
		breakdownUseCase: breakdownUseCase,
		exportUseCase:    exportUseCase,
		importUseCase:    importUseCase,
	}
}

// Summary handles GET /reports/summary requests.
func (c *ReportController) Summary(ctx *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, dto.ErrorResponse{
			Error: "Authentication required",
			Code:  string(domainerror.ErrCodeMissingToken),
		})
		return
	}

	startDate, endDate, ok := c.parseRange(ctx)
	if !ok {
		return
	}

	input := report.SummaryInput{
		UserID:    userID,
		StartDate: startDate,
		EndDate:   endDate,
	}

	output, err := c.summaryUseCase.Execute(ctx.Request.Context(), input)
	if err != nil {
		c.handleReportError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToSummaryResponse(output))
}

// Categories handles GET /reports/categories requests.
func (c *ReportController) Categories(ctx *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, dto.ErrorResponse{
			Error: "Authentication required",
			Code:  string(domainerror.ErrCodeMissingToken),
		})
		return
	}

	startDate, endDate, ok := c.parseRange(ctx)
	if !ok {
		return
	}

	input := report.CategoryBreakdownInput{
		UserID:    userID,
		StartDate: startDate,
		EndDate:   endDate,
	}

	output, err := c.breakdownUseCase.Execute(ctx.Request.Context(), input)
	if err != nil {
		c.handleReportError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToCategoryBreakdownResponse(output))
}

// Export handles GET /reports/export requests. The response body is an xlsx
// workbook served as a download.
func (c *ReportController) Export(ctx *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, dto.ErrorResponse{
			Error: "Authentication required",
			Code:  string(domainerror.ErrCodeMissingToken),
		})
		return
	}

	input := report.ExportTransactionsInput{
		UserID:           userID,
		CategoryContains: ctx.Query("category"),
		CurrencyCode:     ctx.Query("currency"),
	}

	if raw := ctx.Query("type"); raw != "" {
		txnType := entity.TransactionType(raw)
		if txnType != entity.TransactionTypeIncome && txnType != entity.TransactionTypeExpense {
			ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid type"})
			return
		}
		input.Type = &txnType
	}

	if raw := ctx.Query("start_date"); raw != "" {
		startDate, err := parseDateParam(raw)
		if err != nil {
			ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid start_date"})
			return
		}
		input.StartDate = &startDate
	}

	if raw := ctx.Query("end_date"); raw != "" {
		endDate, err := parseDateParam(raw)
		if err != nil {
			ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid end_date"})
			return
		}
		input.EndDate = &endDate
	}

	output, err := c.exportUseCase.Execute(ctx.Request.Context(), input)
	if err != nil {
		c.handleReportError(ctx, err)
		return
	}

	ctx.Header("Content-Disposition", `attachment; filename="`+output.Filename+`"`)
	ctx.Data(http.StatusOK, xlsxContentType, output.Content)
}

// Import handles POST /reports/import requests. The workbook is expected in
// the "file" multipart form field.
func (c *ReportController) Import(ctx *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, dto.ErrorResponse{
			Error: "Authentication required",
			Code:  string(domainerror.ErrCodeMissingToken),
		})
		return
	}

	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Missing file upload"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Failed to read file upload"})
		return
	}
	defer file.Close()

	input := report.ImportTransactionsInput{
		UserID: userID,
		Reader: file,
	}

	output, err := c.importUseCase.Execute(ctx.Request.Context(), input)
	if err != nil {
		c.handleReportError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToImportTransactionsResponse(output))
}

// parseRange reads the start_date and end_date query parameters, defaulting
// to the last 30 days.
func (c *ReportController) parseRange(ctx *gin.Context) (time.Time, time.Time, bool) {
	endDate := time.Now().UTC()
	startDate := endDate.AddDate(0, 0, -30)

	if raw := ctx.Query("start_date"); raw != "" {
		parsed, err := parseDateParam(raw)
		if err != nil {
			ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid start_date"})
			return time.Time{}, time.Time{}, false
		}
		startDate = parsed
	}

	if raw := ctx.Query("end_date"); raw != "" {
		parsed, err := parseDateParam(raw)
		if err != nil {
			ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid end_date"})
			return time.Time{}, time.Time{}, false
		}
		endDate = parsed
	}

	if endDate.Before(startDate) {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "end_date must not precede start_date"})
		return time.Time{}, time.Time{}, false
	}

	return startDate, endDate, true
}

// handleReportError handles report errors and returns appropriate HTTP responses.
func (c *ReportController) handleReportError(ctx *gin.Context, err error) {
	var reportErr *domainerror.ReportError
	if errors.As(err, &reportErr) {
		ctx.JSON(getStatusCodeForReportError(reportErr.Code), dto.ErrorResponse{
			Error: reportErr.Message,
			Code:  string(reportErr.Code),
		})
		return
	}

	ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{
		Error: "An internal error occurred",
	})
}

// getStatusCodeForReportError maps report error codes to HTTP status codes.
func getStatusCodeForReportError(code domainerror.ReportErrorCode) int {
	switch code {
	case domainerror.ErrCodeNoReportData:
		return http.StatusNotFound
	case domainerror.ErrCodeMissingImportColumns,
		domainerror.ErrCodeUnreadableImportFile:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
