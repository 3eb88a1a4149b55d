// Package dto defines data transfer objects for API requests and responses.
package dto

import (
	"github.com/BlvckBrry/finance-tracker/internal/application/usecase/report"
)

// DailyPointResponse represents one day in the summary trend.
type DailyPointResponse struct {
	Date          string `json:"date"`
	Income        string `json:"income"`
	Expense       string `json:"expense"`
	Net           string `json:"net"`
	CumulativeNet string `json:"cumulative_net"`
}

// SummaryResponse represents the summary report in API responses.
type SummaryResponse struct {
	TotalIncome    string               `json:"total_income"`
	TotalExpense   string               `json:"total_expense"`
	Net            string               `json:"net"`
	CurrentBalance string               `json:"current_balance"`
	Trend          []DailyPointResponse `json:"trend"`
}

// CategoryFigureResponse represents one category aggregate in API responses.
type CategoryFigureResponse struct {
	CategoryID   string `json:"category_id"`
	CategoryName string `json:"category_name"`
	Total        string `json:"total"`
	Count        int    `json:"count"`
	Average      string `json:"average"`
	Percentage   string `json:"percentage"`
}

// CategoryBreakdownResponse represents the category breakdown in API responses.
type CategoryBreakdownResponse struct {
	Incomes      []CategoryFigureResponse `json:"incomes"`
	Expenses     []CategoryFigureResponse `json:"expenses"`
	TopIncomes   []CategoryFigureResponse `json:"top_incomes"`
	TopExpenses  []CategoryFigureResponse `json:"top_expenses"`
	TotalIncome  string                   `json:"total_income"`
	TotalExpense string                   `json:"total_expense"`
}

// ImportRowErrorResponse represents one skipped row in the import result.
type ImportRowErrorResponse struct {
	Row     int    `json:"row"`
	Message string `json:"message"`
}

// ImportTransactionsResponse represents the import result in API responses.
type ImportTransactionsResponse struct {
	ImportedCount int                      `json:"imported_count"`
	TotalRows     int                      `json:"total_rows"`
	Errors        []ImportRowErrorResponse `json:"errors"`
}

// ToSummaryResponse converts the summary use case output to the API response.
func ToSummaryResponse(output *report.SummaryOutput) SummaryResponse {
	response := SummaryResponse{
		TotalIncome:    output.TotalIncome.String(),
		TotalExpense:   output.TotalExpense.String(),
		Net:            output.Net.String(),
		CurrentBalance: output.CurrentBalance.String(),
		Trend:          make([]DailyPointResponse, len(output.Trend)),
	}
	for i, point := range output.Trend {
		response.Trend[i] = DailyPointResponse{
			Date:          point.Date.Format("2006-01-02"),
			Income:        point.Income.String(),
			Expense:       point.Expense.String(),
			Net:           point.Net.String(),
			CumulativeNet: point.CumulativeNet.String(),
		}
	}
	return response
}

// ToCategoryBreakdownResponse converts the breakdown use case output to the API response.
func ToCategoryBreakdownResponse(output *report.CategoryBreakdownOutput) CategoryBreakdownResponse {
	return CategoryBreakdownResponse{
		Incomes:      toFigures(output.Incomes),
		Expenses:     toFigures(output.Expenses),
		TopIncomes:   toFigures(output.TopIncomes),
		TopExpenses:  toFigures(output.TopExpenses),
		TotalIncome:  output.TotalIncome.String(),
		TotalExpense: output.TotalExpense.String(),
	}
}

func toFigures(figures []report.CategoryFigure) []CategoryFigureResponse {
	out := make([]CategoryFigureResponse, len(figures))
	for i, figure := range figures {
		out[i] = CategoryFigureResponse{
			CategoryID:   figure.CategoryID.String(),
			CategoryName: figure.CategoryName,
			Total:        figure.Total.String(),
			Count:        figure.Count,
			Average:      figure.Average.String(),
			Percentage:   figure.Percentage.String(),
		}
	}
	return out
}

// ToImportTransactionsResponse converts the import use case output to the API response.
func ToImportTransactionsResponse(output *report.ImportTransactionsOutput) ImportTransactionsResponse {
	response := ImportTransactionsResponse{
		ImportedCount: output.ImportedCount,
		TotalRows:     output.TotalRows,
		Errors:        make([]ImportRowErrorResponse, len(output.Errors)),
	}
	for i, rowErr := range output.Errors {
		response.Errors[i] = ImportRowErrorResponse{Row: rowErr.Row, Message: rowErr.Message}
	}
	return response
}
