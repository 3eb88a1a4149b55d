// Package error defines domain-specific errors for the Finance Tracker application.
package error

import "errors"

// Report domain errors.
var (
	// ErrNoReportData is returned when an export matches no transactions.
	ErrNoReportData = errors.New("no transactions match the report filters")

	// ErrMissingImportColumns is returned when an import file lacks required columns.
	ErrMissingImportColumns = errors.New("import file is missing required columns")

	// ErrUnreadableImportFile is returned when the uploaded file cannot be parsed as a spreadsheet.
	ErrUnreadableImportFile = errors.New("import file could not be read")
)

// ReportErrorCode defines error codes for report errors.
// Format: RPT-XXYYYY where XX is category and YYYY is specific error.
type ReportErrorCode string

const (
	// Export errors (01XXXX)
	ErrCodeNoReportData ReportErrorCode = "RPT-010001"

	// Import errors (02XXXX)
	ErrCodeMissingImportColumns ReportErrorCode = "RPT-020001"
	ErrCodeUnreadableImportFile ReportErrorCode = "RPT-020002"
)

// ReportError represents a report error with code and message.
type ReportError struct {
	Code    ReportErrorCode
	Message string
	Err     error
}

// Error implements the error interface.
func (e *ReportError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *ReportError) Unwrap() error {
	return e.Err
}

// NewReportError creates a new ReportError with the given code and message.
func NewReportError(code ReportErrorCode, message string, err error) *ReportError {
	return &ReportError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}
