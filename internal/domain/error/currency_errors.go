// Package error defines domain-specific errors for the Finance Tracker application.
package error

import "errors"

// Currency domain errors.
var (
	// ErrCurrencyNotFound is returned when a currency code is not present in the rate table.
	ErrCurrencyNotFound = errors.New("currency not found")

	// ErrInvalidConversionAmount is returned when a conversion amount is not positive.
	ErrInvalidConversionAmount = errors.New("conversion amount must be positive")

	// ErrRateSourceUnavailable is returned when the external rate API cannot be reached
	// or returns a malformed payload. Existing rates are kept untouched.
	ErrRateSourceUnavailable = errors.New("exchange rate source unavailable")
)

// CurrencyErrorCode defines error codes for currency errors.
// Format: CUR-XXYYYY where XX is category and YYYY is specific error.
type CurrencyErrorCode string

const (
	// Lookup errors (01XXXX)
	ErrCodeCurrencyNotFound CurrencyErrorCode = "CUR-010001"

	// Validation errors (02XXXX)
	ErrCodeInvalidConversionAmount CurrencyErrorCode = "CUR-020001"

	// External service errors (03XXXX)
	ErrCodeRateSourceUnavailable CurrencyErrorCode = "CUR-030001"
)

// CurrencyError represents a currency error with code and message.
type CurrencyError struct {
	Code    CurrencyErrorCode
	Message string
	Err     error
}

// Error implements the error interface.
func (e *CurrencyError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *CurrencyError) Unwrap() error {
	return e.Err
}

// NewCurrencyError creates a new CurrencyError with the given code and message.
func NewCurrencyError(code CurrencyErrorCode, message string, err error) *CurrencyError {
	return &CurrencyError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}
