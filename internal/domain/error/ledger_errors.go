// Package error defines domain-specific errors for the Finance Tracker application.
package error

import "errors"

// Ledger domain errors.
var (
	// ErrTransactionNotFound is returned when a transaction is not found in the system.
	ErrTransactionNotFound = errors.New("transaction not found")

	// ErrNotAuthorizedToModifyTransaction is returned when user is not authorized to modify a transaction.
	ErrNotAuthorizedToModifyTransaction = errors.New("not authorized to modify transaction")

	// ErrInvalidTransactionType is returned when the transaction type is invalid.
	ErrInvalidTransactionType = errors.New("invalid transaction type")

	// ErrInvalidAmount is returned when a transaction amount is zero or unparseable.
	ErrInvalidAmount = errors.New("invalid transaction amount")

	// ErrInsufficientFunds is returned when an expense would drive the balance negative.
	ErrInsufficientFunds = errors.New("insufficient funds on balance")

	// ErrOperationConflict is returned when the per-owner balance lock could not be
	// acquired in time. The operation is safe to retry.
	ErrOperationConflict = errors.New("concurrent balance update in progress")

	// ErrZeroAdjustment is returned when a manual balance adjustment is zero.
	ErrZeroAdjustment = errors.New("adjustment amount must be non-zero")

	// ErrTitleTooLong is returned when the transaction title exceeds the maximum length.
	ErrTitleTooLong = errors.New("title too long")
)

// LedgerErrorCode defines error codes for ledger errors.
// Format: LDG-XXYYYY where XX is category and YYYY is specific error.
type LedgerErrorCode string

const (
	// Validation errors (01XXXX)
	ErrCodeInvalidTransactionType LedgerErrorCode = "LDG-010001"
	ErrCodeInvalidAmount          LedgerErrorCode = "LDG-010002"
	ErrCodeTitleTooLong           LedgerErrorCode = "LDG-010003"
	ErrCodeZeroAdjustment         LedgerErrorCode = "LDG-010004"

	// Business-rule rejections (02XXXX)
	ErrCodeInsufficientFunds LedgerErrorCode = "LDG-020001"

	// Lookup errors (03XXXX)
	ErrCodeTransactionNotFound      LedgerErrorCode = "LDG-030001"
	ErrCodeNotAuthorizedTransaction LedgerErrorCode = "LDG-030002"

	// Concurrency errors (04XXXX)
	ErrCodeOperationConflict LedgerErrorCode = "LDG-040001"
)

// LedgerError represents a ledger error with code and message.
type LedgerError struct {
	Code    LedgerErrorCode
	Message string
	Err     error
}

// Error implements the error interface.
func (e *LedgerError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *LedgerError) Unwrap() error {
	return e.Err
}

// NewLedgerError creates a new LedgerError with the given code and message.
func NewLedgerError(code LedgerErrorCode, message string, err error) *LedgerError {
	return &LedgerError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}
