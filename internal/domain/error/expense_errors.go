// Package error defines domain-specific errors for the MyEconomy application.
package error

import "errors"

// Expense domain errors.
var (
	// ErrExpenseNotFound is returned when an expense is not found in the system.
	ErrExpenseNotFound = errors.New("expense not found")

	// ErrNotAuthorizedToModifyExpense is returned when user is not authorized to modify an expense.
	ErrNotAuthorizedToModifyExpense = errors.New("not authorized to modify expense")

	// ErrEmptyDescription is returned when the description is blank.
	ErrEmptyDescription = errors.New("description is required")

	// ErrDescriptionTooLong is returned when the description exceeds the maximum length.
	ErrDescriptionTooLong = errors.New("description too long")

	// ErrInvalidAmount is returned when an amount is not a number.
	ErrInvalidAmount = errors.New("invalid amount")

	// ErrNonPositiveAmount is returned when an amount is zero or negative.
	ErrNonPositiveAmount = errors.New("amount must be greater than zero")
)

// ExpenseErrorCode defines error codes for expense errors.
// Format: EXP-XXYYYY where XX is category and YYYY is specific error.
type ExpenseErrorCode string

const (
	// Validation errors (01XXXX)
	ErrCodeEmptyDescription     ExpenseErrorCode = "EXP-010001"
	ErrCodeDescriptionTooLong   ExpenseErrorCode = "EXP-010002"
	ErrCodeInvalidExpenseAmount ExpenseErrorCode = "EXP-010003"
	ErrCodeNonPositiveExpense   ExpenseErrorCode = "EXP-010004"
	ErrCodeInvalidExpenseDate   ExpenseErrorCode = "EXP-010005"
	ErrCodeMissingExpenseFields ExpenseErrorCode = "EXP-010006"

	// Lookup errors (02XXXX)
	ErrCodeExpenseNotFound      ExpenseErrorCode = "EXP-020001"
	ErrCodeNotAuthorizedExpense ExpenseErrorCode = "EXP-020002"
)

// ExpenseError represents an expense error with code and message.
type ExpenseError struct {
	Code    ExpenseErrorCode
	Message string
	Err     error
}

// Error implements the error interface.
func (e *ExpenseError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *ExpenseError) Unwrap() error {
	return e.Err
}

// NewExpenseError creates a new ExpenseError with the given code and message.
func NewExpenseError(code ExpenseErrorCode, message string, err error) *ExpenseError {
	return &ExpenseError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}
