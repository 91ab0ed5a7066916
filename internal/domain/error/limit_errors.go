// Package error defines domain-specific errors for the MyEconomy application.
package error

import "errors"

// Limit domain errors.
var (
	// ErrLimitNotFound is returned when a limit is not found in the system.
	ErrLimitNotFound = errors.New("limit not found")

	// ErrLimitAlreadyExists is returned when the user already has a limit for the period.
	ErrLimitAlreadyExists = errors.New("limit already exists for this period")

	// ErrUnauthorizedLimitAccess is returned when user is not authorized to access a limit.
	ErrUnauthorizedLimitAccess = errors.New("unauthorized access to limit")

	// ErrLimitPeriodBusy is returned when another request holds the period lock.
	ErrLimitPeriodBusy = errors.New("limit period is being modified")
)

// LimitErrorCode defines error codes for limit errors.
// Format: LIM-XXYYYY where XX is category and YYYY is specific error.
type LimitErrorCode string

const (
	// Validation errors (01XXXX)
	ErrCodeInvalidLimitAmount LimitErrorCode = "LIM-010001"
	ErrCodeNonPositiveLimit   LimitErrorCode = "LIM-010002"
	ErrCodeInvalidLimitPeriod LimitErrorCode = "LIM-010003"
	ErrCodeMissingLimitFields LimitErrorCode = "LIM-010004"

	// Lookup errors (02XXXX)
	ErrCodeLimitNotFound     LimitErrorCode = "LIM-020001"
	ErrCodeUnauthorizedLimit LimitErrorCode = "LIM-020002"

	// Conflict errors (03XXXX)
	ErrCodeLimitAlreadyExists LimitErrorCode = "LIM-030001"
	ErrCodeLimitPeriodBusy    LimitErrorCode = "LIM-030002"
)

// LimitError represents a limit error with code and message.
type LimitError struct {
	Code    LimitErrorCode
	Message string
	Err     error
}

// Error implements the error interface.
func (e *LimitError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *LimitError) Unwrap() error {
	return e.Err
}

// NewLimitError creates a new LimitError with the given code and message.
func NewLimitError(code LimitErrorCode, message string, err error) *LimitError {
	return &LimitError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}
