// Package error defines domain-specific errors for the MyEconomy application.
package error

import "errors"

// Period domain errors.
var (
	// ErrInvalidDate is returned when a date string cannot be parsed as a calendar date.
	ErrInvalidDate = errors.New("invalid date")

	// ErrInvalidPeriod is returned when a month or year is out of range.
	ErrInvalidPeriod = errors.New("invalid period")

	// ErrPeriodImmutable is returned when a mutation targets a past period.
	ErrPeriodImmutable = errors.New("period is in the past and cannot be modified")
)

// PeriodErrorCode defines error codes for period errors.
// Format: PER-XXYYYY where XX is category and YYYY is specific error.
type PeriodErrorCode string

const (
	// Parse errors (01XXXX)
	ErrCodeInvalidDate   PeriodErrorCode = "PER-010001"
	ErrCodeInvalidPeriod PeriodErrorCode = "PER-010002"

	// Mutation errors (02XXXX)
	ErrCodePeriodImmutable PeriodErrorCode = "PER-020001"
)

// PeriodError represents a period error with code and message.
type PeriodError struct {
	Code    PeriodErrorCode
	Message string
	Err     error
}

// Error implements the error interface.
func (e *PeriodError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *PeriodError) Unwrap() error {
	return e.Err
}

// NewPeriodError creates a new PeriodError with the given code and message.
func NewPeriodError(code PeriodErrorCode, message string, err error) *PeriodError {
	return &PeriodError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// IsImmutablePeriod reports whether err is a rejection of a past-period mutation.
func IsImmutablePeriod(err error) bool {
	return errors.Is(err, ErrPeriodImmutable)
}
