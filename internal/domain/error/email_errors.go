package error

import "errors"

// ErrInvalidTemplate is returned for a job whose template the renderer does not know.
var ErrInvalidTemplate = errors.New("invalid email template")

// EmailErrorCode defines error codes for the email queue and its delivery.
// Format: EMAIL-XXYYYY where XX is category and YYYY is specific error.
type EmailErrorCode string

const (
	// Queue errors (01XXXX)
	ErrCodeEmailQueueFailed EmailErrorCode = "EMAIL-010001"

	// Delivery errors (02XXXX). Permanent failures are never retried.
	ErrCodePermanentEmailFailure EmailErrorCode = "EMAIL-020002"
	ErrCodeTemporaryEmailFailure EmailErrorCode = "EMAIL-020003"

	// Template errors (03XXXX)
	ErrCodeInvalidTemplate EmailErrorCode = "EMAIL-030001"
)

// EmailError is a coded failure of the email pipeline.
type EmailError struct {
	Code    EmailErrorCode
	Message string
	Err     error
}

func (e *EmailError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *EmailError) Unwrap() error {
	return e.Err
}

// IsPermanent reports whether retrying the delivery cannot succeed.
func (e *EmailError) IsPermanent() bool {
	return e.Code == ErrCodePermanentEmailFailure || e.Code == ErrCodeInvalidTemplate
}

// NewEmailError creates a new EmailError with the given code and message.
func NewEmailError(code EmailErrorCode, message string, err error) *EmailError {
	return &EmailError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}
