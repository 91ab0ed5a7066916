// Package logging holds the structured logging setup and shared field names.
package logging

// Field names for structured logging.
const (
	FieldComponent  = "component"
	FieldRequestID  = "request_id"
	FieldClientIP   = "client_ip"
	FieldMethod     = "method"
	FieldPath       = "path"
	FieldStatusCode = "status_code"
	FieldDuration   = "duration_ms"
	FieldError      = "error"
	FieldUserID     = "user_id"
	FieldPeriod     = "period"
	FieldExpenseID  = "expense_id"
	FieldLimitID    = "limit_id"
	FieldJobID      = "job_id"
)

// Component names.
const (
	ComponentHTTP   = "http"
	ComponentWorker = "email_worker"
	ComponentCache  = "cache"
)
