// Package dto defines data transfer objects for API requests and responses.
package dto

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

// ErrorResponse is the body of every error reply.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}

// NewErrorResponse builds an error body whose message mirrors the error text.
func NewErrorResponse(code, message string) ErrorResponse {
	return ErrorResponse{Error: message, Message: message, Code: code}
}

// MessageResponse represents a generic message response.
type MessageResponse struct {
	Message string `json:"message"`
}

// Amount is a money value as sent by the client: a JSON number or a string,
// possibly with a comma decimal separator ("1500,00"). Parsing is left to
// the use cases so that every malformed value maps to a coded error.
type Amount string

// UnmarshalJSON accepts a JSON number or a JSON string.
func (a *Amount) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*a = ""
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*a = Amount(s)
	default:
		var n json.Number
		if err := json.Unmarshal(data, &n); err != nil {
			return fmt.Errorf("amount must be a number or a string: %w", err)
		}
		*a = Amount(n.String())
	}
	return nil
}

// String returns the raw amount text.
func (a Amount) String() string {
	return string(a)
}

// Money renders a decimal as a JSON number with exactly two decimal places.
type Money decimal.Decimal

// MarshalJSON implements json.Marshaler.
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(decimal.Decimal(m).StringFixed(2)), nil
}

// Decimal returns the underlying value.
func (m Money) Decimal() decimal.Decimal {
	return decimal.Decimal(m)
}
