package error

import (
	"errors"
	"fmt"
	"testing"
)

func TestCodedErrors_UnwrapThroughWrapping(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		sentinel error
		message  string
	}{
		{"auth", NewAuthError(ErrCodeEmailExists, "email taken", ErrEmailAlreadyExists), ErrEmailAlreadyExists, "email taken: email already exists"},
		{"expense", NewExpenseError(ErrCodeNonPositiveExpense, "valor inválido", ErrNonPositiveAmount), ErrNonPositiveAmount, "valor inválido: amount must be greater than zero"},
		{"limit", NewLimitError(ErrCodeLimitAlreadyExists, "duplicado", ErrLimitAlreadyExists), ErrLimitAlreadyExists, "duplicado: limit already exists for this period"},
		{"period", NewPeriodError(ErrCodePeriodImmutable, "período fechado", ErrPeriodImmutable), ErrPeriodImmutable, "período fechado: period is in the past and cannot be modified"},
		{"dashboard", NewDashboardError(ErrCodeIncompletePeriodQuery, "mês e ano", ErrIncompletePeriodQuery), ErrIncompletePeriodQuery, "mês e ano: month and year must be given together"},
		{"email", NewEmailError(ErrCodeInvalidTemplate, "bad template", ErrInvalidTemplate), ErrInvalidTemplate, "bad template: invalid email template"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wrapped := fmt.Errorf("use case: %w", tt.err)
			if !errors.Is(wrapped, tt.sentinel) {
				t.Errorf("errors.Is(%v, %v) = false", wrapped, tt.sentinel)
			}
			if got := tt.err.Error(); got != tt.message {
				t.Errorf("Error() = %q, want %q", got, tt.message)
			}
		})
	}
}

func TestCodedErrors_AsRecoversCode(t *testing.T) {
	wrapped := fmt.Errorf("create limit: %w", NewLimitError(ErrCodeLimitPeriodBusy, "ocupado", ErrLimitPeriodBusy))

	var limitErr *LimitError
	if !errors.As(wrapped, &limitErr) {
		t.Fatal("errors.As did not find the LimitError")
	}
	if limitErr.Code != ErrCodeLimitPeriodBusy {
		t.Errorf("Code = %s, want %s", limitErr.Code, ErrCodeLimitPeriodBusy)
	}
}

func TestCodedErrors_MessageWithoutCause(t *testing.T) {
	err := NewExpenseError(ErrCodeEmptyDescription, "Descrição obrigatória", nil)
	if err.Error() != "Descrição obrigatória" {
		t.Errorf("Error() = %q", err.Error())
	}
	if err.Unwrap() != nil {
		t.Error("Unwrap() should be nil without a cause")
	}
}

func TestEmailError_IsPermanent(t *testing.T) {
	tests := []struct {
		code EmailErrorCode
		want bool
	}{
		{ErrCodePermanentEmailFailure, true},
		{ErrCodeInvalidTemplate, true},
		{ErrCodeTemporaryEmailFailure, false},
		{ErrCodeEmailQueueFailed, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			if got := NewEmailError(tt.code, "x", nil).IsPermanent(); got != tt.want {
				t.Errorf("IsPermanent() = %v, want %v", got, tt.want)
			}
		})
	}
}
