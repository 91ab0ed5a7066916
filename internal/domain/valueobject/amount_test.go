package valueobject

import (
	"errors"
	"testing"

	domainerror "github.com/myeconomy/backend/internal/domain/error"
)

func TestParseAmount(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"1500", "1500"},
		{"1500.00", "1500"},
		{"1500,00", "1500"},
		{"1.500,50", "1500.5"},
		{"R$ 350,75", "350.75"},
		{" 12.345 ", "12.35"},
		{"10.555", "10.56"},
		{"-20", "-20"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseAmount(tt.input)
			if err != nil {
				t.Fatalf("ParseAmount(%q) unexpected error: %v", tt.input, err)
			}
			if got.String() != tt.want {
				t.Errorf("ParseAmount(%q) = %s, want %s", tt.input, got.String(), tt.want)
			}
		})
	}
}

func TestParseAmount_Invalid(t *testing.T) {
	for _, input := range []string{"", "abc", "12,3,4", "R$"} {
		t.Run(input, func(t *testing.T) {
			if _, err := ParseAmount(input); !errors.Is(err, domainerror.ErrInvalidAmount) {
				t.Errorf("ParseAmount(%q) expected ErrInvalidAmount, got %v", input, err)
			}
		})
	}
}
