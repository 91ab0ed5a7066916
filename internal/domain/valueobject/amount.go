package valueobject

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	domainerror "github.com/myeconomy/backend/internal/domain/error"
)

// ParseAmount parses a money amount written either with a dot ("1500.00") or
// in the pt-BR form with a comma decimal separator ("1.500,00", "1500,00").
// The result is rounded to cents.
func ParseAmount(raw string) (decimal.Decimal, error) {
	value := strings.TrimSpace(raw)
	value = strings.TrimPrefix(value, "R$")
	value = strings.TrimSpace(value)

	if strings.Contains(value, ",") {
		value = strings.ReplaceAll(value, ".", "")
		value = strings.Replace(value, ",", ".", 1)
	}

	amount, err := decimal.NewFromString(value)
	if err != nil || value == "" {
		return decimal.Zero, fmt.Errorf("%q: %w", raw, domainerror.ErrInvalidAmount)
	}
	return amount.Round(2), nil
}
