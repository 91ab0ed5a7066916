package dto

import (
	"fmt"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/myeconomy/backend/internal/domain/valueobject"
)

// Custom validation tags.
const (
	TagBRDate = "brdate"
	TagMonth  = "month"
)

// RegisterValidators adds the custom tags to gin's validator. It must run
// before the router handles requests.
func RegisterValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return fmt.Errorf("unexpected validator engine %T", binding.Validator.Engine())
	}
	return registerOn(v)
}

func registerOn(v *validator.Validate) error {
	if err := v.RegisterValidation(TagBRDate, validateBRDate); err != nil {
		return fmt.Errorf("failed to register %s validator: %w", TagBRDate, err)
	}
	if err := v.RegisterValidation(TagMonth, validateMonth); err != nil {
		return fmt.Errorf("failed to register %s validator: %w", TagMonth, err)
	}
	return nil
}

// validateBRDate accepts DD/MM/YYYY calendar dates.
func validateBRDate(fl validator.FieldLevel) bool {
	_, err := valueobject.ParseDisplayDate(fl.Field().String())
	return err == nil
}

// validateMonth accepts zero-based months (0-11).
func validateMonth(fl validator.FieldLevel) bool {
	return valueobject.Month(fl.Field().Int()).Valid()
}
