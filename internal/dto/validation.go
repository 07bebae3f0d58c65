package dto

import (
	"fmt"

	"github.com/SscSPs/banquito_backend/internal/core/domain"
	"github.com/SscSPs/banquito_backend/internal/utils/lending"
	"github.com/go-playground/validator/v10"
)

// DateLayout is the wire format of calendar dates.
const DateLayout = "2006-01-02"

// RegisterValidators adds the custom binding tags used by request DTOs:
// `payment_period` (canonical or Spanish period names) and `cedula`.
func RegisterValidators(v *validator.Validate) error {
	if err := v.RegisterValidation("payment_period", func(fl validator.FieldLevel) bool {
		_, err := lending.ParsePaymentPeriod(fl.Field().String())
		return err == nil
	}); err != nil {
		return fmt.Errorf("failed to register payment_period validator: %w", err)
	}
	if err := v.RegisterValidation("cedula", func(fl validator.FieldLevel) bool {
		_, ok := domain.NormalizeCedula(fl.Field().String())
		return ok
	}); err != nil {
		return fmt.Errorf("failed to register cedula validator: %w", err)
	}
	return nil
}
