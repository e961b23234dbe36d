package handler

import (
	"reflect"

	"github.com/go-playground/validator/v10"
	"github.com/segyhp/coop-billing/internal/service"

	"github.com/shopspring/decimal"
)

// NewValidator returns a validator that understands decimal amounts and the
// cooperative's loan products
func NewValidator() *validator.Validate {
	v := validator.New()

	// decimal.Decimal is validated as its float64 value so that required and
	// gt work on money fields
	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			return d.InexactFloat64()
		}
		return nil
	}, decimal.Decimal{})

	_ = v.RegisterValidation("loan_amount", func(fl validator.FieldLevel) bool {
		return service.IsAllowedAmount(decimal.NewFromFloat(fl.Field().Float()))
	})
	_ = v.RegisterValidation("tenor_option", func(fl validator.FieldLevel) bool {
		return service.IsAllowedTenor(int(fl.Field().Int()))
	})

	return v
}
