package customvalidator

import (
	"regexp"

	"fulfillment-system/pkg/constants"

	"github.com/go-playground/validator/v10"
)

// RegisterCustomValidations wires the domain-specific validation rules into
// the shared validator instance.
func RegisterCustomValidations(v *validator.Validate) error {
	if err := v.RegisterValidation("delivery_region", isKnownRegion); err != nil {
		return err
	}
	if err := v.RegisterValidation("order_number", isOrderNumber); err != nil {
		return err
	}
	return nil
}

func isKnownRegion(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true // absent region falls back to the default SLA
	}
	return constants.IsKnownRegion(value)
}

// Order numbers come from the commercial system as digits with an optional
// letter prefix, e.g. "P2024-0042" or "240042".
var orderNumberRe = regexp.MustCompile(`^[A-Z]?\d[\d-]*$`)

func isOrderNumber(fl validator.FieldLevel) bool {
	return orderNumberRe.MatchString(fl.Field().String())
}
