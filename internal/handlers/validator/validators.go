package validator

import (
	"github.com/go-playground/validator/v10"
)

type ValidationRule struct {
	Rule func(v *validator.Validate)
}

// Validator wraps the go-playground validator with the custom rules of the API.
type Validator struct {
	validator *validator.Validate
}

func NewValidator() *Validator {
	return &Validator{validator: validator.New(validator.WithRequiredStructEnabled())}
}

func (v *Validator) Register(rules ...ValidationRule) *Validator {
	for _, validationRule := range rules {
		validationRule.Rule(v.validator)
	}
	return v
}

// Struct validates s and returns an *ErrInvalidRequest describing every violation.
func (v *Validator) Struct(s any) error {
	if err := v.validator.Struct(s); err != nil {
		return Describe(err)
	}
	return nil
}
