package validator

import (
	"regexp"

	"github.com/esgdesk/extraction-review/internal/validation"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

var fileNameRegex = regexp.MustCompile(`^[^/\\\x00]{1,255}$`)

func uuidValidator(fl validator.FieldLevel) bool {
	val, ok := fl.Field().Interface().(uuid.UUID)
	if !ok {
		return false
	}
	return val != uuid.Nil
}

func targetTableValidator(fl validator.FieldLevel) bool {
	val, ok := fl.Field().Interface().(string)
	if !ok {
		return false
	}
	return validation.IsKnownTable(val)
}

func fileNameValidator(fl validator.FieldLevel) bool {
	val, ok := fl.Field().Interface().(string)
	if !ok {
		return false
	}
	return fileNameRegex.MatchString(val)
}
