package validator

import "github.com/go-playground/validator/v10"

func registerFn(tag string, fn func(fl validator.FieldLevel) bool) func(v *validator.Validate) {
	return func(v *validator.Validate) {
		_ = v.RegisterValidation(tag, fn)
	}
}

func NewPreviewValidationRules() []ValidationRule {
	return []ValidationRule{
		{
			Rule: registerFn("preview_id", uuidValidator),
		},
		{
			Rule: registerFn("target_table", targetTableValidator),
		},
	}
}

func NewDocumentValidationRules() []ValidationRule {
	return []ValidationRule{
		{
			Rule: registerFn("file_name", fileNameValidator),
		},
	}
}
