// Package validator reduces go-playground struct validation to the
// field-to-tag map the error envelope's details slot expects.
package validator

import "github.com/go-playground/validator/v10"

var validate = validator.New()

// Validate returns nil when v satisfies its validate tags, otherwise a
// map of failing field name to the violated tag.
func Validate(v any) map[string]string {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	fields := make(map[string]string)
	for _, fe := range err.(validator.ValidationErrors) {
		fields[fe.Field()] = fe.Tag()
	}
	return fields
}
