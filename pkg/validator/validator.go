package validator

import "github.com/go-playground/validator/v10"

var validate = validator.New()

// Validate checks the struct's `validate` tags.
func Validate(v interface{}) error {
	return validate.Struct(v)
}
