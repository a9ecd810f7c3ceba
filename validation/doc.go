// Package validation checks configuration and request structs against their
// `validate` struct tags using go-playground/validator.
//
//	type Hints struct {
//	    Title string `json:"title" validate:"max=200"`
//	}
//	err := validation.Validate(h)
//
// Failures come back as an *errors.AppError with one FieldError per field.
package validation
