// Package validation validates structs through `validate` struct tags using
// go-playground/validator and reports failures as an errors.AppError listing
// every offending field.
//
//	type RefreshRequest struct {
//	    RefreshToken string `json:"refresh_token" validate:"required"`
//	}
//	if err := validation.Validate(req); err != nil {
//	    // err is an *errors.AppError with code INVALID_INPUT
//	}
package validation
