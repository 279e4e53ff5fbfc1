package session

import (
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/trezcool/eduhelp/core"
)

var (
	acceptedTag  = "accepted"
	acceptedText = "you must accept the terms and conditions"

	pwdMatchTag  = "pwdmatch"
	pwdMatchText = "passwords do not match"
)

// InitValidators registers the login & signup form validations.
func InitValidators(validate *validator.Validate, translator ut.Translator) {
	_ = validate.RegisterValidation(acceptedTag, acceptedValidation)
	core.RegisterCustomTranslation(validate, translator, acceptedTag, acceptedText)

	validate.RegisterStructValidation(signupStructValidation, SignupRequest{})
	core.RegisterCustomTranslation(validate, translator, pwdMatchTag, pwdMatchText)
}

// Custom Validators

func acceptedValidation(fl validator.FieldLevel) bool {
	if accepted, ok := fl.Field().Interface().(bool); ok {
		return accepted
	}
	return false
}

// signupStructValidation checks that both passwords match
func signupStructValidation(sl validator.StructLevel) {
	req, ok := sl.Current().Interface().(SignupRequest)
	if !ok {
		return
	}
	if req.PasswordConfirm != "" && req.PasswordConfirm != req.Password {
		sl.ReportError(req.PasswordConfirm, "password_confirm", "PasswordConfirm", pwdMatchTag, "")
	}
}
