package intake

import (
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/trezcool/eduhelp/core"
)

var (
	subjectTag  = "subject"
	subjectText = "select a subject from the list"

	serviceTypeTag  = "servicetype"
	serviceTypeText = "select a service type"

	datetimeTag  = "datetime"
	datetimeText = "enter a date as YYYY-MM-DD"
)

// InitValidators registers the intake form validations.
func InitValidators(validate *validator.Validate, translator ut.Translator) {
	_ = validate.RegisterValidation(subjectTag, subjectValidation)
	core.RegisterCustomTranslation(validate, translator, subjectTag, subjectText)

	_ = validate.RegisterValidation(serviceTypeTag, serviceTypeValidation)
	core.RegisterCustomTranslation(validate, translator, serviceTypeTag, serviceTypeText)

	core.RegisterCustomTranslation(validate, translator, datetimeTag, datetimeText, true)
}

// Custom Validators

func subjectValidation(fl validator.FieldLevel) bool {
	return IsSubject(fl.Field().String())
}

func serviceTypeValidation(fl validator.FieldLevel) bool {
	return ServiceType(fl.Field().String()).Valid()
}
