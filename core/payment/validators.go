package payment

import (
	"regexp"
	"strings"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/trezcool/eduhelp/core"
)

var (
	requiredTag = "required"

	methodTag  = "paymethod"
	methodText = "select a payment method"

	cardNumberTag   = "cardnumber"
	cardNumberText  = "enter a valid card number"
	cardNumberRegex = regexp.MustCompile(`^\d{12,19}$`)

	expiryTag   = "expiry"
	expiryText  = "enter the expiry date as MM/YY"
	expiryRegex = regexp.MustCompile(`^(0[1-9]|1[0-2])/\d{2}$`)

	cvvTag   = "cvv"
	cvvText  = "enter the 3 or 4 digits on the back of your card"
	cvvRegex = regexp.MustCompile(`^\d{3,4}$`)

	timingTag  = "paytiming"
	timingText = "choose when you would like to pay"
)

// InitValidators registers the payment form validations.
func InitValidators(validate *validator.Validate, translator ut.Translator) {
	_ = validate.RegisterValidation(timingTag, timingValidation)
	core.RegisterCustomTranslation(validate, translator, timingTag, timingText)

	validate.RegisterStructValidation(detailsStructValidation, Details{})
	core.RegisterCustomTranslation(validate, translator, methodTag, methodText)
	core.RegisterCustomTranslation(validate, translator, cardNumberTag, cardNumberText)
	core.RegisterCustomTranslation(validate, translator, expiryTag, expiryText)
	core.RegisterCustomTranslation(validate, translator, cvvTag, cvvText)
}

// Custom Validators

func timingValidation(fl validator.FieldLevel) bool {
	t := Timing(fl.Field().String())
	return t == PayNow || t == PayLater
}

// detailsStructValidation requires a method when paying now, and the card fields when paying by card.
func detailsStructValidation(sl validator.StructLevel) {
	d, ok := sl.Current().Interface().(Details)
	if !ok || d.Timing != PayNow {
		return
	}

	switch d.Method {
	case MethodCard: // checked below
	case MethodWallet:
		return
	case "":
		sl.ReportError(d.Method, "method", "Method", requiredTag, "")
		return
	default:
		sl.ReportError(d.Method, "method", "Method", methodTag, "")
		return
	}

	check := func(value, field, structField string, regex *regexp.Regexp, tag string) {
		switch {
		case strings.TrimSpace(value) == "":
			sl.ReportError(value, field, structField, requiredTag, "")
		case regex != nil && !regex.MatchString(strings.TrimSpace(value)):
			sl.ReportError(value, field, structField, tag, "")
		}
	}
	check(d.cardDigits(), "card_number", "CardNumber", cardNumberRegex, cardNumberTag)
	check(d.Expiry, "expiry", "Expiry", expiryRegex, expiryTag)
	check(d.CVV, "cvv", "CVV", cvvRegex, cvvTag)
	check(d.CardName, "card_name", "CardName", nil, "")
}
