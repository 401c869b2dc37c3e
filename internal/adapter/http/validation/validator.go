package http

import (
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"

	"taskapp/internal/core/model/response"
	"taskapp/internal/core/util"
)

var (
	Validator  *validator.Validate
	Translator ut.Translator
)

func init() {
	Validator = validator.New(validator.WithRequiredStructEnabled())

	enLocale := en.New()
	uni := ut.New(enLocale, enLocale)

	var found bool
	Translator, found = uni.GetTranslator("en")

	if !found {
		panic("translator en not found")
	}

	if err := en_translations.RegisterDefaultTranslations(Validator, Translator); err != nil {
		panic(err)
	}

	if err := Validator.RegisterValidation("plainpassword", validatePlainPassword); err != nil {
		panic(err)
	}

	addCustomTranslations()
}

func validatePlainPassword(fl validator.FieldLevel) bool {
	return util.PlainPasswordAllowed(fl.Field().String())
}

func addCustomTranslations() {
	Validator.RegisterTranslation("plainpassword", Translator, func(ut ut.Translator) error {
		return ut.Add("plainpassword", "{0} must not contain the word \"password\"", true)
	}, func(ut ut.Translator, fe validator.FieldError) string {
		t, _ := ut.T("plainpassword", fe.Field())
		return t
	})
}

func FormatValidationErrors(err error) []response.ValidationError {
	var errors []response.ValidationError

	if validationErrors, ok := err.(validator.ValidationErrors); ok {
		for _, fieldError := range validationErrors {
			errors = append(errors, response.ValidationError{
				Field:   strings.ToLower(fieldError.Field()),
				Message: fieldError.Translate(Translator),
			})
		}
	}

	return errors
}
