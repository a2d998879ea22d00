package service

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
	"github.com/phrazzld/task-api/internal/domain"
)

// validText rejects strings that are not valid UTF-8 or contain NUL bytes.
// PostgreSQL text columns cannot store either.
func validText(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	return utf8.ValidString(s) && strings.IndexByte(s, 0) < 0
}

// newValidator builds a validator that reports fields by their JSON name
// and understands the "notblank" and "text" tags.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	if err := v.RegisterValidation("notblank", validators.NotBlank); err != nil {
		panic(fmt.Sprintf("registering notblank validation: %v", err))
	}
	if err := v.RegisterValidation("text", validText); err != nil {
		panic(fmt.Sprintf("registering text validation: %v", err))
	}
	return v
}

// toValidationError converts the first failing field of a validator error
// into a *domain.ValidationError. Input is never coerced.
func toValidationError(err error) error {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return domain.NewValidationError("", err.Error(), domain.ErrValidation)
	}

	fe := fieldErrs[0]
	var msg string
	switch fe.Tag() {
	case "required":
		msg = "is required"
	case "notblank":
		msg = "must not be blank"
	case "text":
		msg = "must be valid UTF-8 without NUL characters"
	case "max":
		msg = fmt.Sprintf("must be at most %s characters", fe.Param())
	case "min":
		msg = fmt.Sprintf("must be at least %s characters", fe.Param())
	default:
		msg = fmt.Sprintf("failed %q validation", fe.Tag())
	}
	return domain.NewValidationError(fe.Field(), msg, domain.ErrValidation)
}
