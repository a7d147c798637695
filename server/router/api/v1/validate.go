package v1

import (
	"fmt"
	"reflect"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v5"
	"github.com/pkg/errors"
)

// requestValidate checks bound request bodies. Field names in errors are the
// json names.
var requestValidate *validator.Validate

func init() {
	requestValidate = validator.New(validator.WithRequiredStructEnabled())
	requestValidate.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	_ = requestValidate.RegisterValidation("password", validatePasswordStrength)
	_ = requestValidate.RegisterValidation("notblank", validateNotBlank)
}

// validatePasswordStrength requires at least one ASCII upper case letter, one
// ASCII lower case letter and one decimal digit.
func validatePasswordStrength(fl validator.FieldLevel) bool {
	var upper, lower, digit bool
	for _, r := range fl.Field().String() {
		switch {
		case 'A' <= r && r <= 'Z':
			upper = true
		case 'a' <= r && r <= 'z':
			lower = true
		case unicode.IsDigit(r):
			digit = true
		}
	}
	return upper && lower && digit
}

func validateNotBlank(fl validator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}

// bindAndValidate decodes the request body into req and validates it.
func bindAndValidate(c *echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return newValidationError(ValidationDetail{
			Loc:  []string{"body"},
			Msg:  "request body is not valid JSON for this endpoint",
			Type: "json_invalid",
		})
	}
	if err := requestValidate.Struct(req); err != nil {
		var fieldErrors validator.ValidationErrors
		if !errors.As(err, &fieldErrors) {
			return errors.Wrap(err, "failed to validate request")
		}
		details := make([]ValidationDetail, 0, len(fieldErrors))
		for _, fieldError := range fieldErrors {
			details = append(details, ValidationDetail{
				Loc:  []string{"body", fieldError.Field()},
				Msg:  validationMessage(fieldError),
				Type: "value_error",
			})
		}
		return newValidationError(details...)
	}
	return nil
}

func validationMessage(fieldError validator.FieldError) string {
	switch fieldError.Tag() {
	case "required":
		return "Field required"
	case "email":
		return "value is not a valid email address"
	case "min":
		return fmt.Sprintf("must be at least %s characters", fieldError.Param())
	case "max":
		return fmt.Sprintf("must be at most %s characters", fieldError.Param())
	case "password":
		return "Password must contain at least one uppercase letter, one lowercase letter, and one digit"
	case "notblank":
		return "cannot be only whitespace"
	default:
		return fmt.Sprintf("failed on the %q rule", fieldError.Tag())
	}
}
