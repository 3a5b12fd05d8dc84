package validation

import (
	"errors"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
	"github.com/yigit/courseportal/internal/pkg/apperrors"
)

var (
	once     sync.Once
	validate *validator.Validate
)

// Validator returns the shared validator instance. Field names in errors
// come from the json tag. The notblank rule is registered on top of the
// standard ones.
func Validator() *validator.Validate {
	once.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(jsonFieldName)
		_ = validate.RegisterValidation("notblank", validators.NotBlank)
	})
	return validate
}

// Struct validates s and converts failures into a validation error whose
// details map each failing field to a message.
func Struct(s interface{}) error {
	err := Validator().Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return apperrors.NewCustomError(apperrors.ErrValidationFailed, err.Error())
	}
	return FromFieldErrors(fieldErrs)
}

// FromFieldErrors converts validator field errors into a validation error
func FromFieldErrors(fieldErrs validator.ValidationErrors) error {
	details := make(map[string]interface{}, len(fieldErrs))
	messages := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		msg := FormatFieldError(fe)
		details[fe.Field()] = msg
		messages = append(messages, msg)
	}
	return apperrors.NewCustomError(apperrors.ErrValidationFailed, strings.Join(messages, "; ")).
		WithDetails(details)
}

// FormatFieldError creates a human-readable validation error message
func FormatFieldError(e validator.FieldError) string {
	switch e.Tag() {
	case "required", "notblank":
		return e.Field() + " is required"
	case "min":
		return e.Field() + " must be at least " + e.Param()
	case "max":
		return e.Field() + " must be at most " + e.Param()
	case "dive":
		return e.Field() + " contains an invalid entry"
	default:
		return e.Field() + " validation failed: " + e.Tag()
	}
}

func jsonFieldName(field reflect.StructField) string {
	name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
	if name == "" || name == "-" {
		name = strings.SplitN(field.Tag.Get("form"), ",", 2)[0]
	}
	if name == "" || name == "-" {
		return strings.ToLower(field.Name)
	}
	return name
}
