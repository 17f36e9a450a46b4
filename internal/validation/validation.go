// Package validation checks user-supplied input before it reaches storage.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"unicode/utf8"

	"studyoverflow/internal/models"

	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

func init() {
	validate = validator.New(validator.WithRequiredStructEnabled())

	// Report fields by their JSON names.
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})

	_ = validate.RegisterValidation("trimmedmin", validateTrimmedMin)
}

// validateTrimmedMin is min= applied to the rune length of the trimmed string.
func validateTrimmedMin(fl validator.FieldLevel) bool {
	var limit int
	if _, err := fmt.Sscanf(fl.Param(), "%d", &limit); err != nil {
		return false
	}
	return utf8.RuneCountInString(strings.TrimSpace(fl.Field().String())) >= limit
}

// Struct validates v against its `validate` tags and returns a VALIDATION_ERROR
// AppError describing the first failing field.
func Struct(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return models.NewValidationError(err.Error())
	}
	return models.NewValidationError(describe(verrs[0]))
}

func describe(fe validator.FieldError) string {
	field := fe.Field()
	if fe.Kind() == reflect.Slice {
		switch fe.Tag() {
		case "min":
			return fmt.Sprintf("%s must have at least %s entries", field, fe.Param())
		case "max":
			return fmt.Sprintf("%s must have at most %s entries", field, fe.Param())
		}
	}
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "trimmedmin", "min":
		return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", field, fe.Param())
	case "url":
		return fmt.Sprintf("%s must be a valid URL", field)
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, fe.Param())
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}
