// internal/utils/validator.go
package utils

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/swordshop/backend/internal/apperrors"
	"github.com/swordshop/backend/internal/i18n"
)

var validate *validator.Validate

func init() {
	validate = validator.New()
	validate.RegisterValidation("notblank", validateNotBlank)

	// Report fields by their JSON names, which is what clients send.
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
}

func ValidateStruct(s interface{}) error {
	return validate.Struct(s)
}

func validateNotBlank(fl validator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}

type ValidationError struct {
	Field string `json:"field"`
	Tag   string `json:"tag"`
	Param string `json:"param,omitempty"`
}

func GetValidationErrors(err error) []ValidationError {
	var validationErrors []ValidationError

	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		for _, e := range validationErrs {
			validationErrors = append(validationErrors, ValidationError{
				Field: e.Field(),
				Tag:   e.Tag(),
				Param: e.Param(),
			})
		}
	}

	return validationErrors
}

// ValidationFailure turns a validator error into a ValidationError naming the
// first offending field. It returns nil when err is nil.
func ValidationFailure(err error) error {
	if err == nil {
		return nil
	}

	fields := GetValidationErrors(err)
	if len(fields) == 0 {
		return apperrors.Validation(i18n.KeyValidationInvalidRequest, err)
	}

	first := fields[0]
	switch first.Tag {
	case "required", "notblank":
		return apperrors.Validation(i18n.KeyValidationRequired, err).WithArgs(first.Field)
	case "email":
		return apperrors.Validation(i18n.KeyValidationEmail, err)
	case "min":
		return apperrors.Validation(i18n.KeyValidationTooShort, err).WithArgs(first.Field, first.Param)
	case "max":
		return apperrors.Validation(i18n.KeyValidationTooLong, err).WithArgs(first.Field, first.Param)
	default:
		return apperrors.Validation(i18n.KeyValidationInvalid, err).WithArgs(first.Field)
	}
}

// BindFailure wraps a JSON decoding error from the request body.
func BindFailure(err error) error {
	return apperrors.Validation(i18n.KeyValidationInvalidRequest, err)
}
