// Package validation validates request bodies with go-playground/validator
// and reports failures as field-keyed domain errors.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	domainerrors "github.com/pagemarkapp/pagemark-server/internal/errors"
)

// Validator wraps a validator.Validate configured to report fields by their
// JSON names.
type Validator struct {
	check *validator.Validate
}

func New() *Validator {
	check := validator.New()
	check.RegisterTagNameFunc(jsonFieldName)
	return &Validator{check: check}
}

func jsonFieldName(fld reflect.StructField) string {
	tag, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
	if tag == "" || tag == "-" {
		return fld.Name
	}
	return tag
}

// Validate checks struct tags on s. On failure it returns a VALIDATION
// domain error whose details map field names to human-readable messages.
func (v *Validator) Validate(s any) error {
	err := v.check.Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	details := make(map[string]string, len(fieldErrs))
	for _, fe := range fieldErrs {
		details[fe.Field()] = describe(fe)
	}
	return domainerrors.ValidationWithDetails("validation failed", details)
}

// describe turns a single field error into a message suitable for API
// clients. String fields phrase min/max as lengths, numeric fields as values.
func describe(fe validator.FieldError) string {
	isString := fe.Kind() == reflect.String

	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "url":
		return "must be a valid URL"
	case "oneof":
		return "must be one of: " + fe.Param()
	case "min":
		if isString {
			return fmt.Sprintf("must be at least %s characters", fe.Param())
		}
		return "must be at least " + fe.Param()
	case "max":
		if isString {
			return fmt.Sprintf("must be at most %s characters", fe.Param())
		}
		return "must be at most " + fe.Param()
	case "gte", "gtefield":
		return "must be greater than or equal to " + fe.Param()
	case "lte":
		return "must be less than or equal to " + fe.Param()
	case "gt":
		return "must be greater than " + fe.Param()
	case "lt":
		return "must be less than " + fe.Param()
	case "alphanum":
		return "must contain only letters and numbers"
	default:
		return "is invalid"
	}
}
