// Package validation runs go-playground/validator over request DTOs and
// renders violations as the field → ordered message list shape the API
// promises. A failed validation never stops at the first error: every
// violated field is reported at once.
package validation

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var validate = validator.New()

func init() {
	// Register decimal.Decimal as a numeric type so that validator tags like
	// gte=0, lte=5, required work without panicking ("Bad field type decimal.Decimal").
	validate.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if v, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := v.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})

	// Report fields under their wire names, not Go struct names.
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})
}

// Struct validates req and returns the violations keyed by wire field name.
// An empty map means the struct is valid. Callers may merge further checks
// (uniqueness, referential existence) into the same map before responding.
func Struct(req interface{}) map[string][]string {
	fields := make(map[string][]string)
	err := validate.Struct(req)
	if err == nil {
		return fields
	}
	for _, fe := range err.(validator.ValidationErrors) {
		fields[fe.Field()] = append(fields[fe.Field()], message(fe))
	}
	return fields
}

// message converts a single violation into a human-readable reason.
func message(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("The %s field is required.", field)
	case "email":
		return fmt.Sprintf("The %s must be a valid email address.", field)
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("The %s must not be greater than %s characters.", field, fe.Param())
		}
		return fmt.Sprintf("The %s must not be greater than %s.", field, fe.Param())
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("The %s must be at least %s characters.", field, fe.Param())
		}
		return fmt.Sprintf("The %s must be at least %s.", field, fe.Param())
	case "gte":
		return fmt.Sprintf("The %s must be at least %s.", field, fe.Param())
	case "lte":
		return fmt.Sprintf("The %s must not be greater than %s.", field, fe.Param())
	default:
		return fmt.Sprintf("The %s is invalid.", field)
	}
}

// Taken is the uniqueness violation message, merged into the field map by
// services after consulting the store.
func Taken(field string) string {
	return fmt.Sprintf("The %s has already been taken.", field)
}
