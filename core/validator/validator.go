package validator

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	validate *validator.Validate
	once     sync.Once
)

func newValidator() *validator.Validate {
	validate := validator.New()
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return validate
}

// FieldError is a single broken validation rule, keyed by the json name of
// the offending field.
type FieldError struct {
	Field  string
	Reason string
}

func (e FieldError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s %s", e.Field, e.Reason)
}

// FieldErrors is returned by ValidateStruct, in struct field order.
type FieldErrors []FieldError

func (errs FieldErrors) Error() string {
	strs := make([]string, 0, len(errs))
	for _, e := range errs {
		strs = append(strs, e.Error())
	}
	return strings.Join(strs, " and ")
}

func ValidateStruct(s interface{}) error {
	err := getValidator().Struct(s)
	return checkError(err)
}

func ValidateOneOf(value string, enums ...string) error {
	tags := "omitempty,oneof=" + strings.Join(enums, " ")
	err := getValidator().Var(value, tags)
	return checkError(err)
}

func getValidator() *validator.Validate {
	once.Do(func() {
		validate = newValidator()
	})
	return validate
}

func checkError(err error) error {
	if err == nil {
		return nil
	}

	var errs validator.ValidationErrors
	if !errors.As(err, &errs) {
		return err
	}

	fieldErrs := make(FieldErrors, 0, len(errs))
	for _, e := range errs {
		fieldErrs = append(fieldErrs, FieldError{
			Field:  e.Field(),
			Reason: reason(e),
		})
	}
	return fieldErrs
}

func reason(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "must be specified"
	case "oneof":
		return fmt.Sprintf("value \"%v\" not recognized, only support \"%s\"", e.Value(), e.Param())
	case "min":
		if e.Kind() == reflect.Slice {
			return fmt.Sprintf("must contain at least %s entries", e.Param())
		}
		return fmt.Sprintf("cannot be less than %s", e.Param())
	case "gte":
		return fmt.Sprintf("cannot be less than %s", e.Param())
	case "lte":
		return fmt.Sprintf("cannot be greater than %s", e.Param())
	case "unique":
		return "must not contain duplicates"
	}
	return fmt.Sprintf("failed on the '%s' rule", e.Tag())
}
