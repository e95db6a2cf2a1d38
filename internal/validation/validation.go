// Package validation wraps go-playground/validator with the field naming and
// custom tags used by the finance tables.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"agency-dashboard/internal/finance"
)

// ErrInvalid marks every error returned by Struct.
var ErrInvalid = errors.New("invalid input")

var (
	once     sync.Once
	validate *validator.Validate
)

func instance() *validator.Validate {
	once.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())

		// Report fields by their json name (employee_id, not EmployeeID).
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})

		_ = v.RegisterValidation("yearmonth", func(fl validator.FieldLevel) bool {
			_, err := finance.ParseMonth(fl.Field().String())
			return err == nil
		})
		_ = v.RegisterValidation("isodate", func(fl validator.FieldLevel) bool {
			_, err := finance.ParseDate(fl.Field().String())
			return err == nil
		})

		validate = v
	})
	return validate
}

// Struct validates s and returns an error wrapping ErrInvalid whose message
// names the first offending field.
func Struct(s any) error {
	err := instance().Struct(s)
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %s", ErrInvalid, Message(err))
}

func fieldName(s string) string {
	s = strings.ReplaceAll(s, "_", " ")
	return cases.Title(language.English).String(s)
}

// Message turns a validator error into something a dashboard user can read.
func Message(err error) string {
	var errs validator.ValidationErrors
	if !errors.As(err, &errs) || len(errs) == 0 {
		return err.Error()
	}

	e := errs[0]
	field := fieldName(e.Field())

	switch e.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "yearmonth":
		return fmt.Sprintf("%s must be a month in YYYY-MM format", field)
	case "isodate":
		return fmt.Sprintf("%s must be a date in YYYY-MM-DD format", field)
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", field, e.Param())
	case "gte", "min":
		return fmt.Sprintf("%s must be at least %s", field, e.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s", field, e.Param())
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}
