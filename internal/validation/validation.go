// Package validation wraps go-playground/validator with readable messages.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/Domenick1991/flightbooking/internal/domain"
	val "github.com/go-playground/validator/v10"
)

var messages = map[string]string{
	"required": "{field} is required",
	"gt":       "{field} must be greater than {param}",
	"gte":      "{field} must be greater than or equal to {param}",
	"lte":      "{field} must be less than or equal to {param}",
	"max":      "{field} must be at most {param} characters",
	"min":      "{field} must be at least {param} characters",
	"len":      "{field} must be exactly {param} characters",
	"email":    "{field} must be a valid email address",
	"oneof":    "{field} must be one of {param}",
	"dive":     "{field} is invalid",
}

var validate = newValidator()

func newValidator() *val.Validate {
	v := val.New(val.WithRequiredStructEnabled())
	// report json names instead of Go field names
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})
	return v
}

// Struct validates s and returns an error wrapping domain.ErrInvalidArgument.
func Struct(s any) error {
	if err := validate.Struct(s); err != nil {
		return fmt.Errorf("%w: %s", domain.ErrInvalidArgument, message(err))
	}
	return nil
}

// Var validates a single value against tag. field names the value in the message.
func Var(field string, value any, tag string) error {
	if err := validate.Var(value, tag); err != nil {
		msg := strings.ReplaceAll(message(err), "{field}", field)
		return fmt.Errorf("%w: %s", domain.ErrInvalidArgument, msg)
	}
	return nil
}

// Passengers validates every passenger and prefixes messages with its index.
func Passengers(passengers []domain.Passenger) error {
	for i := range passengers {
		if err := validate.Struct(passengers[i]); err != nil {
			return fmt.Errorf("%w: passengers[%d]: %s", domain.ErrInvalidArgument, i, message(err))
		}
	}
	return nil
}

func message(err error) string {
	var valErrors val.ValidationErrors
	if errors.As(err, &valErrors) {
		for _, valErr := range valErrors {
			tmpl := messages[valErr.Tag()]
			if tmpl == "" {
				continue
			}
			field := valErr.Field()
			if field == "" {
				field = "{field}"
			}
			msg := strings.ReplaceAll(tmpl, "{field}", field)
			return strings.ReplaceAll(msg, "{param}", valErr.Param())
		}
		return valErrors.Error()
	}
	return err.Error()
}
