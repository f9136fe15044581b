// Package validate checks tagged structs with go-playground/validator and
// renders failures the way the catalog backend words them.
package validate

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report fields by their JSON, form or mapstructure name.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		for _, tag := range []string{"json", "form", "mapstructure"} {
			name, _, _ := strings.Cut(f.Tag.Get(tag), ",")
			if name == "-" {
				return ""
			}
			if name != "" {
				return name
			}
		}
		return f.Name
	})
	return v
}

// Struct validates s and returns one message per failed field, or nil.
func Struct(s any) []string {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []string{err.Error()}
	}
	messages := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		messages = append(messages, message(fe))
	}
	return messages
}

// Error is Struct as an error, with the messages joined by ", ".
func Error(s any) error {
	if messages := Struct(s); len(messages) > 0 {
		return errors.New(strings.Join(messages, ", "))
	}
	return nil
}

func message(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s should not be empty", field)
	case "email":
		return fmt.Sprintf("%s must be an email", field)
	case "url", "http_url":
		return fmt.Sprintf("%s must be a URL address", field)
	case "oneof":
		return fmt.Sprintf("%s must be one of the following values: %s", field, strings.ReplaceAll(fe.Param(), " ", ", "))
	case "min":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "gte":
		return fmt.Sprintf("%s must not be less than %s", field, fe.Param())
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}
