// Package validation checks request and configuration structs against their
// `validate` struct tags.
package validation

import (
	stderrors "errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/matzehuels/entigraph/pkg/errors"
)

// validate is a singleton validator instance
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		for _, tag := range []string{"json", "toml"} {
			name := strings.SplitN(f.Tag.Get(tag), ",", 2)[0]
			if name != "" && name != "-" {
				return name
			}
		}
		return f.Name
	})
	v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	return v
}

// RegisterDuration makes validator compare values of type T by their
// duration, so tags like "gt=0" work on wrapper types.
func RegisterDuration[T any](get func(T) time.Duration) {
	var zero T
	validate.RegisterCustomTypeFunc(func(f reflect.Value) any {
		return int64(get(f.Interface().(T)))
	}, zero)
}

// Struct validates s and returns an INVALID_INPUT error describing the
// first failing field.
func Struct(s any) error {
	if err := validate.Struct(s); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "%s", describe(err))
	}
	return nil
}

func describe(err error) string {
	var verrs validator.ValidationErrors
	if !stderrors.As(err, &verrs) || len(verrs) == 0 {
		return err.Error()
	}

	e := verrs[0]
	field := strings.TrimPrefix(e.Namespace(), topLevel(e.Namespace()))
	field = strings.TrimPrefix(field, ".")
	if field == "" {
		field = e.Field()
	}

	switch e.Tag() {
	case "required", "notblank":
		return fmt.Sprintf("%s: field is required", field)
	case "required_if":
		return fmt.Sprintf("%s: field is required when %s", field, e.Param())
	case "oneof":
		return fmt.Sprintf("%s: must be one of [%s]", field, e.Param())
	case "gt", "min":
		return fmt.Sprintf("%s: must be at least %s", field, e.Param())
	case "max", "lte":
		return fmt.Sprintf("%s: must not exceed %s", field, e.Param())
	case "url", "hostname_port":
		return fmt.Sprintf("%s: invalid %s %q", field, e.Tag(), e.Value())
	default:
		return fmt.Sprintf("%s: validation failed (%s)", field, e.Tag())
	}
}

func topLevel(ns string) string {
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[:i]
	}
	return ""
}
