package util

import (
	"errors"
	"reflect"
	"regexp"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
	indexPattern = regexp.MustCompile(`\[(\d+)\]`)
)

// Validator returns the shared instance. Field names in errors follow json tags.
func Validator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
	})
	return validate
}

// ValidateStruct runs the validate tags of v. The returned map is nil when v is valid.
// Keys are json paths with slice indexes dotted, e.g. "parcels.0.barangay".
func ValidateStruct(v any) (map[string]string, error) {
	err := Validator().Struct(v)
	if err == nil {
		return nil, nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil, err
	}

	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		fields[fieldPath(fe.Namespace())] = fieldMessage(fe)
	}
	return fields, nil
}

func fieldPath(namespace string) string {
	if i := strings.Index(namespace, "."); i >= 0 {
		namespace = namespace[i+1:]
	}
	return indexPattern.ReplaceAllString(namespace, ".$1")
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required", "required_if", "required_unless":
		return "The " + fe.Field() + " field is required."
	case "max":
		return "The " + fe.Field() + " may not be greater than " + fe.Param() + "."
	case "min":
		return "The " + fe.Field() + " must be at least " + fe.Param() + "."
	case "gt":
		return "The " + fe.Field() + " must be greater than " + fe.Param() + "."
	case "oneof":
		return "The selected " + fe.Field() + " is invalid."
	case "email":
		return "The " + fe.Field() + " must be a valid email address."
	case "datetime":
		return "The " + fe.Field() + " must be a date in the format " + fe.Param() + "."
	default:
		return "The " + fe.Field() + " is invalid."
	}
}
