package validation

import (
	stderrors "errors"
	"reflect"
	"strings"
	"sync"
	"unicode"

	"github.com/go-playground/validator/v10"

	"github.com/kbukum/beer-inventory/errors"
)

var structValidator = sync.OnceValue(func() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(configKey)
	return v
})

// Validate checks s against its `validate` struct tags. Failures name the
// config key of each field, e.g. "catalog.timeout: must be greater than 0".
func Validate(s any) error {
	err := structValidator().Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !stderrors.As(err, &fieldErrs) {
		return errors.Validation("validation failed").WithCause(err)
	}
	v := New()
	for _, fe := range fieldErrs {
		v.AddError(fieldPath(fe.Namespace()), describe(fe))
	}
	return v.Validate()
}

// configKey names a field the way the config file does: the first of its
// mapstructure, yaml or json tags, else its snake_cased Go name.
func configKey(f reflect.StructField) string {
	for _, tag := range []string{"mapstructure", "yaml", "json"} {
		name, _, _ := strings.Cut(f.Tag.Get(tag), ",")
		switch name {
		case "":
			continue
		case "-":
			return ""
		}
		return name
	}
	return toSnakeCase(f.Name)
}

// fieldPath drops the root struct name from a validator namespace.
func fieldPath(ns string) string {
	_, rest, ok := strings.Cut(ns, ".")
	if !ok {
		return ns
	}
	return rest
}

var tagMessages = map[string]string{
	"required": "is required",
	"url":      "must be a valid URL",
	"min":      "must be at least ",
	"max":      "must be at most ",
	"gt":       "must be greater than ",
	"gte":      "must be greater than or equal to ",
	"lte":      "must be less than or equal to ",
	"oneof":    "must be one of: ",
}

func describe(fe validator.FieldError) string {
	msg, ok := tagMessages[fe.Tag()]
	if !ok {
		return "is invalid"
	}
	if strings.HasSuffix(msg, " ") {
		msg += fe.Param()
	}
	return msg
}

func toSnakeCase(s string) string {
	var b strings.Builder
	for i, r := range s {
		if unicode.IsUpper(r) {
			if i > 0 {
				b.WriteByte('_')
			}
			r = unicode.ToLower(r)
		}
		b.WriteRune(r)
	}
	return b.String()
}
