package validation

import (
	"fmt"
	"slices"
	"strings"

	"github.com/kbukum/beer-inventory/errors"
)

// FieldError is one failed rule. Field is the dotted config key.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e FieldError) String() string { return e.Field + ": " + e.Message }

// Validator accumulates failures of rules that struct tags cannot express,
// such as rules spanning several fields. Checks chain:
//
//	err := validation.New().
//	    Required("job.name", cfg.Job.Name).
//	    Min("job.chunk_size", cfg.Job.ChunkSize, 1).
//	    Validate()
type Validator struct {
	errs []FieldError
}

func New() *Validator { return &Validator{} }

func (v *Validator) AddError(field, message string) {
	v.errs = append(v.errs, FieldError{Field: field, Message: message})
}

func (v *Validator) HasErrors() bool { return len(v.errs) > 0 }
func (v *Validator) Errors() []FieldError { return v.errs }

// Validate returns nil, or an INVALID_INPUT AppError listing every failure
// in its message and under Details["fields"].
func (v *Validator) Validate() error {
	if !v.HasErrors() {
		return nil
	}
	msgs := make([]string, len(v.errs))
	for i, e := range v.errs {
		msgs[i] = e.String()
	}
	return errors.Validation(strings.Join(msgs, "; ")).WithDetail("fields", v.errs)
}

// Required fails on an empty or blank value.
func (v *Validator) Required(field, value string) *Validator {
	return v.Custom(strings.TrimSpace(value) != "", field, "is required")
}

func (v *Validator) Min(field string, value, minVal int) *Validator {
	return v.Custom(value >= minVal, field, fmt.Sprintf("must be at least %d", minVal))
}

// OneOf fails when value is set and not among allowed. Pair it with
// Required when the value is mandatory.
func (v *Validator) OneOf(field, value string, allowed []string) *Validator {
	return v.Custom(value == "" || slices.Contains(allowed, value), field,
		"must be one of: "+strings.Join(allowed, ", "))
}

// Custom records message for field unless ok holds.
func (v *Validator) Custom(ok bool, field, message string) *Validator {
	if !ok {
		v.AddError(field, message)
	}
	return v
}
