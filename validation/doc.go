// Package validation checks configuration structs before the service starts.
//
// Struct tags cover single fields; the programmatic Validator covers rules
// that span fields. Both report a VALIDATION-coded *errors.AppError whose
// message names each offending config key.
//
// # Struct Tag Validation
//
//	type CatalogConfig struct {
//	    URL     string        `mapstructure:"url" validate:"omitempty,url"`
//	    Timeout time.Duration `mapstructure:"timeout" validate:"gt=0"`
//	}
//	err := validation.Validate(cfg)
//
// # Programmatic Validation
//
//	v := validation.New()
//	v.Custom(mode != "fixed_rate" || runs >= 1, "schedule.max_concurrent_runs", "must be at least 1")
//	err := v.Validate()
package validation
