package scheduler

import (
	"time"

	"github.com/kbukum/beer-inventory/validation"
)

// Mode selects how the interval is measured.
type Mode string

const (
	// ModeFixedDelay waits Interval after a run ends before starting the
	// next one. Runs never overlap.
	ModeFixedDelay Mode = "fixed_delay"
	// ModeFixedRate starts a run every Interval regardless of how long runs
	// take. At most MaxConcurrentRuns run at once; extra ticks are skipped.
	ModeFixedRate Mode = "fixed_rate"
)

const (
	defaultInterval          = 5 * time.Second
	defaultMaxConcurrentRuns = 1
)

// Config configures the job schedule.
type Config struct {
	Interval          time.Duration `yaml:"interval" mapstructure:"interval" validate:"gt=0"`
	InitialDelay      time.Duration `yaml:"initial_delay" mapstructure:"initial_delay" validate:"gte=0"`
	Mode              Mode          `yaml:"mode" mapstructure:"mode" validate:"oneof=fixed_delay fixed_rate"`
	MaxConcurrentRuns int           `yaml:"max_concurrent_runs" mapstructure:"max_concurrent_runs" validate:"min=1"`
}

// ApplyDefaults fills in zero-value fields.
func (c *Config) ApplyDefaults() {
	if c.Interval <= 0 {
		c.Interval = defaultInterval
	}
	if c.Mode == "" {
		c.Mode = ModeFixedDelay
	}
	if c.MaxConcurrentRuns <= 0 {
		c.MaxConcurrentRuns = defaultMaxConcurrentRuns
	}
}

// Validate checks the configuration. Call ApplyDefaults first.
func (c *Config) Validate() error {
	return validation.Validate(c)
}
