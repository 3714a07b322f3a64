package logger

import (
	"fmt"
	"slices"
)

// Accepted values of the logging section.
var (
	Levels  = []string{"trace", "debug", "info", "warn", "error", "fatal"}
	Formats = []string{"json", "console", "text", FormatPretty}
	Outputs = []string{"stdout", "stderr"}
)

// Config is the logging section of the service configuration.
type Config struct {
	Level       string `yaml:"level" mapstructure:"level"`
	Format      string `yaml:"format" mapstructure:"format"`
	Output      string `yaml:"output" mapstructure:"output"`
	NoColor     bool   `yaml:"no_color" mapstructure:"no_color"`
	Timestamp   bool   `yaml:"timestamp" mapstructure:"timestamp"`
	Caller      bool   `yaml:"caller" mapstructure:"caller"`
	ServiceName string `yaml:"service_name" mapstructure:"service_name"`
}

// ApplyDefaults selects info-level console output on stdout with
// timestamps.
func (c *Config) ApplyDefaults() {
	if c.Level == "" {
		c.Level = "info"
	}
	if c.Format == "" {
		c.Format = "console"
	}
	if c.Output == "" {
		c.Output = "stdout"
	}
	c.Timestamp = true
}

func (c *Config) Validate() error {
	for _, f := range []struct {
		key, value string
		allowed    []string
	}{
		{"level", c.Level, Levels},
		{"format", c.Format, Formats},
		{"output", c.Output, Outputs},
	} {
		if !slices.Contains(f.allowed, f.value) {
			return fmt.Errorf("logging.%s must be one of %v (got: %s)", f.key, f.allowed, f.value)
		}
	}
	return nil
}
