package httpclient

import (
	"errors"
	"time"

	"github.com/kbukum/beer-inventory/resilience"
)

// DefaultTimeout bounds a request when Config.Timeout is unset.
const DefaultTimeout = 30 * time.Second

// Config configures a Client.
type Config struct {
	// Timeout bounds the whole exchange, body read included.
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout"`
	// UserAgent is sent on every request when set.
	UserAgent string `yaml:"user_agent" mapstructure:"user_agent"`
	// Headers are sent on every request. Per-request headers win.
	Headers map[string]string `yaml:"headers" mapstructure:"headers"`
	// CircuitBreaker enables fail-fast behaviour when non-nil.
	CircuitBreaker *resilience.CircuitBreakerConfig `yaml:"-" mapstructure:"-"`
}

func (c *Config) ApplyDefaults() {
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
}

func (c *Config) Validate() error {
	if c.Timeout <= 0 {
		return errors.New("httpclient: timeout must be positive")
	}
	return nil
}

// DefaultCircuitBreakerConfig returns breaker settings that only count
// transient failures (see IsRetryable), so a 404 never opens the circuit.
func DefaultCircuitBreakerConfig(name string) *resilience.CircuitBreakerConfig {
	cfg := resilience.DefaultCircuitBreakerConfig(name)
	cfg.IsFailure = IsRetryable
	return &cfg
}
