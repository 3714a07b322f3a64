// Package appconfig defines the beer-inventory service configuration.
package appconfig

import (
	"errors"
	"time"

	"github.com/kbukum/beer-inventory/config"
	"github.com/kbukum/beer-inventory/httpclient"
	"github.com/kbukum/beer-inventory/internal/job"
	"github.com/kbukum/beer-inventory/internal/scheduler"
	"github.com/kbukum/beer-inventory/logger"
	"github.com/kbukum/beer-inventory/observability"
	"github.com/kbukum/beer-inventory/resilience"
	"github.com/kbukum/beer-inventory/validation"
)

// ServiceName is the default service name and config lookup key.
const ServiceName = "beer-inventory"

// DefaultJobName is the name stamped on every execution.
const DefaultJobName = "updateBeerInventory"

const (
	defaultCatalogTimeout = 30 * time.Second
	defaultMaxFailures    = 5
	defaultOpenTimeout    = 30 * time.Second
)

// AppConfig is the complete service configuration.
type AppConfig struct {
	config.ServiceConfig `yaml:",inline" mapstructure:",squash"`

	Catalog       CatalogConfig        `yaml:"catalog" mapstructure:"catalog"`
	Schedule      scheduler.Config     `yaml:"schedule" mapstructure:"schedule"`
	Job           JobConfig            `yaml:"job" mapstructure:"job"`
	Observability observability.Config `yaml:"observability" mapstructure:"observability"`
}

// CatalogConfig configures the remote beer catalog. URL may be empty at
// startup; runs fail with a configuration error until it is set.
type CatalogConfig struct {
	URL            string               `yaml:"url" mapstructure:"url" validate:"omitempty,url"`
	Timeout        time.Duration        `yaml:"timeout" mapstructure:"timeout" validate:"gt=0"`
	CircuitBreaker CircuitBreakerConfig `yaml:"circuit_breaker" mapstructure:"circuit_breaker"`
}

// CircuitBreakerConfig toggles the breaker in front of the catalog API.
type CircuitBreakerConfig struct {
	Enabled     bool          `yaml:"enabled" mapstructure:"enabled"`
	MaxFailures int           `yaml:"max_failures" mapstructure:"max_failures"`
	Timeout     time.Duration `yaml:"timeout" mapstructure:"timeout"`
}

// JobConfig configures the inventory job.
type JobConfig struct {
	Name      string `yaml:"name" mapstructure:"name" validate:"required"`
	ChunkSize int    `yaml:"chunk_size" mapstructure:"chunk_size" validate:"min=1"`
}

// ApplyDefaults fills in zero-value fields across all sections.
func (c *AppConfig) ApplyDefaults() {
	if c.Name == "" {
		c.Name = ServiceName
	}
	c.ServiceConfig.ApplyDefaults()

	if c.Catalog.Timeout <= 0 {
		c.Catalog.Timeout = defaultCatalogTimeout
	}
	if c.Catalog.CircuitBreaker.MaxFailures <= 0 {
		c.Catalog.CircuitBreaker.MaxFailures = defaultMaxFailures
	}
	if c.Catalog.CircuitBreaker.Timeout <= 0 {
		c.Catalog.CircuitBreaker.Timeout = defaultOpenTimeout
	}

	c.Schedule.ApplyDefaults()

	if c.Job.Name == "" {
		c.Job.Name = DefaultJobName
	}
	if c.Job.ChunkSize <= 0 {
		c.Job.ChunkSize = job.DefaultChunkSize
	}

	c.Observability.ApplyDefaults()
}

// Validate checks every section and reports all problems at once.
func (c *AppConfig) Validate() error {
	if err := c.ServiceConfig.Validate(); err != nil {
		return err
	}

	v := validation.New()
	v.Custom(!c.Catalog.CircuitBreaker.Enabled || c.Catalog.CircuitBreaker.Timeout > 0,
		"catalog.circuit_breaker.timeout", "must be greater than 0 when the breaker is enabled")
	v.Custom(c.Schedule.Mode != scheduler.ModeFixedDelay || c.Schedule.MaxConcurrentRuns == 1,
		"schedule.max_concurrent_runs", "must be 1 in fixed_delay mode")
	if err := c.Observability.Validate(); err != nil {
		v.AddError("observability", err.Error())
	}

	return errors.Join(validation.Validate(c), v.Validate())
}

// HTTPClient builds the catalog HTTP client settings.
func (c *AppConfig) HTTPClient() httpclient.Config {
	cfg := httpclient.Config{Timeout: c.Catalog.Timeout, UserAgent: c.Name}
	if c.Version != "" {
		cfg.UserAgent += "/" + c.Version
	}
	if c.Catalog.CircuitBreaker.Enabled {
		cb := httpclient.DefaultCircuitBreakerConfig("catalog")
		cb.MaxFailures = c.Catalog.CircuitBreaker.MaxFailures
		cb.Timeout = c.Catalog.CircuitBreaker.Timeout
		cb.OnStateChange = logBreakerChange
		cfg.CircuitBreaker = cb
	}
	return cfg
}

func logBreakerChange(name string, from, to resilience.State) {
	l := logger.WithComponent("catalog")
	fields := logger.Fields("breaker", name, "from", from.String(), "to", to.String())
	if to == resilience.StateOpen {
		l.Warn("Catalog circuit breaker opened", fields)
		return
	}
	l.Info("Catalog circuit breaker state changed", fields)
}

// ServiceInfo identifies the service on exported telemetry.
func (c *AppConfig) ServiceInfo(version string) observability.ServiceInfo {
	if c.Version != "" {
		version = c.Version
	}
	return observability.ServiceInfo{Name: c.Name, Version: version, Environment: c.Environment}
}

// Load reads the configuration from files and the environment, applies
// defaults and validates it.
func Load(opts ...config.LoaderOption) (*AppConfig, error) {
	var cfg AppConfig
	if err := config.LoadConfig(ServiceName, &cfg, opts...); err != nil {
		return nil, err
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
