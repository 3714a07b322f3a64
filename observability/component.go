package observability

import (
	"context"
	"fmt"
	"sync"

	"github.com/kbukum/beer-inventory/component"
	"github.com/kbukum/beer-inventory/logger"
)

// Component installs the exporters on Start and flushes them on Stop.
// Register it before the components it observes so it stops after them.
type Component struct {
	cfg  Config
	info ServiceInfo

	mu        sync.Mutex
	providers *Providers
}

// NewComponent creates the telemetry component.
func NewComponent(cfg Config, info ServiceInfo) *Component {
	return &Component{cfg: cfg, info: info}
}

// Name implements component.Component.
func (c *Component) Name() string { return "telemetry" }

// Start implements component.Component.
func (c *Component) Start(ctx context.Context) error {
	p, err := Setup(ctx, c.cfg, c.info)
	if err != nil {
		return fmt.Errorf("telemetry setup: %w", err)
	}
	c.mu.Lock()
	c.providers = p
	c.mu.Unlock()

	logger.WithComponent("telemetry").Debug("Telemetry configured", logger.Fields(
		"metrics", c.cfg.Metrics.Enabled,
		"tracing", c.cfg.Tracing.Enabled,
	))
	return nil
}

// Stop implements component.Component.
func (c *Component) Stop(ctx context.Context) error {
	c.mu.Lock()
	p := c.providers
	c.providers = nil
	c.mu.Unlock()
	if p == nil {
		return nil
	}
	return p.Shutdown(ctx)
}

// Health implements component.Component.
func (c *Component) Health(_ context.Context) component.Health {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.providers == nil {
		return component.Health{Name: c.Name(), Status: component.StatusUnhealthy, Message: "not started"}
	}
	return component.Health{Name: c.Name(), Status: component.StatusHealthy}
}

// Describe implements component.Describable.
func (c *Component) Describe() component.Description {
	return component.Description{
		Name:    "Telemetry",
		Type:    "observability",
		Details: fmt.Sprintf("metrics=%s tracing=%s", signalState(c.cfg.Metrics.Enabled, c.cfg.Metrics.Endpoint), signalState(c.cfg.Tracing.Enabled, c.cfg.Tracing.Endpoint)),
	}
}

func signalState(enabled bool, endpoint string) string {
	if !enabled {
		return "off"
	}
	return endpoint
}
