package component

import "context"

// HealthStatus is the coarse state reported by a component.
type HealthStatus string

const (
	StatusHealthy   HealthStatus = "healthy"
	StatusDegraded  HealthStatus = "degraded"
	StatusUnhealthy HealthStatus = "unhealthy"
)

// Health is a point-in-time health report.
type Health struct {
	Name    string       `json:"name"`
	Status  HealthStatus `json:"status"`
	Message string       `json:"message,omitempty"`
}

// Component is a part of the service with a start/stop lifecycle, such as
// the job scheduler or the telemetry exporters.
type Component interface {
	// Name identifies the component; it must be unique within a Registry.
	Name() string
	Start(ctx context.Context) error
	// Stop releases the component. ctx carries the shutdown deadline.
	Stop(ctx context.Context) error
	Health(ctx context.Context) Health
}

// Description is what a component shows in the startup summary.
type Description struct {
	Name    string // display name; Component.Name() when empty
	Type    string // e.g. "scheduler", "telemetry"
	Details string // one line, e.g. "job=updateBeerInventory mode=fixed_delay every=5s"
}

// Describable is implemented by components that appear in the startup
// summary.
type Describable interface {
	Describe() Description
}
