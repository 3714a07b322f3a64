package component

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/kbukum/beer-inventory/logger"
)

// DefaultStopTimeout bounds each component's Stop call.
const DefaultStopTimeout = 10 * time.Second

// Registry starts components in registration order and stops the started
// ones in reverse.
type Registry struct {
	mu          sync.RWMutex
	components  []Component
	byName      map[string]Component
	running     []Component // started, in start order
	stopTimeout time.Duration
	log         *logger.Logger
}

func NewRegistry() *Registry {
	return &Registry{
		byName:      map[string]Component{},
		stopTimeout: DefaultStopTimeout,
		log:         logger.WithComponent("registry"),
	}
}

// SetStopTimeout changes the per-component stop deadline. Non-positive
// values are ignored.
func (r *Registry) SetStopTimeout(d time.Duration) {
	if d <= 0 {
		return
	}
	r.mu.Lock()
	r.stopTimeout = d
	r.mu.Unlock()
}

// Register appends c. Register dependencies before their dependents.
func (r *Registry) Register(c Component) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	name := c.Name()
	if _, dup := r.byName[name]; dup {
		return fmt.Errorf("component %q already registered", name)
	}
	r.components = append(r.components, c)
	r.byName[name] = c
	r.log.Debug("Component registered", logger.Fields(logger.FieldComponent, name))
	return nil
}

// StartAll starts every component that is not running yet. On failure the
// components started so far keep running; call StopAll to release them.
func (r *Registry) StartAll(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.log.Info("Starting components", logger.Fields("count", len(r.components)))
	for _, c := range r.components[len(r.running):] {
		if err := c.Start(ctx); err != nil {
			r.log.Error("Component start failed", logger.MergeWithError(
				logger.Fields(logger.FieldComponent, c.Name()), err))
			return fmt.Errorf("start %s: %w", c.Name(), err)
		}
		r.running = append(r.running, c)
		r.log.Debug("Component started", logger.Fields(logger.FieldComponent, c.Name()))
	}
	return nil
}

// StopAll stops running components in reverse start order, each under its
// own deadline derived from ctx. Every component is attempted; the errors
// are joined.
func (r *Registry) StopAll(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var errs []error
	for len(r.running) > 0 {
		c := r.running[len(r.running)-1]
		r.running = r.running[:len(r.running)-1]

		began := time.Now()
		stopCtx, cancel := context.WithTimeout(ctx, r.stopTimeout)
		err := c.Stop(stopCtx)
		cancel()

		fields := logger.MergeWithDuration(logger.Fields(logger.FieldComponent, c.Name()), time.Since(began))
		if err != nil {
			r.log.Error("Component stop failed", logger.MergeWithError(fields, err))
			errs = append(errs, fmt.Errorf("stop %s: %w", c.Name(), err))
			continue
		}
		r.log.Info("Component stopped", fields)
	}
	return errors.Join(errs...)
}

// HealthAll collects a report from every registered component.
func (r *Registry) HealthAll(ctx context.Context) []Health {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Health, len(r.components))
	for i, c := range r.components {
		out[i] = c.Health(ctx)
	}
	return out
}

// Get returns the component registered under name, or nil.
func (r *Registry) Get(name string) Component {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.byName[name]
}

// All returns the components in registration order.
func (r *Registry) All() []Component {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]Component(nil), r.components...)
}
