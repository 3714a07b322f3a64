package bootstrap

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kbukum/beer-inventory/component"
	"github.com/kbukum/beer-inventory/logger"
)

// DefaultGracefulTimeout bounds shutdown when no WithGracefulTimeout is given.
const DefaultGracefulTimeout = 15 * time.Second

// Hook is a lifecycle callback.
type Hook func(ctx context.Context) error

// App runs a service with a typed configuration C.
//
// Startup order: configure callbacks, component Start in registration
// order, ready check, OnReady hooks, startup summary. Shutdown order:
// OnStop hooks, component Stop in reverse order.
type App[C Config] struct {
	Name       string
	Version    string
	Cfg        C
	Components *component.Registry
	Logger     *logger.Logger
	Summary    *Summary

	gracefulTimeout time.Duration
	configurers     []func(ctx context.Context, app *App[C]) error
	onReady         []Hook
	onStop          []Hook
}

// NewApp validates cfg and initializes logging from cfg's logging section
// unless WithLogger is given.
func NewApp[C Config](cfg C, opts ...Option) (*App[C], error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}
	o := resolveOptions(opts)
	base := cfg.GetServiceConfig()

	app := &App[C]{
		Name:            base.Name,
		Version:         base.Version,
		Cfg:             cfg,
		Components:      component.NewRegistry(),
		Logger:          o.logger,
		Summary:         NewSummary(base.Name, base.Version),
		gracefulTimeout: DefaultGracefulTimeout,
	}
	if o.gracefulTimeout > 0 {
		app.gracefulTimeout = o.gracefulTimeout
	}
	app.Components.SetStopTimeout(app.gracefulTimeout)
	if app.Logger == nil {
		logger.Init(&base.Logging)
		app.Logger = logger.GetGlobalLogger()
	}
	if o.summaryOut != nil {
		app.Summary.SetOutput(o.summaryOut)
	}
	return app, nil
}

// RegisterComponent adds c to the registry. Register dependencies first.
func (a *App[C]) RegisterComponent(c component.Component) error {
	return a.Components.Register(c)
}

// OnConfigure adds a callback that wires the service and registers its
// components before anything starts.
func (a *App[C]) OnConfigure(fn func(ctx context.Context, app *App[C]) error) {
	a.configurers = append(a.configurers, fn)
}

// OnReady adds hooks run once every component has started.
func (a *App[C]) OnReady(hooks ...Hook) { a.onReady = append(a.onReady, hooks...) }

// OnStop adds hooks run at shutdown, before components are stopped.
func (a *App[C]) OnStop(hooks ...Hook) { a.onStop = append(a.onStop, hooks...) }

// ReadyCheck reports every component that is not healthy.
func (a *App[C]) ReadyCheck(ctx context.Context) error {
	var issues []string
	for _, h := range a.Components.HealthAll(ctx) {
		if h.Status == component.StatusHealthy {
			continue
		}
		issue := h.Name + "=" + string(h.Status)
		if h.Message != "" {
			issue += "(" + h.Message + ")"
		}
		issues = append(issues, issue)
	}
	if len(issues) > 0 {
		return fmt.Errorf("unhealthy components: %v", issues)
	}
	return nil
}

// Run starts the service and blocks until SIGINT, SIGTERM or ctx is done,
// then shuts down.
func (a *App[C]) Run(ctx context.Context) error {
	if err := a.startup(ctx); err != nil {
		_ = a.stop()
		return err
	}

	sigCtx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()
	a.Logger.Info("Application ready, waiting for shutdown signal")
	<-sigCtx.Done()
	a.Logger.Info("Shutdown requested", logger.Fields("cause", context.Cause(sigCtx).Error()))

	return a.stop()
}

// RunTask starts the service, runs task once and shuts down. A signal
// cancels the task's context. The task's error wins over a shutdown error.
func (a *App[C]) RunTask(ctx context.Context, task func(ctx context.Context) error) error {
	if err := a.startup(ctx); err != nil {
		_ = a.stop()
		return err
	}

	taskCtx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	taskErr := task(taskCtx)
	cancel()

	if stopErr := a.stop(); taskErr == nil {
		return stopErr
	}
	return taskErr
}

func (a *App[C]) startup(ctx context.Context) error {
	began := time.Now()
	a.Logger.Info("Starting application", logger.Fields("name", a.Name, "version", a.Version))

	for _, fn := range a.configurers {
		if err := fn(ctx, a); err != nil {
			return fmt.Errorf("configuration failed: %w", err)
		}
	}
	if err := a.Components.StartAll(ctx); err != nil {
		return fmt.Errorf("initialization failed: %w", err)
	}
	if err := a.ReadyCheck(ctx); err != nil {
		a.Logger.Warn("Ready check reported issues", logger.Fields(logger.FieldError, err.Error()))
	}
	if err := runHooks(ctx, a.onReady); err != nil {
		return fmt.Errorf("onReady hook failed: %w", err)
	}

	a.Summary.SetStartupDuration(time.Since(began))
	a.Summary.DisplaySummary(ctx, a.Components)
	return nil
}

func (a *App[C]) stop() error {
	a.Logger.Info("Shutting down application", logger.Fields("timeout", a.gracefulTimeout.String()))
	ctx, cancel := context.WithTimeout(context.Background(), a.gracefulTimeout)
	defer cancel()

	err := runHooks(ctx, a.onStop)
	if err != nil {
		a.Logger.Error("OnStop hook error", logger.Fields(logger.FieldError, err.Error()))
	}
	if stopErr := a.Components.StopAll(ctx); stopErr != nil {
		a.Logger.Error("Shutdown completed with errors", logger.Fields(logger.FieldError, stopErr.Error()))
		if err == nil {
			err = stopErr
		}
	}

	a.Logger.Info("Application shutdown complete")
	return err
}

func runHooks(ctx context.Context, hooks []Hook) error {
	for i, h := range hooks {
		if err := h(ctx); err != nil {
			return fmt.Errorf("hook %d failed: %w", i, err)
		}
	}
	return nil
}
