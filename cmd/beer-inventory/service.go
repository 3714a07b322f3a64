package main

import (
	"context"
	"fmt"

	"github.com/kbukum/beer-inventory/bootstrap"
	"github.com/kbukum/beer-inventory/httpclient/rest"
	"github.com/kbukum/beer-inventory/internal/appconfig"
	"github.com/kbukum/beer-inventory/internal/catalog"
	"github.com/kbukum/beer-inventory/internal/job"
	"github.com/kbukum/beer-inventory/internal/scheduler"
	"github.com/kbukum/beer-inventory/logger"
	"github.com/kbukum/beer-inventory/observability"
	"github.com/kbukum/beer-inventory/version"
)

// service holds the wiring built during the configure phase.
type service struct {
	once bool

	factory   *job.Factory
	scheduler *scheduler.Scheduler
}

// configure builds the catalog client and job factory and registers the
// components. Telemetry is registered first so it is stopped last and
// flushes whatever the last run recorded.
func (s *service) configure(_ context.Context, app *bootstrap.App[*appconfig.AppConfig]) error {
	cfg := app.Cfg

	telemetry := observability.NewComponent(cfg.Observability, cfg.ServiceInfo(version.Version))
	if err := app.RegisterComponent(telemetry); err != nil {
		return err
	}

	rc, err := rest.New(cfg.HTTPClient())
	if err != nil {
		return fmt.Errorf("catalog client: %w", err)
	}
	source := catalog.NewClient(rc, catalog.EnvURL("CATALOG_URL", cfg.Catalog.URL))
	trackCatalog(app.Summary, source)

	metrics, err := observability.NewJobMetrics(observability.Meter(cfg.Name))
	if err != nil {
		return fmt.Errorf("job metrics: %w", err)
	}

	jobLog := logger.WithComponent("job")
	s.factory = job.NewFactory(cfg.Job.Name, source,
		job.WithChunkSize(cfg.Job.ChunkSize),
		job.WithLogger(jobLog),
		job.WithListeners(job.NewLoggingListener(jobLog), job.NewMetricsListener(metrics)),
	)

	if s.once {
		return nil
	}
	s.scheduler = scheduler.New(cfg.Schedule, s.factory, scheduler.WithMetrics(metrics))
	app.OnStop(s.reportTotals(app.Logger))
	return app.RegisterComponent(s.scheduler)
}

// reportTotals logs how many runs the scheduler launched and skipped and
// how the last one ended.
func (s *service) reportTotals(log *logger.Logger) bootstrap.Hook {
	return func(context.Context) error {
		fields := logger.Fields(
			logger.FieldJob, s.factory.JobName(),
			"launched", s.scheduler.Launched(),
			"skipped", s.scheduler.Skipped(),
		)
		if last := s.scheduler.LastExecution(); last != nil {
			fields["last_run_id"] = last.RunID
			fields["last_status"] = string(last.Status)
		}
		log.Info("Scheduler totals", fields)
		return nil
	}
}

// runOnce executes a single run and returns its error.
func (s *service) runOnce(ctx context.Context) error {
	_, err := s.factory.Launch(ctx)
	return err
}

func trackCatalog(summary *bootstrap.Summary, c *catalog.Client) {
	target, status := c.URL(), "configured"
	if target == "" {
		target, status = "<"+catalog.SettingURL+" not set>", "missing"
	}
	summary.TrackClient("catalog", target, status, "http breaker="+c.CircuitState())
}
