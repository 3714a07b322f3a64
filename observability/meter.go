package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"

	"github.com/kbukum/beer-inventory/logger"
)

// InitMeter creates an OTLP/HTTP meter provider with a periodic reader and
// installs it as the global provider.
func InitMeter(ctx context.Context, cfg MetricsConfig, info ServiceInfo) (*sdkmetric.MeterProvider, error) {
	opts := []otlpmetrichttp.Option{otlpmetrichttp.WithEndpoint(cfg.Endpoint)}
	if cfg.Insecure {
		opts = append(opts, otlpmetrichttp.WithInsecure())
	}
	exporter, err := otlpmetrichttp.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("metric exporter: %w", err)
	}
	res, err := newResource(info)
	if err != nil {
		return nil, err
	}

	var readerOpts []sdkmetric.PeriodicReaderOption
	if cfg.Interval > 0 {
		readerOpts = append(readerOpts, sdkmetric.WithInterval(cfg.Interval))
	}
	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter, readerOpts...)),
		sdkmetric.WithResource(res),
	)
	otel.SetMeterProvider(mp)

	logger.WithComponent("telemetry").Info("Metrics enabled", logger.Fields(
		"endpoint", cfg.Endpoint,
		"interval", cfg.Interval.String(),
	))
	return mp, nil
}

// Meter returns a named meter from the global provider.
func Meter(name string) metric.Meter {
	return otel.Meter(name)
}

// Metric attribute keys.
const (
	AttrJob    = "job"
	AttrStatus = "status"
	AttrCode   = "code"
)

// JobMetrics holds the instruments recorded for every job execution.
type JobMetrics struct {
	runTotal       metric.Int64Counter
	runDuration    metric.Float64Histogram
	runActive      metric.Int64UpDownCounter
	runSkipped     metric.Int64Counter
	recordsRead    metric.Int64Counter
	recordsWritten metric.Int64Counter
	errorTotal     metric.Int64Counter
}

// NewJobMetrics creates metric instruments on the given meter.
func NewJobMetrics(meter metric.Meter) (*JobMetrics, error) {
	runTotal, err := meter.Int64Counter("job.runs.total",
		metric.WithDescription("Total number of job executions by final status"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating job.runs.total counter: %w", err)
	}

	runDuration, err := meter.Float64Histogram("job.run.duration",
		metric.WithDescription("Duration of job executions in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating job.run.duration histogram: %w", err)
	}

	runActive, err := meter.Int64UpDownCounter("job.runs.active",
		metric.WithDescription("Number of job executions in progress"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating job.runs.active counter: %w", err)
	}

	runSkipped, err := meter.Int64Counter("job.runs.skipped",
		metric.WithDescription("Scheduled ticks skipped because a run was still in progress"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating job.runs.skipped counter: %w", err)
	}

	recordsRead, err := meter.Int64Counter("job.records.read",
		metric.WithDescription("Records read from the catalog"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating job.records.read counter: %w", err)
	}

	recordsWritten, err := meter.Int64Counter("job.records.written",
		metric.WithDescription("Records added to the inventory"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating job.records.written counter: %w", err)
	}

	errorTotal, err := meter.Int64Counter("job.errors.total",
		metric.WithDescription("Failed executions by error code"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating job.errors.total counter: %w", err)
	}

	return &JobMetrics{
		runTotal:       runTotal,
		runDuration:    runDuration,
		runActive:      runActive,
		runSkipped:     runSkipped,
		recordsRead:    recordsRead,
		recordsWritten: recordsWritten,
		errorTotal:     errorTotal,
	}, nil
}

// RecordRunStart increments the active run count.
func (m *JobMetrics) RecordRunStart(ctx context.Context, job string) {
	m.runActive.Add(ctx, 1, metric.WithAttributes(attribute.String(AttrJob, job)))
}

// RecordRunEnd decrements active runs and records the finished execution.
func (m *JobMetrics) RecordRunEnd(ctx context.Context, job, status string, duration time.Duration, read, written int64) {
	jobAttr := metric.WithAttributes(attribute.String(AttrJob, job))
	m.runActive.Add(ctx, -1, jobAttr)
	m.runTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String(AttrJob, job),
		attribute.String(AttrStatus, status),
	))
	m.runDuration.Record(ctx, duration.Seconds(), jobAttr)
	m.recordsRead.Add(ctx, read, jobAttr)
	m.recordsWritten.Add(ctx, written, jobAttr)
}

// RecordSkipped records a tick that did not start a run.
func (m *JobMetrics) RecordSkipped(ctx context.Context, job string) {
	m.runSkipped.Add(ctx, 1, metric.WithAttributes(attribute.String(AttrJob, job)))
}

// RecordError records a failed execution by error code.
func (m *JobMetrics) RecordError(ctx context.Context, job, code string) {
	m.errorTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String(AttrJob, job),
		attribute.String(AttrCode, code),
	))
}
