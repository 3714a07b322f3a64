package observability

import (
	"context"
	"errors"

	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// ServiceInfo identifies the service on exported telemetry.
type ServiceInfo struct {
	Name        string
	Version     string
	Environment string
}

// Providers holds the SDK providers created by Setup. Either may be nil
// when the corresponding signal is disabled.
type Providers struct {
	Meter  *sdkmetric.MeterProvider
	Tracer *sdktrace.TracerProvider
}

// Setup initializes the enabled exporters and installs them as the global
// providers. The returned Providers must be shut down on exit to flush.
func Setup(ctx context.Context, cfg Config, info ServiceInfo) (*Providers, error) {
	p := &Providers{}

	if cfg.Metrics.Enabled {
		mp, err := InitMeter(ctx, cfg.Metrics, info)
		if err != nil {
			return nil, err
		}
		p.Meter = mp
	}

	if cfg.Tracing.Enabled {
		tp, err := InitTracer(ctx, cfg.Tracing, info)
		if err != nil {
			_ = p.Shutdown(ctx)
			return nil, err
		}
		p.Tracer = tp
	}

	return p, nil
}

// Shutdown flushes and stops the providers that were created.
func (p *Providers) Shutdown(ctx context.Context) error {
	var errs []error
	if p.Tracer != nil {
		errs = append(errs, p.Tracer.Shutdown(ctx))
	}
	if p.Meter != nil {
		errs = append(errs, p.Meter.Shutdown(ctx))
	}
	return errors.Join(errs...)
}
