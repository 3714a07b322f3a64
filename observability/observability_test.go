package observability

import (
	"context"
	"fmt"
	"testing"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestConfigDefaultsAndValidate(t *testing.T) {
	cfg := Config{Tracing: TracingConfig{Enabled: true}}
	cfg.ApplyDefaults()
	if cfg.Metrics.Endpoint != "localhost:4318" || cfg.Tracing.Endpoint != "localhost:4318" {
		t.Errorf("expected default endpoints, got %+v", cfg)
	}
	if cfg.Metrics.Interval != 15*time.Second {
		t.Errorf("expected 15s interval, got %v", cfg.Metrics.Interval)
	}
	if cfg.Tracing.SampleRate != 1.0 {
		t.Errorf("expected full sampling when enabled, got %v", cfg.Tracing.SampleRate)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}

	cfg.Tracing.SampleRate = 1.5
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for sample rate above 1")
	}
}

func TestNewJobMetrics_Noop(t *testing.T) {
	meter := noop.NewMeterProvider().Meter("test")
	metrics, err := NewJobMetrics(meter)
	if err != nil {
		t.Fatalf("unexpected error creating metrics: %v", err)
	}

	ctx := context.Background()
	metrics.RecordRunStart(ctx, "job")
	metrics.RecordRunEnd(ctx, "job", "COMPLETED", 100*time.Millisecond, 2, 2)
	metrics.RecordSkipped(ctx, "job")
	metrics.RecordError(ctx, "job", "CATALOG_FETCH_ERROR")
}

func TestJobMetrics_Recorded(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	defer mp.Shutdown(context.Background())

	metrics, err := NewJobMetrics(mp.Meter("test"))
	if err != nil {
		t.Fatal(err)
	}

	ctx := context.Background()
	metrics.RecordRunStart(ctx, "updateBeerInventory")
	metrics.RecordRunEnd(ctx, "updateBeerInventory", "COMPLETED", 20*time.Millisecond, 3, 3)
	metrics.RecordRunStart(ctx, "updateBeerInventory")
	metrics.RecordRunEnd(ctx, "updateBeerInventory", "FAILED", 5*time.Millisecond, 0, 0)
	metrics.RecordError(ctx, "updateBeerInventory", "CATALOG_FETCH_ERROR")
	metrics.RecordSkipped(ctx, "updateBeerInventory")

	var rm metricdata.ResourceMetrics
	if err := reader.Collect(ctx, &rm); err != nil {
		t.Fatal(err)
	}

	tests := map[string]int64{
		"job.runs.total":      2,
		"job.runs.active":     0,
		"job.runs.skipped":    1,
		"job.records.read":    3,
		"job.records.written": 3,
		"job.errors.total":    1,
	}
	for name, want := range tests {
		got, ok := sumInt64(rm, name)
		if !ok {
			t.Errorf("metric %s not found", name)
			continue
		}
		if got != want {
			t.Errorf("%s = %d, want %d", name, got, want)
		}
	}
}

func TestMeter(t *testing.T) {
	if Meter("test-meter") == nil {
		t.Fatal("expected non-nil meter")
	}
}

func TestStartSpan(t *testing.T) {
	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))
	defer tp.Shutdown(context.Background())
	otel.SetTracerProvider(tp)

	ctx, span := StartSpan(context.Background(), SpanJobRun)
	SetSpanAttribute(ctx, AttrJobName, "updateBeerInventory")
	SetSpanAttribute(ctx, AttrRunID, int64(7))
	span.End()

	spans := exporter.GetSpans()
	if len(spans) != 1 {
		t.Fatalf("expected 1 span, got %d", len(spans))
	}
	if spans[0].Name != SpanJobRun {
		t.Errorf("expected span %q, got %q", SpanJobRun, spans[0].Name)
	}
	if len(spans[0].Attributes) != 2 {
		t.Errorf("expected 2 attributes, got %v", spans[0].Attributes)
	}
}

func TestSetSpanAttribute_AllTypes(t *testing.T) {
	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))
	defer tp.Shutdown(context.Background())
	otel.SetTracerProvider(tp)

	ctx, span := StartSpan(context.Background(), "test-attrs")
	SetSpanAttribute(ctx, "string-key", "value")
	SetSpanAttribute(ctx, "int-key", 42)
	SetSpanAttribute(ctx, "int64-key", int64(100))
	SetSpanAttribute(ctx, "float-key", 3.14)
	SetSpanAttribute(ctx, "bool-key", true)
	SetSpanAttribute(ctx, "string-slice-key", []string{"a", "b"})
	SetSpanAttribute(ctx, "unsupported-key", struct{}{})
	span.End()

	if got := len(exporter.GetSpans()[0].Attributes); got != 6 {
		t.Errorf("expected 6 attributes (unsupported ignored), got %d", got)
	}
}

func TestSetSpanAttributeNoSpan(t *testing.T) {
	SetSpanAttribute(context.Background(), "key", "value")
}

func TestSetSpanError(t *testing.T) {
	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))
	defer tp.Shutdown(context.Background())
	otel.SetTracerProvider(tp)

	ctx, span := StartSpan(context.Background(), SpanCatalogFetch)
	SetSpanError(ctx, fmt.Errorf("catalog down"))
	span.End()

	got := exporter.GetSpans()[0]
	if got.Status.Code != codes.Error {
		t.Errorf("expected error status, got %v", got.Status.Code)
	}
	if len(got.Events) != 1 {
		t.Errorf("expected one recorded error event, got %d", len(got.Events))
	}
}

func TestSetSpanErrorNoSpan(t *testing.T) {
	SetSpanError(context.Background(), fmt.Errorf("no span error"))
}

func TestSampler(t *testing.T) {
	tests := []struct {
		rate float64
		desc string
	}{
		{1.0, "AlwaysOnSampler"},
		{0, "AlwaysOffSampler"},
		{0.5, "TraceIDRatioBased{0.5}"},
	}
	for _, tc := range tests {
		if got := sampler(tc.rate).Description(); got != tc.desc {
			t.Errorf("sampler(%v) = %q, want %q", tc.rate, got, tc.desc)
		}
	}
}

func TestNewResource(t *testing.T) {
	res, err := newResource(ServiceInfo{Name: "beer-inventory", Version: "1.2.3", Environment: "test"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	found := false
	for _, kv := range res.Attributes() {
		if string(kv.Key) == "service.name" && kv.Value.AsString() == "beer-inventory" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected service.name attribute, got %v", res.Attributes())
	}
}

func TestInitTracer(t *testing.T) {
	cfg := TracingConfig{Endpoint: "localhost:4318", Insecure: true, SampleRate: 1}

	tp, err := InitTracer(context.Background(), cfg, ServiceInfo{Name: "test-service"})
	if err != nil {
		t.Fatalf("InitTracer failed: %v", err)
	}
	shutdownQuickly(t, tp.Shutdown)
}

func TestInitMeter(t *testing.T) {
	cfg := MetricsConfig{Endpoint: "localhost:4318", Insecure: true, Interval: time.Second}

	mp, err := InitMeter(context.Background(), cfg, ServiceInfo{Name: "test-service"})
	if err != nil {
		t.Fatalf("InitMeter failed: %v", err)
	}
	shutdownQuickly(t, mp.Shutdown)
}

func TestSetup_Disabled(t *testing.T) {
	p, err := Setup(context.Background(), Config{}, ServiceInfo{Name: "svc"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Meter != nil || p.Tracer != nil {
		t.Error("expected no providers when both signals are disabled")
	}
	if err := p.Shutdown(context.Background()); err != nil {
		t.Errorf("unexpected shutdown error: %v", err)
	}
}

func TestSetup_TracingEnabled(t *testing.T) {
	cfg := Config{Tracing: TracingConfig{Enabled: true, Endpoint: "localhost:4318", Insecure: true, SampleRate: 1}}
	p, err := Setup(context.Background(), cfg, ServiceInfo{Name: "svc", Version: "1.0.0"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Tracer == nil {
		t.Fatal("expected tracer provider")
	}
	if p.Meter != nil {
		t.Error("metrics were not enabled")
	}
	shutdownQuickly(t, p.Shutdown)
}

// shutdownQuickly bounds exporter flushes against an absent collector.
func shutdownQuickly(t *testing.T, fn func(context.Context) error) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	_ = fn(ctx)
}

func sumInt64(rm metricdata.ResourceMetrics, name string) (int64, bool) {
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name != name {
				continue
			}
			sum, ok := m.Data.(metricdata.Sum[int64])
			if !ok {
				return 0, false
			}
			var total int64
			for _, dp := range sum.DataPoints {
				total += dp.Value
			}
			return total, true
		}
	}
	return 0, false
}

func TestComponentLifecycleDisabled(t *testing.T) {
	c := NewComponent(Config{}, ServiceInfo{Name: "beer-inventory"})
	if c.Name() != "telemetry" {
		t.Errorf("unexpected name %q", c.Name())
	}
	if h := c.Health(context.Background()); h.Status != "unhealthy" {
		t.Errorf("expected unhealthy before start, got %s", h.Status)
	}

	if err := c.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if h := c.Health(context.Background()); h.Status != "healthy" {
		t.Errorf("expected healthy after start, got %s", h.Status)
	}
	if d := c.Describe(); d.Details != "metrics=off tracing=off" {
		t.Errorf("unexpected details %q", d.Details)
	}

	if err := c.Stop(context.Background()); err != nil {
		t.Errorf("Stop: %v", err)
	}
	if err := c.Stop(context.Background()); err != nil {
		t.Errorf("second Stop should be a no-op: %v", err)
	}
}

func TestComponentDescribeEnabled(t *testing.T) {
	cfg := Config{Tracing: TracingConfig{Enabled: true, Endpoint: "collector:4318"}}
	c := NewComponent(cfg, ServiceInfo{Name: "beer-inventory"})
	if d := c.Describe(); d.Details != "metrics=off tracing=collector:4318" {
		t.Errorf("unexpected details %q", d.Details)
	}
}
