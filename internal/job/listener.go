package job

import (
	"context"
	"fmt"
	"time"

	"github.com/kbukum/beer-inventory/errors"
	"github.com/kbukum/beer-inventory/logger"
	"github.com/kbukum/beer-inventory/observability"
)

// Listener is notified around every run. AfterRun is called for failed
// runs too, with Status and Err set.
type Listener interface {
	BeforeRun(ctx context.Context, exec *Execution)
	AfterRun(ctx context.Context, exec *Execution)
}

// LoggingListener announces each run with the wall-clock time and reports
// how it ended.
type LoggingListener struct {
	log *logger.Logger
	now func() time.Time
}

// NewLoggingListener creates a LoggingListener.
func NewLoggingListener(log *logger.Logger) *LoggingListener {
	return &LoggingListener{log: log, now: time.Now}
}

// BeforeRun implements Listener.
func (l *LoggingListener) BeforeRun(ctx context.Context, exec *Execution) {
	l.log.WithContext(ctx).Info(
		fmt.Sprintf("Updating beer inventory for Terra10 %s", l.now().Format("15:04:05")),
		exec.Fields(),
	)
}

// AfterRun implements Listener.
func (l *LoggingListener) AfterRun(ctx context.Context, exec *Execution) {
	fields := exec.Fields()
	fields[logger.FieldStatus] = string(exec.Status)
	fields["read_count"] = exec.ReadCount
	fields["write_count"] = exec.WriteCount
	fields = logger.MergeWithDuration(fields, exec.Duration())

	if exec.Status == StatusFailed {
		fields[logger.FieldError] = exec.Err.Error()
		fields["error_code"] = string(errors.CodeOf(exec.Err))
		l.log.WithContext(ctx).Error("Job finished with failure", fields)
		return
	}
	l.log.WithContext(ctx).Info("Job finished", fields)
}

// MetricsListener feeds run outcomes into the job metric instruments.
type MetricsListener struct {
	metrics *observability.JobMetrics
}

// NewMetricsListener creates a MetricsListener.
func NewMetricsListener(m *observability.JobMetrics) *MetricsListener {
	return &MetricsListener{metrics: m}
}

// BeforeRun implements Listener.
func (l *MetricsListener) BeforeRun(ctx context.Context, exec *Execution) {
	l.metrics.RecordRunStart(ctx, exec.JobName)
}

// AfterRun implements Listener.
func (l *MetricsListener) AfterRun(ctx context.Context, exec *Execution) {
	l.metrics.RecordRunEnd(ctx, exec.JobName, string(exec.Status), exec.Duration(), exec.ReadCount, exec.WriteCount)
	if exec.Err != nil {
		l.metrics.RecordError(ctx, exec.JobName, string(errors.CodeOf(exec.Err)))
	}
}
