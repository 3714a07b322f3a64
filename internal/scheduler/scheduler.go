// Package scheduler triggers the inventory job on a fixed timer.
package scheduler

import (
	"context"
	stderrors "errors"
	"fmt"
	"runtime/debug"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-co-op/gocron/v2"

	"github.com/kbukum/beer-inventory/component"
	"github.com/kbukum/beer-inventory/errors"
	"github.com/kbukum/beer-inventory/internal/job"
	"github.com/kbukum/beer-inventory/logger"
	"github.com/kbukum/beer-inventory/observability"
	"github.com/kbukum/beer-inventory/resilience"
)

// drainTimeout bounds how long the underlying scheduler keeps waiting for
// in-flight runs after Stop's own context has given up.
const drainTimeout = time.Minute

// Launcher starts one isolated run of a job.
type Launcher interface {
	JobName() string
	Launch(ctx context.Context) (*job.Execution, error)
}

// Scheduler launches a job every tick until stopped. Run errors and panics
// are logged and swallowed; only Stop ends the schedule.
//
// Runs execute on a context that is not canceled by Stop, so an in-flight
// run always finishes. Stop waits for it until its own context expires.
type Scheduler struct {
	cfg      Config
	launcher Launcher
	log      *logger.Logger
	metrics  *observability.JobMetrics
	bulkhead *resilience.Bulkhead

	mu    sync.Mutex
	sched gocron.Scheduler

	launched atomic.Int64
	skipped  atomic.Int64
	last     atomic.Pointer[job.Execution]
}

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithLogger sets the scheduler logger.
func WithLogger(l *logger.Logger) Option {
	return func(s *Scheduler) { s.log = l }
}

// WithMetrics records skipped ticks.
func WithMetrics(m *observability.JobMetrics) Option {
	return func(s *Scheduler) { s.metrics = m }
}

// New creates a Scheduler. cfg defaults are applied.
func New(cfg Config, launcher Launcher, opts ...Option) *Scheduler {
	cfg.ApplyDefaults()
	s := &Scheduler{
		cfg:      cfg,
		launcher: launcher,
		log:      logger.WithComponent("scheduler"),
	}
	for _, opt := range opts {
		opt(s)
	}

	// A single run slot maps onto gocron's singleton mode; wider limits
	// need a bulkhead since gocron only caps concurrency per scheduler.
	if cfg.Mode == ModeFixedRate && cfg.MaxConcurrentRuns > 1 {
		s.bulkhead = resilience.NewBulkhead(resilience.BulkheadConfig{
			Name:          launcher.JobName(),
			MaxConcurrent: cfg.MaxConcurrentRuns,
			OnReject:      s.onSkip,
		})
	}
	return s
}

// Name implements component.Component.
func (s *Scheduler) Name() string { return "scheduler" }

// Start registers the job and begins the schedule in the background. The
// first run starts after InitialDelay.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	name := s.launcher.JobName()
	if s.sched != nil {
		return fmt.Errorf("scheduler for %s already started", name)
	}

	sched, err := gocron.NewScheduler(
		gocron.WithLogger(gocronLogger{log: s.log}),
		gocron.WithMonitor(skipMonitor{onSkip: s.onSkip}),
		gocron.WithStopTimeout(drainTimeout),
	)
	if err != nil {
		return fmt.Errorf("creating scheduler for %s: %w", name, err)
	}

	runCtx := context.WithoutCancel(ctx)
	if _, err := sched.NewJob(
		gocron.DurationJob(s.cfg.Interval),
		gocron.NewTask(func() { s.tick(runCtx) }),
		s.jobOptions(time.Now())...,
	); err != nil {
		_ = sched.Shutdown()
		return fmt.Errorf("scheduling %s: %w", name, err)
	}

	sched.Start()
	s.sched = sched

	s.log.Info("Scheduler started", logger.Fields(
		logger.FieldJob, name,
		"mode", string(s.cfg.Mode),
		"interval", s.cfg.Interval.String(),
		"initial_delay", s.cfg.InitialDelay.String(),
	))
	return nil
}

// Stop ends the schedule and waits for in-flight runs until ctx expires.
func (s *Scheduler) Stop(ctx context.Context) error {
	s.mu.Lock()
	sched := s.sched
	s.sched = nil
	s.mu.Unlock()
	if sched == nil {
		return nil
	}

	done := make(chan error, 1)
	go func() { done <- sched.Shutdown() }()

	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("stopping %s schedule: %w", s.launcher.JobName(), err)
		}
		s.log.Info("Scheduler stopped", logger.Fields(
			logger.FieldJob, s.launcher.JobName(),
			"runs", s.launched.Load(),
			"skipped", s.Skipped(),
		))
		return nil
	case <-ctx.Done():
		return fmt.Errorf("waiting for in-flight %s run: %w", s.launcher.JobName(), ctx.Err())
	}
}

// Health implements component.Component. A schedule whose last run failed
// is degraded; it keeps running and may recover on the next tick.
func (s *Scheduler) Health(_ context.Context) component.Health {
	h := component.Health{Name: s.Name(), Status: component.StatusHealthy}

	s.mu.Lock()
	running := s.sched != nil
	s.mu.Unlock()
	if !running {
		h.Status = component.StatusUnhealthy
		h.Message = "not running"
		return h
	}

	if exec := s.last.Load(); exec != nil && exec.Status == job.StatusFailed {
		h.Status = component.StatusDegraded
		h.Message = fmt.Sprintf("run %d failed: %v", exec.RunID, exec.Err)
	}
	return h
}

// Describe implements component.Describable.
func (s *Scheduler) Describe() component.Description {
	details := fmt.Sprintf("job=%s mode=%s every=%s", s.launcher.JobName(), s.cfg.Mode, s.cfg.Interval)
	if s.cfg.Mode == ModeFixedRate {
		details += fmt.Sprintf(" max_concurrent=%d", s.cfg.MaxConcurrentRuns)
	}
	return component.Description{Name: "Scheduler", Type: "scheduler", Details: details}
}

// LastExecution returns the most recently finished run, or nil.
func (s *Scheduler) LastExecution() *job.Execution { return s.last.Load() }

// Launched returns how many runs have been started.
func (s *Scheduler) Launched() int64 { return s.launched.Load() }

// Skipped returns how many fixed-rate ticks were dropped because the run
// limit was reached.
func (s *Scheduler) Skipped() int64 { return s.skipped.Load() }

// jobOptions maps the schedule mode onto gocron. Fixed delay counts the
// interval from the end of the previous run; fixed rate counts it from the
// previous start and drops ticks that find the run limit reached.
func (s *Scheduler) jobOptions(now time.Time) []gocron.JobOption {
	opts := []gocron.JobOption{gocron.WithName(s.launcher.JobName())}

	if s.cfg.InitialDelay > 0 {
		opts = append(opts, gocron.WithStartAt(gocron.WithStartDateTime(now.Add(s.cfg.InitialDelay))))
	} else {
		opts = append(opts, gocron.WithStartAt(gocron.WithStartImmediately()))
	}

	switch {
	case s.cfg.Mode == ModeFixedDelay:
		opts = append(opts, gocron.WithIntervalFromCompletion())
	case s.bulkhead == nil:
		opts = append(opts, gocron.WithSingletonMode(gocron.LimitModeReschedule))
	}
	return opts
}

func (s *Scheduler) tick(ctx context.Context) {
	if s.bulkhead == nil {
		s.launch(ctx)
		return
	}
	_ = s.bulkhead.Execute(ctx, func() error {
		s.launch(ctx)
		return nil
	})
}

// launch runs the job once. Nothing escapes: errors are logged, panics are
// recovered and logged.
func (s *Scheduler) launch(ctx context.Context) {
	s.launched.Add(1)
	name := s.launcher.JobName()

	defer func() {
		if r := recover(); r != nil {
			s.log.Error("Scheduled run panicked", logger.Fields(
				logger.FieldJob, name,
				logger.FieldError, fmt.Sprint(r),
				"stack", string(debug.Stack()),
			))
		}
	}()

	exec, err := s.launcher.Launch(ctx)
	if exec != nil {
		s.last.Store(exec)
	}
	if err != nil {
		fields := logger.Fields(
			logger.FieldJob, name,
			logger.FieldError, err.Error(),
			"error_code", string(errors.CodeOf(err)),
			"next_in", s.cfg.Interval.String(),
		)
		if exec != nil {
			fields[logger.FieldRunID] = exec.RunID
		}
		if stderrors.Is(err, context.Canceled) {
			s.log.Warn("Scheduled run canceled", fields)
			return
		}
		s.log.Warn("Scheduled run failed", fields)
	}
}

func (s *Scheduler) onSkip(name string) {
	s.skipped.Add(1)
	s.log.Warn("Skipping scheduled run, previous run still in progress", logger.Fields(
		logger.FieldJob, name,
		"max_concurrent_runs", s.cfg.MaxConcurrentRuns,
	))
	if s.metrics != nil {
		s.metrics.RecordSkipped(context.Background(), name)
	}
}
