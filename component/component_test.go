package component

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

// journal records lifecycle calls across fakes.
type journal struct{ calls []string }

func (j *journal) add(s string) { j.calls = append(j.calls, s) }

type fake struct {
	name     string
	j        *journal
	startErr error
	stopErr  error
	status   HealthStatus
	onStop   func(ctx context.Context)
}

func (f *fake) Name() string { return f.name }

func (f *fake) Start(context.Context) error {
	if f.j != nil {
		f.j.add("start " + f.name)
	}
	return f.startErr
}

func (f *fake) Stop(ctx context.Context) error {
	if f.j != nil {
		f.j.add("stop " + f.name)
	}
	if f.onStop != nil {
		f.onStop(ctx)
	}
	return f.stopErr
}

func (f *fake) Health(context.Context) Health {
	status := f.status
	if status == "" {
		status = StatusHealthy
	}
	return Health{Name: f.name, Status: status}
}

func register(t *testing.T, r *Registry, cs ...Component) {
	t.Helper()
	for _, c := range cs {
		if err := r.Register(c); err != nil {
			t.Fatalf("register %s: %v", c.Name(), err)
		}
	}
}

func TestRegisterRejectsDuplicates(t *testing.T) {
	r := NewRegistry()
	register(t, r, &fake{name: "scheduler"})

	err := r.Register(&fake{name: "scheduler"})
	if err == nil || !strings.Contains(err.Error(), `"scheduler" already registered`) {
		t.Fatalf("expected duplicate error, got %v", err)
	}
	if len(r.All()) != 1 {
		t.Errorf("duplicate must not be added, got %d components", len(r.All()))
	}
}

func TestGet(t *testing.T) {
	r := NewRegistry()
	s := &fake{name: "scheduler"}
	register(t, r, s)

	if r.Get("scheduler") != s {
		t.Error("expected the registered component")
	}
	if r.Get("missing") != nil {
		t.Error("expected nil for an unknown name")
	}
}

func TestLifecycleOrder(t *testing.T) {
	j := &journal{}
	r := NewRegistry()
	register(t, r,
		&fake{name: "telemetry", j: j},
		&fake{name: "catalog", j: j},
		&fake{name: "scheduler", j: j},
	)

	if err := r.StartAll(context.Background()); err != nil {
		t.Fatalf("StartAll: %v", err)
	}
	if err := r.StopAll(context.Background()); err != nil {
		t.Fatalf("StopAll: %v", err)
	}

	want := "start telemetry,start catalog,start scheduler,stop scheduler,stop catalog,stop telemetry"
	if got := strings.Join(j.calls, ","); got != want {
		t.Errorf("calls = %s\nwant    %s", got, want)
	}
}

func TestStartFailureStopsOnlyStarted(t *testing.T) {
	j := &journal{}
	boom := errors.New("connection refused")
	r := NewRegistry()
	register(t, r,
		&fake{name: "telemetry", j: j},
		&fake{name: "scheduler", j: j, startErr: boom},
		&fake{name: "never", j: j},
	)

	err := r.StartAll(context.Background())
	if !errors.Is(err, boom) {
		t.Fatalf("expected wrapped start error, got %v", err)
	}
	if err := r.StopAll(context.Background()); err != nil {
		t.Fatalf("StopAll: %v", err)
	}

	want := "start telemetry,start scheduler,stop telemetry"
	if got := strings.Join(j.calls, ","); got != want {
		t.Errorf("calls = %s, want %s", got, want)
	}
}

func TestStopAllWithoutStartIsNoop(t *testing.T) {
	j := &journal{}
	r := NewRegistry()
	register(t, r, &fake{name: "scheduler", j: j})

	if err := r.StopAll(context.Background()); err != nil {
		t.Fatalf("StopAll: %v", err)
	}
	if len(j.calls) != 0 {
		t.Errorf("expected no calls, got %v", j.calls)
	}
}

func TestStopAllJoinsErrors(t *testing.T) {
	j := &journal{}
	errA, errB := errors.New("a failed"), errors.New("b failed")
	r := NewRegistry()
	register(t, r,
		&fake{name: "a", j: j, stopErr: errA},
		&fake{name: "b", j: j, stopErr: errB},
	)
	if err := r.StartAll(context.Background()); err != nil {
		t.Fatalf("StartAll: %v", err)
	}

	err := r.StopAll(context.Background())
	if !errors.Is(err, errA) || !errors.Is(err, errB) {
		t.Fatalf("expected both stop errors, got %v", err)
	}
	if len(j.calls) != 4 {
		t.Errorf("every component must be stopped, got %v", j.calls)
	}
	if err := r.StopAll(context.Background()); err != nil {
		t.Errorf("second StopAll should be a no-op, got %v", err)
	}
}

func TestStopTimeout(t *testing.T) {
	r := NewRegistry()
	r.SetStopTimeout(0)
	if r.stopTimeout != DefaultStopTimeout {
		t.Fatalf("non-positive timeout must be ignored, got %v", r.stopTimeout)
	}
	r.SetStopTimeout(20 * time.Millisecond)

	var left time.Duration
	register(t, r, &fake{name: "slow", onStop: func(ctx context.Context) {
		deadline, ok := ctx.Deadline()
		if !ok {
			t.Error("expected a stop deadline")
		}
		left = time.Until(deadline)
	}})
	if err := r.StartAll(context.Background()); err != nil {
		t.Fatalf("StartAll: %v", err)
	}
	if err := r.StopAll(context.Background()); err != nil {
		t.Fatalf("StopAll: %v", err)
	}
	if left > 20*time.Millisecond {
		t.Errorf("deadline too far away: %v", left)
	}
}

func TestHealthAll(t *testing.T) {
	r := NewRegistry()
	register(t, r,
		&fake{name: "scheduler"},
		&fake{name: "telemetry", status: StatusDegraded},
	)

	got := r.HealthAll(context.Background())
	if len(got) != 2 {
		t.Fatalf("expected 2 reports, got %d", len(got))
	}
	if got[0].Status != StatusHealthy || got[1].Status != StatusDegraded {
		t.Errorf("unexpected reports: %+v", got)
	}
}

func TestAllReturnsCopy(t *testing.T) {
	r := NewRegistry()
	register(t, r, &fake{name: "a"}, &fake{name: "b"})

	all := r.All()
	all[0] = &fake{name: "z"}
	if r.All()[0].Name() != "a" {
		t.Error("All must not expose the internal slice")
	}
}
