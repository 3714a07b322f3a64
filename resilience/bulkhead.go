package resilience

import (
	"context"
	"errors"
	"sync/atomic"
	"time"
)

var (
	// ErrBulkheadFull is returned when every slot is taken and the bulkhead
	// does not wait.
	ErrBulkheadFull = errors.New("bulkhead is full")
	// ErrBulkheadTimeout is returned when no slot freed up within MaxWait.
	ErrBulkheadTimeout = errors.New("bulkhead wait timeout")
)

// BulkheadConfig configures a bulkhead.
type BulkheadConfig struct {
	Name string
	// MaxConcurrent caps the calls in flight. Non-positive means 1.
	MaxConcurrent int
	// MaxWait bounds how long Execute waits for a slot. Zero rejects at once.
	MaxWait time.Duration
	// OnReject is called for every call turned away.
	OnReject func(name string)
}

// Bulkhead limits how many calls run at the same time. With MaxConcurrent 1
// and no MaxWait it skips work while a previous call is still in flight.
type Bulkhead struct {
	cfg      BulkheadConfig
	slots    chan struct{}
	rejected atomic.Int64
}

// NewBulkhead creates a bulkhead.
func NewBulkhead(cfg BulkheadConfig) *Bulkhead {
	if cfg.MaxConcurrent <= 0 {
		cfg.MaxConcurrent = 1
	}
	return &Bulkhead{cfg: cfg, slots: make(chan struct{}, cfg.MaxConcurrent)}
}

// Execute runs fn in a free slot and returns its error. When no slot is
// available it returns ErrBulkheadFull, ErrBulkheadTimeout or ctx's error
// without calling fn.
func (b *Bulkhead) Execute(ctx context.Context, fn func() error) error {
	if err := b.acquire(ctx); err != nil {
		b.rejected.Add(1)
		if b.cfg.OnReject != nil {
			b.cfg.OnReject(b.cfg.Name)
		}
		return err
	}
	defer func() { <-b.slots }()
	return fn()
}

func (b *Bulkhead) acquire(ctx context.Context) error {
	select {
	case b.slots <- struct{}{}:
		return nil
	default:
	}
	if b.cfg.MaxWait <= 0 {
		return ErrBulkheadFull
	}

	wait := time.NewTimer(b.cfg.MaxWait)
	defer wait.Stop()
	select {
	case b.slots <- struct{}{}:
		return nil
	case <-wait.C:
		return ErrBulkheadTimeout
	case <-ctx.Done():
		return ctx.Err()
	}
}

// InUse returns the number of calls in flight.
func (b *Bulkhead) InUse() int { return len(b.slots) }

// Available returns the number of free slots.
func (b *Bulkhead) Available() int { return cap(b.slots) - len(b.slots) }

// Rejected returns how many calls have been turned away.
func (b *Bulkhead) Rejected() int64 { return b.rejected.Load() }
