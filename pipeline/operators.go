package pipeline

import (
	"context"
	"time"
)

// Map replaces each value with fn's result. An error from fn ends the
// pipeline with that error.
func Map[I, O any](p *Pipeline[I], fn func(context.Context, I) (O, error)) *Pipeline[O] {
	return FromFunc(func(ctx context.Context) Iterator[O] {
		src := p.open(ctx)
		return &stage[O]{upstream: src, pull: func(ctx context.Context) (O, bool, error) {
			var zero O
			v, ok, err := src.Next(ctx)
			if err != nil || !ok {
				return zero, false, err
			}
			out, err := fn(ctx, v)
			if err != nil {
				return zero, false, err
			}
			return out, true, nil
		}}
	})
}

// Tap calls fn for each value and passes the value on unchanged.
func Tap[T any](p *Pipeline[T], fn func(context.Context, T) error) *Pipeline[T] {
	return Map(p, func(ctx context.Context, v T) (T, error) {
		if err := fn(ctx, v); err != nil {
			var zero T
			return zero, err
		}
		return v, nil
	})
}

// Batch groups values into slices of up to size values, or whatever
// arrived before timeout elapsed, whichever is first. size 0 batches by
// time only and timeout 0 by size only; with both 0 every value is its own
// batch.
//
// The timeout is checked after each pull, so a blocked source delays the
// batch. When the source fails mid-batch the partial batch is emitted and
// the error is returned by the following call.
func Batch[T any](p *Pipeline[T], size int, timeout time.Duration) *Pipeline[[]T] {
	if size <= 0 && timeout <= 0 {
		size = 1
	}
	return FromFunc(func(ctx context.Context) Iterator[[]T] {
		src := p.open(ctx)
		var done bool
		var pending error

		return &stage[[]T]{upstream: src, pull: func(ctx context.Context) ([]T, bool, error) {
			if pending != nil {
				err := pending
				pending, done = nil, true
				return nil, false, err
			}
			if done {
				return nil, false, nil
			}

			var deadline time.Time
			if timeout > 0 {
				deadline = time.Now().Add(timeout)
			}
			var batch []T
			for size <= 0 || len(batch) < size {
				v, ok, err := src.Next(ctx)
				switch {
				case err != nil && len(batch) > 0:
					pending = err
					return batch, true, nil
				case err != nil:
					done = true
					return nil, false, err
				case !ok:
					done = true
					return batch, len(batch) > 0, nil
				}
				batch = append(batch, v)
				if !deadline.IsZero() && !time.Now().Before(deadline) {
					break
				}
			}
			return batch, true, nil
		}}
	})
}
