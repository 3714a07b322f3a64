package pipeline

import "context"

// Iterator yields values one at a time. Next returns (zero, false, nil) once
// the sequence is exhausted.
type Iterator[T any] interface {
	Next(ctx context.Context) (T, bool, error)
	Close() error
}

// Pipeline is a lazy chain of stages. Nothing is pulled until a terminal
// (Collect or a Drain runnable) runs it.
type Pipeline[T any] struct {
	open func(ctx context.Context) Iterator[T]
}

// From wraps an existing iterator. Running the pipeline twice continues
// where the first run stopped.
func From[T any](iter Iterator[T]) *Pipeline[T] {
	return FromFunc(func(context.Context) Iterator[T] { return iter })
}

// FromSlice yields the items of a slice in order, afresh on every run.
func FromSlice[T any](items []T) *Pipeline[T] {
	return FromFunc(func(context.Context) Iterator[T] { return &slice[T]{items: items} })
}

// FromFunc calls open for a new iterator on every run.
func FromFunc[T any](open func(ctx context.Context) Iterator[T]) *Pipeline[T] {
	return &Pipeline[T]{open: open}
}

// Runnable is a pipeline bound to its sink.
type Runnable struct {
	run func(ctx context.Context) error
}

// Run pulls until the source is exhausted, a stage or the sink fails, or
// ctx is done.
func (r *Runnable) Run(ctx context.Context) error { return r.run(ctx) }

// Drain sends every value of p to sink. ctx is checked before each pull.
func Drain[T any](p *Pipeline[T], sink func(context.Context, T) error) *Runnable {
	return &Runnable{run: func(ctx context.Context) error {
		iter := p.open(ctx)
		defer iter.Close()
		for ctx.Err() == nil {
			v, ok, err := iter.Next(ctx)
			if err != nil || !ok {
				return err
			}
			if err := sink(ctx, v); err != nil {
				return err
			}
		}
		return ctx.Err()
	}}
}

// Collect runs p and returns its values. On error the values pulled so far
// are returned with it.
func Collect[T any](ctx context.Context, p *Pipeline[T]) ([]T, error) {
	var out []T
	err := Drain(p, func(_ context.Context, v T) error {
		out = append(out, v)
		return nil
	}).Run(ctx)
	return out, err
}

// stage is an Iterator made from a pull function and the upstream it
// closes.
type stage[T any] struct {
	pull     func(ctx context.Context) (T, bool, error)
	upstream interface{ Close() error }
}

func (s *stage[T]) Next(ctx context.Context) (T, bool, error) { return s.pull(ctx) }

func (s *stage[T]) Close() error { return s.upstream.Close() }

type slice[T any] struct {
	items []T
	pos   int
}

func (s *slice[T]) Next(context.Context) (T, bool, error) {
	var zero T
	if s.pos >= len(s.items) {
		return zero, false, nil
	}
	s.pos++
	return s.items[s.pos-1], true, nil
}

func (s *slice[T]) Close() error { return nil }
