package job

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/kbukum/beer-inventory/internal/beer"
	"github.com/kbukum/beer-inventory/logger"
	"github.com/kbukum/beer-inventory/observability"
	"github.com/kbukum/beer-inventory/pipeline"
)

// DefaultChunkSize is the number of records handed to the Writer at once.
const DefaultChunkSize = 1

// Runner executes the job once. Build a new Runner for every run.
type Runner struct {
	name      string
	reader    *Reader
	processor Processor
	writer    Writer
	chunkSize int
	ids       *RunIDIncrementer
	listeners []Listener
	now       func() time.Time
}

// Run pulls every record through the Processor and the Writer and returns
// the finished Execution. The error is the Execution's Err: the first stage
// failure, or ctx's error if ctx ends mid-run.
func (r *Runner) Run(ctx context.Context) (*Execution, error) {
	exec := &Execution{
		RunID:       r.ids.Next(),
		ExecutionID: uuid.New(),
		JobName:     r.name,
		StartTime:   r.now(),
		Status:      StatusStarted,
	}

	ctx, span := observability.StartSpan(ctx, observability.SpanJobRun)
	defer span.End()
	observability.SetSpanAttribute(ctx, observability.AttrJobName, exec.JobName)
	observability.SetSpanAttribute(ctx, observability.AttrRunID, exec.RunID)
	observability.SetSpanAttribute(ctx, observability.AttrExecutionID, exec.ExecutionID.String())

	for _, l := range r.listeners {
		l.BeforeRun(ctx, exec)
	}

	err := r.step(ctx, exec)

	exec.EndTime = r.now()
	if err != nil {
		exec.Status = StatusFailed
		exec.Err = err
		observability.SetSpanError(ctx, err)
	} else {
		exec.Status = StatusCompleted
	}
	observability.SetSpanAttribute(ctx, observability.AttrReadCount, exec.ReadCount)
	observability.SetSpanAttribute(ctx, observability.AttrWriteCount, exec.WriteCount)

	for _, l := range r.listeners {
		l.AfterRun(ctx, exec)
	}
	return exec, err
}

// step wires reader → processor → chunk → writer. Records keep source order
// and each chunk is written before the next record is read.
func (r *Runner) step(ctx context.Context, exec *Execution) error {
	read := pipeline.Tap(pipeline.From[beer.Beer](r.reader), func(context.Context, beer.Beer) error {
		exec.ReadCount++
		return nil
	})

	processed := pipeline.Map(read, func(ctx context.Context, b beer.Beer) (beer.Beer, error) {
		out, err := r.processor.Process(ctx, b)
		if err != nil {
			return beer.Beer{}, processingError(b, err)
		}
		return out, nil
	})

	chunks := pipeline.Batch(processed, r.chunkSize, 0)

	return pipeline.Drain(chunks, func(ctx context.Context, chunk []beer.Beer) error {
		if err := r.writer.Write(ctx, chunk); err != nil {
			return sinkError(chunk, err)
		}
		exec.WriteCount += int64(len(chunk))
		return nil
	}).Run(ctx)
}

// Factory builds a fresh Runner per launch. Listeners and the run id
// sequence are shared across launches; Readers, Processors and Writers are
// built anew for each one.
type Factory struct {
	name         string
	source       Fetcher
	newProcessor func() Processor
	newWriter    func() Writer
	chunkSize int
	ids       *RunIDIncrementer
	listeners []Listener
	log       *logger.Logger
	now       func() time.Time
}

// FactoryOption configures a Factory.
type FactoryOption func(*Factory)

// WithChunkSize sets how many records are written together. Values below 1
// fall back to DefaultChunkSize.
func WithChunkSize(n int) FactoryOption {
	return func(f *Factory) {
		if n > 0 {
			f.chunkSize = n
		}
	}
}

// WithProcessor replaces the pass-through processor with p. Every run
// shares p; use WithProcessorFunc for a processor per run.
func WithProcessor(p Processor) FactoryOption {
	return WithProcessorFunc(func() Processor { return p })
}

// WithProcessorFunc builds the processor of each run with newFn.
func WithProcessorFunc(newFn func() Processor) FactoryOption {
	return func(f *Factory) { f.newProcessor = newFn }
}

// WithWriter replaces the inventory writer with w. Every run shares w; use
// WithWriterFunc for a writer per run.
func WithWriter(w Writer) FactoryOption {
	return WithWriterFunc(func() Writer { return w })
}

// WithWriterFunc builds the writer of each run with newFn.
func WithWriterFunc(newFn func() Writer) FactoryOption {
	return func(f *Factory) { f.newWriter = newFn }
}

// WithListeners appends run listeners.
func WithListeners(ls ...Listener) FactoryOption {
	return func(f *Factory) { f.listeners = append(f.listeners, ls...) }
}

// WithRunIDs shares an existing run id sequence.
func WithRunIDs(ids *RunIDIncrementer) FactoryOption {
	return func(f *Factory) { f.ids = ids }
}

// WithLogger sets the logger used by the default processor and writer.
func WithLogger(l *logger.Logger) FactoryOption {
	return func(f *Factory) { f.log = l }
}

// WithClock overrides time.Now for execution timestamps.
func WithClock(now func() time.Time) FactoryOption {
	return func(f *Factory) { f.now = now }
}

// NewFactory creates a Factory for the named job reading from source.
func NewFactory(name string, source Fetcher, opts ...FactoryOption) *Factory {
	f := &Factory{
		name:      name,
		source:    source,
		chunkSize: DefaultChunkSize,
		ids:       NewRunIDIncrementer(0),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(f)
	}
	if f.log == nil {
		f.log = logger.WithComponent("job")
	}
	if f.newProcessor == nil {
		f.newProcessor = func() Processor { return NewPassThroughProcessor(f.log) }
	}
	if f.newWriter == nil {
		f.newWriter = func() Writer { return NewInventoryWriter(f.log) }
	}
	return f
}

// JobName returns the name stamped on every Execution.
func (f *Factory) JobName() string { return f.name }

// ChunkSize returns the configured chunk size.
func (f *Factory) ChunkSize() int { return f.chunkSize }

// NewRunner builds an isolated Runner with its own Reader, Processor and
// Writer.
func (f *Factory) NewRunner() *Runner {
	return &Runner{
		name:      f.name,
		reader:    NewReader(f.source),
		processor: f.newProcessor(),
		writer:    f.newWriter(),
		chunkSize: f.chunkSize,
		ids:       f.ids,
		listeners: f.listeners,
		now:       f.now,
	}
}

// Launch builds a Runner and runs it.
func (f *Factory) Launch(ctx context.Context) (*Execution, error) {
	return f.NewRunner().Run(ctx)
}
