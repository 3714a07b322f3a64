package job

import (
	"context"

	"github.com/kbukum/beer-inventory/internal/beer"
	"github.com/kbukum/beer-inventory/logger"
)

// Processor transforms one record between reading and writing.
type Processor interface {
	Process(ctx context.Context, b beer.Beer) (beer.Beer, error)
}

// ProcessorFunc adapts a function to Processor.
type ProcessorFunc func(ctx context.Context, b beer.Beer) (beer.Beer, error)

// Process implements Processor.
func (f ProcessorFunc) Process(ctx context.Context, b beer.Beer) (beer.Beer, error) {
	return f(ctx, b)
}

// PassThroughProcessor logs each record and returns it unchanged.
type PassThroughProcessor struct {
	log *logger.Logger
}

// NewPassThroughProcessor creates a PassThroughProcessor.
func NewPassThroughProcessor(log *logger.Logger) *PassThroughProcessor {
	return &PassThroughProcessor{log: log}
}

// Process implements Processor. It never fails.
func (p *PassThroughProcessor) Process(ctx context.Context, b beer.Beer) (beer.Beer, error) {
	p.log.WithContext(ctx).Info("Processing beer information: "+b.Name, beerFields(b))
	return b, nil
}

func beerFields(b beer.Beer) map[string]interface{} {
	return logger.Fields("beer_id", b.ID, "beer", b.Name)
}
