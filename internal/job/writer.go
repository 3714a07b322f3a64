package job

import (
	"context"

	"github.com/kbukum/beer-inventory/internal/beer"
	"github.com/kbukum/beer-inventory/logger"
)

// Writer receives chunks of processed records in source order.
type Writer interface {
	Write(ctx context.Context, chunk []beer.Beer) error
}

// WriterFunc adapts a function to Writer.
type WriterFunc func(ctx context.Context, chunk []beer.Beer) error

// Write implements Writer.
func (f WriterFunc) Write(ctx context.Context, chunk []beer.Beer) error {
	return f(ctx, chunk)
}

// InventoryWriter adds records to the inventory. The inventory is the log:
// one line per record.
type InventoryWriter struct {
	log *logger.Logger
}

// NewInventoryWriter creates an InventoryWriter.
func NewInventoryWriter(log *logger.Logger) *InventoryWriter {
	return &InventoryWriter{log: log}
}

// Write implements Writer. It never fails.
func (w *InventoryWriter) Write(ctx context.Context, chunk []beer.Beer) error {
	l := w.log.WithContext(ctx)
	for _, b := range chunk {
		l.Info("Adding beer to inventory: "+b.Name, beerFields(b))
	}
	return nil
}
