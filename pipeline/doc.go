// Package pipeline provides composable, pull-based data pipeline operators.
//
// Pipelines are lazy: no work happens until values are pulled via Collect
// or a Drain runnable. Each stage pulls from the previous stage on demand,
// so a slow sink naturally slows the source and values flow strictly in
// source order on a single goroutine.
//
// # Operators
//
//   - Map: transform each value
//   - Tap: side-effect without altering the value (logging, counters)
//   - Batch: group values into fixed-size chunks
//
// # Usage
//
//	src := pipeline.From[beer.Beer](reader)
//	processed := pipeline.Map(src, processor.Process)
//	chunks := pipeline.Batch(processed, 1, 0)
//	err := pipeline.Drain(chunks, writer.Write).Run(ctx)
package pipeline
