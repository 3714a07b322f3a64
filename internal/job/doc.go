// Package job runs the beer inventory update as a chunked
// read → process → write step.
//
// A Runner pulls records from a Reader, passes each through a Processor
// and hands chunks of processed records to a Writer. The Reader fetches
// the catalog lazily, exactly once, on the first pull. Any stage error
// ends the run with status FAILED; records already written stay written.
//
// Runners are single use. A Factory builds a fresh Runner, and therefore a
// fresh Reader, for every launch and shares a RunIDIncrementer and the
// configured Listeners across launches:
//
//	f := job.NewFactory("updateBeerInventory", catalogClient,
//	    job.WithChunkSize(1),
//	    job.WithListeners(job.NewLoggingListener(log)),
//	)
//	exec, err := f.Launch(ctx)
package job
