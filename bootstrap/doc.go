// Package bootstrap orchestrates the application lifecycle.
//
// It validates the typed configuration, initializes the logger, runs
// configure callbacks, starts registered components in order, and shuts
// them down in reverse on SIGINT/SIGTERM.
//
// # Quick Start
//
//	app, err := bootstrap.NewApp(&cfg)
//	app.OnConfigure(func(ctx context.Context, a *bootstrap.App[*AppConfig]) error {
//	    return a.RegisterComponent(scheduler)
//	})
//	if err := app.Run(ctx); err != nil {
//	    log.Fatal(err)
//	}
//
// RunTask runs a finite workflow (such as a single job execution) with the
// same configuration, logging and shutdown handling.
package bootstrap
