// Command beer-inventory keeps the beer inventory in sync with the remote
// catalog by running the update job on a fixed schedule.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/pflag"

	"github.com/kbukum/beer-inventory/bootstrap"
	"github.com/kbukum/beer-inventory/config"
	"github.com/kbukum/beer-inventory/internal/appconfig"
	"github.com/kbukum/beer-inventory/version"
)

type options struct {
	configFile  string
	envFile     string
	once        bool
	showVersion bool
}

func main() {
	if err := run(context.Background(), os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "beer-inventory: %v\n", err)
		os.Exit(1)
	}
}

func parseFlags(args []string, stderr io.Writer) (options, error) {
	var opts options
	fs := pflag.NewFlagSet(appconfig.ServiceName, pflag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVarP(&opts.configFile, "config", "c", "", "path to config.yml (searched in standard locations when empty)")
	fs.StringVar(&opts.envFile, "env-file", "", "path to a .env file (searched in standard locations when empty)")
	fs.BoolVar(&opts.once, "once", false, "run the job a single time and exit with its result")
	fs.BoolVarP(&opts.showVersion, "version", "v", false, "print version information and exit")
	if err := fs.Parse(args); err != nil {
		return opts, err
	}
	return opts, nil
}

func (o options) loaderOptions() []config.LoaderOption {
	var lo []config.LoaderOption
	if o.configFile != "" {
		lo = append(lo, config.WithConfigFile(o.configFile))
	}
	if o.envFile != "" {
		lo = append(lo, config.WithEnvFile(o.envFile))
	}
	return lo
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	opts, err := parseFlags(args, stderr)
	if errors.Is(err, pflag.ErrHelp) {
		return nil
	}
	if err != nil {
		return err
	}

	if opts.showVersion {
		fmt.Fprintln(stdout, version.Banner(appconfig.ServiceName))
		return nil
	}

	cfg, err := appconfig.Load(opts.loaderOptions()...)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if cfg.Version == "" {
		cfg.Version = version.GetShortVersion()
	}

	app, err := bootstrap.NewApp(cfg, bootstrap.WithSummaryOutput(stdout))
	if err != nil {
		return err
	}
	app.Logger.Info("Build information", version.GetVersionInfo().Fields())

	svc := &service{once: opts.once}
	app.OnConfigure(svc.configure)

	if opts.once {
		return app.RunTask(ctx, svc.runOnce)
	}
	return app.Run(ctx)
}
