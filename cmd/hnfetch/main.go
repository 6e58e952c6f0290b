// Command hnfetch prints a Hacker News story list through the resilient
// fetch layer and can serve health and metrics endpoints while running.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	promclient "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/jonwraymond/hnfetch/config"
	"github.com/jonwraymond/hnfetch/health"
	"github.com/jonwraymond/hnfetch/hn"
	"github.com/jonwraymond/hnfetch/observe"
)

const serviceName = "hnfetch"

var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(2)
		}
		fmt.Fprintln(os.Stderr, "hnfetch:", err)
		os.Exit(1)
	}
}

type options struct {
	configFile string
	envFile    string
	list       string
	limit      int
	comments   int
	story      int
	serve      bool
	version    bool
}

func parseFlags(args []string, stderr io.Writer) (options, error) {
	var o options
	fs := flag.NewFlagSet(serviceName, flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&o.configFile, "config", "", "config file (default: ./hnfetch.{toml,yaml,json} if present)")
	fs.StringVar(&o.envFile, "env-file", "", "dotenv file to load (default: ./.env if present)")
	fs.StringVar(&o.list, "list", "top", "story list: best, top, new, ask, show, job")
	fs.IntVar(&o.limit, "limit", 10, "number of stories to print")
	fs.IntVar(&o.story, "story", 0, "print one story and its comment thread instead of a list")
	fs.IntVar(&o.comments, "depth", 2, "comment thread depth with -story")
	fs.BoolVar(&o.serve, "serve", false, "keep running and serve the admin endpoints until interrupted")
	fs.BoolVar(&o.version, "version", false, "print version and exit")
	if err := fs.Parse(args); err != nil {
		return o, err
	}
	if o.limit < 0 {
		return o, fmt.Errorf("-limit must not be negative, got %d", o.limit)
	}
	return o, nil
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	opts, err := parseFlags(args, stderr)
	if err != nil {
		return err
	}
	if opts.version {
		fmt.Fprintf(stdout, "%s %s\n", serviceName, version)
		return nil
	}

	list, err := hn.ParseListType(opts.list)
	if err != nil {
		return err
	}

	var loaderOpts []config.LoaderOption
	if opts.configFile != "" {
		loaderOpts = append(loaderOpts, config.WithFile(opts.configFile))
	}
	if opts.envFile != "" {
		loaderOpts = append(loaderOpts, config.WithEnvFiles(opts.envFile))
	}
	loader := config.NewLoader(loaderOpts...)
	cfg, err := loader.Load()
	if err != nil {
		return err
	}

	registry := promclient.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	obsConfig := cfg.ObserveConfig(serviceName, version)
	obsConfig.Metrics.Registerer = registry
	obsConfig.Logging.Writer = stderr
	obs, err := observe.NewObserver(ctx, obsConfig)
	if err != nil {
		return fmt.Errorf("init telemetry: %w", err)
	}
	defer func() {
		if err := obs.Shutdown(context.WithoutCancel(ctx)); err != nil {
			fmt.Fprintln(stderr, "hnfetch: telemetry shutdown:", err)
		}
	}()
	logger := obs.Logger()

	svc := hn.NewService(append(cfg.ServiceOptions(), hn.WithObserver(obs))...)

	if cfg.Cache.CleanupInterval > 0 {
		svc.StartJanitor(ctx, cfg.Cache.CleanupInterval)
	}

	agg := health.NewAggregator()
	svc.RegisterHealthChecks(agg)

	if opts.story > 0 {
		err = printThread(ctx, stdout, svc, opts.story, opts.comments)
	} else {
		err = printList(ctx, stdout, svc, list, opts.limit)
	}
	if err != nil {
		return err
	}

	if !opts.serve {
		return nil
	}

	if loader.Watch(func(next config.Config, err error) {
		if err != nil {
			logger.Error(ctx, "configuration reload failed", observe.F("error", err))
			return
		}
		logger.Info(ctx, "configuration reloaded; network settings apply on restart",
			observe.F("file", loader.ConfigFile()),
			observe.F("log.level", next.Log.Level),
		)
	}) {
		logger.Debug(ctx, "watching configuration", observe.F("file", loader.ConfigFile()))
	}

	if cfg.Admin.Addr == "" {
		logger.Info(ctx, "serving until interrupted without admin endpoints")
		<-ctx.Done()
		return nil
	}
	return serveAdmin(ctx, cfg.Admin.Addr, newAdminHandler(agg, registry, stderr), logger)
}
