package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/alexisbeaulieu97/journeyman/internal/config"
	"github.com/alexisbeaulieu97/journeyman/internal/domain/journey"
	"github.com/alexisbeaulieu97/journeyman/internal/events"
	"github.com/alexisbeaulieu97/journeyman/internal/loader"
	"github.com/alexisbeaulieu97/journeyman/internal/observability"
	"github.com/alexisbeaulieu97/journeyman/internal/ports"
	"github.com/alexisbeaulieu97/journeyman/internal/reporter"
	"github.com/alexisbeaulieu97/journeyman/internal/runner"
	"github.com/alexisbeaulieu97/journeyman/internal/vcs"
)

func newRunCmd(root *rootFlags) *cobra.Command {
	flags := &runFlags{}

	cmd := &cobra.Command{
		Use:   "run <suite.yaml>...",
		Short: "Run the journeys declared in one or more suite files",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateSuitePaths(args); err != nil {
				return err
			}
			return runSuites(cmd, root, flags, args)
		},
	}

	flags.register(cmd.Flags())

	return cmd
}

func runSuites(cmd *cobra.Command, root *rootFlags, flags *runFlags, paths []string) error {
	suite, err := config.ParseSuites(paths...)
	if err != nil {
		return err
	}

	resolved, err := resolveRun(suite, flags, cmd.Flags().Changed)
	if err != nil {
		return err
	}

	log, err := newLogger(root.verbose, cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	ctx = ports.ContextWithCorrelationID(ctx, ports.NewCorrelationID())

	var revision *vcs.Revision
	if rev, err := vcs.Lookup(filepath.Dir(paths[0])); err == nil {
		revision = &rev
		log.Debug(ctx, "suite revision", "revision", rev.String())
	} else {
		log.Debug(ctx, "suite revision unavailable", "error", err)
	}

	registry := journey.NewRegistry()
	registry.SetOrphanHandler(func(step journey.Step) {
		log.Warn(ctx, "step registered outside a journey was dropped", "step", step.Name)
	})
	if _, err := loader.New(loader.WithLogger(log)).Load(registry, suite); err != nil {
		return err
	}

	browsers, err := newBrowsers(log)
	if err != nil {
		return newCommandError("run", "preparing browser launchers", err, "")
	}

	out := cmd.OutOrStdout()
	interactive := isTerminal(out)
	reporterName := resolved.reporter
	if reporterName == "" {
		reporterName = reporter.Default
		if interactive {
			reporterName = reporter.TUI
		}
	}
	reporters := reporter.NewResolver(reporter.Options{
		Out:         out,
		Interactive: interactive,
		Title:       suite.Name,
		Revision:    revision,
		Logger:      log,
		Cancel:      cancel,
		Color:       interactive,
	})
	resolved.options.Reporter = reporterName

	bus := events.NewBus()
	ctx, finish, err := attachObservability(ctx, bus, &resolved, suite.Name, log)
	if err != nil {
		return err
	}

	r := runner.New(registry, bus, browsers, runner.WithLogger(log), runner.WithReporters(reporters))
	results, runErr := r.Run(ctx, resolved.options)

	if err := finish(runErr); err != nil {
		log.Warn(ctx, "failed to export observability data", "error", err)
	}
	if runErr != nil {
		return newCommandError("run", "executing journeys", runErr, "")
	}
	if results.Failed() {
		return errJourneysFailed
	}
	return nil
}

// attachObservability wires the metrics and trace exporters requested by
// flags. With tracing on, the run gets a suite.run span that continues any
// TRACEPARENT from the environment, and every page request carries the
// span's traceparent header. The returned func flushes the exporters.
func attachObservability(ctx context.Context, bus *events.Bus, resolved *resolvedRun, suiteName string, log ports.Logger) (context.Context, func(error) error, error) {
	if resolved.metricsFile == "" && resolved.traceFile == "" {
		return ctx, func(error) error { return nil }, nil
	}

	var collector *observability.Collector
	var metrics ports.MetricsCollector
	if resolved.metricsFile != "" {
		collector = observability.NewCollector(log)
		metrics = collector
	}

	var tracer *observability.Tracer
	var traceOut *os.File
	var tracing ports.Tracer
	var runSpan ports.Span
	if resolved.traceFile != "" {
		f, err := os.Create(resolved.traceFile)
		if err != nil {
			return ctx, nil, fmt.Errorf("create trace file: %w", err)
		}
		tracer, err = observability.NewTracer(f, version)
		if err != nil {
			f.Close()
			return ctx, nil, err
		}
		traceOut, tracing = f, tracer

		ctx = tracer.Extract(ctx, map[string]string{
			"traceparent": os.Getenv("TRACEPARENT"),
			"tracestate":  os.Getenv("TRACESTATE"),
		})
		ctx, runSpan = tracer.StartSpan(ctx, "suite.run", "suite.name", suiteName)
		resolved.options.Launch.ExtraHeaders = propagateTrace(ctx, tracer, resolved.options.Launch.ExtraHeaders)
	}

	sub := observability.NewObserver(metrics, tracing).Attach(bus)

	return ctx, func(runErr error) error {
		sub.Unsubscribe()
		if collector != nil {
			if err := collector.WriteTextfile(resolved.metricsFile); err != nil {
				return err
			}
		}
		if tracer != nil {
			defer traceOut.Close()
			runSpan.Finish(runErr)
			if err := tracer.Shutdown(context.WithoutCancel(ctx)); err != nil {
				return fmt.Errorf("flush traces: %w", err)
			}
		}
		return nil
	}, nil
}

// propagateTrace returns a copy of headers with the span context of ctx
// injected.
func propagateTrace(ctx context.Context, tracer ports.Tracer, headers map[string]string) map[string]string {
	out := make(map[string]string, len(headers)+2)
	for k, v := range headers {
		out[k] = v
	}
	tracer.Inject(ctx, out)
	return out
}
