// Package runner executes registered journeys against browser sessions and
// narrates the run on the event bus.
package runner

import (
	"context"
	"encoding/base64"
	"fmt"

	"golang.org/x/time/rate"

	"github.com/alexisbeaulieu97/journeyman/internal/domain/journey"
	"github.com/alexisbeaulieu97/journeyman/internal/events"
	"github.com/alexisbeaulieu97/journeyman/internal/logger"
	"github.com/alexisbeaulieu97/journeyman/internal/ports"
	"github.com/alexisbeaulieu97/journeyman/internal/results"
	journeyerrors "github.com/alexisbeaulieu97/journeyman/pkg/errors"
)

// Runner drains a journey registry sequentially, one browser session per
// journey. A Runner is reusable: every Run resets the registry it consumed.
type Runner struct {
	registry  *journey.Registry
	bus       *events.Bus
	browsers  LauncherResolver
	reporters ReporterResolver
	logger    ports.Logger
	clock     Clock
}

// New constructs a Runner over the given registry, bus, and browser launchers.
func New(registry *journey.Registry, bus *events.Bus, browsers LauncherResolver, opts ...Option) *Runner {
	r := &Runner{
		registry: registry,
		bus:      bus,
		browsers: browsers,
		logger:   logger.NewNoOp(),
		clock:    RealClock{},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Registry returns the registry journeys are registered into.
func (r *Runner) Registry() *journey.Registry {
	return r.registry
}

// Bus returns the event bus reporters subscribe to.
func (r *Runner) Bus() *events.Bus {
	return r.bus
}

// Run executes every registered journey in registration order and returns the
// aggregated results. Journey and step failures are reported in the results,
// not as an error; Run only returns an error when a subscriber fails, the
// requested reporter cannot be resolved, or ctx is cancelled mid-run.
func (r *Runner) Run(ctx context.Context, opts Options) (journey.Results, error) {
	defer r.registry.Reset()

	agg := results.NewAggregator()
	aggSub := agg.Attach(r.bus)
	defer aggSub.Unsubscribe()

	if opts.Reporter != "" && r.reporters != nil {
		subscriber, err := r.reporters.Resolve(opts.Reporter)
		if err != nil {
			return agg.Results(), fmt.Errorf("resolve reporter %q: %w", opts.Reporter, err)
		}
		sub := subscriber.Attach(r.bus)
		defer sub.Unsubscribe()
	}

	journeys := r.selectJourneys(opts)
	params := journey.NewParams(opts.Params)
	limiter := opts.limiter()

	r.logger.Info(ctx, "run started", "journeys", len(journeys), "browser", opts.browserType())
	if err := r.bus.Emit(ctx, events.Start{NumJourneys: len(journeys)}); err != nil {
		return agg.Results(), err
	}

	var runErr error
	for _, j := range journeys {
		if err := ctx.Err(); err != nil {
			r.logger.Warn(ctx, "run cancelled, skipping remaining journeys", "error", err)
			runErr = err
			break
		}
		if err := r.runJourney(ctx, j, params, opts, limiter); err != nil {
			return agg.Results(), err
		}
	}
	if runErr == nil {
		runErr = ctx.Err()
	}

	if err := r.bus.Emit(ctx, events.End{}); err != nil {
		return agg.Results(), err
	}

	res := agg.Results()
	succeeded, failed := res.Summary()
	r.logger.Info(ctx, "run finished", "succeeded", succeeded, "failed", failed)
	return res, runErr
}

func (r *Runner) selectJourneys(opts Options) []*journey.Journey {
	all := r.registry.Journeys()
	if opts.Match == nil {
		return all
	}
	selected := make([]*journey.Journey, 0, len(all))
	for _, j := range all {
		if opts.Match.MatchString(j.Name) {
			selected = append(selected, j)
		}
	}
	return selected
}

// runJourney contains every failure of one journey. The returned error is
// non-nil only when event delivery failed.
func (r *Runner) runJourney(ctx context.Context, j *journey.Journey, params journey.Params, opts Options, limiter *rate.Limiter) error {
	info := events.JourneyInfo{Name: j.Name}
	log := r.logger.With(ports.FieldJourney, j.Name)

	session, sessionErr := r.acquire(ctx, j.Name, opts)
	if sessionErr == nil {
		defer r.closeBrowser(ctx, j.Name, session)
	} else {
		log.Error(ctx, "browser session unavailable", "error", sessionErr)
	}

	start := r.clock.Now()
	r.registry.SetCurrent(j)
	defer r.registry.SetCurrent(nil)

	if err := r.bus.Emit(ctx, events.JourneyStart{Journey: info, Params: params}); err != nil {
		return err
	}

	journeyErr := sessionErr
	if journeyErr == nil {
		var emitErr error
		journeyErr, emitErr = r.runSteps(ctx, j, session, params, opts, limiter)
		if emitErr != nil {
			return emitErr
		}
	}

	elapsed := r.clock.Since(start)
	if journeyErr != nil {
		log.Info(ctx, "journey failed", "elapsed", elapsed, "error", journeyErr)
	} else {
		log.Info(ctx, "journey succeeded", "elapsed", elapsed)
	}

	return r.bus.Emit(ctx, events.JourneyEnd{
		Journey: info,
		Params:  params,
		Elapsed: elapsed,
		Err:     journeyErr,
	})
}

// runSteps runs the setup callback and then each step until the first
// failure. It returns that failure and, separately, any event delivery error.
func (r *Runner) runSteps(ctx context.Context, j *journey.Journey, session journey.Session, params journey.Params, opts Options, limiter *rate.Limiter) (failure error, emitErr error) {
	if j.Setup != nil {
		setup := journey.NewSetupContext(session, params, r.registry)
		if err := protect(func() error { return j.Setup(ctx, setup) }); err != nil {
			return journeyerrors.NewSetupError(j.Name, err), nil
		}
	}

	info := events.JourneyInfo{Name: j.Name}
	sc := journey.StepContext{Session: session, Params: params}

	for i, step := range j.Steps() {
		stepInfo := events.StepInfo{Name: step.Name, Index: i + 1}

		if err := r.bus.Emit(ctx, events.StepStart{Journey: info, Step: stepInfo}); err != nil {
			return nil, err
		}

		start := r.clock.Now()
		var screenshot string
		var stepErr error
		if limiter != nil {
			if err := limiter.Wait(ctx); err != nil {
				stepErr = fmt.Errorf("wait for step rate: %w", err)
			}
		}
		if stepErr == nil {
			screenshot, stepErr = r.runStep(ctx, step, sc, opts)
		}
		elapsed := r.clock.Since(start)
		if stepErr != nil {
			stepErr = journeyerrors.NewStepError(j.Name, step.Name, stepInfo.Index, stepErr)
		}
		r.logger.Debug(ctx, "step finished", ports.FieldJourney, j.Name, ports.FieldStep, step.Name, ports.FieldStepIndex, stepInfo.Index, "elapsed", elapsed, "error", stepErr)

		if err := r.bus.Emit(ctx, events.StepEnd{
			Journey:    info,
			Step:       stepInfo,
			Elapsed:    elapsed,
			Err:        stepErr,
			Screenshot: screenshot,
		}); err != nil {
			return nil, err
		}

		if stepErr != nil {
			return stepErr, nil
		}
	}
	return nil, nil
}

// runStep invokes the action, waits for the page to settle, and captures a
// screenshot. A failure in any of the three fails the step.
func (r *Runner) runStep(ctx context.Context, step journey.Step, sc journey.StepContext, opts Options) (string, error) {
	if opts.StepTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.StepTimeout)
		defer cancel()
	}

	if err := step.Validate(); err != nil {
		return "", err
	}
	if err := protect(func() error { return step.Action(ctx, sc) }); err != nil {
		return "", err
	}

	if err := sc.Page.WaitForLoadState(ctx, opts.loadState()); err != nil {
		return "", fmt.Errorf("wait for load state %q: %w", opts.loadState(), err)
	}

	if opts.DisableScreenshots {
		return "", nil
	}
	shot, err := sc.Page.Screenshot(ctx)
	if err != nil {
		return "", fmt.Errorf("capture screenshot: %w", err)
	}
	return base64.StdEncoding.EncodeToString(shot), nil
}

// protect converts a panic in user code into an error.
func protect(fn func() error) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("panic: %v", rec)
		}
	}()
	return fn()
}
