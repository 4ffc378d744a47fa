package runner

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"regexp"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/alexisbeaulieu97/journeyman/internal/browser"
	"github.com/alexisbeaulieu97/journeyman/internal/browser/browsertest"
	"github.com/alexisbeaulieu97/journeyman/internal/domain/journey"
	"github.com/alexisbeaulieu97/journeyman/internal/events"
	"github.com/alexisbeaulieu97/journeyman/internal/ports"
	journeyerrors "github.com/alexisbeaulieu97/journeyman/pkg/errors"
)

type harness struct {
	runner   *Runner
	registry *journey.Registry
	bus      *events.Bus
	launcher *browsertest.Launcher
	recorder *events.Recorder
	clock    *FakeClock
}

func newHarness(t *testing.T, opts ...Option) *harness {
	t.Helper()

	launcher := browsertest.NewLauncher()
	browsers := browser.NewRegistry()
	require.NoError(t, browsers.Register(DefaultBrowserType, launcher))

	clock := NewFakeClock(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	registry := journey.NewRegistry()
	bus := events.NewBus()
	recorder := &events.Recorder{}
	recorder.Attach(bus)

	opts = append([]Option{WithClock(clock)}, opts...)
	return &harness{
		runner:   New(registry, bus, browsers, opts...),
		registry: registry,
		bus:      bus,
		launcher: launcher,
		recorder: recorder,
		clock:    clock,
	}
}

func ok(context.Context, journey.StepContext) error { return nil }

func fail(msg string) journey.StepFunc {
	return func(context.Context, journey.StepContext) error { return errors.New(msg) }
}

// staticJourney registers a journey whose setup callback registers the
// given steps at run time.
func staticJourney(reg *journey.Registry, name string, steps ...journey.Step) {
	reg.Journey(name, func(_ context.Context, sc journey.SetupContext) error {
		for _, step := range steps {
			sc.Step(step.Name, step.Action)
		}
		return nil
	})
}

func TestRunEmitsBracketedEventsInOrder(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	staticJourney(h.registry, "home", journey.Step{Name: "open", Action: ok}, journey.Step{Name: "scroll", Action: ok})
	staticJourney(h.registry, "search", journey.Step{Name: "type", Action: ok}, journey.Step{Name: "submit", Action: ok})

	_, err := h.runner.Run(context.Background(), Options{})
	require.NoError(t, err)

	require.Equal(t, []events.Kind{
		events.KindStart,
		events.KindJourneyStart, events.KindStepStart, events.KindStepEnd, events.KindStepStart, events.KindStepEnd, events.KindJourneyEnd,
		events.KindJourneyStart, events.KindStepStart, events.KindStepEnd, events.KindStepStart, events.KindStepEnd, events.KindJourneyEnd,
		events.KindEnd,
	}, h.recorder.Kinds())

	recorded := h.recorder.Events()
	require.Equal(t, events.Start{NumJourneys: 2}, recorded[0])
	require.Equal(t, "home", recorded[1].(events.JourneyStart).Journey.Name)
	require.Equal(t, events.StepInfo{Name: "scroll", Index: 2}, recorded[4].(events.StepStart).Step)
	require.Equal(t, "search", recorded[7].(events.JourneyStart).Journey.Name)
}

func TestRunTwoSucceedingJourneys(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	staticJourney(h.registry, "home", journey.Step{Name: "open", Action: ok}, journey.Step{Name: "scroll", Action: ok})
	staticJourney(h.registry, "search", journey.Step{Name: "type", Action: ok}, journey.Step{Name: "submit", Action: ok})

	res, err := h.runner.Run(context.Background(), Options{})
	require.NoError(t, err)
	require.Len(t, res, 2)
	require.False(t, res.Failed())

	for _, name := range []string{"home", "search"} {
		got := res[name]
		require.Equal(t, journey.StatusSucceeded, got.Status)
		require.NoError(t, got.Err)
		require.Len(t, got.Steps, 2)
		for i, step := range got.Steps {
			require.Equal(t, i+1, step.Index)
			require.Equal(t, journey.StatusSucceeded, step.Status)
			decoded, decodeErr := base64.StdEncoding.DecodeString(step.Screenshot)
			require.NoError(t, decodeErr)
			require.Equal(t, fmt.Sprintf("screenshot-%d", i+1), string(decoded))
		}
	}

	require.Equal(t, 2, h.launcher.Launches())
	require.Zero(t, h.launcher.OpenBrowsers())
}

func TestRunFailFastWithinJourney(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	thirdRan := false
	staticJourney(h.registry, "checkout",
		journey.Step{Name: "open", Action: ok},
		journey.Step{Name: "pay", Action: fail("card declined")},
		journey.Step{Name: "confirm", Action: func(context.Context, journey.StepContext) error {
			thirdRan = true
			return nil
		}},
	)

	res, err := h.runner.Run(context.Background(), Options{})
	require.NoError(t, err)
	require.False(t, thirdRan)

	got := res["checkout"]
	require.Equal(t, journey.StatusFailed, got.Status)
	require.ErrorContains(t, got.Err, "card declined")
	var stepErr *journeyerrors.StepError
	require.ErrorAs(t, got.Err, &stepErr)
	require.Equal(t, "pay", stepErr.Step)
	require.Equal(t, 2, stepErr.Index)
	require.Len(t, got.Steps, 2)
	require.Empty(t, got.Steps[1].Screenshot)

	for _, event := range h.recorder.Events() {
		if start, isStart := event.(events.StepStart); isStart {
			require.NotEqual(t, "confirm", start.Step.Name)
		}
	}
	require.Equal(t, 1, h.launcher.Launches())
	require.True(t, h.launcher.Browsers()[0].Closed())
}

func TestRunEmitsExactlyKPairsWhenStepKFails(t *testing.T) {
	t.Parallel()

	const total = 4
	for k := 1; k <= total; k++ {
		k := k
		t.Run(fmt.Sprintf("fail_at_%d", k), func(t *testing.T) {
			t.Parallel()

			h := newHarness(t)
			steps := make([]journey.Step, total)
			for i := range steps {
				steps[i] = journey.Step{Name: fmt.Sprintf("step-%d", i+1), Action: ok}
			}
			steps[k-1].Action = fail("boom")
			staticJourney(h.registry, "j", steps...)

			_, err := h.runner.Run(context.Background(), Options{})
			require.NoError(t, err)

			starts, ends := 0, 0
			for _, kind := range h.recorder.Kinds() {
				switch kind {
				case events.KindStepStart:
					starts++
				case events.KindStepEnd:
					ends++
				}
			}
			require.Equal(t, k, starts)
			require.Equal(t, k, ends)
		})
	}
}

func TestRunJourneyFailureDoesNotAbortSiblings(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	staticJourney(h.registry, "broken", journey.Step{Name: "explode", Action: func(context.Context, journey.StepContext) error {
		panic("nil map write")
	}})
	staticJourney(h.registry, "healthy", journey.Step{Name: "open", Action: ok})

	res, err := h.runner.Run(context.Background(), Options{})
	require.NoError(t, err)
	require.Equal(t, journey.StatusFailed, res["broken"].Status)
	require.ErrorContains(t, res["broken"].Err, "panic: nil map write")
	require.Equal(t, journey.StatusSucceeded, res["healthy"].Status)
	require.True(t, res.Failed())

	browsers := h.launcher.Browsers()
	require.Len(t, browsers, 2)
	require.NotSame(t, browsers[0], browsers[1], "each journey gets its own browser")
	require.Zero(t, h.launcher.OpenBrowsers())
}

func TestRunIsIdempotentWithoutReregistration(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	staticJourney(h.registry, "once", journey.Step{Name: "open", Action: ok})

	first, err := h.runner.Run(context.Background(), Options{})
	require.NoError(t, err)
	require.Len(t, first, 1)
	require.Zero(t, h.registry.Len())
	require.Nil(t, h.registry.Current())

	second, err := h.runner.Run(context.Background(), Options{})
	require.NoError(t, err)
	require.Empty(t, second)
	require.Equal(t, 1, h.launcher.Launches())

	kinds := h.recorder.Kinds()
	require.Equal(t, []events.Kind{events.KindStart, events.KindEnd}, kinds[len(kinds)-2:])
}

func TestRunParamsMutationsAreNotObservable(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	source := map[string]interface{}{
		"url":  "https://shop.test",
		"tags": []interface{}{"smoke"},
	}

	var seen []string
	observe := func(_ context.Context, sc journey.StepContext) error {
		tags, _ := sc.Params.Get("tags")
		seen = append(seen, sc.Params.String("url")+"|"+fmt.Sprint(tags))
		return nil
	}
	mutate := func(_ context.Context, sc journey.StepContext) error {
		m := sc.Params.Map()
		m["url"] = "https://evil.test"
		tags, _ := sc.Params.Get("tags")
		tags.([]interface{})[0] = "tampered"
		return nil
	}

	staticJourney(h.registry, "first", journey.Step{Name: "mutate", Action: mutate}, journey.Step{Name: "observe", Action: observe})
	staticJourney(h.registry, "second", journey.Step{Name: "observe", Action: observe})

	_, err := h.runner.Run(context.Background(), Options{Params: source})
	require.NoError(t, err)
	require.Equal(t, []string{"https://shop.test|[smoke]", "https://shop.test|[smoke]"}, seen)
	require.Equal(t, "https://shop.test", source["url"])
}

func TestRunTypedParamsMutationsAreNotObservable(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	source := map[string]interface{}{
		"ids":    []int{1, 2},
		"limits": map[string]int{"x": 1},
	}

	var seen []string
	observe := func(_ context.Context, sc journey.StepContext) error {
		ids, _ := sc.Params.Get("ids")
		limits, _ := sc.Params.Get("limits")
		seen = append(seen, fmt.Sprint(ids, limits))
		return nil
	}
	mutate := func(_ context.Context, sc journey.StepContext) error {
		ids, _ := sc.Params.Get("ids")
		ids.([]int)[0] = 99
		limits, _ := sc.Params.Get("limits")
		limits.(map[string]int)["x"] = 7
		return nil
	}

	staticJourney(h.registry, "first", journey.Step{Name: "mutate", Action: mutate})
	staticJourney(h.registry, "second", journey.Step{Name: "observe", Action: observe})

	_, err := h.runner.Run(context.Background(), Options{Params: source})
	require.NoError(t, err)
	require.Equal(t, []string{"[1 2] map[x:1]"}, seen)
	require.Equal(t, []int{1, 2}, source["ids"])
}

func TestRunOrphanStepIsDropped(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	var orphans []string
	h.registry.SetOrphanHandler(func(step journey.Step) { orphans = append(orphans, step.Name) })

	require.False(t, h.registry.Step("early", ok))
	staticJourney(h.registry, "valid", journey.Step{Name: "open", Action: ok})

	res, err := h.runner.Run(context.Background(), Options{})
	require.NoError(t, err)
	require.Equal(t, []string{"early"}, orphans)
	require.Len(t, res["valid"].Steps, 1)
	require.Equal(t, "open", res["valid"].Steps[0].Name)
}

func TestRunWithNoJourneys(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	res, err := h.runner.Run(context.Background(), Options{})
	require.NoError(t, err)
	require.Empty(t, res)
	require.Equal(t, []events.Event{events.Start{NumJourneys: 0}, events.End{}}, h.recorder.Events())
	require.Zero(t, h.launcher.Launches())
}

func TestRunSetupRegistersStepsLazily(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	var order []string
	record := func(name string) journey.StepFunc {
		return func(context.Context, journey.StepContext) error {
			order = append(order, name)
			return nil
		}
	}

	var setupPage ports.Page
	j := h.registry.Journey("lazy", func(_ context.Context, sc journey.SetupContext) error {
		setupPage = sc.Page
		require.Equal(t, "v", sc.Params.String("k"))
		sc.Step("a", record("a"))
		h.registry.Step("b", record("b"))
		sc.Step("c", record("c"))
		return nil
	})
	require.Zero(t, j.StepCount(), "steps are registered only when the journey runs")

	res, err := h.runner.Run(context.Background(), Options{Params: map[string]interface{}{"k": "v"}})
	require.NoError(t, err)
	require.Equal(t, []string{"a", "b", "c"}, order)
	require.NotNil(t, setupPage)
	require.Len(t, res["lazy"].Steps, 3)
}

func TestRunSetupFailureFailsJourney(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	h.registry.Journey("bad setup", func(_ context.Context, sc journey.SetupContext) error {
		sc.Step("never", ok)
		return errors.New("fixture missing")
	})

	res, err := h.runner.Run(context.Background(), Options{})
	require.NoError(t, err)

	var setupErr *journeyerrors.SetupError
	require.ErrorAs(t, res["bad setup"].Err, &setupErr)
	require.Empty(t, res["bad setup"].Steps)
	require.NotContains(t, h.recorder.Kinds(), events.KindStepStart)
	require.Zero(t, h.launcher.OpenBrowsers())
}

func TestRunSessionAcquisitionFailures(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name       string
		configure  func(*browsertest.Launcher)
		phase      string
		launches   int
		wantClosed bool
	}{
		{name: "launch", configure: func(l *browsertest.Launcher) { l.LaunchErr = errors.New("no binary") }, phase: journeyerrors.PhaseLaunch, launches: 0},
		{name: "context", configure: func(l *browsertest.Launcher) { l.NewContextErr = errors.New("no context") }, phase: journeyerrors.PhaseContext, launches: 2, wantClosed: true},
		{name: "page", configure: func(l *browsertest.Launcher) { l.NewPageErr = errors.New("no page") }, phase: journeyerrors.PhasePage, launches: 2, wantClosed: true},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			h := newHarness(t)
			tc.configure(h.launcher)
			staticJourney(h.registry, "first", journey.Step{Name: "open", Action: ok})
			staticJourney(h.registry, "second", journey.Step{Name: "open", Action: ok})

			res, err := h.runner.Run(context.Background(), Options{})
			require.NoError(t, err)
			require.Len(t, res, 2, "later journeys still attempt to run")

			for _, name := range []string{"first", "second"} {
				var sessionErr *journeyerrors.SessionError
				require.ErrorAs(t, res[name].Err, &sessionErr)
				require.Equal(t, tc.phase, sessionErr.Phase)
				require.Empty(t, res[name].Steps)
			}

			require.Equal(t, tc.launches, h.launcher.Launches())
			if tc.wantClosed {
				require.Zero(t, h.launcher.OpenBrowsers())
			}
			require.Equal(t, []events.Kind{
				events.KindStart,
				events.KindJourneyStart, events.KindJourneyEnd,
				events.KindJourneyStart, events.KindJourneyEnd,
				events.KindEnd,
			}, h.recorder.Kinds())
		})
	}
}

func TestRunUnknownBrowserType(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	staticJourney(h.registry, "j", journey.Step{Name: "open", Action: ok})

	res, err := h.runner.Run(context.Background(), Options{BrowserType: "webkit"})
	require.NoError(t, err)

	var domainErr *journey.DomainError
	require.ErrorAs(t, res["j"].Err, &domainErr)
	require.Equal(t, journey.ErrCodeNotFound, domainErr.Code)
}

func TestRunLoadWaitAndScreenshotFailuresFailTheStep(t *testing.T) {
	t.Parallel()

	cases := map[string]func(*browsertest.Launcher){
		"load wait":  func(l *browsertest.Launcher) { l.LoadErr = errors.New("navigation timeout") },
		"screenshot": func(l *browsertest.Launcher) { l.ScreenshotErr = errors.New("target crashed") },
	}

	for name, configure := range cases {
		configure := configure
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			h := newHarness(t)
			configure(h.launcher)
			staticJourney(h.registry, "j", journey.Step{Name: "first", Action: ok}, journey.Step{Name: "second", Action: ok})

			res, err := h.runner.Run(context.Background(), Options{})
			require.NoError(t, err)
			require.Equal(t, journey.StatusFailed, res["j"].Status)
			require.Len(t, res["j"].Steps, 1)
			require.Empty(t, res["j"].Steps[0].Screenshot)
			require.Zero(t, h.launcher.OpenBrowsers())
		})
	}
}

func TestRunDisableScreenshots(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	h.launcher.ScreenshotErr = errors.New("should not be called")
	staticJourney(h.registry, "j", journey.Step{Name: "open", Action: ok})

	res, err := h.runner.Run(context.Background(), Options{DisableScreenshots: true})
	require.NoError(t, err)
	require.Equal(t, journey.StatusSucceeded, res["j"].Status)
	require.Empty(t, res["j"].Steps[0].Screenshot)
}

func TestRunMeasuresElapsedTime(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	advance := func(d time.Duration) journey.StepFunc {
		return func(context.Context, journey.StepContext) error {
			h.clock.Advance(d)
			return nil
		}
	}
	staticJourney(h.registry, "timed",
		journey.Step{Name: "slow", Action: advance(250 * time.Millisecond)},
		journey.Step{Name: "fast", Action: advance(50 * time.Millisecond)},
	)

	res, err := h.runner.Run(context.Background(), Options{})
	require.NoError(t, err)
	require.Equal(t, 250*time.Millisecond, res["timed"].Steps[0].Elapsed)
	require.Equal(t, 50*time.Millisecond, res["timed"].Steps[1].Elapsed)
	require.Equal(t, 300*time.Millisecond, res["timed"].Elapsed)

	for _, event := range h.recorder.Events() {
		if end, isEnd := event.(events.JourneyEnd); isEnd {
			require.EqualValues(t, 300, events.ElapsedMillis(end.Elapsed))
		}
	}
}

func TestRunMatchFiltersJourneys(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	staticJourney(h.registry, "login: admin", journey.Step{Name: "open", Action: ok})
	staticJourney(h.registry, "search", journey.Step{Name: "open", Action: ok})

	res, err := h.runner.Run(context.Background(), Options{Match: regexp.MustCompile(`^login`)})
	require.NoError(t, err)
	require.Equal(t, []string{"login: admin"}, res.Names())
	require.Equal(t, events.Start{NumJourneys: 1}, h.recorder.Events()[0])
	require.Equal(t, 1, h.launcher.Launches())
}

func TestRunReporterFailureAbortsRun(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	boom := errors.New("disk full")
	events.Subscribe(h.bus, func(_ context.Context, e events.StepEnd) error {
		return boom
	})
	staticJourney(h.registry, "first", journey.Step{Name: "open", Action: ok}, journey.Step{Name: "next", Action: ok})
	staticJourney(h.registry, "second", journey.Step{Name: "open", Action: ok})

	_, err := h.runner.Run(context.Background(), Options{})
	require.ErrorIs(t, err, boom)
	var reporterErr *journeyerrors.ReporterError
	require.ErrorAs(t, err, &reporterErr)

	require.Equal(t, 1, h.launcher.Launches(), "the run stops at the failing subscriber")
	require.Zero(t, h.launcher.OpenBrowsers(), "the session is still released")
	require.Zero(t, h.registry.Len(), "the registry is still reset")
	require.NotContains(t, h.recorder.Kinds(), events.KindEnd)
}

type resolverFunc func(string) (events.Subscriber, error)

func (f resolverFunc) Resolve(name string) (events.Subscriber, error) { return f(name) }

func TestRunInstallsAndDetachesNamedReporter(t *testing.T) {
	t.Parallel()

	rec := &events.Recorder{}
	resolver := resolverFunc(func(name string) (events.Subscriber, error) {
		if name != "memory" {
			return nil, fmt.Errorf("unknown reporter %q", name)
		}
		return rec, nil
	})
	h := newHarness(t, WithReporters(resolver))
	staticJourney(h.registry, "j", journey.Step{Name: "open", Action: ok})

	_, err := h.runner.Run(context.Background(), Options{Reporter: "memory"})
	require.NoError(t, err)
	require.Len(t, rec.Events(), 6)

	_, err = h.runner.Run(context.Background(), Options{})
	require.NoError(t, err)
	require.Len(t, rec.Events(), 6, "reporter is detached after its run")

	_, err = h.runner.Run(context.Background(), Options{Reporter: "nope"})
	require.ErrorContains(t, err, `resolve reporter "nope"`)
}

func TestRunCancellationSkipsRemainingJourneys(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	staticJourney(h.registry, "first", journey.Step{Name: "cancel", Action: func(context.Context, journey.StepContext) error {
		cancel()
		return nil
	}})
	staticJourney(h.registry, "second", journey.Step{Name: "open", Action: ok})

	res, err := h.runner.Run(ctx, Options{})
	require.ErrorIs(t, err, context.Canceled)
	require.Contains(t, res, "first")
	require.NotContains(t, res, "second")
	kinds := h.recorder.Kinds()
	require.Equal(t, events.KindEnd, kinds[len(kinds)-1])
	require.Zero(t, h.launcher.OpenBrowsers())
}

func TestRunCancellationDuringLastJourneyIsReported(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	staticJourney(h.registry, "only", journey.Step{Name: "cancel", Action: func(context.Context, journey.StepContext) error {
		cancel()
		return nil
	}})

	res, err := h.runner.Run(ctx, Options{})
	require.ErrorIs(t, err, context.Canceled)
	require.Contains(t, res, "only")
	require.True(t, res["only"].IsFailure())
	kinds := h.recorder.Kinds()
	require.Equal(t, events.KindEnd, kinds[len(kinds)-1])
	require.Zero(t, h.launcher.OpenBrowsers())
}

func TestRunStepWithoutActionFailsValidation(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	staticJourney(h.registry, "broken", journey.Step{Name: "open", Action: ok}, journey.Step{Name: "blank"})

	res, err := h.runner.Run(context.Background(), Options{})
	require.NoError(t, err)

	failed, found := res["broken"].FailedStep()
	require.True(t, found)
	require.Equal(t, "blank", failed.Name)
	require.Equal(t, 2, failed.Index)

	var domainErr *journey.DomainError
	require.True(t, errors.As(res["broken"].Err, &domainErr))
	require.Equal(t, journey.ErrCodeMissing, domainErr.Code)
}

func TestRunStepRateWaitFailureIsBracketedByStepEvents(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	staticJourney(h.registry, "throttled", journey.Step{Name: "first", Action: ok}, journey.Step{Name: "second", Action: ok})

	res, err := h.runner.Run(ctx, Options{StepRate: 0.001})
	require.NoError(t, err)

	var starts, ends []events.StepInfo
	var lastEnd events.StepEnd
	for _, ev := range h.recorder.Events() {
		switch e := ev.(type) {
		case events.StepStart:
			starts = append(starts, e.Step)
		case events.StepEnd:
			ends = append(ends, e.Step)
			lastEnd = e
		}
	}
	require.Len(t, starts, 2)
	require.Equal(t, starts, ends)
	require.Equal(t, "second", lastEnd.Step.Name)
	require.Error(t, lastEnd.Err)

	require.Len(t, res["throttled"].Steps, 2)
	failed, found := res["throttled"].FailedStep()
	require.True(t, found)
	require.Equal(t, 2, failed.Index)
	require.ErrorContains(t, failed.Err, "wait for step rate")
}

func TestRunReaddedJourneyDoesNotDuplicateSteps(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	var calls int
	count := func(context.Context, journey.StepContext) error {
		calls++
		return nil
	}
	j := h.registry.Journey("repeat", func(_ context.Context, sc journey.SetupContext) error {
		sc.Step("a", count)
		sc.Step("b", count)
		return nil
	})

	first, err := h.runner.Run(context.Background(), Options{})
	require.NoError(t, err)
	require.Len(t, first["repeat"].Steps, 2)

	h.registry.AddJourney(j)
	second, err := h.runner.Run(context.Background(), Options{})
	require.NoError(t, err)
	require.Len(t, second["repeat"].Steps, 2)
	require.Equal(t, 4, calls)
}

func TestRunStepTimeout(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	staticJourney(h.registry, "hang", journey.Step{Name: "wait forever", Action: func(ctx context.Context, _ journey.StepContext) error {
		<-ctx.Done()
		return ctx.Err()
	}})

	res, err := h.runner.Run(context.Background(), Options{StepTimeout: 20 * time.Millisecond})
	require.NoError(t, err)
	require.ErrorIs(t, res["hang"].Err, context.DeadlineExceeded)
}

func TestRunStepRatePacesSteps(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	var mu sync.Mutex
	var stamps []time.Time
	stamp := func(context.Context, journey.StepContext) error {
		mu.Lock()
		stamps = append(stamps, time.Now())
		mu.Unlock()
		return nil
	}
	staticJourney(h.registry, "paced", journey.Step{Name: "a", Action: stamp}, journey.Step{Name: "b", Action: stamp}, journey.Step{Name: "c", Action: stamp})

	_, err := h.runner.Run(context.Background(), Options{StepRate: 20})
	require.NoError(t, err)
	require.Len(t, stamps, 3)
	require.GreaterOrEqual(t, stamps[2].Sub(stamps[0]), 80*time.Millisecond)
}

func TestRunPassesLaunchOptionsAndSessionHandles(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	h.launcher.Sites["https://shop.test"] = browsertest.Site{Title: "Shop"}

	var title string
	staticJourney(h.registry, "j", journey.Step{Name: "open", Action: func(ctx context.Context, sc journey.StepContext) error {
		require.NotNil(t, sc.Browser)
		require.NotNil(t, sc.Context)
		if err := sc.Page.Goto(ctx, "https://shop.test"); err != nil {
			return err
		}
		var err error
		title, err = sc.Page.Title(ctx)
		return err
	}})

	launch := ports.LaunchOptions{Headless: true, ExtraHeaders: map[string]string{"X-Synthetic": "1"}}
	_, err := h.runner.Run(context.Background(), Options{Launch: launch})
	require.NoError(t, err)
	require.Equal(t, "Shop", title)
	require.Equal(t, launch, h.launcher.Browsers()[0].Options)
}
