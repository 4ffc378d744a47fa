package runner

import (
	"regexp"
	"time"

	"golang.org/x/time/rate"

	"github.com/alexisbeaulieu97/journeyman/internal/events"
	"github.com/alexisbeaulieu97/journeyman/internal/ports"
)

// DefaultBrowserType is used when Options.BrowserType is empty.
const DefaultBrowserType = "chromium"

// Options configures one Run.
type Options struct {
	// Params is frozen into journey.Params before any step sees it.
	Params map[string]interface{}
	// BrowserType selects the launcher from the browser registry.
	BrowserType string
	// Reporter names a subscriber resolved through the ReporterResolver and
	// attached for the duration of the run. Empty installs nothing.
	Reporter string

	Launch ports.LaunchOptions
	// LoadState is awaited after every successful step action.
	LoadState ports.LoadState
	// DisableScreenshots skips the capture on the success path.
	DisableScreenshots bool
	// StepTimeout bounds each step's action, load wait, and capture.
	StepTimeout time.Duration
	// StepRate caps how many steps start per second. Zero is unlimited.
	StepRate float64
	// Match restricts the run to journeys whose names match.
	Match *regexp.Regexp
}

func (o Options) browserType() string {
	if o.BrowserType == "" {
		return DefaultBrowserType
	}
	return o.BrowserType
}

func (o Options) loadState() ports.LoadState {
	if o.LoadState == "" {
		return ports.LoadStateLoad
	}
	return o.LoadState
}

func (o Options) limiter() *rate.Limiter {
	if o.StepRate <= 0 {
		return nil
	}
	return rate.NewLimiter(rate.Limit(o.StepRate), 1)
}

// ReporterResolver turns a reporter name into a bus subscriber.
type ReporterResolver interface {
	Resolve(name string) (events.Subscriber, error)
}

// LauncherResolver looks up a browser launcher by type.
type LauncherResolver interface {
	Get(name string) (ports.BrowserLauncher, error)
}

// Option customizes a Runner.
type Option func(*Runner)

// WithLogger sets the runner's logger.
func WithLogger(logger ports.Logger) Option {
	return func(r *Runner) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithClock replaces the clock used for elapsed times.
func WithClock(clock Clock) Option {
	return func(r *Runner) {
		if clock != nil {
			r.clock = clock
		}
	}
}

// WithReporters installs the resolver used for Options.Reporter.
func WithReporters(resolver ReporterResolver) Option {
	return func(r *Runner) {
		r.reporters = resolver
	}
}
