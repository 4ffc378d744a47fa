// Package reporter renders the run's event stream for people and machines.
package reporter

import (
	"context"
	"io"
	"os"
	"sort"

	"github.com/alexisbeaulieu97/journeyman/internal/domain/journey"
	"github.com/alexisbeaulieu97/journeyman/internal/events"
	"github.com/alexisbeaulieu97/journeyman/internal/logger"
	"github.com/alexisbeaulieu97/journeyman/internal/ports"
	"github.com/alexisbeaulieu97/journeyman/internal/tui"
	"github.com/alexisbeaulieu97/journeyman/internal/vcs"
)

// Reporter names.
const (
	Default = "default"
	JSON    = "json"
	TUI     = "tui"
	Log     = "log"
	Silent  = "silent"
)

// Options configure the reporters a Resolver builds.
type Options struct {
	// Out receives rendered output. Defaults to stdout.
	Out io.Writer
	// Interactive runs the tui reporter as a live program.
	Interactive bool
	// Title heads console and tui output.
	Title string
	// Revision is attached to the json start record when set.
	Revision *vcs.Revision
	// Logger backs the log reporter.
	Logger ports.Logger
	// Cancel is called when the user interrupts the tui.
	Cancel context.CancelFunc
	// Color enables lipgloss styling in the default reporter.
	Color bool
}

// Resolver builds reporters by name.
type Resolver struct {
	opts      Options
	factories map[string]func(Options) events.Subscriber
}

// NewResolver creates a resolver with every built-in reporter.
func NewResolver(opts Options) *Resolver {
	if opts.Out == nil {
		opts.Out = os.Stdout
	}
	if opts.Logger == nil {
		opts.Logger = logger.NewNoOp()
	}
	return &Resolver{
		opts: opts,
		factories: map[string]func(Options) events.Subscriber{
			Default: func(o Options) events.Subscriber { return NewConsole(o.Out, o.Title, o.Color) },
			JSON:    func(o Options) events.Subscriber { return NewJSON(o.Out, o.Revision) },
			TUI: func(o Options) events.Subscriber {
				return tui.NewReporter(o.Out, tui.Interactive(o.Interactive), tui.WithTitle(o.Title), tui.WithCancel(o.Cancel))
			},
			Log:    func(o Options) events.Subscriber { return NewLogReporter(o.Logger) },
			Silent: func(Options) events.Subscriber { return silent{} },
		},
	}
}

// Resolve returns a fresh reporter for name.
func (r *Resolver) Resolve(name string) (events.Subscriber, error) {
	factory, ok := r.factories[name]
	if !ok {
		return nil, journey.NewNotFoundError("reporter", name).WithContext(map[string]interface{}{
			"known": r.Names(),
		})
	}
	return factory(r.opts), nil
}

// Names lists the registered reporter names in sorted order.
func (r *Resolver) Names() []string {
	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

type silent struct{}

func (silent) Attach(*events.Bus) events.Subscription {
	return events.Group{}
}
