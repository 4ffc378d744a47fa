package tui

import (
	"context"
	"fmt"
	"io"
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/alexisbeaulieu97/journeyman/internal/events"
)

// Reporter drives a Model from bus events. Interactive reporters run a
// Bubbletea program; otherwise the model is updated in place and its final
// view printed when the run ends.
type Reporter struct {
	out         io.Writer
	interactive bool
	title       string
	cancel      context.CancelFunc
	programOpts []tea.ProgramOption

	mu         sync.Mutex
	model      Model
	program    *tea.Program
	done       chan struct{}
	programErr error
}

// ReporterOption customizes a Reporter.
type ReporterOption func(*Reporter)

// Interactive selects the Bubbletea program over the printed fallback.
func Interactive(interactive bool) ReporterOption {
	return func(r *Reporter) { r.interactive = interactive }
}

// WithTitle sets the heading shown above the progress bar.
func WithTitle(title string) ReporterOption {
	return func(r *Reporter) { r.title = title }
}

// WithCancel registers the function called when the user presses ctrl+c.
func WithCancel(cancel context.CancelFunc) ReporterOption {
	return func(r *Reporter) { r.cancel = cancel }
}

// WithProgramOptions passes extra options to tea.NewProgram.
func WithProgramOptions(opts ...tea.ProgramOption) ReporterOption {
	return func(r *Reporter) { r.programOpts = append(r.programOpts, opts...) }
}

// NewReporter creates a reporter writing to out.
func NewReporter(out io.Writer, opts ...ReporterOption) *Reporter {
	r := &Reporter{out: out}
	for _, opt := range opts {
		opt(r)
	}
	r.model = NewModel(r.title, r.cancel)
	return r
}

// Attach implements events.Subscriber. Unsubscribing also stops a program
// left running by a run that never reached its end event.
func (r *Reporter) Attach(bus *events.Bus) events.Subscription {
	return events.Group{
		bus.OnAll(r.handle),
		events.SubscriptionFunc(r.stop),
	}
}

// Model returns the latest non-interactive model state.
func (r *Reporter) Model() Model {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.model
}

func (r *Reporter) handle(_ context.Context, event events.Event) error {
	if !r.interactive {
		r.mu.Lock()
		updated, _ := r.model.Update(event)
		r.model = updated.(Model)
		r.mu.Unlock()

		if _, isEnd := event.(events.End); isEnd {
			_, err := fmt.Fprint(r.out, r.Model().View())
			return err
		}
		return nil
	}

	if _, isStart := event.(events.Start); isStart {
		r.startProgram()
	}

	r.mu.Lock()
	program := r.program
	r.mu.Unlock()
	if program != nil {
		program.Send(event)
	}

	if _, isEnd := event.(events.End); isEnd {
		return r.wait()
	}
	return nil
}

func (r *Reporter) startProgram() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.program != nil {
		return
	}

	opts := append([]tea.ProgramOption{tea.WithOutput(r.out)}, r.programOpts...)
	r.program = tea.NewProgram(NewModel(r.title, r.cancel), opts...)
	r.done = make(chan struct{})

	program, done := r.program, r.done
	go func() {
		final, err := program.Run()
		r.mu.Lock()
		r.programErr = err
		if m, ok := final.(Model); ok {
			r.model = m
		}
		r.mu.Unlock()
		close(done)
	}()
}

func (r *Reporter) wait() error {
	r.mu.Lock()
	done := r.done
	r.mu.Unlock()
	if done == nil {
		return nil
	}
	<-done

	r.mu.Lock()
	defer r.mu.Unlock()
	r.program, r.done = nil, nil
	return r.programErr
}

func (r *Reporter) stop() {
	r.mu.Lock()
	program := r.program
	r.mu.Unlock()
	if program == nil {
		return
	}
	program.Quit()
	_ = r.wait()
}
