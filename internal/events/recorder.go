package events

import (
	"context"
	"sync"
)

// Recorder keeps every event it receives, in order. It is used by tests and by
// reporters that render after the run.
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

// Attach subscribes the recorder to all kinds.
func (r *Recorder) Attach(bus *Bus) Subscription {
	return bus.OnAll(func(_ context.Context, event Event) error {
		r.mu.Lock()
		r.events = append(r.events, event)
		r.mu.Unlock()
		return nil
	})
}

// Events returns a copy of the recorded events.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Event(nil), r.events...)
}

// Kinds returns the kinds of the recorded events.
func (r *Recorder) Kinds() []Kind {
	r.mu.Lock()
	defer r.mu.Unlock()
	kinds := make([]Kind, len(r.events))
	for i, event := range r.events {
		kinds[i] = event.Kind()
	}
	return kinds
}
