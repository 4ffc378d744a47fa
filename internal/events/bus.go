package events

import (
	"context"
	"errors"
	"fmt"
	"sync"

	journeyerrors "github.com/alexisbeaulieu97/journeyman/pkg/errors"
)

// ErrUnknownKind is returned when subscribing to a kind outside the closed set.
var ErrUnknownKind = errors.New("unknown event kind")

// Handler processes one event. A returned error aborts delivery and is
// propagated to the emitter.
type Handler func(ctx context.Context, event Event) error

// Subscription represents a registered handler. Callers invoke Unsubscribe to
// stop receiving events.
type Subscription interface {
	Unsubscribe()
}

// Subscriber is implemented by reporters and other observers that install
// their handlers on a bus in one call.
type Subscriber interface {
	Attach(bus *Bus) Subscription
}

// Bus delivers events synchronously to handlers in subscription order.
type Bus struct {
	mu     sync.RWMutex
	subs   map[Kind][]subscriptionEntry
	nextID int
}

// NewBus creates an empty bus.
func NewBus() *Bus {
	return &Bus{subs: make(map[Kind][]subscriptionEntry)}
}

// On registers handler for kind.
func (b *Bus) On(kind Kind, handler Handler) (Subscription, error) {
	if !kind.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
	if handler == nil {
		return noopSubscription{}, nil
	}
	b.mu.Lock()
	b.nextID++
	id := b.nextID
	b.subs[kind] = append(b.subs[kind], subscriptionEntry{id: id, handler: handler})
	b.mu.Unlock()

	return subscription{
		cancel: func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			handlers := b.subs[kind]
			for i, entry := range handlers {
				if entry.id == id {
					b.subs[kind] = append(handlers[:i:i], handlers[i+1:]...)
					break
				}
			}
		},
	}, nil
}

// OnAll registers handler for every kind.
func (b *Bus) OnAll(handler Handler) Subscription {
	group := make(Group, 0, len(Kinds))
	for _, kind := range Kinds {
		sub, _ := b.On(kind, handler)
		group = append(group, sub)
	}
	return group
}

// Subscribe registers a handler typed to a single event payload. The kind is
// taken from E so the pairing is checked at compile time.
func Subscribe[E Event](b *Bus, handler func(context.Context, E) error) Subscription {
	var zero E
	sub, _ := b.On(zero.Kind(), func(ctx context.Context, event Event) error {
		typed, ok := event.(E)
		if !ok {
			return nil
		}
		return handler(ctx, typed)
	})
	return sub
}

// Emit delivers event to every handler registered for its kind. The first
// handler error stops delivery and is returned wrapped in a ReporterError.
func (b *Bus) Emit(ctx context.Context, event Event) error {
	if event == nil {
		return nil
	}
	b.mu.RLock()
	handlers := append([]subscriptionEntry(nil), b.subs[event.Kind()]...)
	b.mu.RUnlock()

	for _, entry := range handlers {
		if err := entry.handler(ctx, event); err != nil {
			return journeyerrors.NewReporterError(string(event.Kind()), err)
		}
	}
	return nil
}

// HandlerCount reports how many handlers are registered for kind.
func (b *Bus) HandlerCount(kind Kind) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs[kind])
}

// Group unsubscribes several subscriptions together.
type Group []Subscription

// Unsubscribe cancels every subscription in the group.
func (g Group) Unsubscribe() {
	for _, sub := range g {
		if sub != nil {
			sub.Unsubscribe()
		}
	}
}

// SubscriptionFunc adapts a cleanup function to Subscription.
type SubscriptionFunc func()

// Unsubscribe calls f.
func (f SubscriptionFunc) Unsubscribe() {
	if f != nil {
		f()
	}
}

type noopSubscription struct{}

func (noopSubscription) Unsubscribe() {}

type subscription struct {
	cancel func()
}

func (s subscription) Unsubscribe() {
	if s.cancel != nil {
		s.cancel()
	}
}

type subscriptionEntry struct {
	id      int
	handler Handler
}
