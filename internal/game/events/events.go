// Package events is the in-process bus the world uses to tell outer layers
// (UI prompts, audio, logging) what happened during a tick.
//
// Delivery is synchronous in the publisher's goroutine and follows
// subscription order. Handler errors never stop delivery; they are joined
// and returned from Publish.
package events

import (
	"errors"
	"sync"

	"github.com/google/uuid"

	"github.com/Faultbox/planetwalk/pkg/math"
)

// Kind selects which handlers receive an event.
type Kind int

const (
	EnteredRange Kind = iota
	ExitedRange
	Bumped
	AnimationChanged
)

func (k Kind) String() string {
	switch k {
	case EnteredRange:
		return "entered_range"
	case ExitedRange:
		return "exited_range"
	case Bumped:
		return "bumped"
	case AnimationChanged:
		return "animation_changed"
	}
	return "unknown"
}

// Event is a single notification.
type Event struct {
	Kind Kind
	Tick uint64

	// Subject is the interactable ID for range events, the state tag the
	// agent moved into for AnimationChanged, and empty for Bumped.
	Subject string
	// Previous is the state tag left behind for AnimationChanged.
	Previous string

	Position math.Vec3 // Agent position when the event fired
}

// Handler receives events of the kind it subscribed to.
type Handler func(Event) error

// Subscription is a registered handler. Cancel is safe to call repeatedly.
type Subscription struct {
	id   string
	kind Kind
	bus  *Bus
}

// ID is a unique identifier for this subscription.
func (s *Subscription) ID() string { return s.id }

// Kind returns the event kind this subscription listens to.
func (s *Subscription) Kind() Kind { return s.kind }

// Cancel removes the handler from the bus.
func (s *Subscription) Cancel() {
	if s == nil || s.bus == nil {
		return
	}
	s.bus.remove(s.kind, s.id)
}

type entry struct {
	id      string
	handler Handler
}

// Bus fans events out to subscribers. The zero value is not usable; call
// NewBus.
type Bus struct {
	mu       sync.RWMutex
	handlers map[Kind][]entry
}

// NewBus creates an empty bus.
func NewBus() *Bus {
	return &Bus{handlers: make(map[Kind][]entry)}
}

// Subscribe registers handler for kind.
func (b *Bus) Subscribe(kind Kind, handler Handler) *Subscription {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := uuid.NewString()
	b.handlers[kind] = append(b.handlers[kind], entry{id: id, handler: handler})
	return &Subscription{id: id, kind: kind, bus: b}
}

// SubscribeAll registers handler for every kind and returns one
// subscription per kind.
func (b *Bus) SubscribeAll(handler Handler) []*Subscription {
	kinds := []Kind{EnteredRange, ExitedRange, Bumped, AnimationChanged}
	subs := make([]*Subscription, 0, len(kinds))
	for _, k := range kinds {
		subs = append(subs, b.Subscribe(k, handler))
	}
	return subs
}

// Publish delivers e to every handler subscribed to e.Kind.
func (b *Bus) Publish(e Event) error {
	if b == nil {
		return nil
	}
	// Snapshot so handlers may subscribe or cancel while being called.
	b.mu.RLock()
	subs := append([]entry(nil), b.handlers[e.Kind]...)
	b.mu.RUnlock()

	var errs []error
	for _, s := range subs {
		if err := s.handler(e); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Len returns the number of handlers subscribed to kind.
func (b *Bus) Len(kind Kind) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.handlers[kind])
}

func (b *Bus) remove(kind Kind, id string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	list := b.handlers[kind]
	for i, e := range list {
		if e.id == id {
			b.handlers[kind] = append(list[:i:i], list[i+1:]...)
			return
		}
	}
}

// Recorder collects published events, for tests and the headless runner.
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

// Record is a Handler that stores e.
func (r *Recorder) Record(e Event) error {
	r.mu.Lock()
	r.events = append(r.events, e)
	r.mu.Unlock()
	return nil
}

// Events returns a copy of everything recorded so far.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Event(nil), r.events...)
}

// Drain returns and clears the recorded events.
func (r *Recorder) Drain() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := r.events
	r.events = nil
	return out
}
