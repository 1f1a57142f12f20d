// Package bus carries set-completion events from the draft manager to
// whatever rest timers happen to be alive for the affected exercise. The
// publisher never knows who, if anyone, is listening; timer instances come
// and go with UI screens independently of the draft's lifecycle.
package bus

import "sync"

// Handler reacts to a set-completion event for one exercise.
type Handler func(exerciseID string)

// Bus is an in-process broadcast keyed by exercise id.
type Bus struct {
	mu   sync.RWMutex
	next int
	subs map[string]map[int]Handler
	all  map[int]Handler
}

// New returns an empty bus.
func New() *Bus {
	return &Bus{
		subs: make(map[string]map[int]Handler),
		all:  make(map[int]Handler),
	}
}

// Subscribe registers h for events on exerciseID and returns an unsubscribe
// function. Unsubscribing twice is harmless.
func (b *Bus) Subscribe(exerciseID string, h Handler) func() {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.next
	b.next++
	if b.subs[exerciseID] == nil {
		b.subs[exerciseID] = make(map[int]Handler)
	}
	b.subs[exerciseID][id] = h

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		delete(b.subs[exerciseID], id)
	}
}

// SubscribeAll registers h for events on every exercise id, including ids
// that do not exist yet when the subscription is made. Returns an
// unsubscribe function.
func (b *Bus) SubscribeAll(h Handler) func() {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.next
	b.next++
	b.all[id] = h

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		delete(b.all, id)
	}
}

// Publish delivers the event to every current subscriber for exerciseID and
// to every catch-all subscriber, synchronously, in unspecified order. Fire
// and forget: no subscriber means no effect.
func (b *Bus) Publish(exerciseID string) {
	b.mu.RLock()
	handlers := make([]Handler, 0, len(b.subs[exerciseID])+len(b.all))
	for _, h := range b.subs[exerciseID] {
		handlers = append(handlers, h)
	}
	for _, h := range b.all {
		handlers = append(handlers, h)
	}
	b.mu.RUnlock()

	for _, h := range handlers {
		h(exerciseID)
	}
}
