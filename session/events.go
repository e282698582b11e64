// Copyright 2026 The Cabinet Authors
// SPDX-License-Identifier: Apache-2.0

package session

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// EventType identifies a supervisor lifecycle event.
type EventType string

const (
	// EventInitialized fires once Initialize has constructed the
	// protocol client and run the launcher-visibility probe.
	EventInitialized EventType = "initialized"

	// EventReady fires after every MarkReady attempt, whether or not
	// the SET_LOADED call succeeded. Err carries the outcome.
	EventReady EventType = "ready"

	// EventHeartbeat fires when the heartbeat cadence elapses and a
	// MSG_ALIVE send was dispatched. The send is fire-and-forget, so
	// the event says "attempted", never "delivered".
	EventHeartbeat EventType = "heartbeat"

	// EventTerminated fires when the idle watchdog expires or the host
	// requests termination.
	EventTerminated EventType = "terminated"
)

// Event is a supervisor lifecycle notification.
type Event struct {
	// Type identifies the event.
	Type EventType

	// Time is the wall-clock time of publication, from the injected
	// clock.
	Time time.Time

	// RunID identifies the Initialize/Shutdown cycle the event belongs
	// to. Hosts that tear sessions down and bring them back up can
	// correlate events and log lines by this ID.
	RunID uuid.UUID

	// Err carries the outcome of the attempt behind the event, when
	// the event type has one (EventReady). Nil otherwise.
	Err error

	// Reason is a short human-readable cause, set for EventTerminated
	// ("idle timeout" or "operator request").
	Reason string
}

// Bus is a multi-subscriber event publisher. Callbacks run
// synchronously on the publishing goroutine, which for supervisor
// events is the host tick goroutine; subscribers must not block.
type Bus struct {
	mu     sync.Mutex
	nextID uint64
	subs   map[EventType]map[uint64]func(Event)
}

// NewBus returns an empty Bus.
func NewBus() *Bus {
	return &Bus{subs: make(map[EventType]map[uint64]func(Event))}
}

// Subscribe registers fn for events of the given type and returns a
// handle that removes the registration when cancelled. A nil fn
// returns an inert handle.
func (b *Bus) Subscribe(eventType EventType, fn func(Event)) *Subscription {
	if fn == nil {
		return &Subscription{}
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	id := b.nextID
	if b.subs[eventType] == nil {
		b.subs[eventType] = make(map[uint64]func(Event))
	}
	b.subs[eventType][id] = fn

	return &Subscription{bus: b, eventType: eventType, id: id}
}

// Publish delivers event to every subscriber of its type, in
// unspecified order.
func (b *Bus) Publish(event Event) {
	b.mu.Lock()
	callbacks := make([]func(Event), 0, len(b.subs[event.Type]))
	for _, fn := range b.subs[event.Type] {
		callbacks = append(callbacks, fn)
	}
	b.mu.Unlock()

	for _, fn := range callbacks {
		fn(event)
	}
}

// Subscription is a handle to one Bus registration.
type Subscription struct {
	bus       *Bus
	eventType EventType
	id        uint64
}

// Cancel removes the registration. Idempotent; safe on the zero value.
func (s *Subscription) Cancel() {
	if s.bus == nil {
		return
	}
	s.bus.mu.Lock()
	delete(s.bus.subs[s.eventType], s.id)
	s.bus.mu.Unlock()
	s.bus = nil
}
