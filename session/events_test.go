// Copyright 2026 The Cabinet Authors
// SPDX-License-Identifier: Apache-2.0

package session

import (
	"sync"
	"testing"
)

func TestBusMultipleSubscribers(t *testing.T) {
	bus := NewBus()

	first, second := 0, 0
	bus.Subscribe(EventHeartbeat, func(Event) { first++ })
	bus.Subscribe(EventHeartbeat, func(Event) { second++ })

	bus.Publish(Event{Type: EventHeartbeat})

	if first != 1 || second != 1 {
		t.Errorf("deliveries = %d, %d, want 1, 1", first, second)
	}
}

func TestBusFiltersByType(t *testing.T) {
	bus := NewBus()

	heartbeats, ready := 0, 0
	bus.Subscribe(EventHeartbeat, func(Event) { heartbeats++ })
	bus.Subscribe(EventReady, func(Event) { ready++ })

	bus.Publish(Event{Type: EventHeartbeat})
	bus.Publish(Event{Type: EventHeartbeat})
	bus.Publish(Event{Type: EventReady})

	if heartbeats != 2 {
		t.Errorf("heartbeat deliveries = %d, want 2", heartbeats)
	}
	if ready != 1 {
		t.Errorf("ready deliveries = %d, want 1", ready)
	}
}

func TestSubscriptionCancel(t *testing.T) {
	bus := NewBus()

	count := 0
	sub := bus.Subscribe(EventTerminated, func(Event) { count++ })

	bus.Publish(Event{Type: EventTerminated})
	sub.Cancel()
	bus.Publish(Event{Type: EventTerminated})

	if count != 1 {
		t.Errorf("deliveries = %d, want 1 (cancelled before second publish)", count)
	}

	// Cancel is idempotent and safe on the zero value.
	sub.Cancel()
	(&Subscription{}).Cancel()
}

func TestBusNilSubscriber(t *testing.T) {
	bus := NewBus()
	sub := bus.Subscribe(EventReady, nil)
	bus.Publish(Event{Type: EventReady}) // must not panic
	sub.Cancel()
}

func TestBusConcurrentSubscribeAndPublish(t *testing.T) {
	bus := NewBus()

	var wg sync.WaitGroup
	for n := 0; n < 8; n++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			sub := bus.Subscribe(EventHeartbeat, func(Event) {})
			sub.Cancel()
		}()
		go func() {
			defer wg.Done()
			bus.Publish(Event{Type: EventHeartbeat})
		}()
	}
	wg.Wait()
}
