// Copyright 2026 The Cabinet Authors
// SPDX-License-Identifier: Apache-2.0

package dispatch

import (
	"log/slog"
	"sync"
)

// Queue collects actions from any goroutine for execution on the tick
// goroutine. The zero value is not usable; construct with New.
type Queue struct {
	mu      sync.Mutex
	pending []func()
	logger  *slog.Logger
}

// New returns an empty Queue. Panics recovered during Drain are
// reported through logger; pass nil for slog.Default().
func New(logger *slog.Logger) *Queue {
	if logger == nil {
		logger = slog.Default()
	}
	return &Queue{logger: logger}
}

// Enqueue appends an action for the next Drain. Safe to call from any
// goroutine, including from inside an action currently running in a
// Drain (the new action runs in the next drain, not the current one).
// A nil action is silently ignored.
func (q *Queue) Enqueue(action func()) {
	if action == nil {
		return
	}
	q.mu.Lock()
	q.pending = append(q.pending, action)
	q.mu.Unlock()
}

// Len returns the number of actions waiting for the next Drain.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.pending)
}

// Drain runs all actions enqueued before this call, in enqueue order,
// on the calling goroutine. Call it from exactly one goroutine, once
// per host tick.
//
// The pending list is swapped out under the lock and executed outside
// it. A panicking action does not stop the rest of the batch; the
// panic is recovered and logged, and the action is not retried.
func (q *Queue) Drain() {
	q.mu.Lock()
	if len(q.pending) == 0 {
		q.mu.Unlock()
		return
	}
	batch := q.pending
	q.pending = nil
	q.mu.Unlock()

	for _, action := range batch {
		q.run(action)
	}
}

// run executes one action, isolating its panic from the batch.
func (q *Queue) run(action func()) {
	defer func() {
		if r := recover(); r != nil {
			q.logger.Error("dispatched action panicked", "panic", r)
		}
	}()
	action()
}
