// Copyright 2026 The Cabinet Authors
// SPDX-License-Identifier: Apache-2.0

// Package clock provides an injectable time abstraction for testability.
//
// Production code accepts a Clock interface parameter instead of calling
// time.Now or time.Since directly. In production, Real() provides the
// standard library behavior. In tests, Fake() provides a deterministic
// clock that advances only when Advance is called.
//
// The session supervisor is tick-driven: the host calls it once per
// frame and hands it the simulation delta, so the only ambient time the
// core ever reads is the wall clock behind the heartbeat cadence. That
// keeps this interface deliberately small — no timers, tickers, or
// sleeps.
//
// # Wiring Pattern
//
// Add a Clock field to structs that read the wall clock:
//
//	type Supervisor struct {
//	    clock clock.Clock
//	    // ...
//	}
//
// In production:
//
//	s := &Supervisor{clock: clock.Real()}
//
// In tests:
//
//	c := clock.Fake(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
//	s := &Supervisor{clock: c}
//	c.Advance(2 * time.Second) // cross the heartbeat deadline deterministically
package clock
