// Copyright 2026 The Cabinet Authors
// SPDX-License-Identifier: Apache-2.0

// Package dispatch hands deferred work from background goroutines to
// the host's single-threaded tick context.
//
// The protocol client does its socket work off the tick goroutine, but
// anything that touches shared or UI state must only run on the tick.
// Producers call Enqueue from any goroutine; the tick loop calls Drain
// exactly once per frame. Drain swaps the whole pending list out under
// a briefly-held lock and runs the captured actions outside it, so
// producers are never blocked behind a slow action, only behind the
// O(1) swap.
package dispatch
