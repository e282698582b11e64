// Copyright 2026 The Cabinet Authors
// SPDX-License-Identifier: Apache-2.0

// Package session supervises the game session's relationship with the
// cabinet launcher.
//
// The host drives a Supervisor from its single-threaded tick loop.
// Each tick the supervisor drains the cross-goroutine dispatch queue,
// sends the periodic MSG_ALIVE heartbeat on a real wall-clock cadence,
// and accumulates operator idle time in scaled simulation time. When
// idle time crosses the configured timeout the supervisor terminates
// the session through the host-provided hook.
//
// Lifecycle events (initialized, ready, heartbeat, terminated) are
// published on a multi-subscriber Bus. Subscriptions return explicit
// handles with Cancel, so observers manage their own lifetime instead
// of relying on a global reset.
//
// Construction is explicit dependency injection: the caller owns the
// Supervisor and passes in the clock, logger, and protocol client.
// Nothing in this package is process-global, so tests and multi-session
// hosts can run several supervisors side by side.
package session
