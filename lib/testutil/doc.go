// Copyright 2026 The Cabinet Authors
// SPDX-License-Identifier: Apache-2.0

// Package testutil provides channel assertion helpers for tests that
// coordinate with background goroutines, such as the fire-and-forget
// heartbeat worker. The helpers encapsulate the timeout safety valve
// pattern so individual tests do not need direct time.After calls.
package testutil
