// Copyright 2026 The Cabinet Authors
// SPDX-License-Identifier: Apache-2.0

package clock

import "time"

// Clock abstracts wall-clock reads for testability. Production code
// injects Real(); tests inject Fake() with deterministic time control.
type Clock interface {
	// Now returns the current time.
	Now() time.Time

	// Since returns the time elapsed since t. Equivalent to
	// Now().Sub(t).
	Since(t time.Time) time.Duration
}
