// Copyright 2026 The Cabinet Authors
// SPDX-License-Identifier: Apache-2.0

package launcher

// SessionState tracks where the game session is in its lifecycle. The
// Client owns the state: it flips to StatePlaying and StateFinished as
// a side effect of SetLoaded and SetFinished, before the corresponding
// network call is known to have succeeded. A failed call leaves the
// state where the operation already put it; nothing transitions the
// state automatically on failure.
type SessionState int

const (
	// StateLoading is the initial state while the game boots.
	StateLoading SessionState = iota

	// StatePlaying is entered by SetLoaded.
	StatePlaying

	// StateFinished is entered by SetFinished.
	StateFinished

	// StateError is reserved for hosts that surface a fatal session
	// failure in their own UI. The client never enters it on its own.
	StateError
)

// String returns the state name for logs.
func (s SessionState) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StatePlaying:
		return "playing"
	case StateFinished:
		return "finished"
	case StateError:
		return "error"
	default:
		return "unknown"
	}
}
