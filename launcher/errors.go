// Copyright 2026 The Cabinet Authors
// SPDX-License-Identifier: Apache-2.0

package launcher

import (
	"errors"
	"fmt"
)

// TransportError reports a socket failure during a protocol round
// trip: connection refused, reset, or a dial/read/write deadline
// exceeded. Callers can use errors.As to extract the phase and the
// underlying error:
//
//	var transportErr *launcher.TransportError
//	if errors.As(err, &transportErr) {
//	    if errors.Is(transportErr.Err, os.ErrDeadlineExceeded) { ... }
//	}
type TransportError struct {
	// Command is the protocol command that was being attempted.
	Command string
	// Phase is the socket phase that failed: "dial", "send", or
	// "receive".
	Phase string
	// Err is the underlying error from the net package.
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("launcher: %s failed during %s: %v", e.Command, e.Phase, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// ProtocolError reports a reply that does not match any recognized
// pattern for the command issued, including malformed data replies.
type ProtocolError struct {
	// Command is the protocol command that was sent.
	Command string
	// Reply is the raw decoded reply text.
	Reply string
	// Reason explains what was wrong with the reply.
	Reason string
}

func (e *ProtocolError) Error() string {
	return fmt.Sprintf("launcher: %s got unexpected reply %q: %s", e.Command, e.Reply, e.Reason)
}

// IsTransportError reports whether err is (or wraps) a TransportError.
func IsTransportError(err error) bool {
	var transportErr *TransportError
	return errors.As(err, &transportErr)
}

// IsProtocolError reports whether err is (or wraps) a ProtocolError.
func IsProtocolError(err error) bool {
	var protocolErr *ProtocolError
	return errors.As(err, &protocolErr)
}
