// Copyright 2026 The Cabinet Authors
// SPDX-License-Identifier: Apache-2.0

package content

// Substitutions maps placeholder keys to replacement text. The content
// server substitutes these into served pages; the session core only
// produces the map.
type Substitutions map[string]string

// Server is the slice of the embedded content server the session core
// talks to. Implementations wrap whatever HTTP/WebSocket stack the
// host ships; the core never imports that stack.
type Server interface {
	// RegisterOutbound hands the server a channel of messages to push
	// to connected clients. The core owns the channel and closes it at
	// shutdown; the server must stop reading when it closes.
	RegisterOutbound(messages <-chan string)

	// SetSubstitutions replaces the active substitution map. Safe to
	// call while serving; pages rendered after the call see the new
	// values.
	SetSubstitutions(subs Substitutions)
}
