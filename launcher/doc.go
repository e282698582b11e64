// Copyright 2026 The Cabinet Authors
// SPDX-License-Identifier: Apache-2.0

// Package launcher implements the TCP protocol client for the cabinet
// launcher process.
//
// The launcher listens on loopback port 21037 and speaks a private
// text protocol: UTF-16 little-endian text, no byte-order mark, one
// TCP connection per request. The client dials, writes the whole
// command, half-closes the write side, then reads the reply until the
// launcher closes its end. There is no length prefix; end-of-stream is
// the frame boundary, which tolerates replies of unknown length.
//
// The package is organized around the request round trip:
//
//   - wire.go: UTF-16LE codec and the growable receive buffer
//   - client.go: the six protocol operations and session state
//   - errors.go: transport and protocol error types
//   - state.go: the SessionState enum owned by the client
//
// Every operation is a single attempt with no retries. Blocking
// operations carry dial and I/O deadlines so a hung launcher surfaces
// as a transport error instead of stalling the host tick forever.
// SendAlive is the one fire-and-forget operation: it runs the round
// trip on a background goroutine and discards the outcome.
package launcher
