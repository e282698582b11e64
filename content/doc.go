// Copyright 2026 The Cabinet Authors
// SPDX-License-Identifier: Apache-2.0

// Package content defines the contract between the session core and
// the embedded HTTP/WebSocket content server that some cabinet games
// ship for companion screens. The server itself lives outside this
// module; the core only ever registers an outbound message channel and
// hands over a substitution map, so those two hooks are the whole
// contract.
package content
