// Copyright 2026 The Cabinet Authors
// SPDX-License-Identifier: Apache-2.0

package launcher

import (
	"net"
	"sync"
	"testing"
)

// fakeLauncher is an in-process stand-in for the real launcher: it
// accepts one connection per request, reads the UTF-16 command until
// the client half-closes, and answers with whatever the reply function
// returns. A nil reply function answers MSG_OKAY to everything.
type fakeLauncher struct {
	listener net.Listener
	reply    func(command string) string

	// notify receives every command as it arrives, for tests that
	// need to wait on a background send.
	notify chan string

	mu       sync.Mutex
	commands []string
}

func startFakeLauncher(t *testing.T, reply func(command string) string) *fakeLauncher {
	t.Helper()

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listening for fake launcher: %v", err)
	}
	if reply == nil {
		reply = func(string) string { return replyOkay }
	}

	f := &fakeLauncher{listener: listener, reply: reply, notify: make(chan string, 16)}
	go f.serve(t)
	t.Cleanup(func() { listener.Close() })
	return f
}

func (f *fakeLauncher) serve(t *testing.T) {
	for {
		conn, err := f.listener.Accept()
		if err != nil {
			return // listener closed by t.Cleanup
		}
		go f.handle(t, conn)
	}
}

func (f *fakeLauncher) handle(t *testing.T, conn net.Conn) {
	defer conn.Close()

	raw, err := readUntilClose(conn)
	if err != nil {
		t.Errorf("fake launcher read: %v", err)
		return
	}
	command, err := decodeWire(raw)
	if err != nil {
		t.Errorf("fake launcher decode: %v", err)
		return
	}

	f.mu.Lock()
	f.commands = append(f.commands, command)
	f.mu.Unlock()
	select {
	case f.notify <- command:
	default:
	}

	encoded, err := encodeWire(f.reply(command))
	if err != nil {
		t.Errorf("fake launcher encode: %v", err)
		return
	}
	if _, err := conn.Write(encoded); err != nil {
		t.Errorf("fake launcher write: %v", err)
	}
}

// address returns the listen address for client configuration.
func (f *fakeLauncher) address() string {
	return f.listener.Addr().String()
}

// received returns a copy of all commands seen so far.
func (f *fakeLauncher) received() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.commands...)
}
