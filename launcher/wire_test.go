// Copyright 2026 The Cabinet Authors
// SPDX-License-Identifier: Apache-2.0

package launcher

import (
	"bytes"
	"strings"
	"testing"
)

func TestEncodeWire(t *testing.T) {
	got, err := encodeWire("MSG_OKAY")
	if err != nil {
		t.Fatalf("encodeWire: %v", err)
	}

	// UTF-16LE, two bytes per character, low byte first, no BOM.
	want := []byte{'M', 0, 'S', 0, 'G', 0, '_', 0, 'O', 0, 'K', 0, 'A', 0, 'Y', 0}
	if !bytes.Equal(got, want) {
		t.Errorf("encodeWire(MSG_OKAY) = % x, want % x", got, want)
	}
}

func TestDecodeWireRoundTrip(t *testing.T) {
	for _, text := range []string{"", "MSG_OKAY", "MSG_DATA#0110", "SET_HIGHSCORE#05000004D2"} {
		t.Run(text, func(t *testing.T) {
			encoded, err := encodeWire(text)
			if err != nil {
				t.Fatalf("encodeWire: %v", err)
			}
			decoded, err := decodeWire(encoded)
			if err != nil {
				t.Fatalf("decodeWire: %v", err)
			}
			if decoded != text {
				t.Errorf("round trip = %q, want %q", decoded, text)
			}
		})
	}
}

func TestDecodeWireRejectsOddLength(t *testing.T) {
	if _, err := decodeWire([]byte{'M', 0, 'S'}); err == nil {
		t.Error("decodeWire accepted a truncated UTF-16 stream")
	}
}

func TestReadUntilCloseGrowsBuffer(t *testing.T) {
	// A reply well past the initial buffer size forces several
	// doubling rounds.
	long := strings.Repeat("01", 4096)
	got, err := readUntilClose(strings.NewReader(long))
	if err != nil {
		t.Fatalf("readUntilClose: %v", err)
	}
	if string(got) != long {
		t.Errorf("readUntilClose returned %d bytes, want %d", len(got), len(long))
	}
}

func TestReadUntilCloseEmptyStream(t *testing.T) {
	got, err := readUntilClose(strings.NewReader(""))
	if err != nil {
		t.Fatalf("readUntilClose: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("readUntilClose on empty stream = %d bytes, want 0", len(got))
	}
}

// chunkReader returns data in fixed-size chunks to exercise the
// partial-read path.
type chunkReader struct {
	data  []byte
	chunk int
}

func (r *chunkReader) Read(p []byte) (int, error) {
	if len(r.data) == 0 {
		return 0, nil // zero-byte read signals end of stream
	}
	n := min(len(p), min(r.chunk, len(r.data)))
	copy(p, r.data[:n])
	r.data = r.data[n:]
	return n, nil
}

func TestReadUntilClosePartialReads(t *testing.T) {
	payload := []byte(strings.Repeat("x", 1000))
	got, err := readUntilClose(&chunkReader{data: payload, chunk: 7})
	if err != nil {
		t.Fatalf("readUntilClose: %v", err)
	}
	if !bytes.Equal(got, payload) {
		t.Errorf("readUntilClose reassembled %d bytes, want %d", len(got), len(payload))
	}
}
