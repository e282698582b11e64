// Copyright 2026 The Cabinet Authors
// SPDX-License-Identifier: Apache-2.0

package launcher

import (
	"fmt"
	"io"

	"golang.org/x/text/encoding/unicode"
)

// The launcher speaks UTF-16 little-endian with no byte-order mark.
// Every character on the wire occupies two bytes.
var wireEncoding = unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM)

// encodeWire converts command text to its wire bytes.
func encodeWire(text string) ([]byte, error) {
	data, err := wireEncoding.NewEncoder().Bytes([]byte(text))
	if err != nil {
		return nil, fmt.Errorf("encoding %q for the wire: %w", text, err)
	}
	return data, nil
}

// decodeWire converts raw reply bytes back to text. An odd byte count
// means the stream was cut mid-character; the decoder surfaces that as
// an error rather than silently dropping the tail.
func decodeWire(data []byte) (string, error) {
	if len(data)%2 != 0 {
		return "", fmt.Errorf("reply length %d is not a whole number of UTF-16 code units", len(data))
	}
	decoded, err := wireEncoding.NewDecoder().Bytes(data)
	if err != nil {
		return "", fmt.Errorf("decoding wire reply: %w", err)
	}
	return string(decoded), nil
}

// Receive buffer sizing. The buffer starts small and doubles whenever
// remaining headroom falls under the threshold, so replies of unknown
// length cost O(log n) allocations instead of a reallocation per read.
const (
	receiveBufferInitial  = 256
	receiveBufferHeadroom = 32
)

// readUntilClose reads from r until end of stream, growing the buffer
// as needed. The launcher frames replies by closing its write side, so
// EOF (or a zero-byte read) is the only frame boundary.
func readUntilClose(r io.Reader) ([]byte, error) {
	buffer := make([]byte, 0, receiveBufferInitial)
	for {
		if cap(buffer)-len(buffer) < receiveBufferHeadroom {
			grown := make([]byte, len(buffer), cap(buffer)*2)
			copy(grown, buffer)
			buffer = grown
		}

		n, err := r.Read(buffer[len(buffer):cap(buffer)])
		buffer = buffer[:len(buffer)+n]

		if err == io.EOF || (n == 0 && err == nil) {
			return buffer, nil
		}
		if err != nil {
			return buffer, err
		}
	}
}
