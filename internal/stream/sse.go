// Copyright (c) 2023-2025 The yakGPT Authors
// SPDX-License-Identifier: MIT

package stream

import (
	"bufio"
	"bytes"
	"errors"
	"io"
)

// ErrEventTooLarge is returned when a single SSE event exceeds MaxEventSize.
var ErrEventTooLarge = errors.New("sse event exceeds maximum size")

// =============================================================================
// SSE READER
// =============================================================================

// MaxEventSize caps a single SSE event at 64KB. A well-formed completion
// chunk is a few hundred bytes; anything near the cap is a broken stream.
const MaxEventSize = 64 * 1024

// SSEReader parses Server-Sent Events from a response body.
type SSEReader struct {
	reader *bufio.Reader
}

// NewSSEReader wraps r for event-by-event reading.
func NewSSEReader(r io.Reader) *SSEReader {
	return &SSEReader{reader: bufio.NewReader(r)}
}

// ReadEvent reads the next event and returns its type and data. The event
// type is empty for completion streams. A final event unterminated by a
// blank line is still returned before io.EOF.
func (s *SSEReader) ReadEvent() (string, []byte, error) {
	var eventType string
	var dataLines [][]byte
	var size int

	for {
		line, err := s.reader.ReadBytes('\n')
		if err != nil {
			if err == io.EOF {
				if len(dataLines) > 0 {
					return eventType, bytes.Join(dataLines, []byte("\n")), nil
				}
				return "", nil, io.EOF
			}
			return "", nil, err
		}

		line = bytes.TrimRight(line, "\r\n")

		// Blank line ends the event.
		if len(line) == 0 {
			if len(dataLines) > 0 {
				return eventType, bytes.Join(dataLines, []byte("\n")), nil
			}
			continue
		}

		size += len(line)
		if size > MaxEventSize {
			return "", nil, ErrEventTooLarge
		}

		switch {
		case bytes.HasPrefix(line, []byte("event:")):
			eventType = string(bytes.TrimSpace(line[6:]))
		case bytes.HasPrefix(line, []byte("data:")):
			dataLines = append(dataLines, bytes.TrimSpace(line[5:]))
		}
		// Other fields (id:, retry:, comments) are ignored.
	}
}
