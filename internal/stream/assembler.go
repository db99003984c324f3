// Copyright (c) 2023-2025 The yakGPT Authors
// SPDX-License-Identifier: MIT

package stream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/Clueed/yakGPT/internal/model"
)

// =============================================================================
// ASSEMBLER STATE
// =============================================================================

// State is the assembler's position in a streamed turn.
type State int

const (
	// StateIdle means no assistant message exists yet for this turn.
	StateIdle State = iota
	// StateStreaming means the message exists and is growing.
	StateStreaming
	// StateDone means the turn finished; no further mutation happens.
	StateDone
)

// String returns a short name for the state.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateStreaming:
		return "streaming"
	case StateDone:
		return "done"
	default:
		return "unknown"
	}
}

// =============================================================================
// ASSEMBLER
// =============================================================================

// MessageStore is the slice of the chat store the assembler needs.
type MessageStore interface {
	AppendMessage(chatID string, msg *model.Message)
	EditMessage(chatID, messageID, newContent string)
}

// Assembler folds one streamed completion into one assistant message of one
// chat. The first assistant-role chunk creates the message in the store with
// empty content, so the chat shows a live bubble; every content chunk grows
// it in arrival order. A finish reason freezes it.
//
// One assembler serves one turn; allocate a fresh one per send.
type Assembler struct {
	store      MessageStore
	chatID     string
	state      State
	msgID      string
	content    strings.Builder
	finishedBy string
}

// NewAssembler creates an assembler writing into the chat with the given id.
func NewAssembler(store MessageStore, chatID string) *Assembler {
	return &Assembler{store: store, chatID: chatID}
}

// State returns the current state.
func (a *Assembler) State() State {
	return a.state
}

// MessageID returns the id of the assembled message, or "" before the role
// announcement arrives.
func (a *Assembler) MessageID() string {
	return a.msgID
}

// Content returns everything accumulated so far.
func (a *Assembler) Content() string {
	return a.content.String()
}

// FinishReason returns the terminal marker's reason, or "" while streaming.
func (a *Assembler) FinishReason() string {
	return a.finishedBy
}

// Feed consumes one chunk. Malformed chunks — content before the role
// announcement, or a chunk carrying neither role, content, nor finish
// reason — are ignored so an idiosyncratic upstream cannot abort the turn.
func (a *Assembler) Feed(chunk Chunk) {
	if a.state == StateDone {
		return
	}

	if a.state == StateIdle {
		if chunk.Role() != string(model.RoleAssistant) {
			return
		}
		msg := model.NewAssistantMessage()
		a.msgID = msg.ID
		a.state = StateStreaming
		a.store.AppendMessage(a.chatID, msg)
		// A role chunk may already carry content or a finish reason.
	}

	if content := chunk.Content(); content != "" {
		a.content.WriteString(content)
		a.store.EditMessage(a.chatID, a.msgID, a.content.String())
	}

	if chunk.IsDone() {
		a.finishedBy = chunk.FinishReason()
		a.state = StateDone
	}
}

// Cancel ends the turn early, keeping whatever content has accumulated:
// partial content is valid final content. Safe to call repeatedly and in
// any state.
func (a *Assembler) Cancel() {
	if a.state == StateStreaming {
		a.finishedBy = "cancelled"
	}
	a.state = StateDone
}

// =============================================================================
// STREAM DRIVER
// =============================================================================

// StreamError is a transport failure that interrupted an in-flight turn.
// Partial holds everything assembled before the failure; it is already in
// the store and stands as the message's final content.
type StreamError struct {
	Partial string
	Err     error
}

func (e *StreamError) Error() string {
	if e.Partial != "" {
		return fmt.Sprintf("stream error (partial content received: %d chars): %v", len(e.Partial), e.Err)
	}
	return fmt.Sprintf("stream error: %v", e.Err)
}

func (e *StreamError) Unwrap() error {
	return e.Err
}

// doneSentinel ends an OpenAI-compatible SSE stream.
var doneSentinel = []byte("[DONE]")

// Run reads SSE events from body and feeds each decoded chunk until the
// stream ends, the terminal marker arrives, or ctx is cancelled. On
// cancellation the assembled message keeps its partial content and ctx.Err()
// is returned. Undecodable events are skipped.
func (a *Assembler) Run(ctx context.Context, body io.Reader) error {
	reader := NewSSEReader(body)

	for {
		select {
		case <-ctx.Done():
			a.Cancel()
			return ctx.Err()
		default:
		}

		_, data, err := reader.ReadEvent()
		if err != nil {
			a.Cancel()
			if err == io.EOF {
				return nil
			}
			return &StreamError{Partial: a.Content(), Err: err}
		}

		if bytes.Equal(data, doneSentinel) {
			a.Cancel()
			return nil
		}

		var chunk Chunk
		if err := json.Unmarshal(data, &chunk); err != nil {
			continue
		}

		a.Feed(chunk)
		if a.state == StateDone {
			return nil
		}
	}
}
