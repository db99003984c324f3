// Copyright (c) 2023-2025 The yakGPT Authors
// SPDX-License-Identifier: MIT

package model

import (
	"time"

	"github.com/google/uuid"
)

// =============================================================================
// CHAT TYPE
// =============================================================================

// Chat is a titled conversation holding an ordered list of messages.
// Message order is conversation order and is stable under every mutation
// except the explicit edit/delete/regenerate operations.
type Chat struct {
	// Identity
	ID        string    `json:"id"`
	Title     string    `json:"title,omitempty"` // empty until set by user or auto-title
	CreatedAt time.Time `json:"created_at"`

	// Messages
	Messages []*Message `json:"messages"`

	// Optional metadata maintained by collaborators
	ChosenCharacter string  `json:"chosen_character,omitempty"`
	TokensUsed      int     `json:"tokens_used,omitempty"`
	CostIncurred    float64 `json:"cost_incurred,omitempty"`
}

// NewChat creates an empty chat with a generated ID and the given creation
// time.
func NewChat(createdAt time.Time) *Chat {
	return &Chat{
		ID:        uuid.New().String(),
		CreatedAt: createdAt,
		Messages:  make([]*Message, 0),
	}
}

// =============================================================================
// MESSAGE ACCESS
// =============================================================================

// LastMessage returns the most recent message, or nil if the chat is empty.
func (c *Chat) LastMessage() *Message {
	if len(c.Messages) == 0 {
		return nil
	}
	return c.Messages[len(c.Messages)-1]
}

// MessageByID returns the message with the given ID, or nil.
func (c *Chat) MessageByID(id string) *Message {
	for _, msg := range c.Messages {
		if msg.ID == id {
			return msg
		}
	}
	return nil
}

// MessageIndex returns the position of the message with the given ID, or -1.
func (c *Chat) MessageIndex(id string) int {
	for i, msg := range c.Messages {
		if msg.ID == id {
			return i
		}
	}
	return -1
}

// MessageCount returns the number of messages.
func (c *Chat) MessageCount() int {
	return len(c.Messages)
}

// IsEmpty reports whether the chat has no messages yet.
func (c *Chat) IsEmpty() bool {
	return len(c.Messages) == 0
}

// =============================================================================
// TITLE
// =============================================================================

// DisplayTitle returns the title, or a preview of the first user message, or
// a default when the chat is still untitled and empty.
func (c *Chat) DisplayTitle() string {
	if c.Title != "" {
		return c.Title
	}
	for _, msg := range c.Messages {
		if msg.Role == RoleUser && !msg.IsEmpty() {
			return msg.Preview(50)
		}
	}
	return "New chat"
}

// =============================================================================
// UPDATES
// =============================================================================

// ChatUpdate carries the fields an update may merge into a chat. Nil fields
// are left untouched.
type ChatUpdate struct {
	Title           *string
	ChosenCharacter *string
	TokensUsed      *int
	CostIncurred    *float64
}

// Apply merges the non-nil fields of the update into the chat.
func (c *Chat) Apply(upd ChatUpdate) {
	if upd.Title != nil {
		c.Title = *upd.Title
	}
	if upd.ChosenCharacter != nil {
		c.ChosenCharacter = *upd.ChosenCharacter
	}
	if upd.TokensUsed != nil {
		c.TokensUsed = *upd.TokensUsed
	}
	if upd.CostIncurred != nil {
		c.CostIncurred = *upd.CostIncurred
	}
}

// Clone returns a deep copy of the chat.
func (c *Chat) Clone() *Chat {
	clone := *c
	clone.Messages = make([]*Message, len(c.Messages))
	for i, msg := range c.Messages {
		clone.Messages[i] = msg.Clone()
	}
	return &clone
}
