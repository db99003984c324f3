// Copyright (c) 2023-2025 The yakGPT Authors
// SPDX-License-Identifier: MIT

package model

import (
	"github.com/google/uuid"

	"github.com/Clueed/yakGPT/internal/util"
)

// =============================================================================
// ROLE TYPE
// =============================================================================

// Role identifies the sender of a message. It is fixed at creation and never
// changes afterwards.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// String returns the string representation of the role.
func (r Role) String() string {
	return string(r)
}

// Valid reports whether the role is one of the known values.
func (r Role) Valid() bool {
	switch r {
	case RoleSystem, RoleUser, RoleAssistant:
		return true
	}
	return false
}

// DisplayName returns a human-readable name for the role.
func (r Role) DisplayName() string {
	switch r {
	case RoleUser:
		return "You"
	case RoleAssistant:
		return "Assistant"
	case RoleSystem:
		return "System"
	default:
		return string(r)
	}
}

// =============================================================================
// MESSAGE TYPE
// =============================================================================

// Message is one turn in a chat. Content is appended to incrementally while
// an assistant reply streams in, and replaced wholesale on edit.
type Message struct {
	ID      string `json:"id"`
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// NewMessage creates a message with a generated ID.
func NewMessage(role Role, content string) *Message {
	return &Message{
		ID:      uuid.New().String(),
		Role:    role,
		Content: content,
	}
}

// NewUserMessage creates a new user message.
func NewUserMessage(content string) *Message {
	return NewMessage(RoleUser, content)
}

// NewSystemMessage creates a new system message.
func NewSystemMessage(content string) *Message {
	return NewMessage(RoleSystem, content)
}

// NewAssistantMessage creates an empty assistant message, the shape a
// streaming reply starts from.
func NewAssistantMessage() *Message {
	return NewMessage(RoleAssistant, "")
}

// Preview returns a single-line, truncated preview of the message content.
func (m *Message) Preview(maxRunes int) string {
	return util.TruncateRunes(util.CollapseWhitespace(m.Content), maxRunes)
}

// IsEmpty reports whether the message has no content.
func (m *Message) IsEmpty() bool {
	return len(m.Content) == 0
}

// Clone returns a copy of the message.
func (m *Message) Clone() *Message {
	cp := *m
	return &cp
}
