// Copyright (c) 2023-2025 The yakGPT Authors
// SPDX-License-Identifier: MIT

package model

import (
	"testing"
	"time"
)

// =============================================================================
// ROLE TESTS
// =============================================================================

func TestRole_Valid(t *testing.T) {
	tests := []struct {
		role Role
		want bool
	}{
		{RoleSystem, true},
		{RoleUser, true},
		{RoleAssistant, true},
		{Role("tool"), false},
		{Role(""), false},
	}

	for _, tc := range tests {
		if got := tc.role.Valid(); got != tc.want {
			t.Errorf("Role(%q).Valid() = %v, want %v", tc.role, got, tc.want)
		}
	}
}

// =============================================================================
// MESSAGE TESTS
// =============================================================================

func TestNewMessage_GeneratesUniqueIDs(t *testing.T) {
	a := NewUserMessage("hi")
	b := NewUserMessage("hi")

	if a.ID == "" || b.ID == "" {
		t.Fatal("message IDs should not be empty")
	}
	if a.ID == b.ID {
		t.Error("message IDs should be unique")
	}
}

func TestNewAssistantMessage_StartsEmpty(t *testing.T) {
	msg := NewAssistantMessage()
	if msg.Role != RoleAssistant {
		t.Errorf("Role = %q, want %q", msg.Role, RoleAssistant)
	}
	if !msg.IsEmpty() {
		t.Error("new assistant message should have empty content")
	}
}

func TestMessage_Preview(t *testing.T) {
	msg := NewUserMessage("line one\nline two that is fairly long and keeps going")
	got := msg.Preview(20)
	if len([]rune(got)) > 20 {
		t.Errorf("Preview longer than limit: %q", got)
	}
	if got == "" {
		t.Error("Preview should not be empty")
	}
}

// =============================================================================
// CHAT TESTS
// =============================================================================

func TestNewChat(t *testing.T) {
	now := time.Now()
	chat := NewChat(now)

	if chat.ID == "" {
		t.Error("chat ID should not be empty")
	}
	if !chat.CreatedAt.Equal(now) {
		t.Errorf("CreatedAt = %v, want %v", chat.CreatedAt, now)
	}
	if !chat.IsEmpty() {
		t.Error("new chat should have no messages")
	}
	if chat.LastMessage() != nil {
		t.Error("LastMessage on empty chat should be nil")
	}
}

func TestChat_MessageLookup(t *testing.T) {
	chat := NewChat(time.Now())
	m1 := NewUserMessage("first")
	m2 := NewAssistantMessage()
	chat.Messages = append(chat.Messages, m1, m2)

	if got := chat.MessageByID(m1.ID); got != m1 {
		t.Error("MessageByID should find first message")
	}
	if got := chat.MessageIndex(m2.ID); got != 1 {
		t.Errorf("MessageIndex = %d, want 1", got)
	}
	if got := chat.MessageIndex("missing"); got != -1 {
		t.Errorf("MessageIndex for unknown id = %d, want -1", got)
	}
	if got := chat.LastMessage(); got != m2 {
		t.Error("LastMessage should return the newest message")
	}
}

func TestChat_Apply(t *testing.T) {
	chat := NewChat(time.Now())
	chat.TokensUsed = 10

	title := "renamed"
	tokens := 42
	chat.Apply(ChatUpdate{Title: &title, TokensUsed: &tokens})

	if chat.Title != "renamed" {
		t.Errorf("Title = %q, want %q", chat.Title, "renamed")
	}
	if chat.TokensUsed != 42 {
		t.Errorf("TokensUsed = %d, want 42", chat.TokensUsed)
	}

	// Nil fields leave values untouched.
	chat.Apply(ChatUpdate{})
	if chat.Title != "renamed" || chat.TokensUsed != 42 {
		t.Error("empty update should be a no-op")
	}
}

func TestChat_DisplayTitle(t *testing.T) {
	chat := NewChat(time.Now())
	if got := chat.DisplayTitle(); got != "New chat" {
		t.Errorf("DisplayTitle on empty chat = %q", got)
	}

	chat.Messages = append(chat.Messages, NewSystemMessage("sys"), NewUserMessage("how do yaks sleep?"))
	if got := chat.DisplayTitle(); got != "how do yaks sleep?" {
		t.Errorf("DisplayTitle = %q, want first user message", got)
	}

	chat.Title = "Yak facts"
	if got := chat.DisplayTitle(); got != "Yak facts" {
		t.Errorf("DisplayTitle = %q, want explicit title", got)
	}
}

func TestChat_Clone_IsDeep(t *testing.T) {
	chat := NewChat(time.Now())
	chat.Messages = append(chat.Messages, NewUserMessage("original"))

	clone := chat.Clone()
	clone.Messages[0].Content = "changed"

	if chat.Messages[0].Content != "original" {
		t.Error("mutating the clone must not affect the original")
	}
}
