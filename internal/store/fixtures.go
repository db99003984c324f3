// Copyright (c) 2023-2025 The yakGPT Authors
// SPDX-License-Identifier: MIT

package store

import (
	"math/rand"
	"time"

	"github.com/Clueed/yakGPT/internal/model"
)

var fixtureSnippets = []string{
	"Tell me about the history of the yak.",
	"Summarize the last paragraph in one sentence.",
	"Certainly. Here is a short overview of the topic.",
	"Can you rewrite that in a friendlier tone?",
	"That depends on the altitude and the season.",
	"Write a haiku about mountain pastures.",
}

// PopulateFakeChats fills the store with n synthetic chats spread over the
// past year, each holding a short system/user/assistant exchange. Meant for
// demos and UI development, not tests with exact expectations.
func PopulateFakeChats(s *Store, now time.Time, n int) {
	rng := rand.New(rand.NewSource(now.UnixNano()))

	for i := 0; i < n; i++ {
		age := time.Duration(rng.Int63n(int64(365 * 24 * time.Hour)))
		chat := model.NewChat(now.Add(-age))
		chat.Title = fixtureSnippets[rng.Intn(len(fixtureSnippets))]
		chat.Messages = append(chat.Messages,
			model.NewSystemMessage("You are a helpful assistant."),
			model.NewUserMessage(fixtureSnippets[rng.Intn(len(fixtureSnippets))]),
			model.NewMessage(model.RoleAssistant, fixtureSnippets[rng.Intn(len(fixtureSnippets))]),
		)

		s.mu.Lock()
		s.chats = append(s.chats, chat)
		s.byID[chat.ID] = chat
		s.persistChat(chat)
		s.mu.Unlock()
	}
	s.notify()
}
