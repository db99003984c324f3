// Copyright (c) 2023-2025 The yakGPT Authors
// SPDX-License-Identifier: MIT

package store

import (
	"sync"
	"time"

	"github.com/Clueed/yakGPT/internal/model"
)

// =============================================================================
// PERSISTER
// =============================================================================

// Persister is the durable backend the store writes through to. Implemented
// by storage.DB; tests swap in a fake.
type Persister interface {
	SaveChat(*model.Chat) error
	DeleteChat(id string) error
	Clear() error
}

// =============================================================================
// STORE
// =============================================================================

// Store is the sole owner of the chat collection. Operations referencing an
// unknown chat or message ID are silent no-ops: the UI races mutations
// against deletion (delete-while-editing, delete-while-regenerating) and
// must stay idempotent.
//
// The mutex exists because streaming replies mutate the active message from
// the transport goroutine while the view reads on its own.
type Store struct {
	mu    sync.RWMutex
	chats []*model.Chat // insertion order
	byID  map[string]*model.Chat

	persist      Persister
	onPersistErr func(error)
	now          func() time.Time

	subMu   sync.Mutex
	subs    map[int]func()
	nextSub int
}

// New creates an empty store with no persistence.
func New() *Store {
	return &Store{
		byID: make(map[string]*model.Chat),
		now:  time.Now,
		subs: make(map[int]func()),
	}
}

// WithPersister attaches a durable backend. Every mutation is written
// through; persistence failures are reported to the handler set with
// WithPersistErrorHandler and never surface as operation failures.
func (s *Store) WithPersister(p Persister) *Store {
	s.persist = p
	return s
}

// WithPersistErrorHandler sets the callback invoked when a write-through
// fails.
func (s *Store) WithPersistErrorHandler(fn func(error)) *Store {
	s.onPersistErr = fn
	return s
}

// WithClock overrides the time source. Tests freeze it.
func (s *Store) WithClock(now func() time.Time) *Store {
	s.now = now
	return s
}

// Load seeds the store with already-persisted chats, normally the result of
// storage.LoadChats at startup. It does not write back or notify.
func (s *Store) Load(chats []*model.Chat) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.chats = append([]*model.Chat(nil), chats...)
	s.byID = make(map[string]*model.Chat, len(chats))
	for _, c := range s.chats {
		s.byID[c.ID] = c
	}
}

// =============================================================================
// SUBSCRIPTIONS
// =============================================================================

// Subscribe registers a callback invoked after every state change. The
// returned function unsubscribes.
func (s *Store) Subscribe(fn func()) (unsubscribe func()) {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	return func() {
		s.subMu.Lock()
		defer s.subMu.Unlock()
		delete(s.subs, id)
	}
}

// notify runs outside the state lock so subscribers may read the store.
func (s *Store) notify() {
	s.subMu.Lock()
	fns := make([]func(), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.subMu.Unlock()
	for _, fn := range fns {
		fn()
	}
}

func (s *Store) persistChat(c *model.Chat) {
	if s.persist == nil {
		return
	}
	if err := s.persist.SaveChat(c); err != nil && s.onPersistErr != nil {
		s.onPersistErr(err)
	}
}

// =============================================================================
// CHAT OPERATIONS
// =============================================================================

// CreateChat creates an empty chat, addressable immediately, and returns it.
func (s *Store) CreateChat() *model.Chat {
	s.mu.Lock()
	chat := model.NewChat(s.now())
	s.chats = append(s.chats, chat)
	s.byID[chat.ID] = chat
	s.persistChat(chat)
	s.mu.Unlock()

	s.notify()
	return chat
}

// UpdateChat merges the given fields into the chat with the given ID.
// Unknown IDs are a no-op.
func (s *Store) UpdateChat(id string, upd model.ChatUpdate) {
	s.mu.Lock()
	chat, ok := s.byID[id]
	if !ok {
		s.mu.Unlock()
		return
	}
	chat.Apply(upd)
	s.persistChat(chat)
	s.mu.Unlock()

	s.notify()
}

// DeleteChat removes the chat and all its messages. Unknown IDs are a no-op.
// Navigating away from a deleted active chat is the caller's job.
func (s *Store) DeleteChat(id string) {
	s.mu.Lock()
	if _, ok := s.byID[id]; !ok {
		s.mu.Unlock()
		return
	}
	delete(s.byID, id)
	for i, c := range s.chats {
		if c.ID == id {
			s.chats = append(s.chats[:i], s.chats[i+1:]...)
			break
		}
	}
	if s.persist != nil {
		if err := s.persist.DeleteChat(id); err != nil && s.onPersistErr != nil {
			s.onPersistErr(err)
		}
	}
	s.mu.Unlock()

	s.notify()
}

// ClearChats removes every chat unconditionally.
func (s *Store) ClearChats() {
	s.mu.Lock()
	s.chats = nil
	s.byID = make(map[string]*model.Chat)
	if s.persist != nil {
		if err := s.persist.Clear(); err != nil && s.onPersistErr != nil {
			s.onPersistErr(err)
		}
	}
	s.mu.Unlock()

	s.notify()
}

// =============================================================================
// MESSAGE OPERATIONS
// =============================================================================

// AppendMessage adds a message to the end of the chat's message list.
func (s *Store) AppendMessage(chatID string, msg *model.Message) {
	s.mu.Lock()
	chat, ok := s.byID[chatID]
	if !ok {
		s.mu.Unlock()
		return
	}
	chat.Messages = append(chat.Messages, msg)
	s.persistChat(chat)
	s.mu.Unlock()

	s.notify()
}

// EditMessage replaces the content of an existing message in place. Role and
// ID never change.
func (s *Store) EditMessage(chatID, messageID, newContent string) {
	s.mu.Lock()
	chat, ok := s.byID[chatID]
	if !ok {
		s.mu.Unlock()
		return
	}
	msg := chat.MessageByID(messageID)
	if msg == nil {
		s.mu.Unlock()
		return
	}
	msg.Content = newContent
	s.persistChat(chat)
	s.mu.Unlock()

	s.notify()
}

// DeleteMessage removes a single message without touching its neighbours.
func (s *Store) DeleteMessage(chatID, messageID string) {
	s.mu.Lock()
	chat, ok := s.byID[chatID]
	if !ok {
		s.mu.Unlock()
		return
	}
	idx := chat.MessageIndex(messageID)
	if idx < 0 {
		s.mu.Unlock()
		return
	}
	chat.Messages = append(chat.Messages[:idx], chat.Messages[idx+1:]...)
	s.persistChat(chat)
	s.mu.Unlock()

	s.notify()
}

// TruncateForRegenerate cuts the chat's message list to just before the
// target assistant message, discarding the target and everything after it —
// including any stale regenerated content. The remaining messages are the
// context for the fresh completion the caller then starts. Returns false
// (no-op) when the chat or message is missing or the target is not an
// assistant message.
func (s *Store) TruncateForRegenerate(chatID, messageID string) bool {
	s.mu.Lock()
	chat, ok := s.byID[chatID]
	if !ok {
		s.mu.Unlock()
		return false
	}
	idx := chat.MessageIndex(messageID)
	if idx < 0 || chat.Messages[idx].Role != model.RoleAssistant {
		s.mu.Unlock()
		return false
	}
	chat.Messages = chat.Messages[:idx]
	s.persistChat(chat)
	s.mu.Unlock()

	s.notify()
	return true
}

// =============================================================================
// READ ACCESSORS
// =============================================================================

// Chats returns a snapshot of the chat list in insertion order.
func (s *Store) Chats() []*model.Chat {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]*model.Chat(nil), s.chats...)
}

// Chat returns the chat with the given ID.
func (s *Store) Chat(id string) (*model.Chat, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	chat, ok := s.byID[id]
	return chat, ok
}

// LastMessage returns the newest message of the given chat, or nil.
func (s *Store) LastMessage(chatID string) *model.Message {
	s.mu.RLock()
	defer s.mu.RUnlock()
	chat, ok := s.byID[chatID]
	if !ok {
		return nil
	}
	return chat.LastMessage()
}

// Count returns the number of chats.
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.chats)
}
