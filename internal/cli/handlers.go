// Copyright (c) 2023-2025 The yakGPT Authors
// SPDX-License-Identifier: MIT

package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/Clueed/yakGPT/internal/history"
	"github.com/Clueed/yakGPT/internal/keyring"
	"github.com/Clueed/yakGPT/internal/model"
	"github.com/Clueed/yakGPT/internal/provider"
	"github.com/Clueed/yakGPT/internal/settings"
	"github.com/Clueed/yakGPT/internal/storage"
	"github.com/Clueed/yakGPT/internal/store"
	"github.com/Clueed/yakGPT/internal/stream"
	"github.com/Clueed/yakGPT/internal/util"
)

// maxTitleRunes bounds auto-generated chat titles.
const maxTitleRunes = 50

// env is everything a command needs: the store backed by the database, and
// the effective settings.
type env struct {
	store    *store.Store
	db       *storage.DB
	settings settings.Settings
}

func openEnv() (*env, error) {
	dbPath, err := storage.DefaultPath()
	if err != nil {
		return nil, err
	}
	db, err := storage.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open chat database: %w", err)
	}

	chats, err := db.LoadChats()
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to load chats: %w", err)
	}

	s := store.New().
		WithPersister(db).
		WithPersistErrorHandler(func(err error) {
			fmt.Fprintf(os.Stderr, "warning: failed to persist chat: %v\n", err)
		})
	s.Load(chats)

	settingsPath, err := settings.DefaultPath()
	if err != nil {
		db.Close()
		return nil, err
	}
	cfg, err := settings.Load(settingsPath)
	if err != nil {
		db.Close()
		return nil, err
	}

	return &env{store: s, db: db, settings: cfg}, nil
}

func (e *env) close() {
	e.db.Close()
}

// resolveChat finds a chat by full ID or unique prefix.
func resolveChat(s *store.Store, idOrPrefix string) (*model.Chat, error) {
	if idOrPrefix == "" {
		return nil, fmt.Errorf("missing chat id")
	}
	if c, ok := s.Chat(idOrPrefix); ok {
		return c, nil
	}

	var match *model.Chat
	for _, c := range s.Chats() {
		if strings.HasPrefix(c.ID, idOrPrefix) {
			if match != nil {
				return nil, fmt.Errorf("chat id prefix %q is ambiguous", idOrPrefix)
			}
			match = c
		}
	}
	if match == nil {
		return nil, fmt.Errorf("no chat matches %q", idOrPrefix)
	}
	return match, nil
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// =============================================================================
// HISTORY
// =============================================================================

// HandleHistory lists all chats bucketed into date groups, newest first.
func HandleHistory(args Args) error {
	e, err := openEnv()
	if err != nil {
		return err
	}
	defer e.close()

	groups := history.GroupChatsByDate(time.Now(), e.store.Chats(), history.DefaultDateGroups())

	if args.JSON {
		return json.NewEncoder(os.Stdout).Encode(groups)
	}

	if len(groups) == 0 {
		fmt.Println("No chats yet. Start one with: yakgpt send \"hello\"")
		return nil
	}

	for _, g := range groups {
		fmt.Printf("%s\n", g.Label)
		for _, c := range g.Chats {
			fmt.Printf("  %s  %s (%d messages)\n", shortID(c.ID), c.DisplayTitle(), c.MessageCount())
		}
	}
	return nil
}

// HandleShow prints one chat's conversation.
func HandleShow(args Args) error {
	e, err := openEnv()
	if err != nil {
		return err
	}
	defer e.close()

	c, err := resolveChat(e.store, args.ChatID)
	if err != nil {
		return err
	}

	if args.JSON {
		return json.NewEncoder(os.Stdout).Encode(c)
	}

	fmt.Printf("%s  %s\n\n", shortID(c.ID), c.DisplayTitle())
	for _, m := range c.Messages {
		fmt.Printf("[%s]\n%s\n\n", m.Role.DisplayName(), m.Content)
	}
	return nil
}

// HandleNew creates an empty chat and prints its id.
func HandleNew(args Args) error {
	e, err := openEnv()
	if err != nil {
		return err
	}
	defer e.close()

	c := e.store.CreateChat()
	fmt.Println(c.ID)
	return nil
}

// HandleDelete removes one chat.
func HandleDelete(args Args) error {
	e, err := openEnv()
	if err != nil {
		return err
	}
	defer e.close()

	c, err := resolveChat(e.store, args.ChatID)
	if err != nil {
		return err
	}
	e.store.DeleteChat(c.ID)
	if !args.Quiet {
		fmt.Printf("deleted %s\n", shortID(c.ID))
	}
	return nil
}

// HandleClear removes all chats.
func HandleClear(args Args) error {
	e, err := openEnv()
	if err != nil {
		return err
	}
	defer e.close()

	n := e.store.Count()
	e.store.ClearChats()
	if !args.Quiet {
		fmt.Printf("deleted %d chats\n", n)
	}
	return nil
}

// =============================================================================
// SEND
// =============================================================================

// HandleSend appends the prompt to a chat (creating one when --chat is not
// given) and streams the assistant's answer to stdout.
func HandleSend(args Args) error {
	if strings.TrimSpace(args.Query) == "" {
		return fmt.Errorf("nothing to send; usage: yakgpt send \"prompt\"")
	}

	e, err := openEnv()
	if err != nil {
		return err
	}
	defer e.close()

	apiKey, err := loadAPIKey()
	if err != nil {
		return err
	}

	var chat *model.Chat
	if args.ChatID != "" {
		chat, err = resolveChat(e.store, args.ChatID)
		if err != nil {
			return err
		}
	} else {
		chat = e.store.CreateChat()
	}

	e.store.AppendMessage(chat.ID, model.NewUserMessage(args.Query))
	if chat.Title == "" && e.settings.AutoTitle {
		title := util.TruncateRunes(util.CollapseWhitespace(args.Query), maxTitleRunes)
		e.store.UpdateChat(chat.ID, model.ChatUpdate{Title: &title})
	}

	cfg := e.settings
	if m := args.Options["model"]; m != "" {
		cfg.Model = m
	}

	req := provider.NewCompletionRequest(cfg, provider.MessagesFromChat(chat))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	asm := stream.NewAssembler(e.store, chat.ID)
	client := provider.NewClient(apiKey)

	err = client.ChatStream(ctx, req, func(chunk stream.Chunk) {
		asm.Feed(chunk)
		fmt.Print(chunk.Content())
	})
	fmt.Println()

	if err != nil {
		// Whatever streamed before the failure is already in the store.
		asm.Cancel()
		return fmt.Errorf("completion failed: %w", err)
	}
	return nil
}

// loadAPIKey prefers the environment, then the keyring.
func loadAPIKey() (string, error) {
	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		return key, nil
	}

	dir, err := keyring.DefaultDir()
	if err != nil {
		return "", err
	}
	k, err := keyring.Open(dir, os.Getenv("YAKGPT_PASSPHRASE"))
	if err != nil {
		return "", err
	}
	key, err := k.Get(keyring.ProviderOpenAI)
	if err != nil {
		return "", fmt.Errorf("no API key configured; run: yakgpt key set openai <key>")
	}
	return key, nil
}
