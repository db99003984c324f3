// Copyright (c) 2023-2025 The yakGPT Authors
// SPDX-License-Identifier: MIT

package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/Clueed/yakGPT/internal/model"
)

// ErrChatNotFound is returned when a chat does not exist in the database.
var ErrChatNotFound = errors.New("chat not found")

// =============================================================================
// DB
// =============================================================================

// DB wraps the SQLite chat history database.
type DB struct {
	db *sql.DB
}

// DefaultPath returns the default database location, ~/.yakgpt/chats.db.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, ".yakgpt", "chats.db"), nil
}

// Open opens (creating if necessary) the chat database at path.
func Open(path string) (*DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite supports a single writer; keep the pool at one connection.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA foreign_keys=ON",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to set pragma: %w", err)
		}
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	if _, err := db.Exec(initMetadata); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize metadata: %w", err)
	}

	return &DB{db: db}, nil
}

// Close closes the database.
func (d *DB) Close() error {
	return d.db.Close()
}

// =============================================================================
// LOAD
// =============================================================================

// LoadChats returns every persisted chat with its messages in conversation
// order. Chats come back oldest-created first; display ordering is the
// caller's concern.
func (d *DB) LoadChats() ([]*model.Chat, error) {
	rows, err := d.db.Query(
		`SELECT id, title, chosen_character, tokens_used, cost_incurred, created_at
		 FROM chats ORDER BY created_at ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query chats: %w", err)
	}
	defer rows.Close()

	var chats []*model.Chat
	byID := make(map[string]*model.Chat)

	for rows.Next() {
		var c model.Chat
		var createdNs int64
		if err := rows.Scan(&c.ID, &c.Title, &c.ChosenCharacter, &c.TokensUsed, &c.CostIncurred, &createdNs); err != nil {
			return nil, fmt.Errorf("failed to scan chat: %w", err)
		}
		c.CreatedAt = time.Unix(0, createdNs)
		c.Messages = make([]*model.Message, 0)
		chats = append(chats, &c)
		byID[c.ID] = &c
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	msgRows, err := d.db.Query(
		`SELECT id, chat_id, role, content FROM messages ORDER BY chat_id, seq ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query messages: %w", err)
	}
	defer msgRows.Close()

	for msgRows.Next() {
		var m model.Message
		var chatID string
		if err := msgRows.Scan(&m.ID, &chatID, &m.Role, &m.Content); err != nil {
			return nil, fmt.Errorf("failed to scan message: %w", err)
		}
		if chat, ok := byID[chatID]; ok {
			chat.Messages = append(chat.Messages, &m)
		}
	}
	if err := msgRows.Err(); err != nil {
		return nil, err
	}

	return chats, nil
}

// LoadChat returns a single chat by ID.
func (d *DB) LoadChat(id string) (*model.Chat, error) {
	var c model.Chat
	var createdNs int64
	err := d.db.QueryRow(
		`SELECT id, title, chosen_character, tokens_used, cost_incurred, created_at
		 FROM chats WHERE id = ?`, id).
		Scan(&c.ID, &c.Title, &c.ChosenCharacter, &c.TokensUsed, &c.CostIncurred, &createdNs)
	if err == sql.ErrNoRows {
		return nil, ErrChatNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load chat: %w", err)
	}
	c.CreatedAt = time.Unix(0, createdNs)

	rows, err := d.db.Query(
		`SELECT id, role, content FROM messages WHERE chat_id = ? ORDER BY seq ASC`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to query messages: %w", err)
	}
	defer rows.Close()

	c.Messages = make([]*model.Message, 0)
	for rows.Next() {
		var m model.Message
		if err := rows.Scan(&m.ID, &m.Role, &m.Content); err != nil {
			return nil, fmt.Errorf("failed to scan message: %w", err)
		}
		c.Messages = append(c.Messages, &m)
	}
	return &c, rows.Err()
}

// =============================================================================
// SAVE
// =============================================================================

// SaveChat writes the chat and its full message list, replacing any previous
// version. Chats stay small enough that rewriting the message rows in one
// transaction beats tracking per-message diffs.
func (d *DB) SaveChat(c *model.Chat) error {
	tx, err := d.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(
		`INSERT INTO chats (id, title, chosen_character, tokens_used, cost_incurred, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   title = excluded.title,
		   chosen_character = excluded.chosen_character,
		   tokens_used = excluded.tokens_used,
		   cost_incurred = excluded.cost_incurred`,
		c.ID, c.Title, c.ChosenCharacter, c.TokensUsed, c.CostIncurred, c.CreatedAt.UnixNano())
	if err != nil {
		return fmt.Errorf("failed to upsert chat: %w", err)
	}

	if _, err := tx.Exec(`DELETE FROM messages WHERE chat_id = ?`, c.ID); err != nil {
		return fmt.Errorf("failed to clear messages: %w", err)
	}

	stmt, err := tx.Prepare(
		`INSERT INTO messages (id, chat_id, seq, role, content) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, m := range c.Messages {
		if _, err := stmt.Exec(m.ID, c.ID, i, string(m.Role), m.Content); err != nil {
			return fmt.Errorf("failed to insert message: %w", err)
		}
	}

	return tx.Commit()
}

// =============================================================================
// DELETE
// =============================================================================

// DeleteChat removes a chat and, via the foreign key cascade, its messages.
// Deleting a chat that does not exist is not an error.
func (d *DB) DeleteChat(id string) error {
	_, err := d.db.Exec(`DELETE FROM chats WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete chat: %w", err)
	}
	return nil
}

// Clear removes every chat and message.
func (d *DB) Clear() error {
	tx, err := d.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM messages`); err != nil {
		return fmt.Errorf("failed to clear messages: %w", err)
	}
	if _, err := tx.Exec(`DELETE FROM chats`); err != nil {
		return fmt.Errorf("failed to clear chats: %w", err)
	}
	return tx.Commit()
}

// ChatCount returns the number of persisted chats.
func (d *DB) ChatCount() (int, error) {
	var n int
	err := d.db.QueryRow(`SELECT COUNT(*) FROM chats`).Scan(&n)
	return n, err
}
