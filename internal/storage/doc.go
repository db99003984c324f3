// Copyright (c) 2023-2025 The yakGPT Authors
// SPDX-License-Identifier: MIT

// Package storage persists chat history in a local SQLite database so chats
// survive across sessions. The store loads everything at startup and is
// written through on every mutation.
package storage
