// Copyright (c) 2023-2025 The yakGPT Authors
// SPDX-License-Identifier: MIT

// Package model contains the data structures for chats and messages.
package model
