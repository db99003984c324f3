// Copyright (c) 2023-2025 The yakGPT Authors
// SPDX-License-Identifier: MIT

// Package util provides small shared helpers: crash-safe file writes and
// rune-aware string truncation.
package util
