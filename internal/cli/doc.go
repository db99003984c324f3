// Copyright (c) 2023-2025 The yakGPT Authors
// SPDX-License-Identifier: MIT

// Package cli parses yakgpt's command line and runs its commands. It is the
// terminal stand-in for the chat UI: every command is a thin dispatcher into
// the store, settings, keyring, and provider packages.
package cli
