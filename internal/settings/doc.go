// Copyright (c) 2023-2025 The yakGPT Authors
// SPDX-License-Identifier: MIT

// Package settings manages generation and voice parameters: typed defaults,
// per-field validation, the working form edited in the settings modal, TOML
// persistence, and hot reload when the file changes on disk.
package settings
