// Copyright (c) 2023-2025 The yakGPT Authors
// SPDX-License-Identifier: MIT

// Package store owns the in-memory chat collection. Every mutation goes
// through the Store, which writes through to its persister and notifies
// subscribers so the view layer can re-render.
package store
