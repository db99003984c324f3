// Copyright (c) 2023-2025 The yakGPT Authors
// SPDX-License-Identifier: MIT

package settings

import (
	"path/filepath"
	"testing"
	"time"
)

func TestWatcherReloadsOnChange(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "settings.toml")
	if err := Save(Default(), path); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	reloaded := make(chan Settings, 1)
	w, err := NewWatcher(path, 50*time.Millisecond, func(s Settings) {
		select {
		case reloaded <- s:
		default:
		}
	})
	if err != nil {
		t.Fatalf("new watcher failed: %v", err)
	}
	defer w.Close()

	if err := w.Watch(); err != nil {
		t.Fatalf("watch failed: %v", err)
	}

	changed := Default()
	changed.Model = "gpt-4"
	if err := Save(changed, path); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	select {
	case got := <-reloaded:
		if got.Model != "gpt-4" {
			t.Errorf("reloaded model = %q, want %q", got.Model, "gpt-4")
		}
	case <-time.After(5 * time.Second):
		t.Fatal("reload callback never fired")
	}
}

func TestWatcherIgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "settings.toml")
	if err := Save(Default(), path); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	reloaded := make(chan Settings, 1)
	w, err := NewWatcher(path, 50*time.Millisecond, func(s Settings) {
		reloaded <- s
	})
	if err != nil {
		t.Fatalf("new watcher failed: %v", err)
	}
	defer w.Close()

	if err := w.Watch(); err != nil {
		t.Fatalf("watch failed: %v", err)
	}

	// A sibling file changing must not trigger a reload.
	if err := Save(Default(), filepath.Join(dir, "other.toml")); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	select {
	case <-reloaded:
		t.Fatal("reload fired for an unrelated file")
	case <-time.After(300 * time.Millisecond):
	}
}
