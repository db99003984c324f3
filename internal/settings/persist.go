// Copyright (c) 2023-2025 The yakGPT Authors
// SPDX-License-Identifier: MIT

package settings

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/BurntSushi/toml"

	"github.com/Clueed/yakGPT/internal/util"
)

// DefaultPath returns the default settings file location,
// ~/.yakgpt/settings.toml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, ".yakgpt", "settings.toml"), nil
}

// Load reads settings from path. Missing file returns the defaults; missing
// keys keep their default values; the result is validated before returning.
func Load(path string) (Settings, error) {
	s := Default()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		s.applyEnv()
		if err := s.Validate(); err != nil {
			return Default(), fmt.Errorf("invalid settings: %w", err)
		}
		return s, nil
	}

	if _, err := toml.DecodeFile(path, &s); err != nil {
		return Default(), fmt.Errorf("failed to decode settings file: %w", err)
	}
	s.fillDefaults()
	s.applyEnv()

	if err := s.Validate(); err != nil {
		return Default(), fmt.Errorf("invalid settings: %w", err)
	}
	return s, nil
}

// applyEnv overlays environment overrides on top of file values. Only the
// generation knobs that make sense per-invocation are exposed.
func (s *Settings) applyEnv() {
	if v := os.Getenv("YAKGPT_MODEL"); v != "" {
		s.Model = v
	}
	if v := os.Getenv("YAKGPT_TEMPERATURE"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			s.Temperature = f
		}
	}
	if v := os.Getenv("YAKGPT_MAX_TOKENS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			s.MaxTokens = n
		}
	}
}

// Save validates s and writes it to path. The write is atomic and the file
// is created 0600: the settings file sits next to credentials configuration
// and should not be world-readable.
func Save(s Settings, path string) error {
	if err := s.Validate(); err != nil {
		return err
	}

	var buf bytes.Buffer
	buf.WriteString("# yakGPT settings\n")
	buf.WriteString("# Edited via the settings UI; manual changes are picked up on save.\n\n")
	if err := toml.NewEncoder(&buf).Encode(s); err != nil {
		return fmt.Errorf("failed to encode settings: %w", err)
	}

	if err := util.AtomicWriteFile(path, buf.Bytes(), 0600); err != nil {
		return fmt.Errorf("failed to write settings file: %w", err)
	}
	return nil
}
