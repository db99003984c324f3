// Copyright (c) 2023-2025 The yakGPT Authors
// SPDX-License-Identifier: MIT

package util

import "strings"

// TruncateRunes truncates a string to at most maxRunes characters, appending
// "..." when it had to cut. Rune-based so multi-byte UTF-8 never gets split.
func TruncateRunes(s string, maxRunes int) string {
	if maxRunes <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= maxRunes {
		return s
	}
	if maxRunes <= 3 {
		return string(runes[:maxRunes])
	}
	return string(runes[:maxRunes-3]) + "..."
}

// CollapseWhitespace replaces newlines and carriage returns with spaces so a
// multi-line message can be shown as a one-line title or preview.
func CollapseWhitespace(s string) string {
	s = strings.ReplaceAll(s, "\r\n", " ")
	s = strings.ReplaceAll(s, "\n", " ")
	s = strings.ReplaceAll(s, "\r", " ")
	return strings.TrimSpace(s)
}
