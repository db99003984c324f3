// Copyright (c) 2023-2025 The yakGPT Authors
// SPDX-License-Identifier: MIT

package stream

// =============================================================================
// COMPLETION CHUNK
// =============================================================================

// Chunk is one decoded element of an OpenAI-compatible streaming completion
// response.
type Chunk struct {
	ID      string   `json:"id"`
	Object  string   `json:"object"`
	Model   string   `json:"model"`
	Choices []Choice `json:"choices"`
}

// Choice is one alternative within a chunk. Streaming requests carry a
// single choice in practice.
type Choice struct {
	Index        int    `json:"index"`
	Delta        Delta  `json:"delta"`
	FinishReason string `json:"finish_reason"`
}

// Delta is the incremental payload of a choice. The first chunk of a turn
// carries the role; later chunks carry content fragments.
type Delta struct {
	Role    string `json:"role,omitempty"`
	Content string `json:"content,omitempty"`
}

// Role returns the role from the first choice's delta, or "".
func (c Chunk) Role() string {
	if len(c.Choices) > 0 {
		return c.Choices[0].Delta.Role
	}
	return ""
}

// Content returns the content fragment from the first choice's delta, or "".
func (c Chunk) Content() string {
	if len(c.Choices) > 0 {
		return c.Choices[0].Delta.Content
	}
	return ""
}

// FinishReason returns the finish reason of the first choice, or "".
func (c Chunk) FinishReason() string {
	if len(c.Choices) > 0 {
		return c.Choices[0].FinishReason
	}
	return ""
}

// IsDone reports whether the chunk carries a finish reason.
func (c Chunk) IsDone() bool {
	return c.FinishReason() != ""
}
