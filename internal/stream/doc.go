// Copyright (c) 2023-2025 The yakGPT Authors
// SPDX-License-Identifier: MIT

// Package stream assembles a streaming chat completion into a chat message.
//
// The provider delivers an answer as a sequence of SSE chunks. The assembler
// consumes those chunks, creates the assistant message on the first role
// delta, grows its content with every content delta, and marks the turn done
// when a finish reason arrives. All mutation goes through the chat store, so
// subscribers see the message grow token by token.
package stream
