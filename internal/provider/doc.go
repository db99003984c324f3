// Copyright (c) 2023-2025 The yakGPT Authors
// SPDX-License-Identifier: MIT

// Package provider implements the OpenAI-compatible completion client.
//
// The client speaks the chat-completions wire format: non-streaming requests
// return the whole answer, streaming requests deliver SSE chunks that the
// stream package assembles into a message. Retries with exponential backoff
// cover transient failures; an in-process rate limiter keeps bursts of sends
// under the provider's request ceiling.
package provider
