// Copyright (c) 2023-2025 The yakGPT Authors
// SPDX-License-Identifier: MIT

package provider

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Clueed/yakGPT/internal/model"
	"github.com/Clueed/yakGPT/internal/settings"
	"github.com/Clueed/yakGPT/internal/stream"
)

func testClient(serverURL string) *Client {
	// High rate limit so tests never sit in the limiter.
	return NewClient("sk-test-key").WithBaseURL(serverURL).WithRateLimit(1000, 1000)
}

// =============================================================================
// REQUEST BUILDING TESTS
// =============================================================================

func TestNewCompletionRequestCarriesSettings(t *testing.T) {
	s := settings.Default()
	s.Model = "gpt-4"
	s.Temperature = 0.7
	s.MaxTokens = 256
	s.LogitBias = `{"123": 50}`

	req := NewCompletionRequest(s, []ChatMessage{{Role: "user", Content: "hi"}})

	if req.Model != "gpt-4" || req.Temperature != 0.7 || req.MaxTokens != 256 {
		t.Errorf("settings not carried: %+v", req)
	}
	if req.LogitBias["123"] != 50 {
		t.Errorf("logit bias not parsed: %v", req.LogitBias)
	}
	if len(req.Messages) != 1 || req.Messages[0].Content != "hi" {
		t.Errorf("messages not carried: %+v", req.Messages)
	}
}

func TestMessagesFromChatPreservesOrder(t *testing.T) {
	c := model.NewChat(time.Now())
	c.Messages = []*model.Message{
		model.NewSystemMessage("be brief"),
		model.NewUserMessage("hello"),
		model.NewMessage(model.RoleAssistant, "hi"),
	}

	msgs := MessagesFromChat(c)
	if len(msgs) != 3 {
		t.Fatalf("expected 3 messages, got %d", len(msgs))
	}
	want := []string{"system", "user", "assistant"}
	for i, m := range msgs {
		if m.Role != want[i] {
			t.Errorf("message %d role = %q, want %q", i, m.Role, want[i])
		}
	}
}

// =============================================================================
// CHAT TESTS
// =============================================================================

func TestChatSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer sk-test-key" {
			t.Errorf("authorization header = %q", got)
		}

		var req CompletionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("bad request body: %v", err)
		}
		if req.Stream {
			t.Error("non-streaming call must send stream=false")
		}

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"id": "cmpl-1",
			"model": "gpt-3.5-turbo",
			"choices": [{"message": {"role": "assistant", "content": "hello"}, "finish_reason": "stop"}],
			"usage": {"prompt_tokens": 5, "completion_tokens": 2, "total_tokens": 7}
		}`))
	}))
	defer server.Close()

	resp, err := testClient(server.URL).Chat(context.Background(), CompletionRequest{
		Model:    "gpt-3.5-turbo",
		Messages: []ChatMessage{{Role: "user", Content: "hi"}},
	})
	if err != nil {
		t.Fatalf("chat failed: %v", err)
	}
	if resp.Content() != "hello" {
		t.Errorf("content = %q", resp.Content())
	}
	if resp.Usage.TotalTokens != 7 {
		t.Errorf("total tokens = %d", resp.Usage.TotalTokens)
	}
}

func TestChatNotConfigured(t *testing.T) {
	c := NewClient("")
	if _, err := c.Chat(context.Background(), CompletionRequest{}); !errors.Is(err, ErrNotConfigured) {
		t.Errorf("expected ErrNotConfigured, got %v", err)
	}
}

func TestChatAuthFailureNotRetried(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error": {"code": "invalid_api_key", "message": "bad key"}}`))
	}))
	defer server.Close()

	_, err := testClient(server.URL).Chat(context.Background(), CompletionRequest{})
	if !errors.Is(err, ErrAuthFailed) {
		t.Fatalf("expected ErrAuthFailed, got %v", err)
	}
	if n := calls.Load(); n != 1 {
		t.Errorf("auth failure retried %d times", n)
	}
}

func TestChatRetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte(`{"error": {"message": "overloaded"}}`))
			return
		}
		w.Write([]byte(`{"choices": [{"message": {"role": "assistant", "content": "ok"}}]}`))
	}))
	defer server.Close()

	resp, err := testClient(server.URL).Chat(context.Background(), CompletionRequest{})
	if err != nil {
		t.Fatalf("expected retry to succeed, got %v", err)
	}
	if resp.Content() != "ok" {
		t.Errorf("content = %q", resp.Content())
	}
	if n := calls.Load(); n != 3 {
		t.Errorf("expected 3 attempts, got %d", n)
	}
}

func TestChatErrorMapping(t *testing.T) {
	tests := []struct {
		status int
		want   error
	}{
		{http.StatusUnauthorized, ErrAuthFailed},
		{http.StatusPaymentRequired, ErrQuotaExceeded},
		{http.StatusNotFound, ErrModelNotFound},
	}

	for _, tt := range tests {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(tt.status)
			w.Write([]byte(`{"error": {"message": "nope"}}`))
		}))

		_, err := testClient(server.URL).Chat(context.Background(), CompletionRequest{})
		if !errors.Is(err, tt.want) {
			t.Errorf("status %d: expected %v, got %v", tt.status, tt.want, err)
		}
		server.Close()
	}
}

// =============================================================================
// STREAMING TESTS
// =============================================================================

func TestChatStream(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req CompletionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("bad request body: %v", err)
		}
		if !req.Stream {
			t.Error("streaming call must send stream=true")
		}

		w.Header().Set("Content-Type", "text/event-stream")
		events := []string{
			`{"choices":[{"delta":{"role":"assistant"}}]}`,
			`{"choices":[{"delta":{"content":"Hel"}}]}`,
			`{"choices":[{"delta":{"content":"lo"}}]}`,
			`{"choices":[{"delta":{},"finish_reason":"stop"}]}`,
			`[DONE]`,
		}
		for _, e := range events {
			w.Write([]byte("data: " + e + "\n\n"))
		}
	}))
	defer server.Close()

	var got strings.Builder
	var finished bool
	err := testClient(server.URL).ChatStream(context.Background(), CompletionRequest{}, func(c stream.Chunk) {
		got.WriteString(c.Content())
		if c.IsDone() {
			finished = true
		}
	})
	if err != nil {
		t.Fatalf("stream failed: %v", err)
	}
	if got.String() != "Hello" {
		t.Errorf("content = %q", got.String())
	}
	if !finished {
		t.Error("finish reason never delivered")
	}
}

func TestChatStreamErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error": {"message": "slow down"}}`))
	}))
	defer server.Close()

	err := testClient(server.URL).ChatStream(context.Background(), CompletionRequest{}, func(stream.Chunk) {
		t.Error("callback must not run on error response")
	})
	if !errors.Is(err, ErrRateLimited) {
		t.Errorf("expected ErrRateLimited, got %v", err)
	}
}

// =============================================================================
// KEY VALIDATION TESTS
// =============================================================================

func TestValidateKey(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		want    bool
		wantErr bool
	}{
		{"usable key", http.StatusOK, true, false},
		{"rejected key", http.StatusUnauthorized, false, false},
		{"forbidden key", http.StatusForbidden, false, false},
		{"server down", http.StatusInternalServerError, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != "/models" {
					t.Errorf("unexpected path %q", r.URL.Path)
				}
				w.WriteHeader(tt.status)
			}))
			defer server.Close()

			ok, err := testClient(server.URL).ValidateKey(context.Background(), "sk-candidate")
			if (err != nil) != tt.wantErr {
				t.Fatalf("error = %v, wantErr %v", err, tt.wantErr)
			}
			if ok != tt.want {
				t.Errorf("ok = %v, want %v", ok, tt.want)
			}
		})
	}
}

func TestValidateKeyEmptyKey(t *testing.T) {
	ok, err := NewClient("").ValidateKey(context.Background(), "   ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Error("blank key must not validate")
	}
}

// =============================================================================
// FINGERPRINT TESTS
// =============================================================================

func TestKeyFingerprintNeverEchoesKey(t *testing.T) {
	c := NewClient("sk-very-secret-key")
	fp := c.KeyFingerprint()
	if strings.Contains(fp, "secret") || len(fp) != 8 {
		t.Errorf("fingerprint leaks or has wrong shape: %q", fp)
	}
	if NewClient("").KeyFingerprint() != "none" {
		t.Error("empty key fingerprint should be none")
	}
}
