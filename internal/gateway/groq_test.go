package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestGroqProviderComplete_RequestAndResponse(t *testing.T) {
	t.Setenv("GROQ_API_KEY", "test-key")

	var gotAuth string
	var gotReq map[string]any

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
		gotAuth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Fatalf("decode request: %v", err)
		}

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"id":"chatcmpl-1",
			"object":"chat.completion",
			"model":"llama-3.3-70b-versatile",
			"choices":[{"index":0,"message":{"role":"assistant","content":"hello from groq"},"finish_reason":"stop"}],
			"usage":{"prompt_tokens":9,"completion_tokens":4,"total_tokens":13}
		}`))
	}))
	defer srv.Close()

	stats := &Stats{}
	p := newGroqProviderForTest(stats, srv.URL, srv.Client())

	resp, err := p.Complete(context.Background(), CompletionRequest{
		Messages:    []ChatMessage{{Role: RoleUser, Content: "say hello"}},
		Model:       "gpt-4o",
		Temperature: 0.7,
	})
	if err != nil {
		t.Fatalf("complete failed: %v", err)
	}

	if gotAuth != "Bearer test-key" {
		t.Fatalf("unexpected auth header: %q", gotAuth)
	}
	// The caller's model hint is ignored in favor of the Groq default.
	if gotReq["model"] != "llama-3.3-70b-versatile" {
		t.Fatalf("unexpected model in request: %#v", gotReq["model"])
	}
	if int(gotReq["max_tokens"].(float64)) != 2000 {
		t.Fatalf("expected default max_tokens 2000, got %#v", gotReq["max_tokens"])
	}

	if resp.Content != "hello from groq" {
		t.Fatalf("unexpected content: %q", resp.Content)
	}
	if resp.Provider != "groq" || resp.Model != "llama-3.3-70b-versatile" {
		t.Fatalf("unexpected attribution: %+v", resp)
	}
	if stats.TotalRequests() != 1 {
		t.Fatalf("expected 1 recorded request, got %d", stats.TotalRequests())
	}
}

func TestGroqProviderComplete_HTTPErrorDoesNotRecord(t *testing.T) {
	t.Setenv("GROQ_API_KEY", "test-key")

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, `{"error":{"message":"rate limit exceeded"}}`, http.StatusTooManyRequests)
	}))
	defer srv.Close()

	stats := &Stats{}
	p := newGroqProviderForTest(stats, srv.URL, srv.Client())

	_, err := p.Complete(context.Background(), CompletionRequest{
		Messages: []ChatMessage{{Role: RoleUser, Content: "hi"}},
	})
	if err == nil {
		t.Fatal("expected error from rate-limited upstream")
	}
	if stats.TotalRequests() != 0 {
		t.Fatalf("failed call must not be recorded, got %d", stats.TotalRequests())
	}
}

func TestGroqProviderAvailable(t *testing.T) {
	t.Setenv("GROQ_API_KEY", "")
	p := newGroqProvider(&Stats{})
	if p.Available() {
		t.Fatal("provider should be unavailable without a key")
	}
	t.Setenv("GROQ_API_KEY", "k")
	if !p.Available() {
		t.Fatal("provider should be available once the key is set")
	}
}
