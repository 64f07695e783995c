package gateway

import (
	"context"
	"os"
)

// Role is the author role for a chat message.
type Role string

const (
	// RoleSystem carries instructions for the model.
	RoleSystem Role = "system"
	// RoleUser is a user-authored message.
	RoleUser Role = "user"
	// RoleAssistant is a model-authored message.
	RoleAssistant Role = "assistant"
)

// ChatMessage is a single turn in a conversation.
type ChatMessage struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// CompletionRequest is the provider-agnostic request payload. Model is an
// advisory hint; providers may silently substitute their own default.
type CompletionRequest struct {
	Messages    []ChatMessage `json:"messages"`
	Model       string        `json:"model,omitempty"`
	Temperature float32       `json:"temperature,omitempty"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
}

// CompletionResponse is the sole output contract every provider must produce.
// Provider is never empty; it is "none" only when the whole chain failed.
type CompletionResponse struct {
	Content  string `json:"content"`
	Provider string `json:"provider"`
	Model    string `json:"model"`
}

// Provider is one external text-generation backend in the fallback chain.
type Provider interface {
	// Name is the stable tag reported in CompletionResponse.Provider.
	Name() string
	// Available reports whether the provider's credential is present in the
	// environment. Checked fresh on every call, never cached.
	Available() bool
	// Complete translates the request into the provider's native call shape,
	// invokes it, and normalizes the reply.
	Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error)
}

const defaultMaxTokens = 2000

func resolveMaxTokens(requested int) int {
	if requested > 0 {
		return requested
	}
	return defaultMaxTokens
}

// envAPIKey returns the first non-empty value among the named env vars.
func envAPIKey(names ...string) string {
	for _, name := range names {
		if v := os.Getenv(name); v != "" {
			return v
		}
	}
	return ""
}
