package gateway

import (
	"context"
	"errors"
	"testing"
)

// fakeProvider scripts one provider slot in the chain.
type fakeProvider struct {
	name      string
	available bool
	resp      *CompletionResponse
	err       error
	stats     *Stats
	calls     int
}

func (f *fakeProvider) Name() string    { return f.name }
func (f *fakeProvider) Available() bool { return f.available }

func (f *fakeProvider) Complete(_ context.Context, _ CompletionRequest) (*CompletionResponse, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	if f.resp != nil && f.stats != nil {
		f.stats.record()
	}
	return f.resp, nil
}

func clearProviderEnv(t *testing.T) {
	t.Helper()
	for _, name := range []string{
		"GROQ_API_KEY", "TOGETHER_API_KEY", "GEMINI_API_KEY", "GOOGLE_API_KEY",
		"HUGGINGFACE_API_KEY", "HF_API_KEY", "OPENAI_API_KEY", "ANTHROPIC_API_KEY",
	} {
		t.Setenv(name, "")
	}
}

func TestCompletion_NoCredentialsReturnsSentinel(t *testing.T) {
	clearProviderEnv(t)

	g := New(nil)
	req := CompletionRequest{Messages: []ChatMessage{{Role: RoleUser, Content: "hi"}}}

	first := g.Completion(context.Background(), req)
	if first.Provider != "none" || first.Model != "none" {
		t.Fatalf("expected sentinel response, got %+v", first)
	}
	if first.Content == "" {
		t.Fatal("sentinel response must carry an explanatory message")
	}
	if g.Stats().TotalRequests() != 0 {
		t.Fatalf("no provider was called, stats should be 0, got %d", g.Stats().TotalRequests())
	}

	// Skipping absent providers mutates no state: a second identical call
	// yields the identical sentinel.
	second := g.Completion(context.Background(), req)
	if *second != *first {
		t.Fatalf("expected identical sentinel on repeat call, got %+v then %+v", first, second)
	}
}

func TestCompletion_FirstSuccessWins(t *testing.T) {
	stats := &Stats{}
	p1 := &fakeProvider{name: "p1", available: true, stats: stats, resp: &CompletionResponse{Content: "from p1", Provider: "p1", Model: "m1"}}
	p2 := &fakeProvider{name: "p2", available: true, stats: stats, resp: &CompletionResponse{Content: "from p2", Provider: "p2", Model: "m2"}}

	g := newWithProviders(nil, stats, p1, p2)
	resp := g.Completion(context.Background(), CompletionRequest{Messages: []ChatMessage{{Role: RoleUser, Content: "q"}}})

	if resp.Provider != "p1" {
		t.Fatalf("expected first provider to win, got %q", resp.Provider)
	}
	if p2.calls != 0 {
		t.Fatalf("second provider must not be tried after a success, got %d calls", p2.calls)
	}
	if stats.TotalRequests() != 1 {
		t.Fatalf("expected exactly one recorded request, got %d", stats.TotalRequests())
	}
}

func TestCompletion_FailingProviderFallsThrough(t *testing.T) {
	stats := &Stats{}
	p1 := &fakeProvider{name: "p1", available: true, err: errors.New("connect timeout")}
	p2 := &fakeProvider{name: "p2", available: true, stats: stats, resp: &CompletionResponse{Content: "ok", Provider: "p2", Model: "m2"}}

	g := newWithProviders(nil, stats, p1, p2)
	resp := g.Completion(context.Background(), CompletionRequest{Messages: []ChatMessage{{Role: RoleUser, Content: "q"}}})

	if resp.Provider != "p2" || resp.Content != "ok" {
		t.Fatalf("expected fallback to second provider, got %+v", resp)
	}
	if p1.calls != 1 {
		t.Fatalf("first provider should have been tried once, got %d", p1.calls)
	}
	// Failed attempts are invisible in stats.
	if stats.TotalRequests() != 1 {
		t.Fatalf("expected 1 recorded request, got %d", stats.TotalRequests())
	}
}

func TestCompletion_SkipsAbsentCredentials(t *testing.T) {
	stats := &Stats{}
	p1 := &fakeProvider{name: "p1", available: false}
	p2 := &fakeProvider{name: "p2", available: false}
	p3 := &fakeProvider{name: "p3", available: true, stats: stats, resp: &CompletionResponse{Content: "hello", Provider: "p3", Model: "m3"}}

	g := newWithProviders(nil, stats, p1, p2, p3)
	resp := g.Completion(context.Background(), CompletionRequest{Messages: []ChatMessage{{Role: RoleUser, Content: "q"}}})

	if resp.Content != "hello" || resp.Provider != "p3" || resp.Model != "m3" {
		t.Fatalf("expected third provider response, got %+v", resp)
	}
	if p1.calls != 0 || p2.calls != 0 {
		t.Fatal("providers without credentials must be skipped without a call")
	}
}

func TestCompletion_EmptyResponseFallsThrough(t *testing.T) {
	stats := &Stats{}
	p1 := &fakeProvider{name: "p1", available: true, resp: &CompletionResponse{Content: "", Provider: "p1", Model: "m1"}}
	p2 := &fakeProvider{name: "p2", available: true, stats: stats, resp: &CompletionResponse{Content: "filled", Provider: "p2", Model: "m2"}}

	g := newWithProviders(nil, stats, p1, p2)
	resp := g.Completion(context.Background(), CompletionRequest{Messages: []ChatMessage{{Role: RoleUser, Content: "q"}}})

	if resp.Provider != "p2" {
		t.Fatalf("empty content should not count as success, got %+v", resp)
	}
}

func TestCompletion_AllFailReturnsSentinelNotError(t *testing.T) {
	stats := &Stats{}
	p1 := &fakeProvider{name: "p1", available: true, err: errors.New("429 rate limited")}
	p2 := &fakeProvider{name: "p2", available: true, err: errors.New("502 bad gateway")}

	g := newWithProviders(nil, stats, p1, p2)
	resp := g.Completion(context.Background(), CompletionRequest{Messages: []ChatMessage{{Role: RoleUser, Content: "q"}}})

	if resp.Provider != "none" || resp.Model != "none" {
		t.Fatalf("expected sentinel after exhausting chain, got %+v", resp)
	}
	if stats.TotalRequests() != 0 {
		t.Fatalf("failed attempts must not be counted, got %d", stats.TotalRequests())
	}
}

func TestResolveMaxTokens(t *testing.T) {
	if got := resolveMaxTokens(0); got != 2000 {
		t.Fatalf("expected default 2000, got %d", got)
	}
	if got := resolveMaxTokens(-5); got != 2000 {
		t.Fatalf("expected default for negative input, got %d", got)
	}
	if got := resolveMaxTokens(512); got != 512 {
		t.Fatalf("expected explicit value to pass through, got %d", got)
	}
}
