package codegen

import (
	"context"
	"strings"
	"testing"

	"github.com/Harshavardhan123-cloud/agentic-ai-platform/internal/gateway"
)

type fakeCompleter struct {
	resp    *gateway.CompletionResponse
	lastReq gateway.CompletionRequest
}

func (f *fakeCompleter) Completion(_ context.Context, req gateway.CompletionRequest) *gateway.CompletionResponse {
	f.lastReq = req
	return f.resp
}

func TestDetectLanguage(t *testing.T) {
	cases := []struct {
		statement string
		want      string
	}{
		{"write a python function to reverse a string", "python"},
		{"implement quicksort in Go", "go"},
		{"golang http server", "go"},
		{"binary search in JavaScript", "javascript"},
		{"linked list in c++", "c++"},
		{"hello world in C", "c"},
		{"reverse a string", "python"},
	}
	for _, tc := range cases {
		if got := DetectLanguage(tc.statement); got != tc.want {
			t.Errorf("DetectLanguage(%q) = %q, want %q", tc.statement, got, tc.want)
		}
	}
}

func TestGenerateUsesLLMReply(t *testing.T) {
	fake := &fakeCompleter{resp: &gateway.CompletionResponse{
		Content:  "Here you go:\n```python\ndef f():\n    return 1\n```",
		Provider: "groq",
		Model:    "llama-3.3-70b-versatile",
	}}
	gen := NewGenerator(fake)

	result := gen.Generate(context.Background(), "write a python function", "", 0)
	if !result.Success {
		t.Fatal("expected success")
	}
	if result.Code != "def f():\n    return 1" {
		t.Errorf("unexpected code: %q", result.Code)
	}
	if result.Provider != "groq" {
		t.Errorf("provider = %q, want groq", result.Provider)
	}
	if result.Language != "python" {
		t.Errorf("language = %q, want python", result.Language)
	}
	if fake.lastReq.Model != "gpt-4o-mini" {
		t.Errorf("model hint = %q, want gpt-4o-mini", fake.lastReq.Model)
	}
	if fake.lastReq.Temperature != 0.3 {
		t.Errorf("temperature = %v, want 0.3", fake.lastReq.Temperature)
	}
}

func TestGenerateFallsBackOnSentinel(t *testing.T) {
	fake := &fakeCompleter{resp: &gateway.CompletionResponse{
		Content:  "Error: No LLM API key configured.",
		Provider: "none",
		Model:    "none",
	}}
	gen := NewGenerator(fake)

	result := gen.Generate(context.Background(), "implement binary search", "python", 0)
	if result.Provider != "built-in" || result.Model != "template-based" {
		t.Fatalf("attribution = %q/%q, want built-in/template-based", result.Provider, result.Model)
	}
	if !strings.Contains(result.Code, "binary_search") {
		t.Errorf("expected binary search template, got: %q", result.Code)
	}
}

func TestGenerateWithoutCompleterUsesTemplates(t *testing.T) {
	gen := NewGenerator(nil)

	result := gen.Generate(context.Background(), "find the maximum subarray sum", "go", 0)
	if result.Provider != "built-in" {
		t.Fatalf("provider = %q, want built-in", result.Provider)
	}
	if !strings.Contains(result.Code, "maxSubarraySum") {
		t.Errorf("expected go Kadane template, got: %q", result.Code)
	}
}

func TestTemplateFallsBackToPython(t *testing.T) {
	code := templateSolution("check if a number is prime", "rust")
	if !strings.Contains(code, "def is_prime") {
		t.Errorf("expected python fallback for rust, got: %q", code)
	}
}

func TestGenerateUnsupportedLanguageDefaultsToPython(t *testing.T) {
	gen := NewGenerator(nil)
	result := gen.Generate(context.Background(), "reverse a string", "cobol", 0)
	if result.Language != "python" {
		t.Errorf("language = %q, want python", result.Language)
	}
}

func TestExtractCode(t *testing.T) {
	small := "```python\nx = 1\n```"
	big := "```go\npackage main\n\nfunc main() {}\n```"
	got := extractCode("first:\n" + small + "\nthen:\n" + big)
	if !strings.Contains(got, "package main") {
		t.Errorf("expected largest block, got: %q", got)
	}

	if got := extractCode("  plain text reply  "); got != "plain text reply" {
		t.Errorf("unfenced reply should pass through trimmed, got: %q", got)
	}
}

func TestStripComments(t *testing.T) {
	py := "# header\ndef f():\n    \"\"\"doc\"\"\"\n    return 1\n"
	got := StripComments(py, "python")
	if strings.Contains(got, "# header") || strings.Contains(got, "doc") {
		t.Errorf("python comments survived: %q", got)
	}

	goSrc := "// header\nfunc f() int {\n\t/* block */\n\treturn 1\n}"
	got = StripComments(goSrc, "go")
	if strings.Contains(got, "header") || strings.Contains(got, "block") {
		t.Errorf("go comments survived: %q", got)
	}
}

func TestHistoryRecordsGenerations(t *testing.T) {
	gen := NewGenerator(nil)
	gen.Generate(context.Background(), "factorial", "", 0)
	gen.Generate(context.Background(), "fibonacci", "", 1)

	history := gen.History()
	if len(history) != 2 {
		t.Fatalf("history length = %d, want 2", len(history))
	}
	if history[1].Iteration != 1 {
		t.Errorf("iteration = %d, want 1", history[1].Iteration)
	}
}
