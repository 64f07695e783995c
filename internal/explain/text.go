// Package explain hosts the explanation agents: a text agent that produces
// instructor-style markdown breakdowns, and an audio agent that narrates a
// short podcast-style script through OpenAI TTS.
package explain

import (
	"bytes"
	"context"
	"fmt"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/Harshavardhan123-cloud/agentic-ai-platform/internal/gateway"
)

// Completer is the slice of the LLM gateway the agents need.
type Completer interface {
	Completion(ctx context.Context, req gateway.CompletionRequest) *gateway.CompletionResponse
}

// Explanation is a rendered text explanation. Explanation holds the raw
// markdown; HTML is the same content rendered for direct embedding.
type Explanation struct {
	Success     bool   `json:"success"`
	Explanation string `json:"explanation"`
	HTML        string `json:"html,omitempty"`
	Provider    string `json:"provider"`
}

// TextAgent generates in-depth markdown explanations of code.
type TextAgent struct {
	completer Completer
	markdown  goldmark.Markdown
}

func NewTextAgent(completer Completer) *TextAgent {
	return &TextAgent{
		completer: completer,
		markdown:  goldmark.New(goldmark.WithExtensions(extension.GFM)),
	}
}

const instructorPrompt = `You are a Senior Computer Science Instructor.
Your goal is to explain the provided code/algorithm in depth to a student.

Output Format: Markdown
Structure:
1. **Concept**: High-level summary of the approach (1-2 sentences).
2. **Step-by-Step Walkthrough**: Numbered list explaining the logic flow.
3. **Complexity Analysis**: Why is it O(n) or O(log n)?
4. **Key Takeaway**: One crucial thing to remember.

Keep it clear, educational, and engaging.`

// Explain produces a markdown deep-dive for the code, plus an HTML rendering.
func (a *TextAgent) Explain(ctx context.Context, code, problem string) (*Explanation, error) {
	if a.completer == nil {
		return nil, fmt.Errorf("llm gateway not available")
	}

	resp := a.completer.Completion(ctx, gateway.CompletionRequest{
		Messages: []gateway.ChatMessage{
			{Role: gateway.RoleSystem, Content: instructorPrompt},
			{Role: gateway.RoleUser, Content: "Problem: " + problem + "\n\nCode:\n" + code + "\n\nExplain this solution in detail."},
		},
		Temperature: 0.3,
		MaxTokens:   1500,
	})

	var html bytes.Buffer
	if err := a.markdown.Convert([]byte(resp.Content), &html); err != nil {
		return nil, fmt.Errorf("render explanation: %w", err)
	}

	return &Explanation{
		Success:     true,
		Explanation: resp.Content,
		HTML:        html.String(),
		Provider:    resp.Provider,
	}, nil
}
