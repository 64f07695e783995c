package gateway

import (
	"context"
	"net/http"
)

const (
	defaultGroqURL   = "https://api.groq.com/openai/v1"
	defaultGroqModel = "llama-3.3-70b-versatile"
)

// groqProvider is priority 1. The caller's model hint is ignored in favor of
// the fixed Groq-hosted model.
type groqProvider struct {
	stats      *Stats
	baseURL    string
	httpClient *http.Client
}

func newGroqProvider(stats *Stats) *groqProvider {
	return &groqProvider{stats: stats, baseURL: defaultGroqURL}
}

func newGroqProviderForTest(stats *Stats, baseURL string, httpClient *http.Client) *groqProvider {
	return &groqProvider{stats: stats, baseURL: baseURL, httpClient: httpClient}
}

func (p *groqProvider) Name() string { return "groq" }

func (p *groqProvider) Available() bool {
	return envAPIKey("GROQ_API_KEY") != ""
}

func (p *groqProvider) Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error) {
	content, err := chatCompletion(ctx, envAPIKey("GROQ_API_KEY"), p.baseURL, p.httpClient, defaultGroqModel, req)
	if err != nil {
		return nil, err
	}

	p.stats.record()
	return &CompletionResponse{
		Content:  content,
		Provider: p.Name(),
		Model:    defaultGroqModel,
	}, nil
}
