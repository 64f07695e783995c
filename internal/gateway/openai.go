package gateway

import (
	"context"
	"net/http"
)

const defaultOpenAIModel = "gpt-4o-mini"

// openAIProvider is the paid fallback at the end of the free-tier chain.
type openAIProvider struct {
	stats      *Stats
	baseURL    string
	httpClient *http.Client
}

func newOpenAIProvider(stats *Stats) *openAIProvider {
	return &openAIProvider{stats: stats}
}

func newOpenAIProviderForTest(stats *Stats, baseURL string, httpClient *http.Client) *openAIProvider {
	return &openAIProvider{stats: stats, baseURL: baseURL, httpClient: httpClient}
}

func (p *openAIProvider) Name() string { return "openai" }

func (p *openAIProvider) Available() bool {
	return envAPIKey("OPENAI_API_KEY") != ""
}

func (p *openAIProvider) Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error) {
	content, err := chatCompletion(ctx, envAPIKey("OPENAI_API_KEY"), p.baseURL, p.httpClient, defaultOpenAIModel, req)
	if err != nil {
		return nil, err
	}

	p.stats.record()
	return &CompletionResponse{
		Content:  content,
		Provider: p.Name(),
		Model:    defaultOpenAIModel,
	}, nil
}
