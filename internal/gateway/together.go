package gateway

import (
	"context"
	"net/http"
	"strings"
)

const (
	defaultTogetherURL   = "https://api.together.xyz/v1"
	defaultTogetherModel = "meta-llama/Llama-3.3-70B-Instruct-Turbo"
)

// togetherProvider is priority 2. The model hint is honored only when it looks
// like a llama or code model; anything else falls back to the default.
type togetherProvider struct {
	stats      *Stats
	baseURL    string
	httpClient *http.Client
}

func newTogetherProvider(stats *Stats) *togetherProvider {
	return &togetherProvider{stats: stats, baseURL: defaultTogetherURL}
}

func newTogetherProviderForTest(stats *Stats, baseURL string, httpClient *http.Client) *togetherProvider {
	return &togetherProvider{stats: stats, baseURL: baseURL, httpClient: httpClient}
}

func (p *togetherProvider) Name() string { return "together" }

func (p *togetherProvider) Available() bool {
	return envAPIKey("TOGETHER_API_KEY") != ""
}

func (p *togetherProvider) Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error) {
	model := resolveTogetherModel(req.Model)

	content, err := chatCompletion(ctx, envAPIKey("TOGETHER_API_KEY"), p.baseURL, p.httpClient, model, req)
	if err != nil {
		return nil, err
	}

	p.stats.record()
	return &CompletionResponse{
		Content:  content,
		Provider: p.Name(),
		Model:    model,
	}, nil
}

func resolveTogetherModel(hint string) string {
	lower := strings.ToLower(hint)
	if strings.Contains(lower, "llama") || strings.Contains(lower, "code") {
		return hint
	}
	return defaultTogetherModel
}
