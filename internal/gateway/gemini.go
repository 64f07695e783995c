package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

const (
	defaultGeminiURL   = "https://generativelanguage.googleapis.com/v1beta/models/gemini-pro:generateContent"
	defaultGeminiModel = "gemini-pro"
)

// geminiProvider is a legacy-style adapter: Gemini's generateContent endpoint
// takes a single prompt, so the conversation is flattened with system turns
// prefixed distinctly from the rest.
type geminiProvider struct {
	stats      *Stats
	endpoint   string
	httpClient *http.Client
}

func newGeminiProvider(stats *Stats) *geminiProvider {
	return &geminiProvider{stats: stats, endpoint: defaultGeminiURL, httpClient: http.DefaultClient}
}

func newGeminiProviderForTest(stats *Stats, endpoint string, httpClient *http.Client) *geminiProvider {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &geminiProvider{stats: stats, endpoint: endpoint, httpClient: httpClient}
}

func (p *geminiProvider) Name() string { return "gemini" }

func (p *geminiProvider) Available() bool {
	return envAPIKey("GEMINI_API_KEY", "GOOGLE_API_KEY") != ""
}

func (p *geminiProvider) Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error) {
	payload := geminiRequest{
		Contents: []geminiContent{{
			Parts: []geminiPart{{Text: flattenGeminiPrompt(req.Messages)}},
		}},
		GenerationConfig: geminiGenerationConfig{
			Temperature:     req.Temperature,
			MaxOutputTokens: resolveMaxTokens(req.MaxTokens),
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal gemini request: %w", err)
	}

	url := p.endpoint + "?key=" + envAPIKey("GEMINI_API_KEY", "GOOGLE_API_KEY")
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build gemini request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	httpResp, err := p.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("gemini request failed: %w", err)
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("read gemini response: %w", err)
	}
	if httpResp.StatusCode < 200 || httpResp.StatusCode >= 300 {
		return nil, fmt.Errorf("gemini API returned %s: %s", httpResp.Status, strings.TrimSpace(string(respBody)))
	}

	var parsed geminiResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return nil, fmt.Errorf("decode gemini response: %w", err)
	}
	if len(parsed.Candidates) == 0 || len(parsed.Candidates[0].Content.Parts) == 0 {
		return nil, fmt.Errorf("gemini response has no candidates")
	}

	p.stats.record()
	return &CompletionResponse{
		Content:  parsed.Candidates[0].Content.Parts[0].Text,
		Provider: p.Name(),
		Model:    defaultGeminiModel,
	}, nil
}

// flattenGeminiPrompt collapses the conversation into one prompt string.
// System instructions are prefixed so they stay distinguishable from user text.
func flattenGeminiPrompt(messages []ChatMessage) string {
	var b strings.Builder
	for _, msg := range messages {
		if msg.Role == RoleSystem {
			b.WriteString("Instructions: " + msg.Content + "\n\n")
			continue
		}
		b.WriteString(msg.Content + "\n")
	}
	return b.String()
}

type geminiRequest struct {
	Contents         []geminiContent        `json:"contents"`
	GenerationConfig geminiGenerationConfig `json:"generationConfig"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiGenerationConfig struct {
	Temperature     float32 `json:"temperature"`
	MaxOutputTokens int     `json:"maxOutputTokens"`
}

type geminiResponse struct {
	Candidates []struct {
		Content geminiContent `json:"content"`
	} `json:"candidates"`
}
