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
	defaultHuggingFaceModel = "mistralai/Mistral-7B-Instruct-v0.2"
	defaultHuggingFaceURL   = "https://api-inference.huggingface.co/models/" + defaultHuggingFaceModel
)

// huggingFaceProvider calls the serverless Inference API with an instruct
// model. Another legacy-style adapter: the conversation is flattened into a
// single [INST]-tagged prompt.
type huggingFaceProvider struct {
	stats      *Stats
	endpoint   string
	httpClient *http.Client
}

func newHuggingFaceProvider(stats *Stats) *huggingFaceProvider {
	return &huggingFaceProvider{stats: stats, endpoint: defaultHuggingFaceURL, httpClient: http.DefaultClient}
}

func newHuggingFaceProviderForTest(stats *Stats, endpoint string, httpClient *http.Client) *huggingFaceProvider {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &huggingFaceProvider{stats: stats, endpoint: endpoint, httpClient: httpClient}
}

func (p *huggingFaceProvider) Name() string { return "huggingface" }

func (p *huggingFaceProvider) Available() bool {
	return envAPIKey("HUGGINGFACE_API_KEY", "HF_API_KEY") != ""
}

func (p *huggingFaceProvider) Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error) {
	payload := huggingFaceRequest{
		Inputs: flattenInstructPrompt(req.Messages),
		Parameters: huggingFaceParameters{
			MaxNewTokens:   resolveMaxTokens(req.MaxTokens),
			Temperature:    req.Temperature,
			ReturnFullText: false,
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal huggingface request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build huggingface request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+envAPIKey("HUGGINGFACE_API_KEY", "HF_API_KEY"))

	httpResp, err := p.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("huggingface request failed: %w", err)
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("read huggingface response: %w", err)
	}
	if httpResp.StatusCode < 200 || httpResp.StatusCode >= 300 {
		return nil, fmt.Errorf("huggingface API returned %s: %s", httpResp.Status, strings.TrimSpace(string(respBody)))
	}

	text, err := parseHuggingFaceReply(respBody)
	if err != nil {
		return nil, err
	}

	p.stats.record()
	return &CompletionResponse{
		Content:  text,
		Provider: p.Name(),
		Model:    defaultHuggingFaceModel,
	}, nil
}

// parseHuggingFaceReply handles the Inference API's two reply shapes: a list
// of generations or a single object.
func parseHuggingFaceReply(body []byte) (string, error) {
	var asList []huggingFaceGeneration
	if err := json.Unmarshal(body, &asList); err == nil {
		if len(asList) == 0 {
			return "", fmt.Errorf("huggingface response list is empty")
		}
		return asList[0].GeneratedText, nil
	}

	var asObject huggingFaceGeneration
	if err := json.Unmarshal(body, &asObject); err != nil {
		return "", fmt.Errorf("decode huggingface response: %w", err)
	}
	if asObject.GeneratedText == "" {
		return "", fmt.Errorf("huggingface response has no generated_text")
	}
	return asObject.GeneratedText, nil
}

// flattenInstructPrompt renders the conversation in Mistral instruct format.
// System and user turns become [INST] blocks; assistant turns stay bare.
func flattenInstructPrompt(messages []ChatMessage) string {
	var b strings.Builder
	for _, msg := range messages {
		switch msg.Role {
		case RoleSystem, RoleUser:
			b.WriteString("[INST] " + msg.Content + " [/INST]\n")
		default:
			b.WriteString(msg.Content + "\n")
		}
	}
	return b.String()
}

type huggingFaceRequest struct {
	Inputs     string                `json:"inputs"`
	Parameters huggingFaceParameters `json:"parameters"`
}

type huggingFaceParameters struct {
	MaxNewTokens   int     `json:"max_new_tokens"`
	Temperature    float32 `json:"temperature"`
	ReturnFullText bool    `json:"return_full_text"`
}

type huggingFaceGeneration struct {
	GeneratedText string `json:"generated_text"`
}
