package gateway

import (
	"context"
	"errors"
	"net/http"

	openai "github.com/sashabaranov/go-openai"
)

// chatCompletion performs one call against an OpenAI-compatible chat API.
// The client is rebuilt per call so credential rotation in the environment
// takes effect without a restart.
func chatCompletion(
	ctx context.Context,
	apiKey, baseURL string,
	httpClient *http.Client,
	model string,
	req CompletionRequest,
) (string, error) {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	if httpClient != nil {
		cfg.HTTPClient = httpClient
	}
	client := openai.NewClientWithConfig(cfg)

	messages := make([]openai.ChatCompletionMessage, 0, len(req.Messages))
	for _, m := range req.Messages {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    string(m.Role),
			Content: m.Content,
		})
	}

	resp, err := client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       model,
		Messages:    messages,
		Temperature: req.Temperature,
		MaxTokens:   resolveMaxTokens(req.MaxTokens),
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("chat completion response has no choices")
	}
	return resp.Choices[0].Message.Content, nil
}
