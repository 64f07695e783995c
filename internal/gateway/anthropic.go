package gateway

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

const defaultAnthropicModel = "claude-3-5-haiku-latest"

// anthropicProvider sits last in the chain as the premium fallback.
type anthropicProvider struct {
	stats      *Stats
	baseURL    string
	httpClient *http.Client
}

func newAnthropicProvider(stats *Stats) *anthropicProvider {
	return &anthropicProvider{stats: stats}
}

func newAnthropicProviderForTest(stats *Stats, baseURL string, httpClient *http.Client) *anthropicProvider {
	return &anthropicProvider{stats: stats, baseURL: baseURL, httpClient: httpClient}
}

func (p *anthropicProvider) Name() string { return "anthropic" }

func (p *anthropicProvider) Available() bool {
	return envAPIKey("ANTHROPIC_API_KEY") != ""
}

func (p *anthropicProvider) Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error) {
	opts := []option.RequestOption{option.WithAPIKey(envAPIKey("ANTHROPIC_API_KEY"))}
	if p.baseURL != "" {
		opts = append(opts, option.WithBaseURL(p.baseURL))
	}
	if p.httpClient != nil {
		opts = append(opts, option.WithHTTPClient(p.httpClient))
	}
	client := anthropic.NewClient(opts...)

	msgs, system, err := toAnthropicMessages(req.Messages)
	if err != nil {
		return nil, err
	}

	body := anthropic.MessageNewParams{
		Model:     defaultAnthropicModel,
		MaxTokens: int64(resolveMaxTokens(req.MaxTokens)),
		Messages:  msgs,
	}
	if len(system) > 0 {
		body.System = system
	}
	if req.Temperature > 0 {
		body.Temperature = anthropic.Float(float64(req.Temperature))
	}

	msg, err := client.Messages.New(ctx, body)
	if err != nil {
		return nil, err
	}

	var contentParts []string
	for _, block := range msg.Content {
		if v, ok := block.AsAny().(anthropic.TextBlock); ok && v.Text != "" {
			contentParts = append(contentParts, v.Text)
		}
	}

	p.stats.record()
	return &CompletionResponse{
		Content:  strings.Join(contentParts, "\n"),
		Provider: p.Name(),
		Model:    defaultAnthropicModel,
	}, nil
}

// toAnthropicMessages splits system turns out into the dedicated system field
// and converts the rest into message params.
func toAnthropicMessages(messages []ChatMessage) ([]anthropic.MessageParam, []anthropic.TextBlockParam, error) {
	out := make([]anthropic.MessageParam, 0, len(messages))
	var system []anthropic.TextBlockParam
	for _, msg := range messages {
		switch msg.Role {
		case RoleSystem:
			system = append(system, anthropic.TextBlockParam{Text: msg.Content})
		case RoleUser:
			out = append(out, anthropic.NewUserMessage(anthropic.NewTextBlock(msg.Content)))
		case RoleAssistant:
			out = append(out, anthropic.NewAssistantMessage(anthropic.NewTextBlock(msg.Content)))
		default:
			return nil, nil, fmt.Errorf("unsupported message role %s", msg.Role)
		}
	}
	return out, system, nil
}
