// Package gateway routes completion requests across a fixed priority chain of
// LLM providers, masking individual provider failures from callers.
package gateway

import (
	"context"
	"log/slog"
	"sync/atomic"
)

const noProviderMessage = "Error: No LLM API key configured. Please set GROQ_API_KEY, " +
	"TOGETHER_API_KEY, GEMINI_API_KEY, HUGGINGFACE_API_KEY, or OPENAI_API_KEY environment variable."

// Stats holds lifetime call counters for one gateway instance.
type Stats struct {
	totalRequests atomic.Int64
}

// record marks one successful provider call. Adapters call this immediately
// before returning success, so failed attempts never show up in the count.
func (s *Stats) record() {
	s.totalRequests.Add(1)
}

// TotalRequests returns the number of successful provider calls so far.
func (s *Stats) TotalRequests() int64 {
	return s.totalRequests.Load()
}

// Gateway walks a fixed, ordered provider chain until one answers.
type Gateway struct {
	providers []Provider
	stats     *Stats
	logger    *slog.Logger
}

// New builds a gateway with the full production provider chain. Order is a
// fixed priority, cheapest and fastest providers first.
func New(logger *slog.Logger) *Gateway {
	stats := &Stats{}
	return newWithProviders(logger, stats,
		newGroqProvider(stats),
		newTogetherProvider(stats),
		newGeminiProvider(stats),
		newHuggingFaceProvider(stats),
		newOpenAIProvider(stats),
		newAnthropicProvider(stats),
	)
}

func newWithProviders(logger *slog.Logger, stats *Stats, providers ...Provider) *Gateway {
	if logger == nil {
		logger = slog.Default()
	}
	return &Gateway{
		providers: providers,
		stats:     stats,
		logger:    logger,
	}
}

// Completion tries each provider in priority order and returns the first
// non-empty normalized response. It never returns an error: total failure
// degrades to a sentinel response with Provider "none".
func (g *Gateway) Completion(ctx context.Context, req CompletionRequest) *CompletionResponse {
	for _, p := range g.providers {
		if !p.Available() {
			// Absent credential is an expected skip, not a failure.
			continue
		}

		resp, err := p.Complete(ctx, req)
		if err != nil {
			g.logger.Warn("provider call failed", "provider", p.Name(), "err", err)
			continue
		}
		if resp == nil || resp.Content == "" {
			g.logger.Warn("provider returned empty response", "provider", p.Name())
			continue
		}

		g.logger.Info("provider call succeeded", "provider", resp.Provider, "model", resp.Model)
		return resp
	}

	g.logger.Warn("no LLM provider available",
		"hint", "set GROQ_API_KEY, TOGETHER_API_KEY, GEMINI_API_KEY, HUGGINGFACE_API_KEY, or OPENAI_API_KEY")
	return &CompletionResponse{
		Content:  noProviderMessage,
		Provider: "none",
		Model:    "none",
	}
}

// Stats exposes the lifetime call counters.
func (g *Gateway) Stats() *Stats {
	return g.stats
}

// AvailableProviders returns the names of providers whose credentials are
// currently present, in priority order.
func (g *Gateway) AvailableProviders() []string {
	var names []string
	for _, p := range g.providers {
		if p.Available() {
			names = append(names, p.Name())
		}
	}
	return names
}
