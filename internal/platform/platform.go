// Package platform is the orchestrator tying the gateway, guardrails, and
// conversation state together.
package platform

import (
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Harshavardhan123-cloud/agentic-ai-platform/internal/gateway"
	"github.com/Harshavardhan123-cloud/agentic-ai-platform/internal/guardrails"
)

// Conversation is one translation session.
type Conversation struct {
	ID             string    `json:"id"`
	SourceCode     string    `json:"source_code"`
	SourceLanguage string    `json:"source_language"`
	TargetLanguage string    `json:"target_language"`
	Status         string    `json:"status"`
	CreatedAt      time.Time `json:"created_at"`
	TranslatedCode string    `json:"translated_code,omitempty"`
}

// TranslateMetrics carries rough accounting for a translation run.
type TranslateMetrics struct {
	Tokens     int   `json:"tokens"`
	DurationMS int64 `json:"duration_ms"`
}

// TranslateResult is the outcome of a translation request.
type TranslateResult struct {
	Success        bool                   `json:"success"`
	TranslatedCode string                 `json:"translated_code,omitempty"`
	ConversationID string                 `json:"conversation_id,omitempty"`
	Metrics        *TranslateMetrics      `json:"metrics,omitempty"`
	Error          string                 `json:"error,omitempty"`
	Violations     []guardrails.Violation `json:"violations,omitempty"`
}

// Stats is the platform-level slice of the combined statistics payload.
type Stats struct {
	TotalConversations  int64 `json:"total_conversations"`
	ActiveConversations int64 `json:"active_conversations"`
}

// CombinedStats aggregates every subsystem's counters.
type CombinedStats struct {
	Platform   Stats            `json:"platform"`
	Gateway    map[string]int64 `json:"gateway"`
	Guardrails guardrails.Stats `json:"guardrails"`
	WebSocket  any              `json:"websocket"`
}

// Platform coordinates the gateway, guardrails, and conversations.
type Platform struct {
	gateway    *gateway.Gateway
	guardrails *guardrails.Manager
	logger     *slog.Logger

	mu            sync.Mutex
	conversations map[string]*Conversation
	stats         Stats

	wsStats   func() any
	broadcast func(conversationID, eventType string, data any)
}

func New(gw *gateway.Gateway, gr *guardrails.Manager, logger *slog.Logger) *Platform {
	if logger == nil {
		logger = slog.Default()
	}
	return &Platform{
		gateway:       gw,
		guardrails:    gr,
		logger:        logger,
		conversations: make(map[string]*Conversation),
	}
}

// Gateway exposes the LLM gateway for the request handlers.
func (p *Platform) Gateway() *gateway.Gateway { return p.gateway }

// Guardrails exposes the validation manager for the request handlers.
func (p *Platform) Guardrails() *guardrails.Manager { return p.guardrails }

// SetWebSocketStats registers the realtime layer's stats callback. The hub is
// wired after the platform exists, so this is a late binding.
func (p *Platform) SetWebSocketStats(fn func() any) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.wsStats = fn
}

// SetBroadcaster registers the callback used to push agent events to
// conversation subscribers.
func (p *Platform) SetBroadcaster(fn func(conversationID, eventType string, data any)) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.broadcast = fn
}

// CreateConversation registers a new translation session and returns its id.
func (p *Platform) CreateConversation(sourceCode, sourceLang, targetLang string) string {
	conv := &Conversation{
		ID:             uuid.NewString(),
		SourceCode:     sourceCode,
		SourceLanguage: sourceLang,
		TargetLanguage: targetLang,
		Status:         "created",
		CreatedAt:      time.Now(),
	}

	p.mu.Lock()
	p.conversations[conv.ID] = conv
	p.stats.TotalConversations++
	p.stats.ActiveConversations++
	p.mu.Unlock()

	p.logger.Info("conversation created", "id", conv.ID, "source", sourceLang, "target", targetLang)
	return conv.ID
}

// GetConversation returns a copy of the conversation, if it exists.
func (p *Platform) GetConversation(id string) (Conversation, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	conv, ok := p.conversations[id]
	if !ok {
		return Conversation{}, false
	}
	return *conv, true
}

// ListConversations returns up to limit conversations, newest first.
func (p *Platform) ListConversations(limit int) []Conversation {
	p.mu.Lock()
	out := make([]Conversation, 0, len(p.conversations))
	for _, conv := range p.conversations {
		out = append(out, *conv)
	}
	p.mu.Unlock()

	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// CancelConversation marks a conversation cancelled. Finished or already
// cancelled conversations are left alone so the active count stays honest.
func (p *Platform) CancelConversation(id string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	conv, ok := p.conversations[id]
	if !ok {
		return false
	}
	if conv.Status == "cancelled" || conv.Status == "completed" {
		return true
	}
	conv.Status = "cancelled"
	p.stats.ActiveConversations--
	return true
}

// TranslateCode runs the translation for a conversation. The translation
// itself is a mock placeholder; the surrounding flow (validation, state,
// events) is the real contract.
func (p *Platform) TranslateCode(conversationID string) TranslateResult {
	p.mu.Lock()
	conv, ok := p.conversations[conversationID]
	if !ok {
		p.mu.Unlock()
		return TranslateResult{Success: false, Error: "Conversation not found"}
	}
	sourceCode := conv.SourceCode
	sourceLang := conv.SourceLanguage
	targetLang := conv.TargetLanguage
	p.mu.Unlock()

	if valid, violations := p.guardrails.ValidateInput(sourceCode); !valid {
		return TranslateResult{
			Success:    false,
			Error:      "Input validation failed",
			Violations: violations,
		}
	}

	translated := "// Translated from " + sourceLang + " to " + targetLang + "\n" + sourceCode

	p.mu.Lock()
	conv.Status = "completed"
	conv.TranslatedCode = translated
	p.stats.ActiveConversations--
	broadcast := p.broadcast
	p.mu.Unlock()

	if broadcast != nil {
		broadcast(conversationID, "translation_completed", map[string]any{
			"conversation_id": conversationID,
			"target_language": targetLang,
		})
	}

	return TranslateResult{
		Success:        true,
		TranslatedCode: translated,
		ConversationID: conversationID,
		Metrics:        &TranslateMetrics{Tokens: 100, DurationMS: 1000},
	}
}

// PlatformStats aggregates platform, gateway, guardrail, and websocket
// counters into one payload.
func (p *Platform) PlatformStats() CombinedStats {
	p.mu.Lock()
	stats := p.stats
	wsStats := p.wsStats
	p.mu.Unlock()

	combined := CombinedStats{
		Platform:   stats,
		Gateway:    map[string]int64{"total_requests": p.gateway.Stats().TotalRequests()},
		Guardrails: p.guardrails.Stats(),
		WebSocket:  map[string]any{},
	}
	if wsStats != nil {
		combined.WebSocket = wsStats()
	}
	return combined
}
