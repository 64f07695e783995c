// Package dashboard tracks per-agent and system-wide metrics for the
// multi-agent dashboard views.
package dashboard

import (
	"math"
	"sync"
	"time"
)

// Agent is one named worker in the fixed registry, carrying call counters
// and a moving-average response time.
type Agent struct {
	Name        string
	Description string

	totalCalls      int64
	successfulCalls int64
	failedCalls     int64
	totalTokens     int64
	avgResponseTime float64
	lastActivity    time.Time
	status          string
	tasksCompleted  []string
}

// AgentSnapshot is the JSON view of one agent's metrics.
type AgentSnapshot struct {
	AgentName       string  `json:"agent_name"`
	TotalCalls      int64   `json:"total_calls"`
	SuccessfulCalls int64   `json:"successful_calls"`
	FailedCalls     int64   `json:"failed_calls"`
	SuccessRate     float64 `json:"success_rate"`
	TotalTokens     int64   `json:"total_tokens"`
	AvgResponseTime float64 `json:"avg_response_time"`
	LastActivity    string  `json:"last_activity"`
	Status          string  `json:"status"`
	TasksCompleted  int     `json:"tasks_completed"`
}

func (a *Agent) snapshot() AgentSnapshot {
	denom := a.totalCalls
	if denom == 0 {
		denom = 1
	}
	lastActivity := ""
	if !a.lastActivity.IsZero() {
		lastActivity = a.lastActivity.Format(time.RFC3339)
	}
	return AgentSnapshot{
		AgentName:       a.Name,
		TotalCalls:      a.totalCalls,
		SuccessfulCalls: a.successfulCalls,
		FailedCalls:     a.failedCalls,
		SuccessRate:     math.Round(float64(a.successfulCalls)/float64(denom)*100*100) / 100,
		TotalTokens:     a.totalTokens,
		AvgResponseTime: math.Round(a.avgResponseTime*1000) / 1000,
		LastActivity:    lastActivity,
		Status:          a.status,
		TasksCompleted:  len(a.tasksCompleted),
	}
}

// RequestRecord is one entry of the bounded request history.
type RequestRecord struct {
	Timestamp  string `json:"timestamp"`
	Type       string `json:"type"`
	Language   string `json:"language"`
	Success    bool   `json:"success"`
	CodeLength int    `json:"code_length"`
}

// SystemSnapshot is the JSON view of the system-wide counters.
type SystemSnapshot struct {
	TotalRequests           int64          `json:"total_requests"`
	TotalCodeGenerations    int64          `json:"total_code_generations"`
	TotalComplexityAnalyses int64          `json:"total_complexity_analyses"`
	TotalOptimizations      int64          `json:"total_optimizations"`
	LanguagesUsed           map[string]int `json:"languages_used"`
	AvgCodeLength           float64        `json:"avg_code_length"`
	LLMProvider             string         `json:"llm_provider"`
	ModelUsed               string         `json:"model_used"`
	UptimeSeconds           int64          `json:"uptime_seconds"`
	StartTime               string         `json:"start_time"`
}

// Health summarizes whether the agent fleet is serving.
type Health struct {
	Status       string `json:"status"`
	AgentsActive int    `json:"agents_active"`
	AgentsTotal  int    `json:"agents_total"`
	LLMAvailable bool   `json:"llm_available"`
}

// Data is the full dashboard payload.
type Data struct {
	System         SystemSnapshot           `json:"system"`
	Agents         map[string]AgentSnapshot `json:"agents"`
	RecentActivity []RequestRecord          `json:"recent_activity"`
	Health         Health                   `json:"health"`
}

const historyLimit = 100

// Dashboard aggregates metrics across the fixed agent registry.
type Dashboard struct {
	mu        sync.Mutex
	startTime time.Time
	agents    map[string]*Agent
	order     []string

	totalRequests           int64
	totalCodeGenerations    int64
	totalComplexityAnalyses int64
	totalOptimizations      int64
	languagesUsed           map[string]int
	avgCodeLength           float64
	llmProvider             string
	modelUsed               string
	history                 []RequestRecord
}

// New builds a dashboard with the standard nine-agent registry.
func New() *Dashboard {
	d := &Dashboard{
		startTime:     time.Now(),
		agents:        make(map[string]*Agent),
		languagesUsed: make(map[string]int),
		llmProvider:   "none",
		modelUsed:     "none",
	}
	for _, a := range []struct{ key, name, description string }{
		{"code_generator", "CodeGenerator", "Generates complete, working code solutions using LLM"},
		{"complexity_analyzer", "ComplexityAnalyzer", "Analyzes time and space complexity of code"},
		{"optimizer", "Optimizer", "Suggests optimizations for generated code"},
		{"guardrails", "Guardrails", "Validates inputs and outputs for safety"},
		{"test_generator", "TestGenerator", "Generates comprehensive unit tests"},
		{"code_reviewer", "CodeReviewer", "Reviews code for best practices and bugs"},
		{"visualizer", "Visualizer", "Generates animated execution traces"},
		{"text_explainer", "TextExplainer", "Generates detailed text analysis"},
		{"audio_explainer", "AudioExplainer", "Generates audio walkthroughs"},
	} {
		d.agents[a.key] = &Agent{Name: a.name, Description: a.description, status: "idle"}
		d.order = append(d.order, a.key)
	}
	return d
}

// RecordCall updates one agent's counters. responseTime feeds a running
// average over all of the agent's calls.
func (d *Dashboard) RecordCall(agentKey string, success bool, tokens int64, responseTime time.Duration, task string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	agent, ok := d.agents[agentKey]
	if !ok {
		return
	}
	agent.totalCalls++
	if success {
		agent.successfulCalls++
		if task != "" {
			agent.tasksCompleted = append(agent.tasksCompleted, task)
		}
	} else {
		agent.failedCalls++
	}
	agent.totalTokens += tokens
	agent.avgResponseTime = (agent.avgResponseTime*float64(agent.totalCalls-1) + responseTime.Seconds()) / float64(agent.totalCalls)
	agent.lastActivity = time.Now()
}

// SetStatus marks an agent busy, idle, or errored.
func (d *Dashboard) SetStatus(agentKey, status string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if agent, ok := d.agents[agentKey]; ok {
		agent.status = status
	}
}

// RecordRequest tracks a system-level request. Language and code length only
// factor into code generation statistics.
func (d *Dashboard) RecordRequest(requestType, language string, success bool, codeLength int, provider, model string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.totalRequests++
	switch requestType {
	case "code_generation":
		d.totalCodeGenerations++
		if language != "" {
			d.languagesUsed[language]++
		}
	case "complexity_analysis":
		d.totalComplexityAnalyses++
	case "optimization":
		d.totalOptimizations++
	}

	if codeLength > 0 && d.totalCodeGenerations > 0 {
		n := float64(d.totalCodeGenerations)
		d.avgCodeLength = (d.avgCodeLength*(n-1) + float64(codeLength)) / n
	}

	if provider != "" {
		d.llmProvider = provider
	}
	if model != "" {
		d.modelUsed = model
	}

	d.history = append(d.history, RequestRecord{
		Timestamp:  time.Now().Format(time.RFC3339),
		Type:       requestType,
		Language:   language,
		Success:    success,
		CodeLength: codeLength,
	})
	if len(d.history) > historyLimit {
		d.history = d.history[len(d.history)-historyLimit:]
	}
}

// Snapshot returns the full dashboard payload.
func (d *Dashboard) Snapshot() Data {
	d.mu.Lock()
	defer d.mu.Unlock()

	agents := make(map[string]AgentSnapshot, len(d.agents))
	active := 0
	for key, agent := range d.agents {
		agents[key] = agent.snapshot()
		if agent.status != "error" {
			active++
		}
	}

	status := "healthy"
	if active < len(d.agents) {
		status = "degraded"
	}

	languages := make(map[string]int, len(d.languagesUsed))
	for k, v := range d.languagesUsed {
		languages[k] = v
	}

	recent := d.history
	if len(recent) > 10 {
		recent = recent[len(recent)-10:]
	}
	activity := make([]RequestRecord, len(recent))
	copy(activity, recent)

	return Data{
		System: SystemSnapshot{
			TotalRequests:           d.totalRequests,
			TotalCodeGenerations:    d.totalCodeGenerations,
			TotalComplexityAnalyses: d.totalComplexityAnalyses,
			TotalOptimizations:      d.totalOptimizations,
			LanguagesUsed:           languages,
			AvgCodeLength:           math.Round(d.avgCodeLength),
			LLMProvider:             d.llmProvider,
			ModelUsed:               d.modelUsed,
			UptimeSeconds:           int64(time.Since(d.startTime).Seconds()),
			StartTime:               d.startTime.Format(time.RFC3339),
		},
		Agents:         agents,
		RecentActivity: activity,
		Health: Health{
			Status:       status,
			AgentsActive: active,
			AgentsTotal:  len(d.agents),
			LLMAvailable: d.llmProvider != "none",
		},
	}
}

// Activity returns the last limit request records, oldest first.
func (d *Dashboard) Activity(limit int) []RequestRecord {
	d.mu.Lock()
	defer d.mu.Unlock()

	recent := d.history
	if limit > 0 && len(recent) > limit {
		recent = recent[len(recent)-limit:]
	}
	out := make([]RequestRecord, len(recent))
	copy(out, recent)
	return out
}

// AgentSnapshot returns one agent's metrics by registry key.
func (d *Dashboard) AgentSnapshot(agentKey string) (AgentSnapshot, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	agent, ok := d.agents[agentKey]
	if !ok {
		return AgentSnapshot{}, false
	}
	return agent.snapshot(), true
}

// AgentKeys returns the registry keys in declaration order.
func (d *Dashboard) AgentKeys() []string {
	out := make([]string, len(d.order))
	copy(out, d.order)
	return out
}
