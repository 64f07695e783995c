// Package guardrails provides input/output validation with violation logging.
// Validation is advisory: violations are recorded and reported but never block
// a request.
package guardrails

import (
	"strings"
	"sync"
	"time"
)

// Violation is one recorded guardrail finding.
type Violation struct {
	Validator string    `json:"validator"`
	Message   string    `json:"message"`
	Severity  string    `json:"severity"`
	Timestamp time.Time `json:"timestamp"`
}

// Stats summarizes guardrail activity.
type Stats struct {
	TotalChecks     int64   `json:"total_checks"`
	TotalViolations int64   `json:"total_violations"`
	ViolationRate   float64 `json:"violation_rate"`
}

const maxInputLength = 10000

// Manager runs the validators and keeps the violation log.
type Manager struct {
	mu              sync.Mutex
	violations      []Violation
	totalChecks     int64
	totalViolations int64

	toxicKeywords         []string
	dangerousCodePatterns []string
}

// NewManager builds a manager with the default block lists.
func NewManager() *Manager {
	return &Manager{
		toxicKeywords:         []string{"hack", "exploit", "malicious"},
		dangerousCodePatterns: []string{"rm -rf", "DROP TABLE", "eval("},
	}
}

// ValidateInput checks user text against the input validators. The boolean is
// always true in the current policy; callers inspect the violations instead.
func (m *Manager) ValidateInput(text string) (bool, []Violation) {
	var violations []Violation

	lower := strings.ToLower(text)
	for _, keyword := range m.toxicKeywords {
		if strings.Contains(lower, keyword) {
			violations = append(violations, Violation{
				Validator: "toxic_language",
				Message:   "Detected potentially toxic keyword: " + keyword,
				Severity:  "low",
				Timestamp: time.Now(),
			})
		}
	}

	if len(text) > maxInputLength {
		violations = append(violations, Violation{
			Validator: "length_check",
			Message:   "Input text exceeds maximum length",
			Severity:  "medium",
			Timestamp: time.Now(),
		})
	}

	m.recordCheck(violations)
	return true, violations
}

// ValidateOutput checks generated code for dangerous patterns.
func (m *Manager) ValidateOutput(code, _ string) (bool, []Violation) {
	var violations []Violation

	for _, pattern := range m.dangerousCodePatterns {
		if strings.Contains(code, pattern) {
			violations = append(violations, Violation{
				Validator: "code_safety",
				Message:   "Detected potentially dangerous pattern: " + pattern,
				Severity:  "high",
				Timestamp: time.Now(),
			})
		}
	}

	m.recordCheck(violations)
	return true, violations
}

func (m *Manager) recordCheck(violations []Violation) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.totalChecks++
	if len(violations) > 0 {
		m.totalViolations += int64(len(violations))
		m.violations = append(m.violations, violations...)
	}
}

// Stats returns aggregate check counters.
func (m *Manager) Stats() Stats {
	m.mu.Lock()
	defer m.mu.Unlock()

	checks := m.totalChecks
	if checks == 0 {
		checks = 1
	}
	return Stats{
		TotalChecks:     m.totalChecks,
		TotalViolations: m.totalViolations,
		ViolationRate:   float64(m.totalViolations) / float64(checks),
	}
}

// Violations returns up to limit most recent violations.
func (m *Manager) Violations(limit int) []Violation {
	m.mu.Lock()
	defer m.mu.Unlock()

	if limit <= 0 || limit > len(m.violations) {
		limit = len(m.violations)
	}
	out := make([]Violation, limit)
	copy(out, m.violations[len(m.violations)-limit:])
	return out
}
