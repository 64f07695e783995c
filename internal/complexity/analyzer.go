// Package complexity estimates time and space complexity of submitted code.
// Detection is layered: a table of well-known algorithm names wins outright,
// an LLM pass fills the gaps, and regex pattern matching is the last resort.
package complexity

import (
	"context"
	"encoding/json"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/Harshavardhan123-cloud/agentic-ai-platform/internal/gateway"
	"github.com/Harshavardhan123-cloud/agentic-ai-platform/internal/logging"
)

// Completer is the slice of the LLM gateway the analyzer needs.
type Completer interface {
	Completion(ctx context.Context, req gateway.CompletionRequest) *gateway.CompletionResponse
}

// Complexity pairs the detected time and space bounds.
type Complexity struct {
	Time  string `json:"time"`
	Space string `json:"space"`
}

// Analysis is the result of one analyzer run.
type Analysis struct {
	Success                 bool       `json:"success"`
	Complexity              Complexity `json:"complexity"`
	CanOptimize             bool       `json:"can_optimize"`
	OptimizationSuggestions []string   `json:"optimization_suggestions"`
	Timestamp               time.Time  `json:"timestamp"`
}

// Analyzer detects complexity and suggests optimizations.
type Analyzer struct {
	completer Completer

	mu      sync.Mutex
	history []Analysis
}

// NewAnalyzer builds an analyzer. completer may be nil; detection then relies
// on the override table and regex patterns alone.
func NewAnalyzer(completer Completer) *Analyzer {
	return &Analyzer{completer: completer}
}

var (
	tripleLoopRe   = regexp.MustCompile(`(?s)for.*for.*for`)
	nestedLoopRe   = regexp.MustCompile(`(?s)for.*for`)
	recursionRe    = regexp.MustCompile(`def\s+\w+|func\s+\w+`)
	sortingRe      = regexp.MustCompile(`\.sort\(|sorted\(|sort\.`)
	binarySearchRe = regexp.MustCompile(`(?s)while.*\bmid\b`)
	singleLoopRe   = regexp.MustCompile(`\bfor\b.*\bin\b|\bfor\b.*\brange\b`)

	listAllocRe = regexp.MustCompile(`\[\s*\]\s*\*|\.append\(|\.push\(|make\(\[\]`)
	hashAllocRe = regexp.MustCompile(`\{.*:.*\}|dict\(|HashMap|HashSet|make\(map`)
)

// overrideRules maps well-known algorithm names to their textbook complexity.
// Checked against code and problem statement together, first match wins.
var overrideRules = []struct {
	names      []string
	complexity string
}{
	{[]string{"merge sort", "mergesort", "merge_sort", "quick sort", "quicksort", "quick_sort", "heap sort", "heapsort", "heap_sort"}, "O(n log n)"},
	{[]string{"bubble sort", "bubblesort", "bubble_sort", "insertion sort", "insertionsort", "insertion_sort", "selection sort", "selectionsort", "selection_sort"}, "O(n²)"},
	{[]string{"binary search", "binarysearch", "binary_search", "bsearch"}, "O(log n)"},
	{[]string{"binary tree", "binarytree", "bst", "tree node", "tree traversal", "bfs", "dfs", "breadth first", "depth first", "linked list", "linkedlist"}, "O(n)"},
}

// optimizationHints maps a detected bound to better targets and suggestions.
var optimizationHints = []struct {
	complexity  string
	better      string
	suggestions []string
}{
	{
		complexity: "O(n²)",
		better:     "O(n), O(n log n)",
		suggestions: []string{
			"Consider using a hash table for O(1) lookups",
			"Use sorting + two pointers approach",
			"Try divide and conquer algorithm",
		},
	},
	{
		complexity: "O(n³)",
		better:     "O(n²), O(n log n)",
		suggestions: []string{
			"Reduce nested loops by using data structures",
			"Apply dynamic programming if there are overlapping subproblems",
			"Consider more efficient algorithms",
		},
	},
	{
		complexity: "O(2^n)",
		better:     "O(n), O(n²)",
		suggestions: []string{
			"Use dynamic programming to cache results",
			"Convert recursion to iteration",
			"Apply memoization techniques",
		},
	},
}

// Analyze runs the layered detection and records the result in history.
func (a *Analyzer) Analyze(ctx context.Context, code, language, problemStatement string) Analysis {
	fullContext := strings.ToLower(code) + " " + strings.ToLower(problemStatement)

	// Named algorithms first: regex detection is easily tricked by nested
	// loops inside helper functions.
	timeComplexity := overrideComplexity(fullContext)
	spaceComplexity := ""

	if a.completer != nil {
		llmTime, llmSpace, err := a.analyzeWithLLM(ctx, code, language)
		if err != nil {
			logging.Logger().Warn("LLM complexity analysis failed", "err", err)
		} else {
			if timeComplexity == "" {
				timeComplexity = llmTime
			}
			spaceComplexity = llmSpace
		}
	}

	if timeComplexity == "" {
		timeComplexity = detectTimeComplexity(code)
	}
	if spaceComplexity == "" {
		spaceComplexity = detectSpaceComplexity(code)
	}

	canOptimize, suggestions := checkOptimizationOpportunities(timeComplexity, code)

	result := Analysis{
		Success:                 true,
		Complexity:              Complexity{Time: timeComplexity, Space: spaceComplexity},
		CanOptimize:             canOptimize,
		OptimizationSuggestions: suggestions,
		Timestamp:               time.Now(),
	}

	a.mu.Lock()
	a.history = append(a.history, result)
	a.mu.Unlock()

	return result
}

func overrideComplexity(fullContext string) string {
	for _, rule := range overrideRules {
		for _, name := range rule.names {
			if strings.Contains(fullContext, name) {
				return rule.complexity
			}
		}
	}
	return ""
}

type llmComplexityReply struct {
	TimeComplexity  string `json:"time_complexity"`
	SpaceComplexity string `json:"space_complexity"`
}

const llmCodeLimit = 2000

func (a *Analyzer) analyzeWithLLM(ctx context.Context, code, language string) (string, string, error) {
	snippet := code
	if len(snippet) > llmCodeLimit {
		snippet = snippet[:llmCodeLimit]
	}

	prompt := "Analyze the Time and Space complexity of this " + language + " code.\n" +
		`RETURN JSON ONLY: {"time_complexity": "Big O", "space_complexity": "Big O"}` + "\n\nCode:\n" + snippet

	resp := a.completer.Completion(ctx, gateway.CompletionRequest{
		Messages:    []gateway.ChatMessage{{Role: gateway.RoleUser, Content: prompt}},
		Temperature: 0.1,
		MaxTokens:   100,
	})

	start := strings.Index(resp.Content, "{")
	end := strings.LastIndex(resp.Content, "}")
	if start == -1 || end == -1 || end < start {
		return "", "", errNoJSON
	}

	var parsed llmComplexityReply
	if err := json.Unmarshal([]byte(resp.Content[start:end+1]), &parsed); err != nil {
		return "", "", err
	}
	return parsed.TimeComplexity, parsed.SpaceComplexity, nil
}

var errNoJSON = jsonError("no JSON object in LLM reply")

type jsonError string

func (e jsonError) Error() string { return string(e) }

func detectTimeComplexity(code string) string {
	lower := strings.ToLower(code)

	switch {
	case tripleLoopRe.MatchString(code):
		return "O(n³)"
	case nestedLoopRe.MatchString(code):
		return "O(n²)"
	case recursionRe.MatchString(code):
		if strings.Contains(lower, "memo") || strings.Contains(lower, "@cache") || strings.Contains(lower, "@lru_cache") {
			return "O(n)"
		}
		return "O(2^n) or O(n) with memoization"
	case sortingRe.MatchString(code):
		return "O(n log n)"
	case binarySearchRe.MatchString(code):
		return "O(log n)"
	case singleLoopRe.MatchString(code):
		return "O(n)"
	default:
		return "O(1) or O(n)"
	}
}

func detectSpaceComplexity(code string) string {
	if listAllocRe.MatchString(code) {
		return "O(n)"
	}
	if hashAllocRe.MatchString(code) {
		return "O(n)"
	}

	lower := strings.ToLower(code)
	hasFunc := strings.Contains(code, "def ") || strings.Contains(code, "func ")
	if hasFunc && (strings.Contains(lower, "recursive") || strings.Contains(lower, "recurse") || strings.Contains(lower, "return")) {
		return "O(n) stack space"
	}

	return "O(1)"
}

func checkOptimizationOpportunities(timeComplexity, code string) (bool, []string) {
	var suggestions []string
	canOptimize := false

	for _, hint := range optimizationHints {
		if strings.Contains(timeComplexity, hint.complexity) {
			canOptimize = true
			suggestions = append(suggestions,
				"Current complexity is "+hint.complexity+". Can be optimized to "+hint.better+".")
			suggestions = append(suggestions, hint.suggestions...)
			break
		}
	}

	lower := strings.ToLower(code)
	if strings.Contains(timeComplexity, "O(n²)") && !strings.Contains(lower, "hash") {
		suggestions = append(suggestions, "Use a hash table/dictionary for faster lookups")
	}
	if strings.Contains(timeComplexity, "O(2^n)") && !strings.Contains(lower, "memo") && !strings.Contains(lower, "@lru_cache") {
		suggestions = append(suggestions, "Add memoization to cache recursive results")
	}

	return canOptimize, suggestions
}

// OptimizationPrompt rewrites a problem statement into an optimization request
// for the next generation iteration.
func OptimizationPrompt(problemStatement string, current Complexity, suggestions []string) string {
	suggestion := "more efficient algorithm"
	if len(suggestions) > 0 {
		suggestion = suggestions[0]
	}
	timeBound := current.Time
	if timeBound == "" {
		timeBound = "Unknown"
	}

	var b strings.Builder
	b.WriteString(problemStatement + "\n\n")
	b.WriteString("OPTIMIZATION REQUIREMENT:\n")
	b.WriteString("- Current time complexity: " + timeBound + "\n")
	b.WriteString("- Optimize using: " + suggestion + "\n")
	b.WriteString("- Target better time/space complexity")
	return b.String()
}

// History returns all analyses run so far.
func (a *Analyzer) History() []Analysis {
	a.mu.Lock()
	defer a.mu.Unlock()

	out := make([]Analysis, len(a.history))
	copy(out, a.history)
	return out
}
