// Package viz generates step-by-step execution traces for algorithm
// visualization by asking the LLM gateway to simulate the given code.
package viz

import (
	"context"
	"encoding/json"
	"log/slog"
	"regexp"
	"strings"

	"github.com/Harshavardhan123-cloud/agentic-ai-platform/internal/gateway"
)

// Completer is the slice of the LLM gateway the generator needs.
type Completer interface {
	Completion(ctx context.Context, req gateway.CompletionRequest) *gateway.CompletionResponse
}

// Step is one frame of an execution trace. ActiveIndices holds the array
// indices or node ids touched in the step; graph traces use string ids, so
// the element type is left open.
type Step struct {
	StepID        int            `json:"step_id"`
	Description   string         `json:"description"`
	ActiveIndices []any          `json:"active_indices"`
	Variables     map[string]any `json:"variables"`
}

// Trace is the visualization contract consumed by the frontend. Variables in
// every step carry the main structure under the "visualization_data" key.
type Trace struct {
	VisualizationType string `json:"visualization_type"`
	DataStructureName string `json:"data_structure_name"`
	InitialLabel      string `json:"initial_label"`
	Steps             []Step `json:"steps"`
}

// Generator turns code into visualization traces.
type Generator struct {
	completer Completer
	logger    *slog.Logger
}

func NewGenerator(completer Completer, logger *slog.Logger) *Generator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Generator{completer: completer, logger: logger}
}

const traceSystemPrompt = `You are an Algorithm Visualizer.
Your goal is to simulate the execution of the provided code for a robust sample input and produce a step-by-step JSON execution trace.

OUTPUT FORMAT (Strict JSON):
{
  "visualization_type": "array" | "matrix" | "graph" | "tree" | "generic",
  "data_structure_name": "visualization_data",
  "initial_label": "Initial State",
  "steps": [
    {
      "step_id": 1,
      "description": "Short explanation",
      "active_indices": [0, 1],
      "variables": {
        "visualization_data": [1, 2, 3],
        "i": 0,
        "j": 1
      }
    }
  ]
}

RULES:
1. **Arrays**: For Sorting/Searching, use "array". Input ex: [5, 2, 9, 1, 5]. visualization_data is the list.
2. **Graphs**: For BFS/DFS/Shortest Path, use "graph". visualization_data must be: {"nodes": [1, 2, 3], "edges": [[1, 2], [2, 3]]}.
3. **Trees**: For Tree traversals, use "tree". visualization_data is the root object: {"id": 1, "val": 5, "left": {...}, "right": {...}}.
4. **Generic**: For anything else (DP, Math, Text processing), use "generic". visualization_data can be any JSON object showing state.
5. **Inference**: If the problem type is generic, INFER the best type based on the code.
6. **Simulation**: If the code is ONLY definitions, YOU MUST SIMULATE a simple usage to generate the trace.
7. Trace max 50 steps.
8. ALWAYS use "visualization_data" as the key in variables for the structure being visualized.`

const retrySystemPrompt = `You are a Code Simulator.
The user provided a class or function definition but no usage code.
JOB: Invent a valid usage scenario (instantiate the class, call the function) and trace it.
OUTPUT: Strict JSON only (same format as before).
DO NOT explain. DO NOT say "Here is the trace". JUST. THE. JSON.`

// GenerateTrace asks the gateway to simulate the code and returns the parsed
// trace. It never fails: when the gateway is absent, unconfigured, or returns
// something unparseable, a fallback trace describes the situation instead.
func (g *Generator) GenerateTrace(ctx context.Context, code, language, problemType string) *Trace {
	if problemType == "" {
		problemType = "generic"
	}
	if g.completer == nil {
		return errorTrace("LLM gateway not available")
	}

	userPrompt := "Language: " + language + "\n" +
		"Problem Type: " + problemType + " (If generic, please INFER the data structure from code)\n\n" +
		"Code:\n" + code + "\n\n" +
		"Generate the JSON execution trace now."

	resp := g.completer.Completion(ctx, gateway.CompletionRequest{
		Messages: []gateway.ChatMessage{
			{Role: gateway.RoleSystem, Content: traceSystemPrompt},
			{Role: gateway.RoleUser, Content: userPrompt},
		},
		Temperature: 0.1,
		MaxTokens:   3000,
	})

	if trace := extractTrace(resp.Content); trace != nil {
		return trace
	}

	// Definition-only code often makes the model describe instead of
	// simulate. One retry with a prompt that forces a usage scenario.
	if looksLikeDefinitionOnly(code) {
		g.logger.Warn("trace extraction failed for static code, retrying with forced simulation")
		retry := g.completer.Completion(ctx, gateway.CompletionRequest{
			Messages: []gateway.ChatMessage{
				{Role: gateway.RoleSystem, Content: retrySystemPrompt},
				{Role: gateway.RoleUser, Content: "Code:\n" + code + "\n\nERROR: You failed to output JSON last time. SIMULATE THIS CODE NOW."},
			},
			Temperature: 0.2,
			MaxTokens:   3000,
		})
		if trace := braceSliceTrace(retry.Content); trace != nil {
			return trace
		}
	}

	g.logger.Warn("trace generation failed, returning static structure trace", "language", language, "problem_type", problemType)
	return staticTrace(problemType)
}

func looksLikeDefinitionOnly(code string) bool {
	return strings.Contains(code, "class") || strings.Contains(code, "def") || strings.Contains(code, "func")
}

var (
	jsonFenceRe  = regexp.MustCompile("(?s)```json\\s*(\\{.*?\\})\\s*```")
	plainFenceRe = regexp.MustCompile("(?s)```\\s*(\\{.*?\\})\\s*```")
)

// extractTrace tries progressively looser strategies: a direct parse, a
// fenced JSON block, then slicing from the first { to the last }.
func extractTrace(content string) *Trace {
	if trace := parseTrace(strings.TrimSpace(content)); trace != nil {
		return trace
	}
	for _, re := range []*regexp.Regexp{jsonFenceRe, plainFenceRe} {
		if m := re.FindStringSubmatch(content); m != nil {
			if trace := parseTrace(m[1]); trace != nil {
				return trace
			}
		}
	}
	return braceSliceTrace(content)
}

func braceSliceTrace(content string) *Trace {
	first := strings.Index(content, "{")
	last := strings.LastIndex(content, "}")
	if first == -1 || last <= first {
		return nil
	}
	return parseTrace(content[first : last+1])
}

func parseTrace(s string) *Trace {
	var trace Trace
	if err := json.Unmarshal([]byte(s), &trace); err != nil {
		return nil
	}
	if len(trace.Steps) == 0 {
		return nil
	}
	return &trace
}

// staticTrace is shown when the model never produced a usable simulation.
func staticTrace(problemType string) *Trace {
	vizType := "generic"
	if strings.Contains(problemType, "tree") {
		vizType = "tree"
	}
	return &Trace{
		VisualizationType: vizType,
		DataStructureName: "visualization_data",
		InitialLabel:      "Code Structure (Static)",
		Steps: []Step{{
			StepID:      1,
			Description: "Auto-simulation failed. Showing static code structure.",
			Variables: map[string]any{
				"visualization_data": map[string]any{
					"id":   "root",
					"val":  "Definition Only",
					"note": "Add a 'main' block to see execution.",
				},
			},
		}},
	}
}

func errorTrace(reason string) *Trace {
	return &Trace{
		VisualizationType: "generic",
		DataStructureName: "error",
		InitialLabel:      "Visualization Error",
		Steps: []Step{{
			StepID:      1,
			Description: "Failed to generate visualization trace: " + reason,
			Variables:   map[string]any{"error": "Try again or use a simpler algorithm"},
		}},
	}
}
