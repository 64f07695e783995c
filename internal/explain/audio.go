package explain

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	openai "github.com/sashabaranov/go-openai"

	"github.com/Harshavardhan123-cloud/agentic-ai-platform/internal/gateway"
)

// AudioResult reports the outcome of audio narration. The agent degrades
// rather than fails: when TTS is unavailable the script alone is returned
// with Provider "llm_text_only" and a Warning explaining the downgrade.
type AudioResult struct {
	Success  bool   `json:"success"`
	AudioURL string `json:"audio_url,omitempty"`
	Script   string `json:"script"`
	Provider string `json:"provider"`
	Warning  string `json:"warning,omitempty"`
}

// speechFunc converts a script to audio bytes. Swapped out in tests.
type speechFunc func(ctx context.Context, apiKey, script string) (io.ReadCloser, error)

// AudioAgent narrates solutions: the gateway writes a short script, OpenAI
// TTS turns it into an mp3 under the audio cache directory.
type AudioAgent struct {
	completer Completer
	audioDir  string
	logger    *slog.Logger
	speak     speechFunc
}

func NewAudioAgent(completer Completer, audioDir string, logger *slog.Logger) (*AudioAgent, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if err := os.MkdirAll(audioDir, 0o755); err != nil {
		return nil, fmt.Errorf("create audio cache dir: %w", err)
	}
	return &AudioAgent{
		completer: completer,
		audioDir:  audioDir,
		logger:    logger,
		speak:     openAISpeech,
	}, nil
}

func openAISpeech(ctx context.Context, apiKey, script string) (io.ReadCloser, error) {
	client := openai.NewClient(apiKey)
	resp, err := client.CreateSpeech(ctx, openai.CreateSpeechRequest{
		Model: openai.TTSModel1,
		Voice: openai.VoiceAlloy,
		Input: script,
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

const podcastPrompt = `You are a Tech Podcast Host.
Summarize this coding problem and solution into a short, engaging 30-45 second script for audio.
Focus on the "Aha!" moment and the core logic.
Do not read code line-by-line. Use natural, conversational English.
Start with: "Here's how this code works..."`

const fallbackScript = "Here is a summary of the solution. The code implements an optimized algorithm to solve the problem efficiently."

// GenerateAudio writes a narration script and converts it to an mp3. TTS
// needs its own OPENAI_API_KEY; without one the script is returned as text.
func (a *AudioAgent) GenerateAudio(ctx context.Context, code, problem string) *AudioResult {
	if a.completer == nil {
		return &AudioResult{Provider: "llm_text_only", Warning: "LLM gateway not available"}
	}

	a.logger.Debug("requesting narration script")
	resp := a.completer.Completion(ctx, gateway.CompletionRequest{
		Messages: []gateway.ChatMessage{
			{Role: gateway.RoleSystem, Content: podcastPrompt},
			{Role: gateway.RoleUser, Content: "Problem: " + problem + "\nCode:\n" + code},
		},
		Temperature: 0.5,
		MaxTokens:   600,
	})
	script := resp.Content

	if script == "" || strings.HasPrefix(script, "Error:") {
		if script == "" {
			script = fallbackScript
		}
		return &AudioResult{
			Success:  true,
			Script:   script,
			Provider: "llm_text_only",
			Warning:  "Audio skipped (Error in script).",
		}
	}

	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		a.logger.Warn("no OPENAI_API_KEY for TTS, returning text only")
		return &AudioResult{
			Success:  true,
			Script:   script,
			Provider: "llm_text_only",
			Warning:  "Audio skipped (No OpenAI API key for TTS).",
		}
	}

	audio, err := a.speak(ctx, apiKey, script)
	if err != nil {
		a.logger.Warn("tts generation failed", "error", err)
		return &AudioResult{
			Success:  true,
			Script:   script,
			Provider: "llm_text_only",
			Warning:  "Audio generation failed: " + err.Error(),
		}
	}
	defer audio.Close()

	filename := "explanation_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:8] + ".mp3"
	path := filepath.Join(a.audioDir, filename)
	out, err := os.Create(path)
	if err != nil {
		return &AudioResult{
			Success:  true,
			Script:   script,
			Provider: "llm_text_only",
			Warning:  "Audio generation failed: " + err.Error(),
		}
	}
	defer out.Close()
	if _, err := io.Copy(out, audio); err != nil {
		return &AudioResult{
			Success:  true,
			Script:   script,
			Provider: "llm_text_only",
			Warning:  "Audio generation failed: " + err.Error(),
		}
	}

	a.logger.Info("narration saved", "path", path)
	return &AudioResult{
		Success:  true,
		AudioURL: "/audio_cache/" + filename,
		Script:   script,
		Provider: "openai_tts",
	}
}
