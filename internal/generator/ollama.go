package generator

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/ollama"
)

// OllamaModel completes prompts with a model served by Ollama.
type OllamaModel struct {
	llm         *ollama.LLM
	temperature float64
}

// NewOllamaModel connects to the Ollama server at baseURL. Requests are bounded by timeout.
func NewOllamaModel(baseURL, model string, temperature float64, timeout time.Duration) (*OllamaModel, error) {
	if model == "" {
		return nil, fmt.Errorf("ollama model: model name is required")
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	llm, err := ollama.New(
		ollama.WithModel(model),
		ollama.WithServerURL(baseURL),
		ollama.WithHTTPClient(&http.Client{Timeout: timeout}),
	)
	if err != nil {
		return nil, fmt.Errorf("create ollama client: %w", err)
	}
	return &OllamaModel{llm: llm, temperature: temperature}, nil
}

// Complete sends prompt as a single user message and returns the reply.
func (m *OllamaModel) Complete(ctx context.Context, prompt string) (string, error) {
	return llms.GenerateFromSinglePrompt(ctx, m.llm, prompt, llms.WithTemperature(m.temperature))
}
