// Package generator produces answers from a language model grounded in retrieved context.
package generator

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/hyperjump/pdfqa/pkg/utils"
	"github.com/tmc/langchaingo/prompts"
	"go.uber.org/zap"
)

// PromptTemplate instructs the model to answer only from the supplied context.
const PromptTemplate = "Answer the question based only on the following context:\n{{.context}}\n\nQuestion: {{.question}}\n"

// DefaultTimeout bounds a single model call when no timeout is configured.
const DefaultTimeout = 120 * time.Second

// LanguageModel completes a prompt.
type LanguageModel interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// GenerationError reports a failed model call. Generation is never retried.
type GenerationError struct {
	Err error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("generation failed: %v", e.Err)
}

func (e *GenerationError) Unwrap() error {
	return e.Err
}

// Generator formats the prompt and invokes the model once per question.
type Generator struct {
	model    LanguageModel
	template prompts.PromptTemplate
	timeout  time.Duration
	logger   *zap.Logger
}

// Option configures a Generator.
type Option func(*Generator)

// WithTimeout bounds each model call.
func WithTimeout(d time.Duration) Option {
	return func(g *Generator) { g.timeout = d }
}

// WithLogger sets a logger for debug output.
func WithLogger(l *zap.Logger) Option {
	return func(g *Generator) { g.logger = l }
}

// New creates a Generator for model.
func New(model LanguageModel, opts ...Option) (*Generator, error) {
	if model == nil {
		return nil, errors.New("generator: language model is required")
	}
	g := &Generator{
		model:    model,
		template: prompts.NewPromptTemplate(PromptTemplate, []string{"context", "question"}),
		timeout:  DefaultTimeout,
	}
	for _, opt := range opts {
		opt(g)
	}
	g.logger = utils.OrNop(g.logger)
	return g, nil
}

// Prompt renders the prompt for question and contexts, joining contexts with blank lines in
// the order given.
func (g *Generator) Prompt(question string, contexts []string) (string, error) {
	return g.template.Format(map[string]any{
		"context":  strings.Join(contexts, "\n\n"),
		"question": question,
	})
}

// Generate answers question from contexts. The model output is returned with surrounding
// whitespace trimmed and is otherwise unmodified.
func (g *Generator) Generate(ctx context.Context, question string, contexts []string) (string, error) {
	prompt, err := g.Prompt(question, contexts)
	if err != nil {
		return "", &GenerationError{Err: fmt.Errorf("format prompt: %w", err)}
	}
	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}
	began := time.Now()
	out, err := g.model.Complete(ctx, prompt)
	if err != nil {
		return "", &GenerationError{Err: err}
	}
	g.logger.Debug("answer generated",
		zap.Int("contexts", len(contexts)),
		zap.Int("prompt_chars", len(prompt)),
		zap.Duration("took", time.Since(began)))
	return strings.TrimSpace(out), nil
}
