// Package pipeline binds retrieval and generation for one indexed document.
package pipeline

import (
	"context"
	"fmt"

	"github.com/hyperjump/pdfqa/internal/generator"
	"github.com/hyperjump/pdfqa/internal/retriever"
)

// Pipeline answers questions about one document.
type Pipeline interface {
	Answer(ctx context.Context, question string) (string, error)
}

// RAG retrieves relevant segments and generates an answer from them.
type RAG struct {
	retriever *retriever.Retriever
	generator *generator.Generator
}

// New creates a RAG pipeline.
func New(r *retriever.Retriever, g *generator.Generator) *RAG {
	return &RAG{retriever: r, generator: g}
}

// Answer retrieves context for question and asks the generator for an answer.
func (p *RAG) Answer(ctx context.Context, question string) (string, error) {
	segments, err := p.retriever.Retrieve(ctx, question)
	if err != nil {
		return "", fmt.Errorf("retrieve: %w", err)
	}
	contexts := make([]string, len(segments))
	for i, s := range segments {
		contexts[i] = s.Text
	}
	return p.generator.Generate(ctx, question, contexts)
}
