// Package embedding converts text into fixed-dimension vectors.
package embedding

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Embedder produces vector embeddings for text. The same text always yields the same vector,
// and EmbedBatch returns vectors in input order, equal to calling Embed on each item.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
	Dimensions() int
	Close() error
}

// ErrEmptyText is returned when asked to embed blank text.
var ErrEmptyText = errors.New("text is empty")

// EmbeddingError reports a failed embedding operation.
type EmbeddingError struct {
	Op  string
	Err error
}

func (e *EmbeddingError) Error() string {
	return fmt.Sprintf("embedding %s: %v", e.Op, e.Err)
}

func (e *EmbeddingError) Unwrap() error {
	return e.Err
}

func checkText(op, text string) error {
	if strings.TrimSpace(text) == "" {
		return &EmbeddingError{Op: op, Err: ErrEmptyText}
	}
	return nil
}

func wrapErr(op string, err error) error {
	var ee *EmbeddingError
	if errors.As(err, &ee) {
		return err
	}
	return &EmbeddingError{Op: op, Err: err}
}
