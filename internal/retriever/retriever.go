// Package retriever finds the document segments most relevant to a question.
package retriever

import (
	"context"
	"errors"
	"fmt"

	"github.com/hyperjump/pdfqa/internal/embedding"
	"github.com/hyperjump/pdfqa/internal/models"
	"github.com/hyperjump/pdfqa/internal/vector"
)

// DefaultTopK is the number of segments retrieved when k is not positive.
const DefaultTopK = 4

// ErrNoActiveIndex is returned when no document has been indexed yet.
var ErrNoActiveIndex = errors.New("no document loaded")

// Retriever embeds a question and returns the nearest segments from one index.
type Retriever struct {
	embedder embedding.Embedder
	index    vector.VectorIndex
	k        int
}

// New binds embedder and index. The embedder must be the one that produced the index vectors.
func New(embedder embedding.Embedder, index vector.VectorIndex, k int) *Retriever {
	if k <= 0 {
		k = DefaultTopK
	}
	return &Retriever{embedder: embedder, index: index, k: k}
}

// K returns the number of segments requested per question.
func (r *Retriever) K() int {
	return r.k
}

// Retrieve returns up to K segments ranked by similarity to question, most similar first.
func (r *Retriever) Retrieve(ctx context.Context, question string) ([]models.Segment, error) {
	if r == nil || r.index == nil {
		return nil, ErrNoActiveIndex
	}
	q, err := r.embedder.Embed(ctx, question)
	if err != nil {
		return nil, fmt.Errorf("embed question: %w", err)
	}
	results, err := r.index.Search(ctx, q, r.k)
	if err != nil {
		return nil, fmt.Errorf("search index: %w", err)
	}
	segments := make([]models.Segment, len(results))
	for i, res := range results {
		segments[i] = res.Segment
	}
	return segments, nil
}
