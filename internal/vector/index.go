// Package vector provides an immutable nearest-neighbor index over segment embeddings.
package vector

import (
	"context"

	"github.com/hyperjump/pdfqa/internal/models"
)

// VectorIndex answers nearest-neighbor queries over a fixed set of entries.
type VectorIndex interface {
	Search(ctx context.Context, query []float32, k int) ([]*Result, error)
	Size() int
	Dimensions() int
	Metric() Metric
	Close() error
}

// Entry pairs a segment with its embedding.
type Entry struct {
	Vector  []float32
	Segment models.Segment
}

// Result is a single search hit. Higher Score means more similar.
type Result struct {
	Segment models.Segment
	Score   float64
}
