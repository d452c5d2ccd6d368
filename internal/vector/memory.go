package vector

import (
	"context"
	"errors"
	"fmt"
	"sort"
)

// ErrEmptyIndex is returned by Build when given no entries.
var ErrEmptyIndex = errors.New("cannot build index from zero entries")

// MemoryIndex is an immutable in-memory index using brute-force search. It is safe for
// concurrent use because nothing mutates it after Build.
type MemoryIndex struct {
	dimensions int
	metric     Metric
	entries    []Entry
}

// Build creates an index over entries. All vectors must be non-empty and share one
// dimension. Vectors are copied, so callers may reuse their slices.
func Build(entries []Entry, metric Metric) (*MemoryIndex, error) {
	if len(entries) == 0 {
		return nil, ErrEmptyIndex
	}
	if metric == "" {
		metric = MetricCosine
	}
	if _, err := ParseMetric(string(metric)); err != nil {
		return nil, err
	}
	dims := len(entries[0].Vector)
	if dims == 0 {
		return nil, fmt.Errorf("entry 0 has an empty vector")
	}
	stored := make([]Entry, len(entries))
	for i, e := range entries {
		if len(e.Vector) != dims {
			return nil, fmt.Errorf("vector dimension mismatch at entry %d: got %d, expected %d", i, len(e.Vector), dims)
		}
		stored[i] = Entry{Vector: metric.prepare(e.Vector), Segment: e.Segment}
	}
	return &MemoryIndex{dimensions: dims, metric: metric, entries: stored}, nil
}

// Search returns the min(k, Size()) entries most similar to query in descending score
// order. Equal scores keep insertion order. k <= 0 returns no results.
func (m *MemoryIndex) Search(ctx context.Context, query []float32, k int) ([]*Result, error) {
	if len(query) != m.dimensions {
		return nil, fmt.Errorf("query dimension mismatch: got %d, expected %d", len(query), m.dimensions)
	}
	if k <= 0 {
		return nil, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	q := m.metric.prepare(query)
	results := make([]*Result, len(m.entries))
	for i, e := range m.entries {
		results[i] = &Result{Segment: e.Segment, Score: m.metric.score(q, e.Vector)}
	}
	sort.SliceStable(results, func(i, j int) bool { return results[i].Score > results[j].Score })
	if k > len(results) {
		k = len(results)
	}
	return results[:k], nil
}

// Size returns the number of entries in the index.
func (m *MemoryIndex) Size() int {
	return len(m.entries)
}

// Dimensions returns the vector dimension.
func (m *MemoryIndex) Dimensions() int {
	return m.dimensions
}

// Metric returns the similarity metric.
func (m *MemoryIndex) Metric() Metric {
	return m.metric
}

// Close is a no-op for MemoryIndex.
func (m *MemoryIndex) Close() error {
	return nil
}
