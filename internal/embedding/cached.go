package embedding

import "context"

// CachedEmbedder puts an LRU cache in front of another Embedder. Re-uploading a document or
// repeating a question skips the backend for texts it has already seen.
type CachedEmbedder struct {
	inner Embedder
	cache *vectorCache
}

// NewCachedEmbedder wraps inner with a cache holding up to capacity vectors.
func NewCachedEmbedder(inner Embedder, capacity int) *CachedEmbedder {
	return &CachedEmbedder{inner: inner, cache: newVectorCache(capacity)}
}

func (e *CachedEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	if v, ok := e.cache.Get(text); ok {
		return v, nil
	}
	v, err := e.inner.Embed(ctx, text)
	if err != nil {
		return nil, err
	}
	e.cache.Put(text, v)
	return v, nil
}

// EmbedBatch serves hits from the cache and sends the misses to the wrapped embedder as a
// single batch, keeping input order.
func (e *CachedEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	var misses []int
	var pending []string
	for i, t := range texts {
		if v, ok := e.cache.Get(t); ok {
			out[i] = v
			continue
		}
		misses = append(misses, i)
		pending = append(pending, t)
	}
	if len(pending) == 0 {
		return out, nil
	}
	vecs, err := e.inner.EmbedBatch(ctx, pending)
	if err != nil {
		return nil, err
	}
	for j, i := range misses {
		out[i] = vecs[j]
		e.cache.Put(texts[i], vecs[j])
	}
	return out, nil
}

func (e *CachedEmbedder) Dimensions() int {
	return e.inner.Dimensions()
}

func (e *CachedEmbedder) Close() error {
	return e.inner.Close()
}
