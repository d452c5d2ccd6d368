package embedding

import (
	"context"
	"strings"
	"unicode"

	"github.com/hyperjump/pdfqa/pkg/utils"
)

var stopwords = map[string]struct{}{
	"a": {}, "an": {}, "the": {}, "of": {}, "and": {}, "or": {}, "to": {}, "in": {},
	"on": {}, "at": {}, "for": {}, "is": {}, "are": {}, "was": {}, "be": {}, "it": {},
	"what": {}, "which": {}, "who": {}, "this": {}, "that": {}, "with": {}, "as": {}, "by": {},
}

// HashEmbedder is an offline embedder that hashes lowercased words into a fixed number of
// buckets and L2-normalizes the counts. Texts sharing words get similar vectors, which is
// enough for tests and for running without a model server.
type HashEmbedder struct {
	dimensions int
}

// NewHashEmbedder returns a HashEmbedder with the given dimensions (384 when <= 0).
func NewHashEmbedder(dimensions int) *HashEmbedder {
	if dimensions <= 0 {
		dimensions = 384
	}
	return &HashEmbedder{dimensions: dimensions}
}

// Embed returns the normalized bag-of-words vector for text.
func (e *HashEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	if err := checkText("embed", text); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, wrapErr("embed", err)
	}
	emb := make([]float32, e.dimensions)
	words := tokenizeWords(text)
	counted := 0
	for _, w := range words {
		if _, stop := stopwords[w]; stop {
			continue
		}
		emb[e.bucket(w)]++
		counted++
	}
	if counted == 0 {
		// only stopwords: fall back to counting them
		for _, w := range words {
			emb[e.bucket(w)]++
		}
	}
	if len(words) == 0 {
		emb[e.bucket(text)] = 1
	}
	utils.NormalizeL2(emb)
	return emb, nil
}

func (e *HashEmbedder) bucket(word string) uint32 {
	return HashString(word) % uint32(e.dimensions)
}

// EmbedBatch calls Embed for each text.
func (e *HashEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	embeddings := make([][]float32, len(texts))
	for i, text := range texts {
		emb, err := e.Embed(ctx, text)
		if err != nil {
			return nil, err
		}
		embeddings[i] = emb
	}
	return embeddings, nil
}

// Dimensions returns the embedding dimension.
func (e *HashEmbedder) Dimensions() int {
	return e.dimensions
}

// Close is a no-op.
func (e *HashEmbedder) Close() error {
	return nil
}

// tokenizeWords lowercases text and splits it on anything that is not a letter or digit.
func tokenizeWords(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}
