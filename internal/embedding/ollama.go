package embedding

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/hyperjump/pdfqa/pkg/utils"
	"github.com/tmc/langchaingo/embeddings"
	"github.com/tmc/langchaingo/llms/ollama"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// OllamaOptions configures an OllamaEmbedder.
type OllamaOptions struct {
	BaseURL     string
	Model       string
	Dimensions  int
	Timeout     time.Duration
	BatchSize   int
	Concurrency int
	Logger      *zap.Logger
}

// OllamaEmbedder calls an Ollama server for embeddings. Batches are split into groups of
// BatchSize texts sent concurrently, at most Concurrency at a time.
type OllamaEmbedder struct {
	embedder    *embeddings.EmbedderImpl
	model       string
	dimensions  int
	batchSize   int
	concurrency int
	logger      *zap.Logger
}

// NewOllamaEmbedder creates an embedder backed by the Ollama server at opts.BaseURL.
// Every request is bounded by opts.Timeout.
func NewOllamaEmbedder(opts OllamaOptions) (*OllamaEmbedder, error) {
	if opts.Model == "" {
		return nil, fmt.Errorf("ollama embedder: model is required")
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}
	if opts.BatchSize <= 0 {
		opts.BatchSize = 16
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = 1
	}
	opts.Logger = utils.OrNop(opts.Logger)
	llm, err := ollama.New(
		ollama.WithModel(opts.Model),
		ollama.WithServerURL(opts.BaseURL),
		ollama.WithHTTPClient(&http.Client{Timeout: opts.Timeout}),
	)
	if err != nil {
		return nil, fmt.Errorf("create ollama client: %w", err)
	}
	emb, err := embeddings.NewEmbedder(llm, embeddings.WithBatchSize(opts.BatchSize))
	if err != nil {
		return nil, fmt.Errorf("create ollama embedder: %w", err)
	}
	return &OllamaEmbedder{
		embedder:    emb,
		model:       opts.Model,
		dimensions:  opts.Dimensions,
		batchSize:   opts.BatchSize,
		concurrency: opts.Concurrency,
		logger:      opts.Logger,
	}, nil
}

// Embed returns the embedding for a single text.
func (e *OllamaEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	if err := checkText("embed", text); err != nil {
		return nil, err
	}
	vec, err := e.embedder.EmbedQuery(ctx, text)
	if err != nil {
		return nil, wrapErr("embed", err)
	}
	if err := e.checkDims(vec); err != nil {
		return nil, wrapErr("embed", err)
	}
	return vec, nil
}

// EmbedBatch embeds texts in groups. Any failed group fails the whole batch.
func (e *OllamaEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	for _, t := range texts {
		if err := checkText("embed batch", t); err != nil {
			return nil, err
		}
	}
	out := make([][]float32, len(texts))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.concurrency)
	for start := 0; start < len(texts); start += e.batchSize {
		start, end := start, min(start+e.batchSize, len(texts))
		g.Go(func() error {
			began := time.Now()
			vecs, err := e.embedder.EmbedDocuments(gctx, texts[start:end])
			if err != nil {
				return err
			}
			if len(vecs) != end-start {
				return fmt.Errorf("got %d embeddings for %d texts", len(vecs), end-start)
			}
			for i, v := range vecs {
				if err := e.checkDims(v); err != nil {
					return err
				}
				out[start+i] = v
			}
			e.logger.Debug("embedded batch",
				zap.String("model", e.model),
				zap.Int("offset", start),
				zap.Int("size", end-start),
				zap.Duration("took", time.Since(began)))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, wrapErr("embed batch", err)
	}
	return out, nil
}

// checkDims rejects empty vectors and, when dimensions is set, vectors of another length.
func (e *OllamaEmbedder) checkDims(v []float32) error {
	if len(v) == 0 {
		return fmt.Errorf("empty embedding returned by model %s", e.model)
	}
	if e.dimensions > 0 && len(v) != e.dimensions {
		return fmt.Errorf("model %s returned %d dimensions, expected %d", e.model, len(v), e.dimensions)
	}
	return nil
}

// Dimensions returns the configured embedding dimension.
func (e *OllamaEmbedder) Dimensions() int {
	return e.dimensions
}

// Close is a no-op; the HTTP client holds no resources that need releasing.
func (e *OllamaEmbedder) Close() error {
	return nil
}
