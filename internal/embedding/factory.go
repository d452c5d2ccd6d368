package embedding

import (
	"fmt"

	"github.com/hyperjump/pdfqa/internal/config"
	"github.com/hyperjump/pdfqa/pkg/utils"
	"go.uber.org/zap"
)

// New builds the embedder selected by cfg.Embedding.Provider, wrapped in an LRU cache when
// cache_size is positive.
func New(cfg *config.Config, logger *zap.Logger) (Embedder, error) {
	logger = utils.OrNop(logger)
	ec := cfg.Embedding
	var inner Embedder
	switch ec.Provider {
	case "ollama":
		e, err := NewOllamaEmbedder(OllamaOptions{
			BaseURL:     cfg.Ollama.BaseURL,
			Model:       ec.Model,
			Dimensions:  ec.Dimensions,
			Timeout:     cfg.Ollama.Timeout,
			BatchSize:   ec.BatchSize,
			Concurrency: ec.Concurrency,
			Logger:      logger,
		})
		if err != nil {
			return nil, err
		}
		inner = e
	case "hash":
		inner = NewHashEmbedder(ec.Dimensions)
	case "onnx":
		e, err := NewONNXEmbedder(ec.ModelPath, ec.Dimensions, ec.MaxTokens)
		if err != nil {
			return nil, err
		}
		inner = e
	default:
		return nil, fmt.Errorf("unknown embedding provider: %s", ec.Provider)
	}
	logger.Debug("embedder created",
		zap.String("provider", ec.Provider),
		zap.String("model", ec.Model),
		zap.Int("dimensions", inner.Dimensions()),
		zap.Int("cache_size", ec.CacheSize))
	if ec.CacheSize > 0 {
		return NewCachedEmbedder(inner, ec.CacheSize), nil
	}
	return inner, nil
}
