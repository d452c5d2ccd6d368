package main

import (
	"fmt"

	"github.com/hyperjump/pdfqa/internal/config"
	"github.com/hyperjump/pdfqa/internal/embedding"
	"github.com/hyperjump/pdfqa/internal/extract"
	"github.com/hyperjump/pdfqa/internal/generator"
	"github.com/hyperjump/pdfqa/internal/indexer"
	"github.com/hyperjump/pdfqa/internal/session"
	"go.uber.org/zap"
)

// App holds the wired components shared by serve and ask.
type App struct {
	Embedder embedding.Embedder
	Indexer  *indexer.Indexer
	Session  *session.Session
}

// Close releases the embedder.
func (a *App) Close() {
	if a.Embedder != nil {
		_ = a.Embedder.Close()
	}
}

func newApp(cfg *config.Config, logger *zap.Logger) (*App, error) {
	emb, err := embedding.New(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("embedder: %w", err)
	}
	model, err := generator.NewOllamaModel(cfg.Ollama.BaseURL, cfg.Generation.Model, cfg.Generation.Temperature, cfg.Ollama.Timeout)
	if err != nil {
		_ = emb.Close()
		return nil, fmt.Errorf("language model: %w", err)
	}
	return assemble(cfg, logger, emb, model)
}

// assemble wires the pipeline around an embedder and model.
func assemble(cfg *config.Config, logger *zap.Logger, emb embedding.Embedder, model generator.LanguageModel) (*App, error) {
	gen, err := generator.New(model,
		generator.WithTimeout(cfg.Generation.Timeout),
		generator.WithLogger(logger))
	if err != nil {
		_ = emb.Close()
		return nil, err
	}
	idx, err := indexer.NewIndexer(extract.NewExtractor(), emb, gen, cfg, indexer.WithLogger(logger))
	if err != nil {
		_ = emb.Close()
		return nil, fmt.Errorf("indexer: %w", err)
	}
	return &App{
		Embedder: emb,
		Indexer:  idx,
		Session:  session.New(idx, session.WithLogger(logger)),
	}, nil
}
