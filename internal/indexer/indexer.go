package indexer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/hyperjump/pdfqa/internal/config"
	"github.com/hyperjump/pdfqa/internal/embedding"
	"github.com/hyperjump/pdfqa/internal/generator"
	"github.com/hyperjump/pdfqa/internal/models"
	"github.com/hyperjump/pdfqa/internal/pipeline"
	"github.com/hyperjump/pdfqa/internal/retriever"
	"github.com/hyperjump/pdfqa/internal/vector"
	"go.uber.org/zap"
)

// Ingestion stages reported by IngestionError.
const (
	StageExtract = "extract"
	StageChunk   = "chunk"
	StageEmbed   = "embed"
	StageIndex   = "index"
)

// ErrEmptyDocument is returned when preprocessing leaves no text to index.
var ErrEmptyDocument = errors.New("document has no text to index")

// IngestionError reports which stage of building a pipeline failed.
type IngestionError struct {
	Stage string
	Err   error
}

func (e *IngestionError) Error() string {
	return fmt.Sprintf("%s: %v", e.Stage, e.Err)
}

func (e *IngestionError) Unwrap() error {
	return e.Err
}

// Extractor reads a document from a file.
type Extractor interface {
	Extract(path string) (*models.Document, error)
}

// Indexer builds a question-answering pipeline from a PDF.
type Indexer struct {
	extractor Extractor
	embedder  embedding.Embedder
	generator *generator.Generator
	chunker   *Chunker
	topK      int
	metric    vector.Metric
	logger    *zap.Logger // optional; when set, logs debug events
}

// IndexerOption configures an Indexer.
type IndexerOption func(*Indexer)

// WithLogger sets a logger for debug output.
func WithLogger(l *zap.Logger) IndexerOption {
	return func(idx *Indexer) { idx.logger = l }
}

// NewIndexer creates an indexer. Chunking and retrieval settings come from cfg.
func NewIndexer(
	extractor Extractor,
	embedder embedding.Embedder,
	gen *generator.Generator,
	cfg *config.Config,
	opts ...IndexerOption,
) (*Indexer, error) {
	chunker, err := NewChunker(cfg.Chunking.ChunkSize, cfg.Chunking.Overlap())
	if err != nil {
		return nil, err
	}
	metric, err := vector.ParseMetric(cfg.Retrieval.Metric)
	if err != nil {
		return nil, err
	}
	idx := &Indexer{
		extractor: extractor,
		embedder:  embedder,
		generator: gen,
		chunker:   chunker,
		topK:      cfg.Retrieval.TopK,
		metric:    metric,
	}
	for _, opt := range opts {
		opt(idx)
	}
	return idx, nil
}

// Build extracts the uploaded PDF and indexes it. upload.Name is reported as the document
// name, and upload.Release runs right after extraction, whether or not it succeeded.
// On error nothing is returned and no shared state has been touched.
func (idx *Indexer) Build(ctx context.Context, upload models.Upload) (pipeline.Pipeline, *models.DocumentInfo, error) {
	if idx.logger != nil {
		idx.logger.Debug("indexer extracting document", zap.String("name", upload.Name), zap.String("path", upload.Path))
	}
	doc, err := idx.extractor.Extract(upload.Path)
	if upload.Release != nil {
		upload.Release()
	}
	if err != nil {
		return nil, nil, &IngestionError{Stage: StageExtract, Err: err}
	}
	if upload.Name != "" {
		doc.Name = upload.Name
	}
	return idx.BuildDocument(ctx, doc)
}

// BuildDocument preprocesses, chunks, embeds and indexes an extracted document.
func (idx *Indexer) BuildDocument(ctx context.Context, doc *models.Document) (pipeline.Pipeline, *models.DocumentInfo, error) {
	began := time.Now()
	for i := range doc.Pages {
		doc.Pages[i].Text = Preprocess(doc.Pages[i].Text)
	}
	segments := idx.chunker.Chunk(doc)
	if len(segments) == 0 {
		return nil, nil, &IngestionError{Stage: StageChunk, Err: ErrEmptyDocument}
	}
	texts := make([]string, len(segments))
	for i, s := range segments {
		texts[i] = s.Text
	}
	vectors, err := idx.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return nil, nil, &IngestionError{Stage: StageEmbed, Err: err}
	}
	if len(vectors) != len(segments) {
		return nil, nil, &IngestionError{Stage: StageEmbed, Err: fmt.Errorf("got %d embeddings for %d segments", len(vectors), len(segments))}
	}
	entries := make([]vector.Entry, len(segments))
	for i, s := range segments {
		entries[i] = vector.Entry{Vector: vectors[i], Segment: s}
	}
	index, err := vector.Build(entries, idx.metric)
	if err != nil {
		return nil, nil, &IngestionError{Stage: StageIndex, Err: err}
	}
	r := retriever.New(idx.embedder, index, idx.topK)
	p := pipeline.New(r, idx.generator)
	info := &models.DocumentInfo{
		ID:         doc.ID,
		Name:       doc.Name,
		Checksum:   doc.Checksum,
		Pages:      len(doc.Pages),
		Segments:   len(segments),
		Characters: doc.Characters(),
		LoadedAt:   time.Now().UTC(),
	}
	if idx.logger != nil {
		idx.logger.Debug("indexer document indexed",
			zap.String("doc_id", doc.ID),
			zap.Int("pages", info.Pages),
			zap.Int("segments", info.Segments),
			zap.Int("top_k", r.K()),
			zap.Duration("took", time.Since(began)))
	}
	return p, info, nil
}
