package indexer

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/hyperjump/pdfqa/internal/config"
	"github.com/hyperjump/pdfqa/internal/embedding"
	"github.com/hyperjump/pdfqa/internal/extract"
	"github.com/hyperjump/pdfqa/internal/generator"
	"github.com/hyperjump/pdfqa/internal/models"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type fakeExtractor struct {
	doc *models.Document
	err error
}

func (f *fakeExtractor) Extract(string) (*models.Document, error) {
	if f.err != nil {
		return nil, f.err
	}
	// copy pages so a test can reuse the fixture
	doc := *f.doc
	doc.Pages = append([]models.Page(nil), f.doc.Pages...)
	return &doc, nil
}

type echoModel struct{}

func (echoModel) Complete(_ context.Context, prompt string) (string, error) {
	return prompt, nil
}

type failingEmbedder struct {
	*embedding.HashEmbedder
}

func (failingEmbedder) EmbedBatch(context.Context, []string) ([][]float32, error) {
	return nil, &embedding.EmbeddingError{Op: "embed batch", Err: errors.New("connection refused")}
}

func testConfig() *config.Config {
	cfg := &config.Config{}
	config.ApplyDefaults(cfg)
	overlap := 20
	cfg.Chunking.ChunkSize = 100
	cfg.Chunking.ChunkOverlap = &overlap
	cfg.Retrieval.TopK = 2
	return cfg
}

func testIndexer(t *testing.T, ex Extractor, e embedding.Embedder) *Indexer {
	t.Helper()
	gen, err := generator.New(echoModel{})
	if err != nil {
		t.Fatal(err)
	}
	idx, err := NewIndexer(ex, e, gen, testConfig())
	if err != nil {
		t.Fatal(err)
	}
	return idx
}

func TestBuild(t *testing.T) {
	doc := &models.Document{
		ID:       "doc-1",
		Name:     "original.pdf",
		Checksum: "sha256:abc",
		Pages: []models.Page{
			{Number: 1, Text: strings.Repeat("Oceans cover most of the planet. ", 8)},
			{Number: 2, Text: "The  capital of Country X\r\nis City Y."},
		},
	}
	idx := testIndexer(t, &fakeExtractor{doc: doc}, embedding.NewHashEmbedder(128))
	p, info, err := idx.Build(context.Background(), models.Upload{Name: "report.pdf", Path: "/tmp/upload-123"})
	if err != nil {
		t.Fatal(err)
	}
	if info.Name != "report.pdf" || info.ID != "doc-1" || info.Pages != 2 || info.Checksum != "sha256:abc" {
		t.Errorf("unexpected info: %+v", info)
	}
	if info.Segments < 3 {
		t.Errorf("expected several segments, got %d", info.Segments)
	}
	if info.LoadedAt.IsZero() {
		t.Error("LoadedAt should be set")
	}

	answer, err := p.Answer(context.Background(), "What is the capital of Country X?")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(answer, "The capital of Country X\nis City Y.") {
		t.Errorf("answer should echo the preprocessed page-2 segment, got %q", answer)
	}
}

func TestBuild_stageErrors(t *testing.T) {
	blank := &models.Document{ID: "d", Pages: []models.Page{{Number: 1, Text: " \n\t "}}}
	good := &models.Document{ID: "d", Pages: []models.Page{{Number: 1, Text: "some text"}}}
	tests := []struct {
		name      string
		extractor Extractor
		embedder  embedding.Embedder
		stage     string
		target    error
	}{
		{"extract", &fakeExtractor{err: extract.ErrNoText}, embedding.NewHashEmbedder(8), StageExtract, extract.ErrNoText},
		{"chunk", &fakeExtractor{doc: blank}, embedding.NewHashEmbedder(8), StageChunk, ErrEmptyDocument},
		{"embed", &fakeExtractor{doc: good}, failingEmbedder{embedding.NewHashEmbedder(8)}, StageEmbed, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			idx := testIndexer(t, tt.extractor, tt.embedder)
			p, info, err := idx.Build(context.Background(), models.Upload{Name: "x.pdf", Path: "x.pdf"})
			if p != nil || info != nil {
				t.Error("failed build must not return a pipeline or info")
			}
			var ie *IngestionError
			if !errors.As(err, &ie) {
				t.Fatalf("expected *IngestionError, got %v", err)
			}
			if ie.Stage != tt.stage {
				t.Errorf("Stage = %s, want %s", ie.Stage, tt.stage)
			}
			if tt.target != nil && !errors.Is(err, tt.target) {
				t.Errorf("expected %v in chain, got %v", tt.target, err)
			}
		})
	}
}

// orderEmbedder records whether the upload had been released when embedding began.
type orderEmbedder struct {
	*embedding.HashEmbedder
	released        *bool
	releasedAtEmbed bool
}

func (e *orderEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	e.releasedAtEmbed = *e.released
	return e.HashEmbedder.EmbedBatch(ctx, texts)
}

func TestBuild_releasesUploadBeforeEmbedding(t *testing.T) {
	released := false
	emb := &orderEmbedder{HashEmbedder: embedding.NewHashEmbedder(32), released: &released}
	doc := &models.Document{ID: "d", Pages: []models.Page{{Number: 1, Text: "some text"}}}
	idx := testIndexer(t, &fakeExtractor{doc: doc}, emb)
	_, _, err := idx.Build(context.Background(), models.Upload{
		Name:    "a.pdf",
		Path:    "/tmp/a.pdf",
		Release: func() { released = true },
	})
	if err != nil {
		t.Fatal(err)
	}
	if !emb.releasedAtEmbed {
		t.Error("upload should be released before embedding starts")
	}
}

func TestBuild_releasesUploadOnExtractError(t *testing.T) {
	calls := 0
	idx := testIndexer(t, &fakeExtractor{err: extract.ErrMalformed}, embedding.NewHashEmbedder(8))
	_, _, err := idx.Build(context.Background(), models.Upload{Path: "x.pdf", Release: func() { calls++ }})
	if err == nil {
		t.Fatal("expected extract error")
	}
	if calls != 1 {
		t.Errorf("Release called %d times, want 1", calls)
	}
}

func TestBuildDocument_segmentsCoverPages(t *testing.T) {
	text := strings.Repeat("Sentence number one is here. Another follows it!\n", 20)
	doc := &models.Document{ID: "d", Pages: []models.Page{{Number: 1, Text: text}}}
	idx := testIndexer(t, &fakeExtractor{doc: doc}, embedding.NewHashEmbedder(32))
	_, info, err := idx.BuildDocument(context.Background(), doc)
	if err != nil {
		t.Fatal(err)
	}
	spans, err := Split(doc.Pages[0].Text, 100, 20)
	if err != nil {
		t.Fatal(err)
	}
	if info.Segments != len(spans) {
		t.Errorf("Segments = %d, want %d", info.Segments, len(spans))
	}
	if Reconstruct(doc.Pages[0].Text, spans) != doc.Pages[0].Text {
		t.Error("segments do not reconstruct the page")
	}
}

func TestNewIndexer_invalidConfig(t *testing.T) {
	gen, _ := generator.New(echoModel{})
	cfg := testConfig()
	size := cfg.Chunking.ChunkSize
	cfg.Chunking.ChunkOverlap = &size
	if _, err := NewIndexer(&fakeExtractor{}, embedding.NewHashEmbedder(8), gen, cfg); !errors.Is(err, ErrInvalidChunkParams) {
		t.Errorf("expected ErrInvalidChunkParams, got %v", err)
	}
	cfg = testConfig()
	cfg.Retrieval.Metric = "manhattan"
	if _, err := NewIndexer(&fakeExtractor{}, embedding.NewHashEmbedder(8), gen, cfg); err == nil {
		t.Error("expected error for unknown metric")
	}
}

func TestBuild_logsRetrievalDepth(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	gen, err := generator.New(echoModel{})
	if err != nil {
		t.Fatal(err)
	}
	doc := &models.Document{ID: "doc-1", Pages: []models.Page{{Number: 1, Text: "Glaciers move slowly."}}}
	idx, err := NewIndexer(&fakeExtractor{doc: doc}, embedding.NewHashEmbedder(32), gen, testConfig(), WithLogger(zap.New(core)))
	if err != nil {
		t.Fatal(err)
	}
	if _, _, err := idx.Build(context.Background(), models.Upload{Name: "g.pdf", Path: "/tmp/g"}); err != nil {
		t.Fatal(err)
	}
	entries := logs.FilterMessage("indexer document indexed").All()
	if len(entries) != 1 {
		t.Fatalf("got %d entries", len(entries))
	}
	if got := entries[0].ContextMap()["top_k"]; got != int64(2) {
		t.Errorf("top_k = %v, want 2", got)
	}
}
