// Package extract provides text extraction from uploaded PDF documents.
package extract

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/hyperjump/pdfqa/internal/fileid"
	"github.com/hyperjump/pdfqa/internal/models"
)

var (
	// ErrUnsupported is returned for content that is not a PDF.
	ErrUnsupported = errors.New("unsupported file type: only PDF is accepted")
	// ErrNoText is returned when a PDF has no extractable text on any page.
	ErrNoText = errors.New("document contains no extractable text")
	// ErrMalformed is returned when the PDF cannot be parsed.
	ErrMalformed = errors.New("malformed PDF")
)

// pdfMagic must appear within the first headerWindow bytes of a PDF.
const (
	pdfMagic     = "%PDF-"
	headerWindow = 1024
)

// Extractor extracts page-tagged text from PDF files.
type Extractor struct{}

// NewExtractor returns a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract reads the file at path and returns its pages as a Document named after the file.
func (e *Extractor) Extract(path string) (*models.Document, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}
	doc, err := e.ExtractBytes(content)
	if err != nil {
		return nil, err
	}
	doc.Name = filepath.Base(path)
	return doc, nil
}

// ExtractBytes parses PDF content. Pages without text are kept so page numbers stay stable;
// ErrNoText is returned when every page is blank.
func (e *Extractor) ExtractBytes(content []byte) (*models.Document, error) {
	if !IsPDF(content) {
		return nil, ErrUnsupported
	}
	pages, err := extractPDF(content)
	if err != nil {
		return nil, err
	}
	hasText := false
	for i := range pages {
		pages[i].Text = toValidUTF8(pages[i].Text)
		if strings.TrimSpace(pages[i].Text) != "" {
			hasText = true
		}
	}
	if !hasText {
		return nil, ErrNoText
	}
	return &models.Document{
		ID:        uuid.New().String(),
		Checksum:  fileid.Checksum(content),
		Pages:     pages,
		CreatedAt: time.Now().UTC(),
	}, nil
}

// IsPDF reports whether content carries the PDF header near its start.
func IsPDF(content []byte) bool {
	head := content
	if len(head) > headerWindow {
		head = head[:headerWindow]
	}
	return bytes.Contains(head, []byte(pdfMagic))
}

func toValidUTF8(s string) string {
	if utf8.ValidString(s) {
		return s
	}
	return strings.ToValidUTF8(s, "�")
}
