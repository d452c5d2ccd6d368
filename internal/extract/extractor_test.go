package extract

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/hyperjump/pdfqa/internal/extract/pdftest"
	"github.com/hyperjump/pdfqa/internal/fileid"
)

func TestExtract_multiPagePDF(t *testing.T) {
	texts := []string{
		"Glaciers move slowly.",
		"The capital of Country X is City Y.",
		"Wheat output (annual) rose.",
	}
	content := pdftest.Build(texts...)
	path := filepath.Join(t.TempDir(), "facts.pdf")
	if err := os.WriteFile(path, content, 0600); err != nil {
		t.Fatal(err)
	}
	doc, err := NewExtractor().Extract(path)
	if err != nil {
		t.Fatal(err)
	}
	if doc.Name != "facts.pdf" {
		t.Errorf("Name = %q", doc.Name)
	}
	if doc.Checksum != fileid.Checksum(content) {
		t.Errorf("Checksum = %q", doc.Checksum)
	}
	if len(doc.Pages) != len(texts) {
		t.Fatalf("got %d pages, want %d", len(doc.Pages), len(texts))
	}
	for i, p := range doc.Pages {
		if p.Number != i+1 {
			t.Errorf("page %d has Number %d", i, p.Number)
		}
		if got := strings.TrimSpace(p.Text); got != texts[i] {
			t.Errorf("page %d text = %q, want %q", p.Number, got, texts[i])
		}
	}
}

func TestExtractBytes_blankPageKept(t *testing.T) {
	doc, err := NewExtractor().ExtractBytes(pdftest.Build("", "Only the second page has text."))
	if err != nil {
		t.Fatal(err)
	}
	if len(doc.Pages) != 2 {
		t.Fatalf("got %d pages, want 2", len(doc.Pages))
	}
	if strings.TrimSpace(doc.Pages[0].Text) != "" || doc.Pages[0].Number != 1 {
		t.Errorf("page 1 = %+v, want blank", doc.Pages[0])
	}
	if doc.Pages[1].Number != 2 || !strings.Contains(doc.Pages[1].Text, "second page") {
		t.Errorf("page 2 = %+v", doc.Pages[1])
	}
}

func TestExtractBytes_allPagesBlank(t *testing.T) {
	if _, err := NewExtractor().ExtractBytes(pdftest.Build("", "")); !errors.Is(err, ErrNoText) {
		t.Fatalf("expected ErrNoText, got %v", err)
	}
}

func TestExtractBytes_notPDF(t *testing.T) {
	e := NewExtractor()
	_, err := e.ExtractBytes([]byte("Hello world\nLine 2"))
	if !errors.Is(err, ErrUnsupported) {
		t.Fatalf("expected ErrUnsupported, got %v", err)
	}
}

func TestExtractBytes_empty(t *testing.T) {
	e := NewExtractor()
	if _, err := e.ExtractBytes(nil); !errors.Is(err, ErrUnsupported) {
		t.Fatalf("expected ErrUnsupported, got %v", err)
	}
}

func TestExtractBytes_corruptPDF(t *testing.T) {
	e := NewExtractor()
	content := []byte("%PDF-1.4\n" + strings.Repeat("garbage ", 50) + "\n%%EOF\n")
	_, err := e.ExtractBytes(content)
	if err == nil {
		t.Fatal("expected error for corrupt PDF")
	}
	if !errors.Is(err, ErrMalformed) {
		t.Errorf("expected ErrMalformed, got %v", err)
	}
}

func TestExtract_nonexistent(t *testing.T) {
	e := NewExtractor()
	_, err := e.Extract(filepath.Join(t.TempDir(), "missing.pdf"))
	if err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestExtract_corruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.pdf")
	if err := os.WriteFile(path, []byte("%PDF-1.7 truncated"), 0600); err != nil {
		t.Fatal(err)
	}
	if _, err := NewExtractor().Extract(path); err == nil {
		t.Fatal("expected error for truncated PDF")
	}
}

func TestIsPDF(t *testing.T) {
	tests := []struct {
		name    string
		content []byte
		want    bool
	}{
		{"header at start", []byte("%PDF-1.7\n..."), true},
		{"header after junk", append([]byte(strings.Repeat("x", 100)), []byte("%PDF-1.4")...), true},
		{"header too late", append([]byte(strings.Repeat("x", 2000)), []byte("%PDF-1.4")...), false},
		{"plain text", []byte("just text"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsPDF(tt.content); got != tt.want {
				t.Errorf("IsPDF() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestToValidUTF8(t *testing.T) {
	if got := toValidUTF8("hello\x80world"); got != "hello�world" {
		t.Errorf("got %q", got)
	}
	if got := toValidUTF8("café"); got != "café" {
		t.Errorf("got %q", got)
	}
}
