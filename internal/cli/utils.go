// Package cli provides output formatting and an HTTP client for the pdfqa command line.
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/hyperjump/pdfqa/internal/models"
	"github.com/hyperjump/pdfqa/pkg/utils"
)

// OutputFormat is the format for command output.
type OutputFormat string

const (
	// OutputText is human-readable text (default).
	OutputText OutputFormat = "text"
	// OutputJSON is structured JSON for machine consumption.
	OutputJSON OutputFormat = "json"
)

// ParseOutputFormat accepts "text" or "json" (case-insensitive); empty means text.
func ParseOutputFormat(s string) (OutputFormat, error) {
	switch OutputFormat(strings.ToLower(s)) {
	case OutputText, "":
		return OutputText, nil
	case OutputJSON:
		return OutputJSON, nil
	default:
		return "", fmt.Errorf("unknown output format %q (supported: text, json)", s)
	}
}

// BuildQuestion joins command arguments into one question. Multi-word questions work with or
// without quotes.
func BuildQuestion(args []string) string {
	return strings.TrimSpace(strings.Join(args, " "))
}

// WriteAnswer writes an answer to w in the given format.
func WriteAnswer(w io.Writer, answer string, format OutputFormat) error {
	if format == OutputJSON {
		return writeJSON(w, models.ChatResponse{Answer: answer})
	}
	_, err := fmt.Fprintln(w, answer)
	return err
}

// WriteUpload writes the result of an upload.
func WriteUpload(w io.Writer, resp *models.UploadResponse, format OutputFormat) error {
	if format == OutputJSON {
		return writeJSON(w, resp)
	}
	fmt.Fprintln(w, resp.Status)
	if resp.Document != nil {
		writeDocument(w, resp.Document)
	}
	return nil
}

// WriteStatus writes the session status.
func WriteStatus(w io.Writer, status *models.StatusResponse, format OutputFormat) error {
	if format == OutputJSON {
		return writeJSON(w, status)
	}
	fmt.Fprintf(w, "State:      %s\n", status.State)
	fmt.Fprintf(w, "Generation: %d\n", status.Generation)
	if status.Document != nil {
		writeDocument(w, status.Document)
	}
	return nil
}

func writeDocument(w io.Writer, doc *models.DocumentInfo) {
	fmt.Fprintf(w, "Document:   %s\n", utils.Truncate(doc.Name, 60))
	fmt.Fprintf(w, "ID:         %s\n", doc.ID)
	if doc.Checksum != "" {
		fmt.Fprintf(w, "Checksum:   %s\n", doc.Checksum)
	}
	fmt.Fprintf(w, "Pages:      %d\n", doc.Pages)
	fmt.Fprintf(w, "Segments:   %d\n", doc.Segments)
	fmt.Fprintf(w, "Characters: %d\n", doc.Characters)
	if !doc.LoadedAt.IsZero() {
		fmt.Fprintf(w, "Loaded at:  %s\n", doc.LoadedAt.Format("2006-01-02 15:04:05 MST"))
	}
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
