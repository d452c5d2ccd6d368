// Package models defines core data structures for documents, segments, and chat exchanges.
package models

import "time"

// Document is the text extracted from one uploaded PDF, kept in memory only.
type Document struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Checksum  string    `json:"checksum"`
	Pages     []Page    `json:"pages"`
	CreatedAt time.Time `json:"created_at"`
}

// Page is the text of a single PDF page. Number is 1-based.
type Page struct {
	Number int    `json:"number"`
	Text   string `json:"text"`
}

// Characters returns the total number of runes across all pages.
func (d *Document) Characters() int {
	n := 0
	for _, p := range d.Pages {
		n += len([]rune(p.Text))
	}
	return n
}

// Upload is a file waiting to be ingested. Release, when set, is called as soon as the file
// has been read, before embedding starts.
type Upload struct {
	Name    string
	Path    string
	Release func()
}

// Segment is a contiguous slice of one page's text, the unit of embedding and retrieval.
// Start and End are rune offsets into the page text; Text equals that slice.
type Segment struct {
	ID         string `json:"id"`
	DocumentID string `json:"document_id"`
	Index      int    `json:"index"`
	Page       int    `json:"page"`
	Start      int    `json:"start"`
	End        int    `json:"end"`
	Text       string `json:"text"`
}

// DocumentInfo summarizes the currently loaded document.
type DocumentInfo struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Checksum   string    `json:"checksum,omitempty"`
	Pages      int       `json:"pages"`
	Segments   int       `json:"segments"`
	Characters int       `json:"characters"`
	LoadedAt   time.Time `json:"loaded_at"`
}
