// Package indexer turns an extracted PDF into a queryable pipeline: preprocess, chunk, embed, index.
package indexer

import (
	"errors"
	"fmt"
	"unicode"

	"github.com/hyperjump/pdfqa/internal/models"
)

// ErrInvalidChunkParams is returned when overlap is negative or not smaller than the chunk size.
var ErrInvalidChunkParams = errors.New("invalid chunk parameters: need 0 <= overlap < size")

// Span is a half-open rune range [Start, End) of a text.
type Span struct {
	Start int
	End   int
}

// Split divides text into spans of at most maxSize runes where consecutive spans share
// overlap runes. Cuts prefer paragraph breaks, then sentence ends, then line breaks, then
// any whitespace, and fall back to a hard cut at maxSize.
func Split(text string, maxSize, overlap int) ([]Span, error) {
	if maxSize <= 0 || overlap < 0 || overlap >= maxSize {
		return nil, fmt.Errorf("%w (size=%d, overlap=%d)", ErrInvalidChunkParams, maxSize, overlap)
	}
	runes := []rune(text)
	n := len(runes)
	if n == 0 {
		return nil, nil
	}
	var spans []Span
	start := 0
	for {
		end := start + maxSize
		if end >= n {
			spans = append(spans, Span{Start: start, End: n})
			return spans, nil
		}
		cut := findBreak(runes, start, end, overlap, maxSize)
		spans = append(spans, Span{Start: start, End: cut})
		start = nextStart(runes, cut, overlap)
	}
}

// findBreak picks the cut for the window [start, end). The cut is always greater than
// start+overlap so the next window makes progress.
func findBreak(runes []rune, start, end, overlap, maxSize int) int {
	floor := start + overlap + 1
	natural := start + maxSize/2
	if natural < floor {
		natural = floor
	}
	// Paragraph: cut after the blank line.
	for i := end - 1; i >= natural+1; i-- {
		if runes[i] == '\n' && runes[i-1] == '\n' {
			return i + 1
		}
	}
	// Sentence: cut after the terminator's trailing whitespace.
	for i := end - 1; i >= natural; i-- {
		if unicode.IsSpace(runes[i]) && isSentenceEnd(runes[i-1]) {
			return i + 1
		}
	}
	for i := end - 1; i >= natural-1 && i >= floor-1; i-- {
		if runes[i] == '\n' {
			return i + 1
		}
	}
	for i := end - 1; i >= floor-1; i-- {
		if unicode.IsSpace(runes[i]) {
			return i + 1
		}
	}
	return end
}

func isSentenceEnd(r rune) bool {
	return r == '.' || r == '!' || r == '?'
}

// nextStart backs up overlap runes from cut, then moves forward to the first word start
// inside the overlap zone so overlapped text does not begin mid-word.
func nextStart(runes []rune, cut, overlap int) int {
	start := cut - overlap
	if overlap == 0 || start == 0 {
		return start
	}
	for i := start; i < cut; i++ {
		if !unicode.IsSpace(runes[i]) && unicode.IsSpace(runes[i-1]) {
			return i
		}
	}
	return start
}

// Reconstruct joins spans of text, dropping the part of each span that overlaps its
// predecessor. For spans produced by Split it returns text unchanged.
func Reconstruct(text string, spans []Span) string {
	runes := []rune(text)
	out := make([]rune, 0, len(runes))
	prevEnd := 0
	for _, s := range spans {
		from := s.Start
		if from < prevEnd {
			from = prevEnd
		}
		if from < s.End {
			out = append(out, runes[from:s.End]...)
		}
		if s.End > prevEnd {
			prevEnd = s.End
		}
	}
	return string(out)
}

// Chunker splits documents into page-bound segments.
type Chunker struct {
	chunkSize    int
	chunkOverlap int
}

// NewChunker creates a chunker with the given size and overlap, in characters.
func NewChunker(chunkSize, chunkOverlap int) (*Chunker, error) {
	if chunkSize <= 0 || chunkOverlap < 0 || chunkOverlap >= chunkSize {
		return nil, fmt.Errorf("%w (size=%d, overlap=%d)", ErrInvalidChunkParams, chunkSize, chunkOverlap)
	}
	return &Chunker{chunkSize: chunkSize, chunkOverlap: chunkOverlap}, nil
}

// Chunk splits each page of doc separately. Segments are returned in document order with
// sequential indexes and IDs of the form "<docID>_<index>".
func (c *Chunker) Chunk(doc *models.Document) []models.Segment {
	var segments []models.Segment
	for _, page := range doc.Pages {
		spans, err := Split(page.Text, c.chunkSize, c.chunkOverlap)
		if err != nil {
			// parameters are validated by NewChunker
			continue
		}
		runes := []rune(page.Text)
		for _, s := range spans {
			idx := len(segments)
			segments = append(segments, models.Segment{
				ID:         fmt.Sprintf("%s_%d", doc.ID, idx),
				DocumentID: doc.ID,
				Index:      idx,
				Page:       page.Number,
				Start:      s.Start,
				End:        s.End,
				Text:       string(runes[s.Start:s.End]),
			})
		}
	}
	return segments
}
