package indexer

import (
	"strings"
	"unicode"
)

// Preprocess normalizes extracted page text: line endings become \n, runs of horizontal
// whitespace and control characters become one space, lines are trimmed and at most one
// blank line is kept between paragraphs.
func Preprocess(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	var b strings.Builder
	b.Grow(len(text))
	newlines := 0
	pendingSpace := false
	for _, r := range text {
		switch {
		case r == '\n':
			pendingSpace = false
			if newlines < 2 && b.Len() > 0 {
				b.WriteRune('\n')
			}
			newlines++
		case unicode.IsSpace(r) || unicode.IsControl(r):
			if newlines == 0 && b.Len() > 0 {
				pendingSpace = true
			}
		default:
			if pendingSpace {
				b.WriteRune(' ')
				pendingSpace = false
			}
			newlines = 0
			b.WriteRune(r)
		}
	}
	return strings.TrimSpace(b.String())
}
