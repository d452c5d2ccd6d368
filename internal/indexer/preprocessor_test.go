package indexer

import "testing"

func TestPreprocess(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"trim and collapse", "  a  b  ", "a b"},
		{"crlf", "line1\r\nline2\rline3", "line1\nline2\nline3"},
		{"tabs and controls", "a\t\tb\x00c", "a b c"},
		{"trim lines", "a   \n   b", "a\nb"},
		{"cap blank lines", "para1\n\n\n\n\npara2", "para1\n\npara2"},
		{"blank lines with spaces", "p1\n  \n \n p2", "p1\n\np2"},
		{"only whitespace", " \n\t\r\n ", ""},
		{"unicode kept", "café   naïve", "café naïve"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Preprocess(tt.in); got != tt.want {
				t.Errorf("Preprocess(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
