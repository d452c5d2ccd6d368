package utils

import "testing"

func TestTruncate(t *testing.T) {
	tests := []struct {
		in   string
		max  int
		want string
	}{
		{"report.pdf", 20, "report.pdf"},
		{"annual-report-2024.pdf", 6, "annual..."},
		{"x", 0, "x"},
		{"x", -1, "x"},
		{"日本語テキスト.pdf", 3, "日本語..."},
		{"exact", 5, "exact"},
	}
	for _, tt := range tests {
		if got := Truncate(tt.in, tt.max); got != tt.want {
			t.Errorf("Truncate(%q, %d) = %q, want %q", tt.in, tt.max, got, tt.want)
		}
	}
}
