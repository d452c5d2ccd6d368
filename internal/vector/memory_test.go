package vector

import (
	"context"
	"fmt"
	"math"
	"testing"

	"github.com/hyperjump/pdfqa/internal/models"
)

func entries(vecs ...[]float32) []Entry {
	out := make([]Entry, len(vecs))
	for i, v := range vecs {
		out[i] = Entry{Vector: v, Segment: models.Segment{ID: fmt.Sprintf("s%d", i), Index: i}}
	}
	return out
}

func TestBuildSearch(t *testing.T) {
	idx, err := Build(entries(
		[]float32{1, 0, 0},
		[]float32{0.9, 0.1, 0},
		[]float32{0, 1, 0},
	), MetricCosine)
	if err != nil {
		t.Fatal(err)
	}
	defer idx.Close()
	if idx.Size() != 3 || idx.Dimensions() != 3 {
		t.Errorf("Size=%d Dimensions=%d", idx.Size(), idx.Dimensions())
	}

	results, err := idx.Search(context.Background(), []float32{1, 0, 0}, 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if results[0].Segment.ID != "s0" || results[1].Segment.ID != "s1" {
		t.Errorf("unexpected order: %s, %s", results[0].Segment.ID, results[1].Segment.ID)
	}
	if math.Abs(results[0].Score-1) > 1e-6 {
		t.Errorf("exact match score = %f, want 1", results[0].Score)
	}
}

func TestSearch_exactMatchIsTop(t *testing.T) {
	vecs := [][]float32{{3, 1, 0, 2}, {0, 5, 1, 1}, {1, 1, 1, 1}, {-2, 0, 4, 0}}
	for _, metric := range []Metric{MetricCosine, MetricL2} {
		idx, err := Build(entries(vecs...), metric)
		if err != nil {
			t.Fatal(err)
		}
		for i, v := range vecs {
			results, err := idx.Search(context.Background(), v, 1)
			if err != nil {
				t.Fatal(err)
			}
			if results[0].Segment.Index != i {
				t.Errorf("%s: query %d top result %d", metric, i, results[0].Segment.Index)
			}
		}
	}
}

func TestSearch_topKBound(t *testing.T) {
	idx, err := Build(entries([]float32{1, 0}, []float32{0, 1}, []float32{1, 1}), MetricCosine)
	if err != nil {
		t.Fatal(err)
	}
	tests := []struct {
		k    int
		want int
	}{
		{-1, 0},
		{0, 0},
		{1, 1},
		{3, 3},
		{10, 3},
	}
	for _, tt := range tests {
		results, err := idx.Search(context.Background(), []float32{1, 0}, tt.k)
		if err != nil {
			t.Fatal(err)
		}
		if len(results) != tt.want {
			t.Errorf("k=%d: got %d results, want %d", tt.k, len(results), tt.want)
		}
		for i := 1; i < len(results); i++ {
			if results[i].Score > results[i-1].Score {
				t.Errorf("k=%d: results not in descending order", tt.k)
			}
		}
	}
}

func TestSearch_stableTies(t *testing.T) {
	idx, err := Build(entries([]float32{0, 1}, []float32{1, 0}, []float32{2, 0}, []float32{1, 0}), MetricCosine)
	if err != nil {
		t.Fatal(err)
	}
	results, err := idx.Search(context.Background(), []float32{1, 0}, 3)
	if err != nil {
		t.Fatal(err)
	}
	got := []int{results[0].Segment.Index, results[1].Segment.Index, results[2].Segment.Index}
	want := []int{1, 2, 3}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("tie order = %v, want %v", got, want)
		}
	}
}

func TestSearch_l2Score(t *testing.T) {
	idx, err := Build(entries([]float32{0, 0}, []float32{3, 4}), MetricL2)
	if err != nil {
		t.Fatal(err)
	}
	results, err := idx.Search(context.Background(), []float32{0, 0}, 2)
	if err != nil {
		t.Fatal(err)
	}
	if results[0].Score != 1 {
		t.Errorf("zero distance score = %f, want 1", results[0].Score)
	}
	if math.Abs(results[1].Score-1.0/6) > 1e-9 {
		t.Errorf("distance 5 score = %f, want 1/6", results[1].Score)
	}
}

func TestBuild_errors(t *testing.T) {
	tests := []struct {
		name    string
		entries []Entry
		metric  Metric
	}{
		{"no entries", nil, MetricCosine},
		{"empty vector", entries([]float32{}), MetricCosine},
		{"dimension mismatch", entries([]float32{1, 0}, []float32{1, 0, 0}), MetricCosine},
		{"unknown metric", entries([]float32{1}), Metric("dot")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Build(tt.entries, tt.metric); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestBuild_copiesVectors(t *testing.T) {
	v := []float32{1, 0}
	idx, err := Build(entries(v, []float32{0, 1}), MetricL2)
	if err != nil {
		t.Fatal(err)
	}
	v[0], v[1] = 0, 1
	results, _ := idx.Search(context.Background(), []float32{1, 0}, 1)
	if results[0].Segment.Index != 0 {
		t.Error("index changed after caller mutated its vector")
	}
}

func TestSearch_queryDimensionMismatch(t *testing.T) {
	idx, err := Build(entries([]float32{1, 0, 0}), MetricCosine)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := idx.Search(context.Background(), []float32{1, 0}, 1); err == nil {
		t.Error("expected dimension mismatch error")
	}
}

func TestParseMetric(t *testing.T) {
	tests := []struct {
		in      string
		want    Metric
		wantErr bool
	}{
		{"", MetricCosine, false},
		{"cosine", MetricCosine, false},
		{" L2 ", MetricL2, false},
		{"manhattan", "", true},
	}
	for _, tt := range tests {
		got, err := ParseMetric(tt.in)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("ParseMetric(%q) = %q, %v", tt.in, got, err)
		}
	}
}
