package index

import (
	"context"
	"fmt"
	"math"
	"testing"

	"github.com/veritaslabs/veritas/internal/model"
)

// fakeEncoder returns fixed vectors from a lookup table
type fakeEncoder struct {
	vectors map[string][]float32
}

func (f *fakeEncoder) Name() string  { return "fake" }
func (f *fakeEncoder) Model() string { return "fake-model" }

func (f *fakeEncoder) Embed(_ context.Context, text string) ([]float32, error) {
	v, ok := f.vectors[text]
	if !ok {
		return nil, fmt.Errorf("no vector for %q", text)
	}
	return v, nil
}

func (f *fakeEncoder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, t := range texts {
		v, err := f.Embed(ctx, t)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func testStore(t *testing.T) *Store {
	t.Helper()

	enc := &fakeEncoder{vectors: map[string][]float32{
		"doc a": {1, 0, 0},
		"doc b": {0.9, 0.1, 0},
		"doc c": {0, 1, 0},
		"query": {1, 0, 0},
	}}

	store := NewStore(enc, nil)
	docs := []model.Document{
		{ID: "a", Title: "A", Content: "doc a"},
		{ID: "b", Title: "B", Content: "doc b"},
		{ID: "c", Title: "C", Content: "doc c"},
	}
	if err := store.AddDocuments(context.Background(), docs); err != nil {
		t.Fatalf("AddDocuments failed: %v", err)
	}
	return store
}

func TestStore_Search(t *testing.T) {
	store := testStore(t)

	results, err := store.Search(context.Background(), "query", 10, 0.0)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}

	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
	if results[0].Document.ID != "a" {
		t.Errorf("expected best match 'a', got %q", results[0].Document.ID)
	}
	if results[1].Document.ID != "b" {
		t.Errorf("expected second match 'b', got %q", results[1].Document.ID)
	}
	for i := 1; i < len(results); i++ {
		if results[i].Similarity > results[i-1].Similarity {
			t.Error("results must be sorted by descending similarity")
		}
	}
}

func TestStore_SearchThreshold(t *testing.T) {
	store := testStore(t)

	results, err := store.Search(context.Background(), "query", 10, 0.5)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}

	// doc c is orthogonal to the query and must be filtered out
	for _, r := range results {
		if r.Document.ID == "c" {
			t.Error("orthogonal document passed the similarity threshold")
		}
		if r.Similarity < 0.5 {
			t.Errorf("result below threshold: %v", r.Similarity)
		}
	}
}

func TestStore_SearchStableTieOrder(t *testing.T) {
	enc := &fakeEncoder{vectors: map[string][]float32{
		"tie first":  {1, 0, 0},
		"tie second": {1, 0, 0},
		"tie third":  {1, 0, 0},
		"weaker":     {0.5, 0.5, 0},
		"query":      {1, 0, 0},
	}}

	store := NewStore(enc, nil)
	docs := []model.Document{
		{ID: "t1", Content: "tie first"},
		{ID: "t2", Content: "tie second"},
		{ID: "w", Content: "weaker"},
		{ID: "t3", Content: "tie third"},
	}
	if err := store.AddDocuments(context.Background(), docs); err != nil {
		t.Fatalf("AddDocuments failed: %v", err)
	}

	results, err := store.Search(context.Background(), "query", 10, 0.0)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(results) != 4 {
		t.Fatalf("expected 4 results, got %d", len(results))
	}

	// Equal similarities keep insertion order
	for i, want := range []string{"t1", "t2", "t3", "w"} {
		if results[i].Document.ID != want {
			t.Fatalf("result %d = %q, want %q (ties must preserve insertion order)",
				i, results[i].Document.ID, want)
		}
	}
}

func TestStore_SearchTopK(t *testing.T) {
	store := testStore(t)

	results, err := store.Search(context.Background(), "query", 1, 0.0)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("expected topK=1 to cap results, got %d", len(results))
	}
	if results[0].Document.ID != "a" {
		t.Errorf("topK must keep the best match, got %q", results[0].Document.ID)
	}
}

func TestStore_SearchEmpty(t *testing.T) {
	store := NewStore(&fakeEncoder{vectors: map[string][]float32{}}, nil)

	results, err := store.Search(context.Background(), "anything", 5, 0.0)
	if err != nil {
		t.Fatalf("Search on empty index must not error: %v", err)
	}
	if len(results) != 0 {
		t.Errorf("expected no results from empty index, got %d", len(results))
	}
}

func TestStore_GetDocument(t *testing.T) {
	store := testStore(t)

	doc, ok := store.GetDocument("b")
	if !ok {
		t.Fatal("expected to find document 'b'")
	}
	if doc.Title != "B" {
		t.Errorf("unexpected document: %+v", doc)
	}

	if _, ok := store.GetDocument("missing"); ok {
		t.Error("expected lookup miss for unknown id")
	}
}

func TestStore_ClearAndStats(t *testing.T) {
	store := testStore(t)

	stats := store.GetStats()
	if stats.Documents != 3 || stats.EmbeddingDim != 3 {
		t.Errorf("unexpected stats: %+v", stats)
	}

	store.Clear()
	if store.Len() != 0 {
		t.Errorf("expected empty store after Clear, got %d", store.Len())
	}
}

func TestCosine(t *testing.T) {
	tests := []struct {
		name     string
		a, b     []float32
		expected float64
	}{
		{"identical", []float32{1, 2, 3}, []float32{1, 2, 3}, 1.0},
		{"orthogonal", []float32{1, 0}, []float32{0, 1}, 0.0},
		{"opposite", []float32{1, 0}, []float32{-1, 0}, -1.0},
		{"zero left", []float32{0, 0}, []float32{1, 0}, 0.0},
		{"zero right", []float32{1, 0}, []float32{0, 0}, 0.0},
		{"length mismatch", []float32{1, 0}, []float32{1, 0, 0}, 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Cosine(tt.a, tt.b)
			if math.Abs(got-tt.expected) > 1e-9 {
				t.Errorf("Cosine = %v, want %v", got, tt.expected)
			}
		})
	}
}
