package index

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestSaveLoadRoundTrip(t *testing.T) {
	store := testStore(t)
	base := filepath.Join(t.TempDir(), "idx", "veritas")

	if err := store.SaveState(base); err != nil {
		t.Fatalf("SaveState failed: %v", err)
	}

	loaded := NewStore(&fakeEncoder{vectors: map[string][]float32{
		"query": {1, 0, 0},
	}}, nil)
	if err := loaded.LoadState(base); err != nil {
		t.Fatalf("LoadState failed: %v", err)
	}

	if loaded.Len() != store.Len() {
		t.Fatalf("expected %d documents after load, got %d", store.Len(), loaded.Len())
	}

	// Vectors must survive bit for bit: a reloaded index returns the
	// same search results as the original.
	results, err := loaded.Search(context.Background(), "query", 10, 0.0)
	if err != nil {
		t.Fatalf("Search after load failed: %v", err)
	}
	original, err := store.Search(context.Background(), "query", 10, 0.0)
	if err != nil {
		t.Fatalf("Search on original failed: %v", err)
	}

	if !reflect.DeepEqual(results, original) {
		t.Errorf("search results differ after reload:\n got %+v\nwant %+v", results, original)
	}
}

func TestLoadState_MissingVectors(t *testing.T) {
	store := testStore(t)
	base := filepath.Join(t.TempDir(), "veritas")

	if err := store.SaveState(base); err != nil {
		t.Fatalf("SaveState failed: %v", err)
	}
	if err := os.Remove(vectorsPath(base)); err != nil {
		t.Fatal(err)
	}

	fresh := NewStore(&fakeEncoder{}, nil)
	if err := fresh.LoadState(base); err == nil {
		t.Error("expected error when the vector file is missing")
	}
}

func TestLoadState_LengthMismatch(t *testing.T) {
	store := testStore(t)
	base := filepath.Join(t.TempDir(), "veritas")

	if err := store.SaveState(base); err != nil {
		t.Fatalf("SaveState failed: %v", err)
	}

	// Drop one document from the metadata, leaving 3 vectors on disk
	raw, err := os.ReadFile(metadataPath(base))
	if err != nil {
		t.Fatal(err)
	}
	var meta metadata
	if err := json.Unmarshal(raw, &meta); err != nil {
		t.Fatal(err)
	}
	meta.Documents = meta.Documents[:2]
	meta.DocIDs = meta.DocIDs[:2]
	skewed, err := json.Marshal(meta)
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(metadataPath(base), skewed, 0o644); err != nil {
		t.Fatal(err)
	}

	fresh := NewStore(&fakeEncoder{}, nil)
	if err := fresh.LoadState(base); err == nil {
		t.Error("expected error for document/vector length mismatch")
	}
}

func TestLoadState_EncoderMismatch(t *testing.T) {
	store := testStore(t)
	base := filepath.Join(t.TempDir(), "veritas")

	if err := store.SaveState(base); err != nil {
		t.Fatalf("SaveState failed: %v", err)
	}

	fresh := NewStore(&differentEncoder{}, nil)
	if err := fresh.LoadState(base); err == nil {
		t.Error("expected error when index was built with another encoder model")
	}
}

// differentEncoder reports a different model identifier
type differentEncoder struct{ fakeEncoder }

func (d *differentEncoder) Model() string { return "other-model" }
