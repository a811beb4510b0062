package llm

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/veritaslabs/veritas/internal/model"
)

func newOllamaServer(t *testing.T, handler http.HandlerFunc) (*httptest.Server, *OllamaGenerator) {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	g, err := NewOllamaGenerator(model.LLMConfig{Provider: "ollama", BaseURL: srv.URL}, "", "", "")
	if err != nil {
		t.Fatalf("NewOllamaGenerator failed: %v", err)
	}
	return srv, g
}

func TestOllamaGenerator_IsAvailable(t *testing.T) {
	srv, g := newOllamaServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/tags" {
			w.WriteHeader(http.StatusOK)
			return
		}
		http.NotFound(w, r)
	})

	if !g.IsAvailable(context.Background()) {
		t.Error("expected provider to report available")
	}

	srv.Close()
	if g.IsAvailable(context.Background()) {
		t.Error("expected provider to report unavailable after shutdown")
	}
}

func TestOllamaGenerator_Generate(t *testing.T) {
	_, g := newOllamaServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/generate" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"model": "llama3.2", "response": "  Paris is the capital of France.  ", "done": true}`))
	})

	answer, err := g.Generate(context.Background(), "What is the capital of France?")
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if answer != "Paris is the capital of France." {
		t.Errorf("expected trimmed answer, got %q", answer)
	}
}

func TestOllamaGenerator_GenerateAPIError(t *testing.T) {
	_, g := newOllamaServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error": "model not found"}`))
	})

	if _, err := g.Generate(context.Background(), "anything"); err == nil {
		t.Error("expected error when the API reports a failure")
	}
}
