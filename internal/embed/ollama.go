package embed

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/veritaslabs/veritas/internal/model"
	"github.com/veritaslabs/veritas/internal/util"
)

// OllamaEncoder implements Encoder against a local Ollama server
type OllamaEncoder struct {
	baseURL    string
	model      string
	httpClient *http.Client
}

type ollamaEmbedRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
}

type ollamaEmbedResponse struct {
	Embedding []float64 `json:"embedding"`
}

type ollamaErrorResponse struct {
	Error string `json:"error"`
}

// NewOllamaEncoder creates a new Ollama encoder
func NewOllamaEncoder(cfg model.EmbeddingConfig, httpProxy, httpsProxy, noProxy string) (*OllamaEncoder, error) {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = "http://localhost:11434"
	}

	embModel := cfg.Model
	if embModel == "" {
		embModel = "nomic-embed-text"
	}

	timeout := time.Duration(cfg.Timeout) * time.Second
	if timeout == 0 {
		timeout = 60 * time.Second // Local models can be slow on first load
	}

	return &OllamaEncoder{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		model:      embModel,
		httpClient: util.NewHTTPClient(timeout, httpProxy, httpsProxy, noProxy),
	}, nil
}

// Name returns the provider name
func (e *OllamaEncoder) Name() string { return "ollama" }

// Model returns the embedding model identifier
func (e *OllamaEncoder) Model() string { return e.model }

// Embed encodes a single text
func (e *OllamaEncoder) Embed(ctx context.Context, text string) ([]float32, error) {
	body, err := json.Marshal(ollamaEmbedRequest{Model: e.model, Prompt: text})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.baseURL+"/api/embeddings", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("Ollama embeddings: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var apiErr ollamaErrorResponse
		if json.Unmarshal(raw, &apiErr) == nil && apiErr.Error != "" {
			return nil, fmt.Errorf("Ollama embeddings: %s", apiErr.Error)
		}
		return nil, fmt.Errorf("Ollama embeddings: unexpected status %d", resp.StatusCode)
	}

	var embResp ollamaEmbedResponse
	if err := json.Unmarshal(raw, &embResp); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	vector := make([]float32, len(embResp.Embedding))
	for i, v := range embResp.Embedding {
		vector[i] = float32(v)
	}

	return vector, nil
}

// EmbedBatch encodes texts one at a time; the Ollama embeddings
// endpoint takes a single prompt per call.
func (e *OllamaEncoder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	vectors := make([][]float32, len(texts))
	for i, text := range texts {
		vector, err := e.Embed(ctx, text)
		if err != nil {
			return nil, fmt.Errorf("embed text %d/%d: %w", i+1, len(texts), err)
		}
		vectors[i] = vector
	}
	return vectors, nil
}
