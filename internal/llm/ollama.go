package llm

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

// OllamaGenerator implements Generator against a local Ollama server
type OllamaGenerator struct {
	baseURL    string
	httpClient *http.Client
	cfg        model.LLMConfig
}

type ollamaGenerateRequest struct {
	Model   string        `json:"model"`
	Prompt  string        `json:"prompt"`
	Stream  bool          `json:"stream"`
	System  string        `json:"system,omitempty"`
	Options ollamaOptions `json:"options,omitempty"`
}

type ollamaOptions struct {
	Temperature float64 `json:"temperature,omitempty"`
	NumPredict  int     `json:"num_predict,omitempty"` // Max tokens
}

type ollamaGenerateResponse struct {
	Model    string `json:"model"`
	Response string `json:"response"`
	Done     bool   `json:"done"`
}

type ollamaAPIError struct {
	Error string `json:"error"`
}

// NewOllamaGenerator creates a new Ollama generator
func NewOllamaGenerator(cfg model.LLMConfig, httpProxy, httpsProxy, noProxy string) (*OllamaGenerator, error) {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = "http://localhost:11434"
	}

	timeout := time.Duration(cfg.Timeout) * time.Second
	if timeout == 0 {
		timeout = 120 * time.Second // Local models can be slow
	}

	return &OllamaGenerator{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: util.NewHTTPClient(timeout, httpProxy, httpsProxy, noProxy),
		cfg:        cfg,
	}, nil
}

// Name returns the provider name
func (g *OllamaGenerator) Name() string { return "ollama" }

// IsAvailable checks if the Ollama server responds
func (g *OllamaGenerator) IsAvailable(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.baseURL+"/api/tags", nil)
	if err != nil {
		return false
	}
	resp, err := g.httpClient.Do(req)
	if err != nil {
		return false
	}
	defer func() { _ = resp.Body.Close() }()
	return resp.StatusCode == http.StatusOK
}

// Generate produces an answer to the question
func (g *OllamaGenerator) Generate(ctx context.Context, question string) (string, error) {
	genModel := g.cfg.Model
	if genModel == "" {
		genModel = "llama3.2"
	}

	body, err := json.Marshal(ollamaGenerateRequest{
		Model:  genModel,
		Prompt: question,
		Stream: false,
		System: "You are a helpful assistant. Answer the question concisely and factually.",
		Options: ollamaOptions{
			Temperature: g.cfg.Temperature,
			NumPredict:  g.cfg.MaxTokens,
		},
	})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/api/generate", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("Ollama API error: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var apiErr ollamaAPIError
		if json.Unmarshal(raw, &apiErr) == nil && apiErr.Error != "" {
			return "", fmt.Errorf("Ollama API error: %s", apiErr.Error)
		}
		return "", fmt.Errorf("Ollama API error: unexpected status %d", resp.StatusCode)
	}

	var genResp ollamaGenerateResponse
	if err := json.Unmarshal(raw, &genResp); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}

	return strings.TrimSpace(genResp.Response), nil
}
