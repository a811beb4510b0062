// Package llm fronts the answer-generator collaborator. The core
// verification pipeline never calls it; only the orchestration layer
// does, to produce answers that are then verified like any other.
package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/veritaslabs/veritas/internal/model"
)

// Generator defines the interface for answer generators
type Generator interface {
	// Name returns the provider name
	Name() string

	// Generate produces a free-text answer to the question
	Generate(ctx context.Context, question string) (string, error)

	// IsAvailable checks if the provider is configured and reachable
	IsAvailable(ctx context.Context) bool
}

// NewGenerator creates an answer generator from configuration. An empty
// provider returns (nil, nil): generation disabled.
func NewGenerator(cfg model.LLMConfig, httpProxy, httpsProxy, noProxy string) (Generator, error) {
	switch strings.ToLower(cfg.Provider) {
	case "openai":
		return NewOpenAIGenerator(cfg)

	case "ollama":
		return NewOllamaGenerator(cfg, httpProxy, httpsProxy, noProxy)

	case "":
		return nil, nil

	default:
		return nil, fmt.Errorf("unknown LLM provider: %s (supported: openai, ollama)", cfg.Provider)
	}
}
