package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"

	"github.com/veritaslabs/veritas/internal/model"
)

// OpenAIGenerator implements Generator using the Chat Completions API
type OpenAIGenerator struct {
	client *openai.Client
	cfg    model.LLMConfig
}

// NewOpenAIGenerator creates a new OpenAI generator
func NewOpenAIGenerator(cfg model.LLMConfig) (*OpenAIGenerator, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required")
	}

	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}

	return &OpenAIGenerator{
		client: openai.NewClientWithConfig(clientConfig),
		cfg:    cfg,
	}, nil
}

// Name returns the provider name
func (g *OpenAIGenerator) Name() string { return "openai" }

// IsAvailable checks if the provider is properly configured
func (g *OpenAIGenerator) IsAvailable(ctx context.Context) bool {
	_, err := g.client.ListModels(ctx)
	return err == nil
}

// Generate produces an answer to the question
func (g *OpenAIGenerator) Generate(ctx context.Context, question string) (string, error) {
	chatModel := g.cfg.Model
	if chatModel == "" {
		chatModel = openai.GPT4oMini
	}

	maxTokens := g.cfg.MaxTokens
	if maxTokens == 0 {
		maxTokens = 256
	}

	timeout := time.Duration(g.cfg.Timeout) * time.Second
	if timeout == 0 {
		timeout = 60 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	resp, err := g.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: chatModel,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: "You are a helpful assistant. Answer the question concisely and factually.",
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: question,
			},
		},
		MaxTokens:   maxTokens,
		Temperature: float32(g.cfg.Temperature),
	})
	if err != nil {
		return "", fmt.Errorf("OpenAI API error: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no response from OpenAI")
	}

	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}
