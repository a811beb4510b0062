package embed

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/sashabaranov/go-openai"

	"github.com/veritaslabs/veritas/internal/model"
)

// OpenAIEncoder implements Encoder using the OpenAI embeddings API
type OpenAIEncoder struct {
	client    *openai.Client
	model     string
	batchSize int
	timeout   time.Duration
}

// NewOpenAIEncoder creates a new OpenAI encoder
func NewOpenAIEncoder(cfg model.EmbeddingConfig) (*OpenAIEncoder, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required")
	}

	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}

	embModel := cfg.Model
	if embModel == "" {
		embModel = string(openai.SmallEmbedding3)
	}

	batchSize := cfg.BatchSize
	if batchSize <= 0 {
		batchSize = 32
	}

	timeout := time.Duration(cfg.Timeout) * time.Second
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	return &OpenAIEncoder{
		client:    openai.NewClientWithConfig(clientConfig),
		model:     embModel,
		batchSize: batchSize,
		timeout:   timeout,
	}, nil
}

// Name returns the provider name
func (e *OpenAIEncoder) Name() string { return "openai" }

// Model returns the embedding model identifier
func (e *OpenAIEncoder) Model() string { return e.model }

// Embed encodes a single text
func (e *OpenAIEncoder) Embed(ctx context.Context, text string) ([]float32, error) {
	vectors, err := e.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}

// EmbedBatch encodes texts in order, splitting into API-sized batches
func (e *OpenAIEncoder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	vectors := make([][]float32, 0, len(texts))

	for start := 0; start < len(texts); start += e.batchSize {
		end := start + e.batchSize
		if end > len(texts) {
			end = len(texts)
		}

		batch, err := e.embedChunk(ctx, texts[start:end])
		if err != nil {
			return nil, err
		}
		vectors = append(vectors, batch...)
	}

	return vectors, nil
}

func (e *OpenAIEncoder) embedChunk(ctx context.Context, texts []string) ([][]float32, error) {
	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	resp, err := e.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Input: texts,
		Model: openai.EmbeddingModel(e.model),
	})
	if err != nil {
		return nil, fmt.Errorf("OpenAI embeddings: %w", err)
	}

	if len(resp.Data) != len(texts) {
		return nil, fmt.Errorf("OpenAI embeddings: got %d vectors for %d inputs", len(resp.Data), len(texts))
	}

	// The API indexes results; keep them aligned with the inputs
	data := resp.Data
	sort.Slice(data, func(i, j int) bool { return data[i].Index < data[j].Index })

	vectors := make([][]float32, len(data))
	for i, d := range data {
		vectors[i] = d.Embedding
	}

	return vectors, nil
}
