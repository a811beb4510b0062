package embed

import (
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/veritaslabs/veritas/internal/cache"
	"github.com/veritaslabs/veritas/internal/model"
)

// NewEncoder creates a text encoder from configuration, wrapping it in
// the embedding cache when caching is enabled.
func NewEncoder(cfg *model.Config, logger *zap.Logger) (Encoder, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	var (
		enc Encoder
		err error
	)

	switch strings.ToLower(cfg.Embedding.Provider) {
	case "openai":
		enc, err = NewOpenAIEncoder(cfg.Embedding)

	case "ollama":
		enc, err = NewOllamaEncoder(cfg.Embedding, cfg.HTTP.HTTPProxy, cfg.HTTP.HTTPSProxy, cfg.HTTP.NoProxy)

	default:
		return nil, fmt.Errorf("unknown embedding provider: %s (supported: openai, ollama)", cfg.Embedding.Provider)
	}
	if err != nil {
		return nil, err
	}

	if cfg.Embedding.CacheEnabled {
		store := cache.NewLayeredCache(1*time.Hour, cfg.Embedding.CacheDir, 30*24*time.Hour)
		enc = NewCachedEncoder(enc, store, logger)
	}

	return enc, nil
}
