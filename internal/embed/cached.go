package embed

import (
	"context"
	"encoding/binary"
	"fmt"
	"math"

	"go.uber.org/zap"

	"github.com/veritaslabs/veritas/internal/cache"
)

// CachedEncoder memoizes an Encoder. Vectors are keyed by
// sha256(model, text), so identical text always resolves to the same
// vector without a provider round trip.
type CachedEncoder struct {
	inner  Encoder
	store  cache.Cache
	logger *zap.Logger
}

// NewCachedEncoder wraps an encoder with a cache
func NewCachedEncoder(inner Encoder, store cache.Cache, logger *zap.Logger) *CachedEncoder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CachedEncoder{inner: inner, store: store, logger: logger}
}

// Name returns the wrapped provider name
func (e *CachedEncoder) Name() string { return e.inner.Name() }

// Model returns the wrapped model identifier
func (e *CachedEncoder) Model() string { return e.inner.Model() }

// Embed encodes a single text, serving from cache when possible
func (e *CachedEncoder) Embed(ctx context.Context, text string) ([]float32, error) {
	key := cache.EmbeddingKey(e.inner.Model(), text)

	if raw, found := e.store.Get(key); found {
		if vector, err := decodeVector(raw); err == nil {
			return vector, nil
		}
		// Corrupt entry: drop it and re-embed
		_ = e.store.Delete(key)
	}

	vector, err := e.inner.Embed(ctx, text)
	if err != nil {
		return nil, err
	}

	if err := e.store.Set(key, encodeVector(vector), 0); err != nil {
		e.logger.Warn("failed to cache embedding", zap.Error(err))
	}

	return vector, nil
}

// EmbedBatch encodes texts in order, embedding only the cache misses
func (e *CachedEncoder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	vectors := make([][]float32, len(texts))

	var missTexts []string
	var missIdx []int

	for i, text := range texts {
		key := cache.EmbeddingKey(e.inner.Model(), text)
		if raw, found := e.store.Get(key); found {
			if vector, err := decodeVector(raw); err == nil {
				vectors[i] = vector
				continue
			}
			_ = e.store.Delete(key)
		}
		missTexts = append(missTexts, text)
		missIdx = append(missIdx, i)
	}

	if len(missTexts) == 0 {
		return vectors, nil
	}

	e.logger.Debug("embedding cache misses",
		zap.Int("total", len(texts)),
		zap.Int("misses", len(missTexts)))

	fresh, err := e.inner.EmbedBatch(ctx, missTexts)
	if err != nil {
		return nil, err
	}

	for j, vector := range fresh {
		i := missIdx[j]
		vectors[i] = vector

		key := cache.EmbeddingKey(e.inner.Model(), texts[i])
		if err := e.store.Set(key, encodeVector(vector), 0); err != nil {
			e.logger.Warn("failed to cache embedding", zap.Error(err))
		}
	}

	return vectors, nil
}

// encodeVector packs a vector as little-endian float32 bits
func encodeVector(vector []float32) []byte {
	raw := make([]byte, 4*len(vector))
	for i, v := range vector {
		binary.LittleEndian.PutUint32(raw[4*i:], math.Float32bits(v))
	}
	return raw
}

func decodeVector(raw []byte) ([]float32, error) {
	if len(raw)%4 != 0 {
		return nil, fmt.Errorf("vector payload length %d is not a multiple of 4", len(raw))
	}
	vector := make([]float32, len(raw)/4)
	for i := range vector {
		vector[i] = math.Float32frombits(binary.LittleEndian.Uint32(raw[4*i:]))
	}
	return vector, nil
}
