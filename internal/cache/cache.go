// Package cache provides the byte cache used to memoize embedding
// vectors across runs: a fast in-memory layer backed by an optional
// on-disk layer.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Cache defines the interface for caching
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// EmbeddingKey derives a cache key for a (model, text) pair. The model
// identifier is part of the key so vectors from different encoders
// never collide.
func EmbeddingKey(model, text string) string {
	hash := sha256.Sum256([]byte(model + "\x00" + text))
	return "veritas:emb:v1:" + hex.EncodeToString(hash[:])
}
