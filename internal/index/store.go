// Package index implements the evidence index: documents plus their
// vector representations, searched by brute-force cosine similarity.
// The linear scan is a deliberate simplicity choice for the corpus
// sizes this pipeline targets; a caller needing more can substitute an
// approximate structure behind the same Search contract.
package index

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"

	"go.uber.org/zap"

	"github.com/veritaslabs/veritas/internal/embed"
	"github.com/veritaslabs/veritas/internal/model"
)

// Store holds one generation of documents at a time. Rebuilds are
// exclusive; searches run concurrently under a read lock.
type Store struct {
	encoder embed.Encoder
	logger  *zap.Logger

	mu        sync.RWMutex
	documents []model.Document
	vectors   [][]float32
}

// SearchResult pairs a document with its similarity to the query
type SearchResult struct {
	Document   model.Document
	Similarity float64
}

// NewStore creates an empty evidence index backed by the given encoder
func NewStore(encoder embed.Encoder, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{encoder: encoder, logger: logger}
}

// AddDocuments replaces the current document set and eagerly computes
// one vector per document's full content, in document order.
func (s *Store) AddDocuments(ctx context.Context, docs []model.Document) error {
	contents := make([]string, len(docs))
	for i, doc := range docs {
		contents[i] = doc.Content
	}

	s.logger.Info("indexing documents", zap.Int("count", len(docs)))

	vectors, err := s.encoder.EmbedBatch(ctx, contents)
	if err != nil {
		return fmt.Errorf("embed documents: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.documents = append([]model.Document(nil), docs...)
	s.vectors = vectors

	return nil
}

// Search embeds the query and returns documents with cosine similarity
// at or above threshold, sorted descending. Ties keep insertion order.
// At most topK results are returned.
func (s *Store) Search(ctx context.Context, query string, topK int, threshold float64) ([]SearchResult, error) {
	if s.Len() == 0 {
		s.logger.Debug("evidence index is empty")
		return nil, nil
	}

	queryVector, err := s.encoder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var results []SearchResult
	for i, docVector := range s.vectors {
		sim := Cosine(queryVector, docVector)
		if sim >= threshold {
			results = append(results, SearchResult{
				Document:   s.documents[i],
				Similarity: sim,
			})
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Similarity > results[j].Similarity
	})

	if topK > 0 && len(results) > topK {
		results = results[:topK]
	}

	return results, nil
}

// GetDocument returns the indexed document with the given id
func (s *Store) GetDocument(id string) (model.Document, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, doc := range s.documents {
		if doc.ID == id {
			return doc, true
		}
	}
	return model.Document{}, false
}

// Len returns the number of indexed documents
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.documents)
}

// Clear resets the index to empty
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.documents = nil
	s.vectors = nil
}

// Stats describes the current index contents
type Stats struct {
	Documents    int `json:"num_documents"`
	EmbeddingDim int `json:"embedding_dim"`
}

// GetStats returns index statistics
func (s *Store) GetStats() Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := Stats{Documents: len(s.documents)}
	if len(s.vectors) > 0 {
		stats.EmbeddingDim = len(s.vectors[0])
	}
	return stats
}

// Cosine computes cosine similarity between two vectors. A zero-norm
// vector (or mismatched lengths) yields 0.0, never an error.
func Cosine(a, b []float32) float64 {
	if len(a) != len(b) {
		return 0.0
	}

	var dot, normA, normB float64
	for i := range a {
		av, bv := float64(a[i]), float64(b[i])
		dot += av * bv
		normA += av * av
		normB += bv * bv
	}

	if normA == 0 || normB == 0 {
		return 0.0
	}

	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
