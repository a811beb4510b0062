package index

import (
	"encoding/gob"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/veritaslabs/veritas/internal/model"
)

// Persisted state is split across two files sharing a base path: a
// JSON metadata record and a gob-encoded vector array. Loading requires
// both files, with matching lengths.

type metadata struct {
	Documents    []model.Document `json:"documents"`
	DocIDs       []string         `json:"doc_ids"`
	EncoderModel string           `json:"encoder_model"`
}

func metadataPath(base string) string { return base + ".json" }
func vectorsPath(base string) string  { return base + ".vec" }

// SaveState writes the index contents next to the given base path
func (s *Store) SaveState(base string) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if dir := filepath.Dir(base); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create index dir: %w", err)
		}
	}

	ids := make([]string, len(s.documents))
	for i, doc := range s.documents {
		ids[i] = doc.ID
	}

	meta := metadata{
		Documents:    s.documents,
		DocIDs:       ids,
		EncoderModel: s.encoder.Model(),
	}

	raw, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal metadata: %w", err)
	}
	if err := os.WriteFile(metadataPath(base), raw, 0o644); err != nil {
		return fmt.Errorf("write metadata: %w", err)
	}

	f, err := os.Create(vectorsPath(base))
	if err != nil {
		return fmt.Errorf("create vectors file: %w", err)
	}
	defer func() { _ = f.Close() }()

	if err := gob.NewEncoder(f).Encode(s.vectors); err != nil {
		return fmt.Errorf("encode vectors: %w", err)
	}

	s.logger.Info("saved evidence index",
		zap.String("base", base),
		zap.Int("documents", len(s.documents)))

	return nil
}

// LoadState replaces the index contents from a previously saved state.
// Both parts must be present and consistent in length.
func (s *Store) LoadState(base string) error {
	raw, err := os.ReadFile(metadataPath(base))
	if err != nil {
		return fmt.Errorf("read metadata: %w", err)
	}

	var meta metadata
	if err := json.Unmarshal(raw, &meta); err != nil {
		return fmt.Errorf("unmarshal metadata: %w", err)
	}

	f, err := os.Open(vectorsPath(base))
	if err != nil {
		return fmt.Errorf("open vectors file: %w", err)
	}
	defer func() { _ = f.Close() }()

	var vectors [][]float32
	if err := gob.NewDecoder(f).Decode(&vectors); err != nil {
		return fmt.Errorf("decode vectors: %w", err)
	}

	if len(vectors) != len(meta.Documents) {
		return fmt.Errorf("index state inconsistent: %d documents but %d vectors",
			len(meta.Documents), len(vectors))
	}
	if meta.EncoderModel != "" && meta.EncoderModel != s.encoder.Model() {
		return fmt.Errorf("index was built with encoder %q, current encoder is %q",
			meta.EncoderModel, s.encoder.Model())
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.documents = meta.Documents
	s.vectors = vectors

	s.logger.Info("loaded evidence index",
		zap.String("base", base),
		zap.Int("documents", len(meta.Documents)))

	return nil
}
