// Package embed fronts the external text-encoder capability. Encoders
// turn text into fixed-dimension vectors; how the vectors are computed
// is opaque to the pipeline.
package embed

import "context"

// Encoder defines the interface for text encoders. Implementations must
// be deterministic for identical input and produce vectors of a fixed
// dimensionality per model.
type Encoder interface {
	// Name returns the provider name
	Name() string

	// Model returns the encoder model identifier, used to key caches
	// and to stamp persisted indexes
	Model() string

	// Embed encodes a single text
	Embed(ctx context.Context, text string) ([]float32, error)

	// EmbedBatch encodes texts in order; result[i] corresponds to texts[i]
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
}
