// Demo program for conflict detection. Runs the full verification flow
// offline against a small hand-built corpus, using a deterministic
// bag-of-words encoder instead of a remote embedding API.
package main

import (
	"context"
	"fmt"
	"hash/fnv"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/veritaslabs/veritas/internal/index"
	"github.com/veritaslabs/veritas/internal/model"
	"github.com/veritaslabs/veritas/internal/pipeline"
)

const dim = 256

// wordHashEncoder embeds text as a hashed bag of words. Crude, but
// deterministic and offline; overlapping vocabulary yields high cosine.
type wordHashEncoder struct{}

func (wordHashEncoder) Name() string  { return "demo" }
func (wordHashEncoder) Model() string { return "word-hash-256" }

func (wordHashEncoder) Embed(_ context.Context, text string) ([]float32, error) {
	vec := make([]float32, dim)
	for _, word := range strings.Fields(strings.ToLower(text)) {
		h := fnv.New32a()
		_, _ = h.Write([]byte(strings.Trim(word, ".,!?;:\"'()")))
		vec[h.Sum32()%dim]++
	}
	return vec, nil
}

func (e wordHashEncoder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, t := range texts {
		v, err := e.Embed(ctx, t)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func main() {
	ctx := context.Background()
	logger := zap.NewNop()

	docs := []model.Document{
		{
			ID:      "borscht-ua",
			Title:   "Borscht (Ukrainian cuisine)",
			Content: "Borscht is a sour soup that originates from Ukraine. The dish originates from Ukrainian cuisine and is made with beetroot.",
			Source:  "demo-corpus",
		},
		{
			ID:      "borscht-ru",
			Title:   "Borscht (disputed origin)",
			Content: "Some sources claim borscht originates from Russia. The origin of the soup is disputed between several countries.",
			Source:  "demo-corpus",
		},
		{
			ID:      "earth",
			Title:   "Earth",
			Content: "The Earth orbits the Sun once every 365.25 days. Earth is the third planet from the Sun.",
			Source:  "demo-corpus",
		},
	}

	store := index.NewStore(wordHashEncoder{}, logger)
	if err := store.AddDocuments(ctx, docs); err != nil {
		fmt.Fprintf(os.Stderr, "index: %v\n", err)
		os.Exit(1)
	}

	cfg := model.DefaultConfig()
	cfg.Embedding.Provider = "demo"

	p, err := pipeline.New(store, cfg, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "pipeline: %v\n", err)
		os.Exit(1)
	}

	answers := []string{
		"Borscht originates from Ukraine and is made with beetroot.",
		"The Earth orbits the Sun once every 365.25 days. The Moon is made of cheese and orbits Jupiter.",
	}

	renderer := pipeline.NewRenderer(os.Stdout)
	for _, answer := range answers {
		fmt.Printf("\n=== %s\n", answer)

		outcome, err := p.VerifyAnswer(ctx, "", answer)
		if err != nil {
			fmt.Fprintf(os.Stderr, "verify: %v\n", err)
			os.Exit(1)
		}
		renderer.RenderSummary(outcome)
	}

	fmt.Println("\nNote: the demo encoder is a hashed bag of words; real runs use")
	fmt.Println("a configured embedding provider (see 'veritas config show').")
}
