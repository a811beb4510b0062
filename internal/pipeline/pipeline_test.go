package pipeline

import (
	"context"
	"hash/fnv"
	"strings"
	"testing"

	"github.com/veritaslabs/veritas/internal/index"
	"github.com/veritaslabs/veritas/internal/model"
)

// bagEncoder embeds text as a hashed bag of words, so vocabulary
// overlap translates into cosine similarity. Deterministic and offline.
type bagEncoder struct{}

func (bagEncoder) Name() string  { return "bag" }
func (bagEncoder) Model() string { return "bag-of-words" }

func (bagEncoder) Embed(_ context.Context, text string) ([]float32, error) {
	vec := make([]float32, 128)
	for _, word := range strings.Fields(strings.ToLower(text)) {
		h := fnv.New32a()
		_, _ = h.Write([]byte(strings.Trim(word, ".,!?;:\"'()")))
		vec[h.Sum32()%128]++
	}
	return vec, nil
}

func (e bagEncoder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
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

func newTestPipeline(t *testing.T) *Pipeline {
	t.Helper()

	store := index.NewStore(bagEncoder{}, nil)
	docs := []model.Document{
		{
			ID:      "astro",
			Title:   "Astronomy",
			Content: "The Earth orbits the Sun once every year. The Earth is the third planet from the Sun.",
		},
		{
			ID:      "geo",
			Title:   "Geography",
			Content: "Paris is the capital of France. France lies in western Europe.",
		},
	}
	if err := store.AddDocuments(context.Background(), docs); err != nil {
		t.Fatal(err)
	}

	cfg := model.DefaultConfig()
	p, err := New(store, cfg, nil)
	if err != nil {
		t.Fatal(err)
	}
	return p
}

func TestVerifyAnswer(t *testing.T) {
	p := newTestPipeline(t)

	outcome, err := p.VerifyAnswer(context.Background(), "Where is Paris?", "Paris is the capital of France.")
	if err != nil {
		t.Fatalf("VerifyAnswer failed: %v", err)
	}

	if outcome.Question != "Where is Paris?" {
		t.Errorf("unexpected question: %q", outcome.Question)
	}
	if outcome.NoClaims {
		t.Error("expected claims to be extracted")
	}
	if len(outcome.Results) == 0 {
		t.Fatal("expected verification results")
	}
	if outcome.Report.Score < 0 || outcome.Report.Score > 100 {
		t.Errorf("score out of range: %v", outcome.Report.Score)
	}
	if outcome.Summary.TotalClaims != len(outcome.Results) {
		t.Errorf("summary total %d does not match %d results",
			outcome.Summary.TotalClaims, len(outcome.Results))
	}
	if outcome.Highlighted.Original != "Paris is the capital of France." {
		t.Errorf("highlighting must cover the original answer, got %q", outcome.Highlighted.Original)
	}
	if len(outcome.Highlighted.RiskMap) == 0 {
		t.Error("expected per-sentence risk entries")
	}
}

func TestVerifyAnswer_NoClaims(t *testing.T) {
	p := newTestPipeline(t)

	outcome, err := p.VerifyAnswer(context.Background(), "", "Hm. Ok. So.")
	if err != nil {
		t.Fatalf("an answer without claims must not error: %v", err)
	}

	if !outcome.NoClaims {
		t.Error("expected NoClaims flag")
	}
	if outcome.Report.Score != 50.0 {
		t.Errorf("expected neutral score 50.0, got %v", outcome.Report.Score)
	}
	if len(outcome.Results) != 0 {
		t.Errorf("expected no results, got %d", len(outcome.Results))
	}
}

func TestVerifyAnswer_DeduplicatesClaims(t *testing.T) {
	p := newTestPipeline(t)

	answer := "Paris is the capital of France. Paris is the capital of France."
	outcome, err := p.VerifyAnswer(context.Background(), "", answer)
	if err != nil {
		t.Fatalf("VerifyAnswer failed: %v", err)
	}

	seen := make(map[string]bool)
	for _, r := range outcome.Results {
		key := strings.ToLower(r.Claim.Text)
		if seen[key] {
			t.Errorf("duplicate claim survived: %q", r.Claim.Text)
		}
		seen[key] = true
	}
}

func TestGenerateAndVerify_Disabled(t *testing.T) {
	p := newTestPipeline(t)

	if p.CanGenerate() {
		t.Fatal("default config must leave generation disabled")
	}
	if p.GeneratorReady(context.Background()) {
		t.Error("a disabled generator must never report ready")
	}
	if _, err := p.GenerateAndVerify(context.Background(), "anything"); err == nil {
		t.Error("expected error when no LLM provider is configured")
	}
}
