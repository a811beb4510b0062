// Package verify classifies claims against the evidence index.
package verify

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/veritaslabs/veritas/internal/index"
	"github.com/veritaslabs/veritas/internal/model"
	"github.com/veritaslabs/veritas/internal/textutil"
)

// Fixed blend of semantic similarity and lexical overlap. Favors
// semantic match but still rewards exact term reuse.
const (
	semanticWeight = 0.6
	lexicalWeight  = 0.4
)

// Verifier classifies claims into support statuses using threshold
// rules over combined evidence scores.
type Verifier struct {
	store      *index.Store
	cfg        model.VerificationConfig
	maxWorkers int
	logger     *zap.Logger
}

// NewVerifier creates a claim verifier over the given evidence index
func NewVerifier(store *index.Store, cfg model.VerificationConfig, maxWorkers int, logger *zap.Logger) *Verifier {
	if maxWorkers <= 0 {
		maxWorkers = 4
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Verifier{
		store:      store,
		cfg:        cfg,
		maxWorkers: maxWorkers,
		logger:     logger,
	}
}

// VerifyClaim verifies a single claim text against the index. The index
// is queried unfiltered (threshold 0); the verifier does its own
// filtering through the status thresholds.
func (v *Verifier) VerifyClaim(ctx context.Context, claimText string, topK int) (model.VerificationResult, error) {
	if topK <= 0 {
		topK = v.cfg.TopK
	}

	matches, err := v.store.Search(ctx, claimText, topK, 0.0)
	if err != nil {
		return model.VerificationResult{}, fmt.Errorf("search evidence: %w", err)
	}

	result := model.VerificationResult{
		Claim:    model.Claim{Text: claimText},
		Evidence: []model.EvidenceMatch{},
	}

	if len(matches) == 0 {
		// Not an error: an empty index resolves to unsupported
		result.Status = model.StatusUnsupported
		result.Confidence = 0.0
		result.Reasoning = "No supporting documents found in knowledge base."
		return result, nil
	}

	var sum, max float64
	for i, m := range matches {
		overlap := textutil.Overlap(claimText, textutil.CleanText(m.Document.Content))
		combined := semanticWeight*m.Similarity + lexicalWeight*overlap

		sum += combined
		if i == 0 || combined > max {
			max = combined
		}

		result.Evidence = append(result.Evidence, model.EvidenceMatch{
			DocumentID:         m.Document.ID,
			Title:              m.Document.Title,
			Source:             m.Document.Source,
			SemanticSimilarity: m.Similarity,
			LexicalOverlap:     overlap,
			CombinedScore:      combined,
		})
	}
	avg := sum / float64(len(matches))

	result.Status, result.Reasoning = v.determineStatus(avg, max, result.Evidence)
	result.Confidence = clamp01(avg)

	v.logger.Debug("verified claim",
		zap.String("claim", claimText),
		zap.String("status", string(result.Status)),
		zap.Float64("confidence", result.Confidence))

	return result, nil
}

// determineStatus applies the threshold rules in order; first match
// wins. A strong match coexisting with weak matches is treated as
// conflict. This conflates weak outliers with true contradiction; no
// negation detection is performed (acknowledged approximation).
func (v *Verifier) determineStatus(avg, max float64, evidence []model.EvidenceMatch) (model.Status, string) {
	hasWeak := false
	for _, e := range evidence {
		if e.CombinedScore < v.cfg.UncertaintyThreshold {
			hasWeak = true
			break
		}
	}

	switch {
	case max >= v.cfg.SupportThreshold:
		if hasWeak && avg < v.cfg.ConflictThreshold {
			return model.StatusConflicting, "Found both supporting and conflicting evidence."
		}
		return model.StatusSupported, "Sufficient supporting evidence found."

	case max >= v.cfg.UncertaintyThreshold:
		return model.StatusPartiallySupported, "Found some supporting evidence but not conclusive."

	default:
		return model.StatusUnsupported, "Insufficient or no supporting evidence found."
	}
}

// VerifyClaimsBatch verifies each claim independently and preserves
// input order. Claims only read the shared index, so the batch fans out
// across workers with each result written to its own slot.
func (v *Verifier) VerifyClaimsBatch(ctx context.Context, claims []model.Claim, topK int) ([]model.VerificationResult, error) {
	if len(claims) == 0 {
		return []model.VerificationResult{}, nil
	}

	results := make([]model.VerificationResult, len(claims))
	errs := make([]error, len(claims))

	var wg sync.WaitGroup
	semaphore := make(chan struct{}, v.maxWorkers)

	for i, claim := range claims {
		wg.Add(1)
		go func(idx int, c model.Claim) {
			defer wg.Done()

			select {
			case <-ctx.Done():
				errs[idx] = ctx.Err()
				return
			case semaphore <- struct{}{}:
			}
			defer func() { <-semaphore }()

			result, err := v.VerifyClaim(ctx, c.Text, topK)
			if err != nil {
				errs[idx] = fmt.Errorf("verify claim %q: %w", c.Text, err)
				return
			}

			// Carry the originating claim record back on the result
			result.Claim = c
			results[idx] = result
		}(i, claim)
	}

	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	v.logger.Info("verified claims", zap.Int("claims", len(claims)))

	return results, nil
}

// Summarize aggregates statistics over verification results
func Summarize(results []model.VerificationResult) model.VerificationSummary {
	summary := model.VerificationSummary{
		TotalClaims:        len(results),
		StatusDistribution: make(map[model.Status]int),
	}

	if len(results) == 0 {
		return summary
	}

	var confidenceSum float64
	for _, r := range results {
		summary.StatusDistribution[r.Status]++
		confidenceSum += r.Confidence

		switch r.Status {
		case model.StatusSupported:
			summary.Supported++
		case model.StatusPartiallySupported:
			summary.PartiallySupported++
		case model.StatusUnsupported:
			summary.Unsupported++
		case model.StatusConflicting:
			summary.Conflicting++
		}
	}
	summary.AverageConfidence = confidenceSum / float64(len(results))

	return summary
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
