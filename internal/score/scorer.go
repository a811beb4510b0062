// Package score aggregates verification results into a truthfulness
// score and a structured report.
package score

import (
	"math"

	"go.uber.org/zap"

	"github.com/veritaslabs/veritas/internal/model"
)

// NeutralScore is returned when there are no results to score, or when
// the weights sum to zero. A defined neutral value, not an error.
const NeutralScore = 50.0

// Scorer turns per-claim statuses and confidences into a 0-100 score
type Scorer struct {
	cfg    model.ScoringConfig
	logger *zap.Logger
}

// NewScorer creates a new scorer
func NewScorer(cfg model.ScoringConfig, logger *zap.Logger) *Scorer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scorer{cfg: cfg, logger: logger}
}

// statusWeight maps a support status to its configured weight.
// Conflicting evidence carries a negative weight, so it actively lowers
// the score below what unsupported would.
func (s *Scorer) statusWeight(status model.Status) float64 {
	switch status {
	case model.StatusSupported:
		return s.cfg.SupportedWeight
	case model.StatusPartiallySupported:
		return s.cfg.PartiallySupportedWeight
	case model.StatusConflicting:
		return s.cfg.HallucinationPenalty
	default: // unsupported
		return s.cfg.UnsupportedWeight
	}
}

// CalculateScore computes the truthfulness score in [0,100]. In
// weighted mode each result contributes weight(status)*confidence over
// a confidence denominator; unweighted mode counts every result once.
func (s *Scorer) CalculateScore(results []model.VerificationResult, weighted bool) float64 {
	if len(results) == 0 {
		return NeutralScore
	}

	var numerator, denominator float64
	for _, r := range results {
		weight := s.statusWeight(r.Status)

		if weighted {
			numerator += weight * r.Confidence
			denominator += r.Confidence
		} else {
			numerator += weight
			denominator += 1.0
		}
	}

	if denominator == 0 {
		return NeutralScore
	}

	final := math.Max(0.0, math.Min(100.0, numerator/denominator*100))

	s.logger.Debug("calculated truthfulness score", zap.Float64("score", final))

	return final
}

// Category bands a score; each band is inclusive on its lower bound
func Category(score float64) model.Category {
	switch {
	case score >= 80:
		return model.CategoryHighlyReliable
	case score >= 60:
		return model.CategoryReliable
	case score >= 40:
		return model.CategoryUncertain
	case score >= 20:
		return model.CategoryUnreliable
	default:
		return model.CategoryHighlyUnreliable
	}
}

var categoryDescriptions = map[model.Category]string{
	model.CategoryHighlyReliable:   "This answer appears to be highly reliable based on available evidence.",
	model.CategoryReliable:         "This answer appears to be reliable, though some claims may need verification.",
	model.CategoryUncertain:        "This answer contains claims with mixed evidence - proceed with caution.",
	model.CategoryUnreliable:       "This answer contains several unverified or contradicted claims.",
	model.CategoryHighlyUnreliable: "This answer is highly unreliable - most claims lack supporting evidence.",
}

// Description returns the human-readable description for a score
func Description(score float64) string {
	return categoryDescriptions[Category(score)]
}
