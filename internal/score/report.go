package score

import (
	"math"

	"github.com/veritaslabs/veritas/internal/model"
)

// Each breakdown list carries at most this many claim texts
const breakdownCap = 5

// GenerateReport builds the structured truthfulness report for an
// answer from its verification results and score.
func (s *Scorer) GenerateReport(answer string, results []model.VerificationResult, score float64) model.Report {
	var supported, partial, unsupported, conflicting []string
	for _, r := range results {
		switch r.Status {
		case model.StatusSupported:
			supported = append(supported, r.Claim.Text)
		case model.StatusPartiallySupported:
			partial = append(partial, r.Claim.Text)
		case model.StatusUnsupported:
			unsupported = append(unsupported, r.Claim.Text)
		case model.StatusConflicting:
			conflicting = append(conflicting, r.Claim.Text)
		}
	}

	return model.Report{
		Answer:      answer,
		Score:       math.Round(score*10) / 10,
		Category:    Category(score),
		Description: Description(score),
		ClaimSummary: model.ClaimSummary{
			TotalClaims:        len(results),
			Supported:          len(supported),
			PartiallySupported: len(partial),
			Unsupported:        len(unsupported),
			Conflicting:        len(conflicting),
		},
		ClaimBreakdown: model.ClaimBreakdown{
			Supported:          capList(supported),
			PartiallySupported: capList(partial),
			Unsupported:        capList(unsupported),
			Conflicting:        capList(conflicting),
		},
		RiskLevel:       riskLevel(score, len(unsupported), len(conflicting)),
		Recommendations: recommendations(score, len(unsupported), len(conflicting)),
	}
}

func capList(claims []string) []string {
	if len(claims) > breakdownCap {
		return claims[:breakdownCap]
	}
	return claims
}

// riskLevel derives the answer-level risk tier
func riskLevel(score float64, unsupported, conflicting int) model.RiskLevel {
	switch {
	case conflicting > 0 || score < 20:
		return model.RiskHigh
	case unsupported > 2 || score < 40:
		return model.RiskMedium
	default:
		return model.RiskLow
	}
}

// recommendations are cumulative, not mutually exclusive; the generic
// fallback appears only when the list would otherwise be empty.
func recommendations(score float64, unsupported, conflicting int) []string {
	var recs []string

	if conflicting > 0 {
		recs = append(recs, "Review conflicting claims against authoritative sources.")
	}
	if unsupported > 3 {
		recs = append(recs, "Many claims lack supporting evidence - verify independently.")
	}
	if score < 40 {
		recs = append(recs, "Consider consulting primary sources before relying on this answer.")
	}
	if score >= 80 {
		recs = append(recs, "This answer appears reliable based on available evidence.")
	}

	if len(recs) == 0 {
		recs = append(recs, "Further verification recommended for critical applications.")
	}

	return recs
}
