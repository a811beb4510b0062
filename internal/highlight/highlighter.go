// Package highlight maps verification results back onto the sentences
// of the original answer and renders a risk-annotated version.
package highlight

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/veritaslabs/veritas/internal/model"
	"github.com/veritaslabs/veritas/internal/textutil"
)

// A claim matches a sentence when at least this share of its words
// appear in the sentence (unless it is already a substring).
const wordOverlapRatio = 0.7

// Highlighter assigns a risk level to every sentence of an answer
type Highlighter struct {
	cfg    model.HighlightingConfig
	logger *zap.Logger
}

// NewHighlighter creates a new highlighter
func NewHighlighter(cfg model.HighlightingConfig, logger *zap.Logger) *Highlighter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Highlighter{cfg: cfg, logger: logger}
}

// statusRisk maps a support status to its base risk score and level,
// before scaling by the result's confidence.
func statusRisk(status model.Status) (float64, model.RiskLevel) {
	switch status {
	case model.StatusSupported:
		return 0.9, model.RiskLow
	case model.StatusPartiallySupported:
		return 0.6, model.RiskMedium
	case model.StatusConflicting:
		return 0.2, model.RiskHigh
	default: // unsupported
		return 0.3, model.RiskHigh
	}
}

// HighlightAnswer produces the annotated representation of an answer:
// HTML markup, a per-sentence risk map, and a summary of risky areas.
func (h *Highlighter) HighlightAnswer(answer string, results []model.VerificationResult) model.HighlightedAnswer {
	sentences := textutil.SplitSentences(answer)
	riskMap := h.mapRisks(sentences, results)

	return model.HighlightedAnswer{
		Original:    answer,
		Highlighted: h.renderHTML(sentences, riskMap),
		RiskMap:     riskMap,
		Summary:     summarize(riskMap),
	}
}

// mapRisks assigns each sentence the worst (minimum) risk score among
// the claims that match it. Unmatched sentences keep the low-risk
// default.
func (h *Highlighter) mapRisks(sentences []string, results []model.VerificationResult) map[int]model.SentenceRisk {
	riskMap := make(map[int]model.SentenceRisk, len(sentences))
	for i, sentence := range sentences {
		riskMap[i] = model.SentenceRisk{
			Sentence:      sentence,
			RiskLevel:     model.RiskLow,
			RiskScore:     1.0,
			RelatedClaims: []model.RelatedClaim{},
		}
	}

	for _, result := range results {
		baseScore, level := statusRisk(result.Status)
		riskScore := baseScore * result.Confidence

		for i, sentence := range sentences {
			if !claimMatchesSentence(result.Claim.Text, sentence) {
				continue
			}

			entry := riskMap[i]
			if riskScore < entry.RiskScore {
				entry.RiskScore = riskScore
				entry.RiskLevel = level
			}
			entry.RelatedClaims = append(entry.RelatedClaims, model.RelatedClaim{
				Claim:      result.Claim.Text,
				Status:     result.Status,
				Confidence: result.Confidence,
			})
			riskMap[i] = entry
		}
	}

	return riskMap
}

// claimMatchesSentence matches by case-insensitive substring
// containment, or by word overlap covering most of the claim.
func claimMatchesSentence(claim, sentence string) bool {
	claimLower := strings.ToLower(claim)
	sentenceLower := strings.ToLower(sentence)

	if strings.Contains(sentenceLower, claimLower) {
		return true
	}

	claimWords := make(map[string]struct{})
	for _, w := range strings.Fields(claimLower) {
		claimWords[w] = struct{}{}
	}
	if len(claimWords) == 0 {
		return false
	}

	sentenceWords := make(map[string]struct{})
	for _, w := range strings.Fields(sentenceLower) {
		sentenceWords[w] = struct{}{}
	}

	overlap := 0
	for w := range claimWords {
		if _, ok := sentenceWords[w]; ok {
			overlap++
		}
	}

	return float64(overlap) >= float64(len(claimWords))*wordOverlapRatio
}

// renderHTML emits low-risk sentences unmarked and wraps the rest in a
// risk-colored marker.
func (h *Highlighter) renderHTML(sentences []string, riskMap map[int]model.SentenceRisk) string {
	parts := make([]string, 0, len(sentences))

	for i, sentence := range sentences {
		level := riskMap[i].RiskLevel
		if level == model.RiskLow {
			parts = append(parts, sentence)
			continue
		}
		parts = append(parts, fmt.Sprintf(
			`<mark style="background-color: %s; padding: 2px; border-radius: 3px;">%s</mark>`,
			h.colorFor(level), sentence))
	}

	return "<p>" + strings.Join(parts, " ") + "</p>"
}

func (h *Highlighter) colorFor(level model.RiskLevel) string {
	switch level {
	case model.RiskHigh:
		return h.cfg.HighRiskColor
	case model.RiskMedium:
		return h.cfg.MediumRiskColor
	default:
		return h.cfg.LowRiskColor
	}
}

// summarize counts non-low sentences and keeps up to 3 examples per tier
func summarize(riskMap map[int]model.SentenceRisk) model.RiskSummary {
	indexes := make([]int, 0, len(riskMap))
	for i := range riskMap {
		indexes = append(indexes, i)
	}
	sort.Ints(indexes)

	summary := model.RiskSummary{
		HighRiskSentences:   []string{},
		MediumRiskSentences: []string{},
	}

	for _, i := range indexes {
		entry := riskMap[i]
		switch entry.RiskLevel {
		case model.RiskHigh:
			summary.HighRiskCount++
			if len(summary.HighRiskSentences) < 3 {
				summary.HighRiskSentences = append(summary.HighRiskSentences, entry.Sentence)
			}
		case model.RiskMedium:
			summary.MediumRiskCount++
			if len(summary.MediumRiskSentences) < 3 {
				summary.MediumRiskSentences = append(summary.MediumRiskSentences, entry.Sentence)
			}
		}
	}

	return summary
}

// Annotate flattens the highlighted answer into its JSON annotation
// form, ordered by sentence index.
func (h *Highlighter) Annotate(answer string, results []model.VerificationResult) model.AnnotatedAnswer {
	highlighted := h.HighlightAnswer(answer, results)

	indexes := make([]int, 0, len(highlighted.RiskMap))
	for i := range highlighted.RiskMap {
		indexes = append(indexes, i)
	}
	sort.Ints(indexes)

	annotations := make([]model.SentenceAnnotation, 0, len(indexes))
	for _, i := range indexes {
		entry := highlighted.RiskMap[i]
		annotations = append(annotations, model.SentenceAnnotation{
			SentenceIndex: i,
			Sentence:      entry.Sentence,
			RiskLevel:     entry.RiskLevel,
			RiskScore:     math.Round(entry.RiskScore*100) / 100,
			RelatedClaims: entry.RelatedClaims,
		})
	}

	return model.AnnotatedAnswer{
		Answer:      answer,
		Annotations: annotations,
		Summary:     highlighted.Summary,
	}
}
