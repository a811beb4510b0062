package extract

import (
	"regexp"
	"strings"

	"go.uber.org/zap"

	"github.com/veritaslabs/veritas/internal/model"
	"github.com/veritaslabs/veritas/internal/textutil"
)

// ClaimExtractor derives short factual assertions from answer text
type ClaimExtractor struct {
	minClaimLength int
	maxClaims      int
	parser         SyntaxParser // nil means degraded whole-sentence mode
	logger         *zap.Logger
}

// NewClaimExtractor creates a claim extractor. A nil parser selects the
// degraded whole-sentence mode; this is recovered behavior, not an error.
func NewClaimExtractor(cfg model.ClaimsConfig, parser SyntaxParser, logger *zap.Logger) *ClaimExtractor {
	if logger == nil {
		logger = zap.NewNop()
	}
	if parser == nil {
		logger.Warn("syntax parser unavailable, falling back to whole-sentence claims")
	}
	return &ClaimExtractor{
		minClaimLength: cfg.MinClaimLength,
		maxClaims:      cfg.MaxClaims,
		parser:         parser,
		logger:         logger,
	}
}

var digitRe = regexp.MustCompile(`\d`)

// Extract extracts claims from text, at most maxClaims, in sentence
// order. Truncation at the cap silently drops later sentences.
func (e *ClaimExtractor) Extract(text string) []model.Claim {
	text = textutil.CleanText(text)
	sentences := textutil.SplitSentences(text)

	e.logger.Debug("extracting claims", zap.Int("sentences", len(sentences)))

	var claims []model.Claim
	for _, sentence := range sentences {
		if len(sentence) < e.minClaimLength {
			continue
		}

		for _, cand := range e.extractFromSentence(sentence) {
			if len(cand.text) < e.minClaimLength {
				continue
			}
			claims = append(claims, model.Claim{
				Text:       cand.text,
				Sentence:   sentence,
				Confidence: cand.confidence,
				Type:       classifyClaimType(cand.text),
			})
			if len(claims) >= e.maxClaims {
				e.logger.Debug("reached claim cap", zap.Int("max_claims", e.maxClaims))
				return claims
			}
		}
	}

	e.logger.Debug("extracted claims", zap.Int("claims", len(claims)))
	return claims
}

type candidate struct {
	text       string
	confidence float64
}

// extractFromSentence attempts structured subject-verb-object extraction
// and falls back to the whole sentence.
func (e *ClaimExtractor) extractFromSentence(sentence string) []candidate {
	if e.parser == nil {
		// Degraded mode: the entire sentence is the claim
		return []candidate{{text: sentence, confidence: 0.8}}
	}

	if svo, ok := e.parser.ParseSVO(sentence); ok {
		text := svo.Subject + " " + svo.Verb
		if svo.Object != "" {
			text += " " + svo.Object
		}
		return []candidate{{text: text, confidence: 0.8}}
	}

	return []candidate{{text: sentence, confidence: 0.7}}
}

// classifyClaimType classifies a claim by surface pattern. Checked in
// priority order: numerical wins over temporal and comparative.
func classifyClaimType(claim string) model.ClaimType {
	lower := strings.ToLower(claim)

	if digitRe.MatchString(claim) {
		return model.ClaimTypeNumerical
	}

	for _, word := range []string{"was", "is", "will be", "has been"} {
		if containsWord(lower, word) {
			return model.ClaimTypeTemporal
		}
	}

	for _, word := range []string{"more than", "less than", "greater", "smaller"} {
		if strings.Contains(lower, word) {
			return model.ClaimTypeComparative
		}
	}

	return model.ClaimTypeFactual
}

// containsWord reports whether lower contains word on word boundaries
func containsWord(lower, word string) bool {
	idx := 0
	for {
		i := strings.Index(lower[idx:], word)
		if i < 0 {
			return false
		}
		start := idx + i
		end := start + len(word)
		beforeOK := start == 0 || !isWordChar(lower[start-1])
		afterOK := end == len(lower) || !isWordChar(lower[end])
		if beforeOK && afterOK {
			return true
		}
		idx = start + 1
	}
}

func isWordChar(b byte) bool {
	return b >= 'a' && b <= 'z' || b >= '0' && b <= '9'
}

// FilterClaims keeps only claims at or above the confidence floor,
// preserving order.
func FilterClaims(claims []model.Claim, minConfidence float64) []model.Claim {
	var filtered []model.Claim
	for _, c := range claims {
		if c.Confidence >= minConfidence {
			filtered = append(filtered, c)
		}
	}
	return filtered
}

// DeduplicateClaims removes case-insensitive exact-text duplicates,
// preserving first-occurrence order. Idempotent.
func DeduplicateClaims(claims []model.Claim) []model.Claim {
	seen := make(map[string]bool)
	var unique []model.Claim

	for _, c := range claims {
		key := strings.ToLower(strings.TrimSpace(c.Text))
		if !seen[key] {
			seen[key] = true
			unique = append(unique, c)
		}
	}

	return unique
}
