package highlight

import (
	"math"
	"strings"
	"testing"

	"github.com/veritaslabs/veritas/internal/model"
)

func defaultHighlightingConfig() model.HighlightingConfig {
	return model.HighlightingConfig{
		HighRiskColor:   "red",
		MediumRiskColor: "orange",
		LowRiskColor:    "green",
	}
}

func result(text string, status model.Status, confidence float64) model.VerificationResult {
	return model.VerificationResult{
		Claim:      model.Claim{Text: text},
		Status:     status,
		Confidence: confidence,
	}
}

func TestHighlightAnswer_UnmatchedSentencesStayLow(t *testing.T) {
	h := NewHighlighter(defaultHighlightingConfig(), nil)

	answer := "The sky is blue today. Nothing matches this one."
	out := h.HighlightAnswer(answer, nil)

	if out.Original != answer {
		t.Errorf("original answer must be preserved, got %q", out.Original)
	}
	if len(out.RiskMap) != 2 {
		t.Fatalf("expected 2 sentences in risk map, got %d", len(out.RiskMap))
	}
	for i, entry := range out.RiskMap {
		if entry.RiskLevel != model.RiskLow {
			t.Errorf("sentence %d: expected low risk default, got %v", i, entry.RiskLevel)
		}
		if entry.RiskScore != 1.0 {
			t.Errorf("sentence %d: expected default risk score 1.0, got %v", i, entry.RiskScore)
		}
		if entry.RelatedClaims == nil {
			t.Errorf("sentence %d: related claims must be an empty slice, not nil", i)
		}
	}
	if strings.Contains(out.Highlighted, "<mark") {
		t.Errorf("low-risk sentences must stay unmarked: %q", out.Highlighted)
	}
}

func TestHighlightAnswer_ConflictingSentence(t *testing.T) {
	h := NewHighlighter(defaultHighlightingConfig(), nil)

	answer := "The Earth is flat. Water is wet."
	results := []model.VerificationResult{
		result("The Earth is flat", model.StatusConflicting, 0.8),
	}

	out := h.HighlightAnswer(answer, results)

	entry := out.RiskMap[0]
	if entry.RiskLevel != model.RiskHigh {
		t.Errorf("expected high risk for conflicting claim, got %v", entry.RiskLevel)
	}
	// base 0.2 for conflicting, scaled by confidence 0.8
	if math.Abs(entry.RiskScore-0.16) > 1e-9 {
		t.Errorf("expected risk score 0.16, got %v", entry.RiskScore)
	}
	if len(entry.RelatedClaims) != 1 || entry.RelatedClaims[0].Status != model.StatusConflicting {
		t.Errorf("unexpected related claims: %+v", entry.RelatedClaims)
	}

	if !strings.Contains(out.Highlighted, `background-color: red`) {
		t.Errorf("expected red marker in HTML: %q", out.Highlighted)
	}
	if !strings.Contains(out.Highlighted, "Water is wet.") {
		t.Errorf("unmatched sentence must appear unmarked: %q", out.Highlighted)
	}
}

func TestMapRisks_MinimumWins(t *testing.T) {
	h := NewHighlighter(defaultHighlightingConfig(), nil)

	sentence := "The Earth orbits the Sun quickly."
	results := []model.VerificationResult{
		result("The Earth orbits the Sun", model.StatusSupported, 1.0),    // 0.9
		result("Earth orbits the Sun quickly", model.StatusConflicting, 1.0), // 0.2
	}

	out := h.HighlightAnswer(sentence, results)
	entry := out.RiskMap[0]

	if entry.RiskLevel != model.RiskHigh {
		t.Errorf("worst matching claim must win, got %v", entry.RiskLevel)
	}
	if math.Abs(entry.RiskScore-0.2) > 1e-9 {
		t.Errorf("expected minimum risk score 0.2, got %v", entry.RiskScore)
	}
	// Both matching claims are recorded even though only one set the level
	if len(entry.RelatedClaims) != 2 {
		t.Errorf("expected 2 related claims, got %d", len(entry.RelatedClaims))
	}
}

func TestClaimMatchesSentence(t *testing.T) {
	tests := []struct {
		name     string
		claim    string
		sentence string
		expected bool
	}{
		{"substring", "earth orbits", "The Earth orbits the Sun.", true},
		{"case insensitive", "EARTH ORBITS", "the earth orbits the sun", true},
		{
			"word overlap above ratio",
			"Earth orbits Sun yearly",
			"The Earth orbits the Sun yearly as measured.",
			true,
		},
		{
			"word overlap below ratio",
			"Earth orbits Sun yearly",
			"The Earth is large.",
			false,
		},
		{"no overlap", "dragons exist", "The Earth orbits the Sun.", false},
		{"empty claim", "", "anything", true}, // empty string is a substring
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := claimMatchesSentence(tt.claim, tt.sentence); got != tt.expected {
				t.Errorf("claimMatchesSentence(%q, %q) = %v, want %v", tt.claim, tt.sentence, got, tt.expected)
			}
		})
	}
}

func TestSummarize_CountsAndExamples(t *testing.T) {
	h := NewHighlighter(defaultHighlightingConfig(), nil)

	// Five conflicting sentences: all counted, examples capped at 3
	var parts []string
	var results []model.VerificationResult
	sentences := []string{
		"Alpha fact one is wrong.",
		"Beta fact two is wrong.",
		"Gamma fact three is wrong.",
		"Delta fact four is wrong.",
		"Epsilon fact five is wrong.",
	}
	for _, s := range sentences {
		parts = append(parts, s)
		results = append(results, result(strings.TrimSuffix(s, "."), model.StatusConflicting, 0.9))
	}

	out := h.HighlightAnswer(strings.Join(parts, " "), results)

	if out.Summary.HighRiskCount != 5 {
		t.Errorf("expected 5 high-risk sentences, got %d", out.Summary.HighRiskCount)
	}
	if len(out.Summary.HighRiskSentences) != 3 {
		t.Errorf("expected 3 example sentences, got %d", len(out.Summary.HighRiskSentences))
	}
	if out.Summary.HighRiskSentences[0] != sentences[0] {
		t.Errorf("examples must follow sentence order, got %q first", out.Summary.HighRiskSentences[0])
	}
}

func TestAnnotate(t *testing.T) {
	h := NewHighlighter(defaultHighlightingConfig(), nil)

	answer := "The Earth is flat. Water is wet."
	results := []model.VerificationResult{
		result("The Earth is flat", model.StatusConflicting, 0.815),
	}

	annotated := h.Annotate(answer, results)

	if annotated.Answer != answer {
		t.Errorf("unexpected answer: %q", annotated.Answer)
	}
	if len(annotated.Annotations) != 2 {
		t.Fatalf("expected 2 annotations, got %d", len(annotated.Annotations))
	}
	for i, a := range annotated.Annotations {
		if a.SentenceIndex != i {
			t.Errorf("annotations must be ordered by sentence index, got %d at %d", a.SentenceIndex, i)
		}
	}
	// 0.2 * 0.815 = 0.163, rounded to two decimals
	if annotated.Annotations[0].RiskScore != 0.16 {
		t.Errorf("expected rounded risk score 0.16, got %v", annotated.Annotations[0].RiskScore)
	}
}
