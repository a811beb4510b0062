package model

// Category bands a truthfulness score; boundaries are inclusive on the
// lower bound of each band.
type Category string

const (
	CategoryHighlyReliable   Category = "highly_reliable"   // score >= 80
	CategoryReliable         Category = "reliable"          // score >= 60
	CategoryUncertain        Category = "uncertain"         // score >= 40
	CategoryUnreliable       Category = "unreliable"        // score >= 20
	CategoryHighlyUnreliable Category = "highly_unreliable" // score < 20
)

// RiskLevel is a per-sentence (or per-answer) qualitative risk tier
type RiskLevel string

const (
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

// ClaimSummary holds per-status claim counts
type ClaimSummary struct {
	TotalClaims        int `json:"total_claims"`
	Supported          int `json:"supported"`
	PartiallySupported int `json:"partially_supported"`
	Unsupported        int `json:"unsupported"`
	Conflicting        int `json:"conflicting"`
}

// ClaimBreakdown lists claim texts per status, capped per list
type ClaimBreakdown struct {
	Supported          []string `json:"supported_claims"`
	PartiallySupported []string `json:"partially_supported_claims"`
	Unsupported        []string `json:"unsupported_claims"`
	Conflicting        []string `json:"conflicting_claims"`
}

// Report is the structured truthfulness report for one answer.
// Derived, recomputed per call; never cached across differing inputs.
type Report struct {
	Answer          string         `json:"answer"`
	Score           float64        `json:"truthfulness_score"` // 0-100, rounded to one decimal
	Category        Category       `json:"score_category"`
	Description     string         `json:"description"`
	ClaimSummary    ClaimSummary   `json:"claim_summary"`
	ClaimBreakdown  ClaimBreakdown `json:"claim_breakdown"`
	RiskLevel       RiskLevel      `json:"risk_level"`
	Recommendations []string       `json:"recommendations"`
}

// RelatedClaim records a claim matched to a sentence during highlighting
type RelatedClaim struct {
	Claim      string  `json:"claim"`
	Status     Status  `json:"status"`
	Confidence float64 `json:"confidence"`
}

// SentenceRisk is the per-sentence entry of a risk map
type SentenceRisk struct {
	Sentence      string         `json:"sentence"`
	RiskLevel     RiskLevel      `json:"risk_level"`
	RiskScore     float64        `json:"risk_score"` // in [0,1]; lower is riskier
	RelatedClaims []RelatedClaim `json:"related_claims"`
}

// RiskSummary counts risky sentences and keeps a few examples per tier
type RiskSummary struct {
	HighRiskCount       int      `json:"high_risk_count"`
	MediumRiskCount     int      `json:"medium_risk_count"`
	HighRiskSentences   []string `json:"high_risk_sentences"`
	MediumRiskSentences []string `json:"medium_risk_sentences"`
}

// HighlightedAnswer is the annotated representation of an answer
type HighlightedAnswer struct {
	Original    string               `json:"original"`
	Highlighted string               `json:"highlighted_html"`
	RiskMap     map[int]SentenceRisk `json:"risk_map"` // keyed by sentence index
	Summary     RiskSummary          `json:"summary"`
}

// SentenceAnnotation is one entry of the flat JSON annotation form
type SentenceAnnotation struct {
	SentenceIndex int            `json:"sentence_index"`
	Sentence      string         `json:"sentence"`
	RiskLevel     RiskLevel      `json:"risk_level"`
	RiskScore     float64        `json:"risk_score"`
	RelatedClaims []RelatedClaim `json:"related_claims"`
}

// AnnotatedAnswer is the JSON-serializable annotation of an answer
type AnnotatedAnswer struct {
	Answer      string               `json:"answer"`
	Annotations []SentenceAnnotation `json:"annotations"`
	Summary     RiskSummary          `json:"summary"`
}
