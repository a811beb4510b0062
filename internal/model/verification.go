package model

// Status classifies a claim's relationship to retrieved evidence
type Status string

const (
	StatusSupported          Status = "supported"
	StatusPartiallySupported Status = "partially_supported"
	StatusUnsupported        Status = "unsupported"
	StatusConflicting        Status = "conflicting"
)

// EvidenceMatch is one retrieved document scored against a claim.
// Ephemeral: produced per verification call, never persisted.
type EvidenceMatch struct {
	DocumentID         string  `json:"document_id"`
	Title              string  `json:"title"`
	Source             string  `json:"source"`
	SemanticSimilarity float64 `json:"similarity"`     // Cosine similarity in [-1,1]
	LexicalOverlap     float64 `json:"overlap"`        // Word-set Jaccard in [0,1]
	CombinedScore      float64 `json:"combined_score"` // 0.6*semantic + 0.4*lexical
}

// VerificationResult is the outcome of verifying a single claim.
// Status and confidence are jointly derived from the verifier thresholds.
type VerificationResult struct {
	Claim      Claim           `json:"claim"`
	Status     Status          `json:"status"`
	Confidence float64         `json:"confidence"` // clamp(mean combined score, 0, 1)
	Evidence   []EvidenceMatch `json:"evidence"`
	Reasoning  string          `json:"reasoning"`
}

// VerificationSummary aggregates statistics over a batch of results
type VerificationSummary struct {
	TotalClaims        int            `json:"total_claims"`
	StatusDistribution map[Status]int `json:"status_distribution"`
	AverageConfidence  float64        `json:"average_confidence"`
	Supported          int            `json:"supported_count"`
	PartiallySupported int            `json:"partially_supported_count"`
	Unsupported        int            `json:"unsupported_count"`
	Conflicting        int            `json:"conflicting_count"`
}
