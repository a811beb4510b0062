package model

// Claim represents a factual assertion extracted from one sentence of an answer
type Claim struct {
	Text       string    `json:"text"`       // The claim text itself
	Sentence   string    `json:"sentence"`   // Source sentence the claim came from
	Confidence float64   `json:"confidence"` // Extraction confidence in [0,1]
	Type       ClaimType `json:"type"`       // Surface-pattern classification
}

// ClaimType categorizes the nature of the claim
type ClaimType string

const (
	ClaimTypeFactual     ClaimType = "factual"     // Default classification
	ClaimTypeNumerical   ClaimType = "numerical"   // Contains a digit
	ClaimTypeTemporal    ClaimType = "temporal"    // Contains an existence/state verb
	ClaimTypeComparative ClaimType = "comparative" // Contains comparison words
)
