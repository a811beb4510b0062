package model

import (
	"fmt"
	"time"
)

// Config is the complete pipeline configuration. It is loaded once at
// startup, validated, and passed into each component's constructor;
// components never mutate it.
type Config struct {
	Claims       ClaimsConfig       `yaml:"claims" mapstructure:"claims"`
	Verification VerificationConfig `yaml:"verification" mapstructure:"verification"`
	Scoring      ScoringConfig      `yaml:"scoring" mapstructure:"scoring"`
	Highlighting HighlightingConfig `yaml:"highlighting" mapstructure:"highlighting"`
	Embedding    EmbeddingConfig    `yaml:"embedding" mapstructure:"embedding"`
	LLM          LLMConfig          `yaml:"llm" mapstructure:"llm"`
	Data         DataConfig         `yaml:"data" mapstructure:"data"`
	Concurrency  ConcurrencyConfig  `yaml:"concurrency" mapstructure:"concurrency"`
	HTTP         HTTPConfig         `yaml:"http" mapstructure:"http"`
}

// ClaimsConfig controls claim extraction
type ClaimsConfig struct {
	MinClaimLength int     `yaml:"min_claim_length" mapstructure:"min_claim_length"` // characters
	MaxClaims      int     `yaml:"max_claims_per_answer" mapstructure:"max_claims_per_answer"`
	MinConfidence  float64 `yaml:"min_confidence" mapstructure:"min_confidence"`
}

// VerificationConfig holds the claim verifier thresholds
type VerificationConfig struct {
	SupportThreshold     float64 `yaml:"support_threshold" mapstructure:"support_threshold"`
	ConflictThreshold    float64 `yaml:"conflict_threshold" mapstructure:"conflict_threshold"`
	UncertaintyThreshold float64 `yaml:"uncertainty_threshold" mapstructure:"uncertainty_threshold"`
	TopK                 int     `yaml:"top_k" mapstructure:"top_k"`
}

// ScoringConfig holds the status weights for truthfulness scoring
type ScoringConfig struct {
	SupportedWeight          float64 `yaml:"supported_weight" mapstructure:"supported_weight"`
	PartiallySupportedWeight float64 `yaml:"partially_supported_weight" mapstructure:"partially_supported_weight"`
	UnsupportedWeight        float64 `yaml:"unsupported_weight" mapstructure:"unsupported_weight"`
	HallucinationPenalty     float64 `yaml:"hallucination_penalty" mapstructure:"hallucination_penalty"`
}

// HighlightingConfig holds the risk color scheme
type HighlightingConfig struct {
	HighRiskColor   string `yaml:"high_risk_color" mapstructure:"high_risk_color"`
	MediumRiskColor string `yaml:"medium_risk_color" mapstructure:"medium_risk_color"`
	LowRiskColor    string `yaml:"low_risk_color" mapstructure:"low_risk_color"`
}

// EmbeddingConfig configures the text encoder collaborator
type EmbeddingConfig struct {
	Provider     string `yaml:"provider" mapstructure:"provider"` // openai, ollama
	Model        string `yaml:"model" mapstructure:"model"`
	APIKey       string `yaml:"api_key,omitempty" mapstructure:"api_key"`
	BaseURL      string `yaml:"base_url,omitempty" mapstructure:"base_url"`
	Timeout      int    `yaml:"timeout" mapstructure:"timeout"` // seconds
	BatchSize    int    `yaml:"batch_size" mapstructure:"batch_size"`
	CacheEnabled bool   `yaml:"cache_enabled" mapstructure:"cache_enabled"`
	CacheDir     string `yaml:"cache_dir" mapstructure:"cache_dir"`
}

// LLMConfig configures the answer generator collaborator
type LLMConfig struct {
	Provider    string  `yaml:"provider" mapstructure:"provider"` // openai, ollama, "" (disabled)
	Model       string  `yaml:"model" mapstructure:"model"`
	APIKey      string  `yaml:"api_key,omitempty" mapstructure:"api_key"`
	BaseURL     string  `yaml:"base_url,omitempty" mapstructure:"base_url"`
	Timeout     int     `yaml:"timeout" mapstructure:"timeout"` // seconds
	MaxTokens   int     `yaml:"max_tokens" mapstructure:"max_tokens"`
	Temperature float64 `yaml:"temperature" mapstructure:"temperature"`
}

// DataConfig holds filesystem locations
type DataConfig struct {
	DocumentsPath string `yaml:"documents_path" mapstructure:"documents_path"`
	IndexPath     string `yaml:"index_path" mapstructure:"index_path"` // base path for save/load
}

// ConcurrencyConfig bounds the parallel stages
type ConcurrencyConfig struct {
	VerifyWorkers int `yaml:"verify_workers" mapstructure:"verify_workers"` // per-claim verification
	BatchWorkers  int `yaml:"batch_workers" mapstructure:"batch_workers"`   // question/answer pairs
}

// HTTPConfig configures the web document source
type HTTPConfig struct {
	Timeout           time.Duration `yaml:"timeout" mapstructure:"timeout"`
	UserAgent         string        `yaml:"user_agent" mapstructure:"user_agent"`
	MaxBodyBytes      int64         `yaml:"max_body_bytes" mapstructure:"max_body_bytes"`
	RequestsPerSecond float64       `yaml:"requests_per_second" mapstructure:"requests_per_second"`
	Burst             int           `yaml:"burst" mapstructure:"burst"`
	HTTPProxy         string        `yaml:"http_proxy,omitempty" mapstructure:"http_proxy"`
	HTTPSProxy        string        `yaml:"https_proxy,omitempty" mapstructure:"https_proxy"`
	NoProxy           string        `yaml:"no_proxy,omitempty" mapstructure:"no_proxy"`
}

// DefaultConfig returns the built-in defaults
func DefaultConfig() *Config {
	return &Config{
		Claims: ClaimsConfig{
			MinClaimLength: 10,
			MaxClaims:      20,
			MinConfidence:  0.5,
		},
		Verification: VerificationConfig{
			SupportThreshold:     0.7,
			ConflictThreshold:    0.5,
			UncertaintyThreshold: 0.4,
			TopK:                 5,
		},
		Scoring: ScoringConfig{
			SupportedWeight:          1.0,
			PartiallySupportedWeight: 0.5,
			UnsupportedWeight:        0.0,
			HallucinationPenalty:     -0.5,
		},
		Highlighting: HighlightingConfig{
			HighRiskColor:   "red",
			MediumRiskColor: "orange",
			LowRiskColor:    "green",
		},
		Embedding: EmbeddingConfig{
			Provider:     "openai",
			Model:        "text-embedding-3-small",
			Timeout:      30,
			BatchSize:    32,
			CacheEnabled: true,
			CacheDir:     ".veritas/cache",
		},
		LLM: LLMConfig{
			Provider:    "", // Disabled by default
			Model:       "",
			Timeout:     60,
			MaxTokens:   256,
			Temperature: 0.7,
		},
		Data: DataConfig{
			DocumentsPath: "./data/documents",
			IndexPath:     "./data/index/veritas",
		},
		Concurrency: ConcurrencyConfig{
			VerifyWorkers: 4,
			BatchWorkers:  2,
		},
		HTTP: HTTPConfig{
			Timeout:           30 * time.Second,
			UserAgent:         "Veritas/0.1 (+https://github.com/veritaslabs/veritas)",
			MaxBodyBytes:      2_000_000,
			RequestsPerSecond: 1.0,
			Burst:             2,
		},
	}
}

// Validate checks thresholds and weights. A malformed configuration is
// fatal and must be surfaced at startup, before any pipeline work.
func (c *Config) Validate() error {
	v := c.Verification
	for _, t := range []struct {
		name  string
		value float64
	}{
		{"verification.support_threshold", v.SupportThreshold},
		{"verification.conflict_threshold", v.ConflictThreshold},
		{"verification.uncertainty_threshold", v.UncertaintyThreshold},
	} {
		if t.value < 0 || t.value > 1 {
			return fmt.Errorf("config: %s must be in [0,1], got %v", t.name, t.value)
		}
	}
	if v.UncertaintyThreshold > v.SupportThreshold {
		return fmt.Errorf("config: verification.uncertainty_threshold (%v) must not exceed support_threshold (%v)",
			v.UncertaintyThreshold, v.SupportThreshold)
	}
	if v.TopK <= 0 {
		return fmt.Errorf("config: verification.top_k must be positive, got %d", v.TopK)
	}

	if c.Claims.MinClaimLength < 0 {
		return fmt.Errorf("config: claims.min_claim_length must not be negative, got %d", c.Claims.MinClaimLength)
	}
	if c.Claims.MaxClaims <= 0 {
		return fmt.Errorf("config: claims.max_claims_per_answer must be positive, got %d", c.Claims.MaxClaims)
	}
	if c.Claims.MinConfidence < 0 || c.Claims.MinConfidence > 1 {
		return fmt.Errorf("config: claims.min_confidence must be in [0,1], got %v", c.Claims.MinConfidence)
	}

	s := c.Scoring
	for _, w := range []struct {
		name  string
		value float64
	}{
		{"scoring.supported_weight", s.SupportedWeight},
		{"scoring.partially_supported_weight", s.PartiallySupportedWeight},
		{"scoring.unsupported_weight", s.UnsupportedWeight},
	} {
		if w.value < 0 || w.value > 1 {
			return fmt.Errorf("config: %s must be in [0,1], got %v", w.name, w.value)
		}
	}
	if s.HallucinationPenalty > 0 {
		return fmt.Errorf("config: scoring.hallucination_penalty must not be positive, got %v", s.HallucinationPenalty)
	}

	if c.Concurrency.VerifyWorkers <= 0 {
		return fmt.Errorf("config: concurrency.verify_workers must be positive, got %d", c.Concurrency.VerifyWorkers)
	}
	if c.Concurrency.BatchWorkers <= 0 {
		return fmt.Errorf("config: concurrency.batch_workers must be positive, got %d", c.Concurrency.BatchWorkers)
	}

	return nil
}
