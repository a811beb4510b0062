// Package pipeline orchestrates the full verification flow: extract
// claims from an answer, verify them against the evidence index, score
// the answer, and highlight risky sentences.
package pipeline

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/veritaslabs/veritas/internal/extract"
	"github.com/veritaslabs/veritas/internal/highlight"
	"github.com/veritaslabs/veritas/internal/index"
	"github.com/veritaslabs/veritas/internal/llm"
	"github.com/veritaslabs/veritas/internal/model"
	"github.com/veritaslabs/veritas/internal/score"
	"github.com/veritaslabs/veritas/internal/verify"
)

// Pipeline wires the verification stages together. Stages share no
// mutable state; a single Pipeline is safe for concurrent use.
type Pipeline struct {
	extractor   *extract.ClaimExtractor
	verifier    *verify.Verifier
	scorer      *score.Scorer
	highlighter *highlight.Highlighter
	generator   llm.Generator // nil when generation is disabled
	cfg         *model.Config
	logger      *zap.Logger
}

// New creates a pipeline over an already-populated evidence index
func New(store *index.Store, cfg *model.Config, logger *zap.Logger) (*Pipeline, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	generator, err := llm.NewGenerator(cfg.LLM, cfg.HTTP.HTTPProxy, cfg.HTTP.HTTPSProxy, cfg.HTTP.NoProxy)
	if err != nil {
		// Generation is optional; verification still works without it
		logger.Warn("LLM provider unavailable, generation disabled", zap.Error(err))
		generator = nil
	}

	return &Pipeline{
		extractor:   extract.NewClaimExtractor(cfg.Claims, extract.NewHeuristicParser(), logger),
		verifier:    verify.NewVerifier(store, cfg.Verification, cfg.Concurrency.VerifyWorkers, logger),
		scorer:      score.NewScorer(cfg.Scoring, logger),
		highlighter: highlight.NewHighlighter(cfg.Highlighting, logger),
		generator:   generator,
		cfg:         cfg,
		logger:      logger,
	}, nil
}

// Outcome is the complete result of verifying one answer
type Outcome struct {
	Question    string                     `json:"question,omitempty"`
	Answer      string                     `json:"answer"`
	Report      model.Report               `json:"truthfulness_report"`
	Highlighted model.HighlightedAnswer    `json:"highlighted_answer"`
	Results     []model.VerificationResult `json:"claim_verifications"`
	Summary     model.VerificationSummary  `json:"verification_summary"`
	NoClaims    bool                       `json:"no_claims,omitempty"`
}

// VerifyAnswer runs the full flow for one answer. An answer yielding no
// verifiable claims is not an error: it gets the neutral score with the
// NoClaims flag set.
func (p *Pipeline) VerifyAnswer(ctx context.Context, question, answer string) (*Outcome, error) {
	claims := p.extractor.Extract(answer)
	claims = extract.FilterClaims(claims, p.cfg.Claims.MinConfidence)
	claims = extract.DeduplicateClaims(claims)

	if len(claims) == 0 {
		p.logger.Warn("no verifiable claims extracted", zap.String("question", question))
		return &Outcome{
			Question:    question,
			Answer:      answer,
			Report:      p.scorer.GenerateReport(answer, nil, score.NeutralScore),
			Highlighted: p.highlighter.HighlightAnswer(answer, nil),
			Results:     []model.VerificationResult{},
			Summary:     verify.Summarize(nil),
			NoClaims:    true,
		}, nil
	}

	results, err := p.verifier.VerifyClaimsBatch(ctx, claims, p.cfg.Verification.TopK)
	if err != nil {
		return nil, fmt.Errorf("verify claims: %w", err)
	}

	truthScore := p.scorer.CalculateScore(results, true)

	outcome := &Outcome{
		Question:    question,
		Answer:      answer,
		Report:      p.scorer.GenerateReport(answer, results, truthScore),
		Highlighted: p.highlighter.HighlightAnswer(answer, results),
		Results:     results,
		Summary:     verify.Summarize(results),
	}

	p.logger.Info("verified answer",
		zap.Int("claims", len(claims)),
		zap.Float64("score", outcome.Report.Score),
		zap.String("category", string(outcome.Report.Category)))

	return outcome, nil
}

// Annotate returns the flat JSON annotation of an answer's sentences
func (p *Pipeline) Annotate(answer string, results []model.VerificationResult) model.AnnotatedAnswer {
	return p.highlighter.Annotate(answer, results)
}

// GenerateAndVerify asks the configured LLM the question, then verifies
// its answer like any externally supplied one.
func (p *Pipeline) GenerateAndVerify(ctx context.Context, question string) (*Outcome, error) {
	if p.generator == nil {
		return nil, fmt.Errorf("no LLM provider configured (set llm.provider to openai or ollama)")
	}

	answer, err := p.generator.Generate(ctx, question)
	if err != nil {
		return nil, fmt.Errorf("generate answer: %w", err)
	}
	if answer == "" {
		return nil, fmt.Errorf("LLM returned an empty answer")
	}

	p.logger.Debug("generated answer",
		zap.String("provider", p.generator.Name()),
		zap.Int("answer_length", len(answer)))

	return p.VerifyAnswer(ctx, question, answer)
}

// CanGenerate reports whether an answer generator is configured
func (p *Pipeline) CanGenerate() bool {
	return p.generator != nil
}

// GeneratorReady reports whether the configured generator answers a
// liveness probe. Always false when generation is disabled.
func (p *Pipeline) GeneratorReady(ctx context.Context) bool {
	return p.generator != nil && p.generator.IsAvailable(ctx)
}
