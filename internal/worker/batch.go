package worker

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/veritaslabs/veritas/internal/pipeline"
)

// AnswerVerifier verifies one question/answer pair
type AnswerVerifier interface {
	VerifyAnswer(ctx context.Context, question, answer string) (*pipeline.Outcome, error)
}

// QAPair is one question/answer input of a batch
type QAPair struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// VerifyJob verifies a single pair
type VerifyJob struct {
	Pair     QAPair
	Verifier AnswerVerifier
}

// Execute runs the verification
func (j *VerifyJob) Execute(ctx context.Context) Result {
	outcome, err := j.Verifier.VerifyAnswer(ctx, j.Pair.Question, j.Pair.Answer)
	return &VerifyResult{
		Pair:    j.Pair,
		Outcome: outcome,
		Error:   err,
	}
}

// VerifyResult is the outcome of one batch entry
type VerifyResult struct {
	Pair    QAPair
	Outcome *pipeline.Outcome
	Error   error
}

// Err returns the verification error, if any
func (r *VerifyResult) Err() error {
	return r.Error
}

// BatchSummary aggregates statistics over a whole batch
type BatchSummary struct {
	Total         int            `json:"total"`
	Succeeded     int            `json:"succeeded"`
	Failed        int            `json:"failed"`
	AverageScore  float64        `json:"average_score"` // over succeeded entries
	CategoryCount map[string]int `json:"category_count"`
}

// BatchProcessor verifies many question/answer pairs concurrently
type BatchProcessor struct {
	verifier    AnswerVerifier
	concurrency int
}

// NewBatchProcessor creates a new batch processor
func NewBatchProcessor(verifier AnswerVerifier, concurrency int) *BatchProcessor {
	return &BatchProcessor{
		verifier:    verifier,
		concurrency: concurrency,
	}
}

// ProcessPairs verifies all pairs and returns results in input order
func (b *BatchProcessor) ProcessPairs(ctx context.Context, pairs []QAPair) []*VerifyResult {
	if len(pairs) == 0 {
		return []*VerifyResult{}
	}

	jobs := make([]Job, len(pairs))
	for i, pair := range pairs {
		jobs[i] = &VerifyJob{Pair: pair, Verifier: b.verifier}
	}

	pool := NewPool(b.concurrency)
	raw := pool.Run(ctx, jobs)

	results := make([]*VerifyResult, len(raw))
	for i, r := range raw {
		if r == nil {
			results[i] = &VerifyResult{Pair: pairs[i], Error: ctx.Err()}
			continue
		}
		results[i] = r.(*VerifyResult)
	}

	return results
}

// ProcessFile reads question/answer pairs from a file and verifies them
func (b *BatchProcessor) ProcessFile(ctx context.Context, filePath string) ([]*VerifyResult, error) {
	pairs, err := ReadPairsFromFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("read pairs: %w", err)
	}

	return b.ProcessPairs(ctx, pairs), nil
}

// Summarize computes batch statistics over results
func Summarize(results []*VerifyResult) BatchSummary {
	summary := BatchSummary{
		Total:         len(results),
		CategoryCount: make(map[string]int),
	}

	var scoreSum float64
	for _, r := range results {
		if r.Error != nil || r.Outcome == nil {
			summary.Failed++
			continue
		}
		summary.Succeeded++
		scoreSum += r.Outcome.Report.Score
		summary.CategoryCount[string(r.Outcome.Report.Category)]++
	}

	if summary.Succeeded > 0 {
		summary.AverageScore = scoreSum / float64(summary.Succeeded)
	}

	return summary
}

// ReadPairsFromFile loads pairs from a JSON array file or a JSONL file
// (one {"question": ..., "answer": ...} object per line).
func ReadPairsFromFile(filePath string) ([]QAPair, error) {
	raw, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}

	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "" {
		return nil, fmt.Errorf("file %s is empty", filePath)
	}

	if strings.HasPrefix(trimmed, "[") {
		var pairs []QAPair
		if err := json.Unmarshal([]byte(trimmed), &pairs); err != nil {
			return nil, fmt.Errorf("parse JSON array: %w", err)
		}
		return validatePairs(pairs, filePath)
	}

	var pairs []QAPair
	scanner := bufio.NewScanner(strings.NewReader(trimmed))
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		var pair QAPair
		if err := json.Unmarshal([]byte(line), &pair); err != nil {
			return nil, fmt.Errorf("parse line %d: %w", lineNo, err)
		}
		pairs = append(pairs, pair)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan file: %w", err)
	}

	return validatePairs(pairs, filePath)
}

func validatePairs(pairs []QAPair, filePath string) ([]QAPair, error) {
	for i, p := range pairs {
		if strings.TrimSpace(p.Answer) == "" {
			return nil, fmt.Errorf("entry %d in %s has an empty answer", i, filePath)
		}
	}
	if len(pairs) == 0 {
		return nil, fmt.Errorf("no pairs found in %s", filePath)
	}
	return pairs, nil
}
