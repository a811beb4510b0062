package cli

import (
	"context"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"github.com/veritaslabs/veritas/internal/eval"
	"github.com/veritaslabs/veritas/internal/model"
	"github.com/veritaslabs/veritas/internal/verify"
)

var (
	evalLimit   int
	evalOutPath string
	evalTimeout time.Duration
)

// evalCmd represents the eval command
var evalCmd = &cobra.Command{
	Use:   "eval <dataset.jsonl>",
	Short: "Benchmark claim verification against a FEVER-format dataset",
	Long: `Eval verifies each labeled claim of a FEVER-format dataset (one JSON
object per line with "claim" and "label" fields) against the evidence
index, maps verification statuses to FEVER labels, and reports accuracy
and per-label F1.

Example:
  veritas eval fever_dev.jsonl --limit 200 --out eval.json`,
	Args: cobra.ExactArgs(1),
	RunE: runEval,
}

func init() {
	rootCmd.AddCommand(evalCmd)

	evalCmd.Flags().IntVar(&evalLimit, "limit", 0, "evaluate at most this many samples (0 = all)")
	evalCmd.Flags().StringVar(&evalOutPath, "out", "", "write the evaluation report to this JSON path")
	evalCmd.Flags().DurationVar(&evalTimeout, "timeout", 30*time.Minute, "total evaluation timeout")
}

func runEval(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), evalTimeout)
	defer cancel()

	logger, err := newLogger()
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	samples, err := eval.LoadDataset(args[0], evalLimit)
	if err != nil {
		return err
	}

	store, err := openStore(ctx, cfg, logger)
	if err != nil {
		return err
	}

	verifier := verify.NewVerifier(store, cfg.Verification, cfg.Concurrency.VerifyWorkers, logger)

	claims := make([]model.Claim, len(samples))
	for i, s := range samples {
		claims[i] = model.Claim{Text: s.Claim}
	}

	results, err := verifier.VerifyClaimsBatch(ctx, claims, cfg.Verification.TopK)
	if err != nil {
		return fmt.Errorf("verify claims: %w", err)
	}

	predictions := make([]string, len(results))
	for i, r := range results {
		predictions[i] = eval.MapStatus(r.Status)
	}

	evaluation, err := eval.Evaluate(samples, predictions)
	if err != nil {
		return err
	}

	fmt.Printf("Samples:   %d\n", evaluation.Total)
	fmt.Printf("Accuracy:  %.3f\n", evaluation.Accuracy)
	fmt.Printf("Macro F1:  %.3f\n", evaluation.MacroF1)
	labels := make([]string, 0, len(evaluation.PerLabel))
	for label := range evaluation.PerLabel {
		labels = append(labels, label)
	}
	sort.Strings(labels)
	for _, label := range labels {
		m := evaluation.PerLabel[label]
		fmt.Printf("  %-16s P=%.3f R=%.3f F1=%.3f (n=%d)\n",
			label, m.Precision, m.Recall, m.F1, m.Support)
	}

	if evalOutPath != "" {
		if err := eval.WriteReport(evaluation, evalOutPath); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "Wrote evaluation: %s\n", evalOutPath)
	}

	return nil
}
