package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/veritaslabs/veritas/internal/pipeline"
	"github.com/veritaslabs/veritas/internal/worker"
)

var (
	batchConcurrency int
	batchOutputDir   string
	batchTimeout     time.Duration
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch <file>",
	Short: "Verify multiple question/answer pairs from a file in parallel",
	Long: `Batch verifies many question/answer pairs concurrently:
- Read pairs from a JSON array or JSONL file ({"question": ..., "answer": ...})
- Verify pairs in parallel with a configurable worker count
- Write one report per pair plus batch summary statistics

Example:
  veritas batch pairs.jsonl
  veritas batch pairs.json --concurrency 4 --output-dir ./reports`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().IntVar(&batchConcurrency, "concurrency", 0, "number of concurrent workers (default: config concurrency.batch_workers)")
	batchCmd.Flags().StringVar(&batchOutputDir, "output-dir", "./veritas-reports", "output directory for reports")
	batchCmd.Flags().DurationVar(&batchTimeout, "timeout", 10*time.Minute, "total timeout for batch processing")
}

func runBatch(cmd *cobra.Command, args []string) error {
	file := args[0]

	ctx, cancel := context.WithTimeout(context.Background(), batchTimeout)
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

	concurrency := batchConcurrency
	if concurrency <= 0 {
		concurrency = cfg.Concurrency.BatchWorkers
	}

	if err := os.MkdirAll(batchOutputDir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	store, err := openStore(ctx, cfg, logger)
	if err != nil {
		return err
	}

	p, err := pipeline.New(store, cfg, logger)
	if err != nil {
		return fmt.Errorf("create pipeline: %w", err)
	}

	processor := worker.NewBatchProcessor(p, concurrency)

	results, err := processor.ProcessFile(ctx, file)
	if err != nil {
		return fmt.Errorf("process file: %w", err)
	}

	renderer := pipeline.NewRenderer(os.Stdout)
	for i, result := range results {
		if result.Error != nil {
			fmt.Fprintf(os.Stderr, "entry %d failed: %v\n", i, result.Error)
			continue
		}

		jsonPath := filepath.Join(batchOutputDir, fmt.Sprintf("report-%03d.json", i))
		if err := renderer.RenderJSON(result.Outcome, jsonPath); err != nil {
			fmt.Fprintf(os.Stderr, "entry %d: write JSON: %v\n", i, err)
			continue
		}

		fmt.Fprintf(os.Stderr, "entry %d: %.1f/100 (%s) -> %s\n",
			i, result.Outcome.Report.Score, result.Outcome.Report.Category, jsonPath)
	}

	summary := worker.Summarize(results)
	summaryPath := filepath.Join(batchOutputDir, "summary.json")
	if err := writeJSON(summaryPath, summary); err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "\nBatch complete: %d total, %d succeeded, %d failed\n",
		summary.Total, summary.Succeeded, summary.Failed)
	if summary.Succeeded > 0 {
		fmt.Fprintf(os.Stderr, "Average score: %.1f/100\n", summary.AverageScore)
	}
	fmt.Fprintf(os.Stderr, "Summary: %s\n", summaryPath)

	return nil
}
