package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/veritaslabs/veritas/internal/pipeline"
)

var (
	verifyQuestion string
	outJSON        string
	outMD          string
	outAnnotated   string
	verifyTimeout  time.Duration
)

// verifyCmd represents the verify command
var verifyCmd = &cobra.Command{
	Use:   "verify <answer>",
	Short: "Verify an answer against the evidence index",
	Long: `Verify extracts factual claims from the given answer, retrieves the
most similar documents from the evidence index, classifies each claim,
and prints a truthfulness score with per-sentence risk highlighting.

Example:
  veritas verify "The Earth orbits the Sun in about 365 days."
  veritas verify "Paris is the capital of France." --question "What is the capital of France?"
  veritas verify "..." --json report.json --md report.md --annotated sentences.json`,
	Args: cobra.ExactArgs(1),
	RunE: runVerify,
}

func init() {
	rootCmd.AddCommand(verifyCmd)

	verifyCmd.Flags().StringVarP(&verifyQuestion, "question", "q", "", "question the answer responds to (optional, recorded in the report)")
	verifyCmd.Flags().StringVar(&outJSON, "json", "", "output JSON path (optional)")
	verifyCmd.Flags().StringVar(&outMD, "md", "", "output Markdown path (optional)")
	verifyCmd.Flags().StringVar(&outAnnotated, "annotated", "", "output path for per-sentence annotations JSON (optional)")
	verifyCmd.Flags().DurationVar(&verifyTimeout, "timeout", 2*time.Minute, "overall verification timeout")
}

func runVerify(cmd *cobra.Command, args []string) error {
	answer := args[0]

	ctx, cancel := context.WithTimeout(context.Background(), verifyTimeout)
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

	store, err := openStore(ctx, cfg, logger)
	if err != nil {
		return err
	}

	p, err := pipeline.New(store, cfg, logger)
	if err != nil {
		return fmt.Errorf("create pipeline: %w", err)
	}

	outcome, err := p.VerifyAnswer(ctx, verifyQuestion, answer)
	if err != nil {
		return fmt.Errorf("verify failed: %w", err)
	}

	return writeOutcome(p, outcome)
}

// writeOutcome renders an outcome to the requested destinations and
// always prints the terminal summary.
func writeOutcome(p *pipeline.Pipeline, outcome *pipeline.Outcome) error {
	renderer := pipeline.NewRenderer(os.Stdout)

	if outJSON != "" {
		if err := renderer.RenderJSON(outcome, outJSON); err != nil {
			return fmt.Errorf("render JSON: %w", err)
		}
		if verbose {
			fmt.Fprintf(os.Stderr, "Wrote JSON: %s\n", outJSON)
		}
	}

	if outMD != "" {
		if err := renderer.RenderMarkdown(outcome, outMD); err != nil {
			return fmt.Errorf("render markdown: %w", err)
		}
		if verbose {
			fmt.Fprintf(os.Stderr, "Wrote Markdown: %s\n", outMD)
		}
	}

	if outAnnotated != "" {
		annotated := p.Annotate(outcome.Answer, outcome.Results)
		if err := writeJSON(outAnnotated, annotated); err != nil {
			return fmt.Errorf("write annotations: %w", err)
		}
		if verbose {
			fmt.Fprintf(os.Stderr, "Wrote annotations: %s\n", outAnnotated)
		}
	}

	renderer.RenderSummary(outcome)
	return nil
}
