package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/veritaslabs/veritas/internal/pipeline"
)

var askTimeout time.Duration

// askCmd represents the ask command
var askCmd = &cobra.Command{
	Use:   "ask <question>",
	Short: "Ask the configured LLM a question and verify its answer",
	Long: `Ask sends the question to the configured LLM provider, then runs the
generated answer through the same verification flow as 'veritas verify'.

Requires llm.provider to be set (openai or ollama).

Example:
  veritas ask "How long does the Earth take to orbit the Sun?"
  veritas ask "Who wrote Hamlet?" --json report.json`,
	Args: cobra.ExactArgs(1),
	RunE: runAsk,
}

func init() {
	rootCmd.AddCommand(askCmd)

	askCmd.Flags().StringVar(&outJSON, "json", "", "output JSON path (optional)")
	askCmd.Flags().StringVar(&outMD, "md", "", "output Markdown path (optional)")
	askCmd.Flags().StringVar(&outAnnotated, "annotated", "", "output path for per-sentence annotations JSON (optional)")
	askCmd.Flags().DurationVar(&askTimeout, "timeout", 3*time.Minute, "overall timeout including generation")
}

func runAsk(cmd *cobra.Command, args []string) error {
	question := args[0]

	ctx, cancel := context.WithTimeout(context.Background(), askTimeout)
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
	if !p.CanGenerate() {
		return fmt.Errorf("no LLM provider configured; set llm.provider to openai or ollama")
	}

	probeCtx, probeCancel := context.WithTimeout(ctx, 10*time.Second)
	defer probeCancel()
	if !p.GeneratorReady(probeCtx) {
		return fmt.Errorf("LLM provider %q is not reachable; check llm.base_url and the API key", cfg.LLM.Provider)
	}

	outcome, err := p.GenerateAndVerify(ctx, question)
	if err != nil {
		return fmt.Errorf("ask failed: %w", err)
	}

	fmt.Fprintf(os.Stdout, "Answer: %s\n", outcome.Answer)

	return writeOutcome(p, outcome)
}
