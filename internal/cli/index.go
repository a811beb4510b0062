package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/veritaslabs/veritas/internal/docsource"
	"github.com/veritaslabs/veritas/internal/embed"
	"github.com/veritaslabs/veritas/internal/index"
	"github.com/veritaslabs/veritas/internal/textutil"
)

var (
	indexDocsPath string
	indexOutPath  string
	indexURLs     []string
	indexTimeout  time.Duration
	indexShowFull bool
)

const showPreviewChars = 600

// indexCmd groups evidence index management subcommands
var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Manage the evidence index",
}

var indexBuildCmd = &cobra.Command{
	Use:   "build",
	Short: "Build the evidence index from documents and save it",
	Long: `Build loads documents from the documents directory (.txt and .json
files), optionally fetches additional web pages, embeds everything, and
persists the index for later verification runs.

Example:
  veritas index build
  veritas index build --docs ./data/documents --out ./data/index/veritas
  veritas index build --url https://en.wikipedia.org/wiki/Earth`,
	RunE: runIndexBuild,
}

var indexStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show statistics for the persisted evidence index",
	RunE:  runIndexStats,
}

var indexShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show one indexed document",
	Long: `Show prints an indexed document by its id. Content is previewed on
sentence boundaries unless --full is set.

Example:
  veritas index show earth.txt
  veritas index show earth.txt --full`,
	Args: cobra.ExactArgs(1),
	RunE: runIndexShow,
}

func init() {
	rootCmd.AddCommand(indexCmd)
	indexCmd.AddCommand(indexBuildCmd)
	indexCmd.AddCommand(indexStatsCmd)
	indexCmd.AddCommand(indexShowCmd)

	indexShowCmd.Flags().BoolVar(&indexShowFull, "full", false, "print the full document content")

	indexBuildCmd.Flags().StringVar(&indexDocsPath, "docs", "", "documents directory (default: config data.documents_path)")
	indexBuildCmd.Flags().StringVar(&indexOutPath, "out", "", "index base path (default: config data.index_path)")
	indexBuildCmd.Flags().StringArrayVar(&indexURLs, "url", nil, "web page to fetch and index (repeatable)")
	indexBuildCmd.Flags().DurationVar(&indexTimeout, "timeout", 10*time.Minute, "total timeout for the build")
}

func runIndexBuild(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), indexTimeout)
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
	if indexDocsPath != "" {
		cfg.Data.DocumentsPath = indexDocsPath
	}
	if indexOutPath != "" {
		cfg.Data.IndexPath = indexOutPath
	}

	loader := docsource.NewLoader(cfg.Data.DocumentsPath, logger)
	docs, err := loader.LoadDocuments()
	if err != nil {
		return fmt.Errorf("load documents: %w", err)
	}

	if len(indexURLs) > 0 {
		fetcher := docsource.NewWebFetcher(cfg.HTTP, logger)
		for _, u := range indexURLs {
			doc, fetchErr := fetcher.FetchDocument(ctx, u)
			if fetchErr != nil {
				fmt.Fprintf(os.Stderr, "skipping %s: %v\n", u, fetchErr)
				continue
			}
			docs = append(docs, doc)
		}
	}

	if len(docs) == 0 {
		return fmt.Errorf("no documents to index")
	}

	encoder, err := embed.NewEncoder(cfg, logger)
	if err != nil {
		return fmt.Errorf("create encoder: %w", err)
	}

	store := index.NewStore(encoder, logger)
	if err := store.AddDocuments(ctx, docs); err != nil {
		return fmt.Errorf("index documents: %w", err)
	}

	if err := store.SaveState(cfg.Data.IndexPath); err != nil {
		return fmt.Errorf("save index: %w", err)
	}

	stats := store.GetStats()
	fmt.Fprintf(os.Stderr, "Indexed %d documents (dim %d) -> %s\n",
		stats.Documents, stats.EmbeddingDim, cfg.Data.IndexPath)

	return nil
}

func runIndexStats(cmd *cobra.Command, args []string) error {
	logger, err := newLogger()
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	encoder, err := embed.NewEncoder(cfg, logger)
	if err != nil {
		return fmt.Errorf("create encoder: %w", err)
	}

	store := index.NewStore(encoder, logger)
	if err := store.LoadState(cfg.Data.IndexPath); err != nil {
		return fmt.Errorf("load index: %w", err)
	}

	stats := store.GetStats()
	fmt.Printf("Index:      %s\n", cfg.Data.IndexPath)
	fmt.Printf("Documents:  %d\n", stats.Documents)
	fmt.Printf("Dimension:  %d\n", stats.EmbeddingDim)
	fmt.Printf("Encoder:    %s/%s\n", encoder.Name(), encoder.Model())

	return nil
}

func runIndexShow(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
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

	doc, ok := store.GetDocument(args[0])
	if !ok {
		return fmt.Errorf("document %q not found in index", args[0])
	}

	content := doc.Content
	if !indexShowFull {
		if preview := textutil.TruncateText(content, showPreviewChars); preview != "" {
			content = preview
		}
	}

	fmt.Printf("ID:      %s\n", doc.ID)
	fmt.Printf("Title:   %s\n", doc.Title)
	if doc.Source != "" {
		fmt.Printf("Source:  %s\n", doc.Source)
	}
	fmt.Printf("Length:  %d characters\n\n", len(doc.Content))
	fmt.Println(content)
	if !indexShowFull && len(content) < len(doc.Content) {
		fmt.Println("\n(truncated; use --full for the complete content)")
	}

	return nil
}
