// Package cli implements the veritas command-line interface.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/veritaslabs/veritas/internal/docsource"
	"github.com/veritaslabs/veritas/internal/embed"
	"github.com/veritaslabs/veritas/internal/index"
	"github.com/veritaslabs/veritas/internal/model"
)

var (
	cfgFile string
	verbose bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "veritas",
	Short: "Veritas - Evidence-based truthfulness verification for LLM answers",
	Long: `Veritas verifies free-text answers against a local evidence index.

It extracts factual claims from an answer, retrieves the most similar
documents from the index, classifies each claim as supported, partially
supported, unsupported, or conflicting, and aggregates the results into
a 0-100 truthfulness score with per-sentence risk highlighting.

Veritas measures agreement with the indexed evidence. It does not
determine absolute truth.`,
	SilenceErrors: true,
	SilenceUsage:  true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("veritas v0.1.0")
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $HOME/.veritas/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))

	rootCmd.AddCommand(versionCmd)
}

// initConfig reads in config file and VERITAS_* environment variables
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error finding home directory: %v\n", err)
			return
		}

		viper.AddConfigPath(home + "/.veritas")
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	viper.SetEnvPrefix("VERITAS")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil && verbose {
		fmt.Fprintf(os.Stderr, "Using config file: %s\n", viper.ConfigFileUsed())
	}
}

// newLogger builds the process logger. Verbose mode switches to the
// human-readable development encoder at debug level.
func newLogger() (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	cfg := zap.NewProductionConfig()
	cfg.OutputPaths = []string{"stderr"}
	cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	return cfg.Build()
}

// loadConfig merges defaults, config file, and environment into the
// pipeline configuration. A malformed configuration is fatal here,
// before any pipeline work starts.
func loadConfig() (*model.Config, error) {
	cfg := model.DefaultConfig()
	if err := viper.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parse configuration: %w", err)
	}

	// API keys come from the environment unless set explicitly
	if cfg.Embedding.APIKey == "" {
		cfg.Embedding.APIKey = os.Getenv("OPENAI_API_KEY")
	}
	if cfg.LLM.APIKey == "" {
		cfg.LLM.APIKey = os.Getenv("OPENAI_API_KEY")
	}
	if cfg.LLM.Provider == "ollama" && cfg.LLM.BaseURL == "" {
		cfg.LLM.BaseURL = os.Getenv("OLLAMA_BASE_URL")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// openStore returns a ready evidence index: the persisted one when it
// exists at the configured path, otherwise one built fresh from the
// documents directory.
func openStore(ctx context.Context, cfg *model.Config, logger *zap.Logger) (*index.Store, error) {
	encoder, err := embed.NewEncoder(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("create encoder: %w", err)
	}

	store := index.NewStore(encoder, logger)

	if _, statErr := os.Stat(cfg.Data.IndexPath + ".json"); statErr == nil {
		if err := store.LoadState(cfg.Data.IndexPath); err != nil {
			return nil, fmt.Errorf("load index: %w", err)
		}
		logger.Info("loaded persisted index",
			zap.String("path", cfg.Data.IndexPath),
			zap.Int("documents", store.Len()))
		return store, nil
	}

	loader := docsource.NewLoader(cfg.Data.DocumentsPath, logger)
	docs, err := loader.LoadDocuments()
	if err != nil {
		return nil, fmt.Errorf("load documents: %w", err)
	}
	if len(docs) == 0 {
		return nil, fmt.Errorf("no documents found under %s; add .txt or .json files, or run 'veritas index build'", cfg.Data.DocumentsPath)
	}

	if err := store.AddDocuments(ctx, docs); err != nil {
		return nil, fmt.Errorf("index documents: %w", err)
	}
	return store, nil
}

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
