package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/aditisha019/PDF-Analyzer-Adobe/internal/config"
	"github.com/aditisha019/PDF-Analyzer-Adobe/internal/parser"
	"github.com/aditisha019/PDF-Analyzer-Adobe/internal/pipeline"
)

var (
	cfgFile      string
	outputFormat string
	verbose      bool
)

var rootCmd = &cobra.Command{
	Use:   "pdfintel",
	Short: "Offline PDF outline extraction and persona-driven section ranking",
	Long: `pdfintel analyzes PDF files locally, without a running server.

  outline  extracts the title and H1-H3 headings of one PDF
  rank     ranks the sections of several PDFs for a persona and task

Limits and timeouts come from the same environment variables as the server.
Scoring weights can be overridden with --config (YAML).`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile, "config", "", "scoring config file (YAML, default: built-in weights)",
	)
	rootCmd.PersistentFlags().StringVarP(
		&outputFormat, "output", "o", "json", "output format: json or yaml",
	)
	rootCmd.PersistentFlags().BoolVarP(
		&verbose, "verbose", "v", false, "log progress to stderr",
	)

	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		return setOutputFormat(outputFormat)
	}

	rootCmd.AddCommand(outlineCmd)
	rootCmd.AddCommand(rankCmd)
}

// newOrchestrator builds a pipeline without result persistence.
func newOrchestrator() (*pipeline.Orchestrator, error) {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	scoring, err := config.LoadScoring(cfgFile)
	if err != nil {
		return nil, err
	}
	return pipeline.NewOrchestrator(cfg, scoring, parser.NewPDFParser(), nil, log)
}

func readUpload(path string) (pipeline.Upload, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return pipeline.Upload{}, fmt.Errorf("read %s: %w", path, err)
	}
	return pipeline.Upload{Name: filepath.Base(path), Data: data}, nil
}
