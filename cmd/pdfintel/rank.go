package main

import (
	"github.com/spf13/cobra"

	"github.com/aditisha019/PDF-Analyzer-Adobe/internal/doctree"
	"github.com/aditisha019/PDF-Analyzer-Adobe/internal/pipeline"
)

var (
	persona string
	job     string
	topN    int
)

var rankCmd = &cobra.Command{
	Use:   "rank <file.pdf>...",
	Short: "Rank sections across PDFs for a persona and job to be done",
	Long: `Rank extracts every PDF, splits it into sections and returns the sections
most relevant to the persona and job, each with a key excerpt.

Examples:
  pdfintel rank --persona investor --job "analyze revenue trends" q1.pdf q2.pdf q3.pdf
  pdfintel rank --top-n 5 -o yaml papers/*.pdf`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		orch, err := newOrchestrator()
		if err != nil {
			return err
		}
		uploads := make([]pipeline.Upload, 0, len(args))
		for _, path := range args {
			up, err := readUpload(path)
			if err != nil {
				return err
			}
			uploads = append(uploads, up)
		}
		res, err := orch.AnalyzeMulti(cmd.Context(), uploads,
			doctree.PersonaProfile{Persona: persona, JobToBeDone: job}, topN)
		if err != nil {
			return err
		}
		return writeOutput(cmd.OutOrStdout(), res)
	},
}

func init() {
	rankCmd.Flags().StringVar(&persona, "persona", "", "reader persona (default from DEFAULT_PERSONA)")
	rankCmd.Flags().StringVar(&job, "job", "", "job to be done (default from DEFAULT_JOB)")
	rankCmd.Flags().IntVar(&topN, "top-n", 0, "maximum sections to return (0 returns all)")
}
