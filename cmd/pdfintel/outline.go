package main

import (
	"github.com/spf13/cobra"
)

var outlineCmd = &cobra.Command{
	Use:   "outline <file.pdf>",
	Short: "Extract the title and heading outline of a PDF",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		orch, err := newOrchestrator()
		if err != nil {
			return err
		}
		up, err := readUpload(args[0])
		if err != nil {
			return err
		}
		res, err := orch.AnalyzeSingle(cmd.Context(), up)
		if err != nil {
			return err
		}
		return writeOutput(cmd.OutOrStdout(), res)
	},
}
