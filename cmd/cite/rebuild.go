package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(rebuildCmd)
}

var rebuildCmd = &cobra.Command{
	Use:   "rebuild",
	Short: "Rebuild the query layer from source data",
	Long: `Rebuild the SQLite query database from the JSONL source files.

Use this after pulling changes from git or if the database becomes corrupted.`,
	Args: cobra.NoArgs,
	RunE: runRebuild,
}

// RebuildResult is the response for the rebuild command.
type RebuildResult struct {
	Status      string `json:"status"`
	Citations   int    `json:"citations"`
	Collections int    `json:"collections"`
}

func runRebuild(cmd *cobra.Command, args []string) error {
	repoRoot := mustFindRepository()
	stats := mustRebuild(repoRoot)

	if humanOutput {
		fmt.Printf("Rebuilt query database with %d citations and %d collections\n", stats.Citations, stats.Collections)
	} else {
		outputJSON(RebuildResult{
			Status:      "rebuilt",
			Citations:   stats.Citations,
			Collections: stats.Collections,
		})
	}
	return nil
}
