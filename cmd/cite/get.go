package main

import (
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(getCmd)
}

var getCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Get a single citation by ID",
	Long: `Get a single citation by its ID.

Example:
  cite get 3f2b9c1e-...`,
	Args: cobra.ExactArgs(1),
	RunE: runGet,
}

func runGet(cmd *cobra.Command, args []string) error {
	repoRoot := mustFindRepository()
	db := mustOpenDatabase(repoRoot)
	defer db.Close()

	c := mustFindCitation(db, args[0])

	if humanOutput {
		printCitationDetail(c)
	} else {
		outputJSON(c)
	}
	return nil
}
