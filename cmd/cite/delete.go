package main

import (
	"fmt"

	"github.com/mondocite/mondocite/internal/storage"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(deleteCmd)
}

var deleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a citation",
	Long: `Delete a citation from the library.

The citation is also removed from every collection that contains it.`,
	Args: cobra.ExactArgs(1),
	RunE: runDelete,
}

// DeleteResult is the response for the delete command.
type DeleteResult struct {
	Status             string `json:"status"`
	ID                 string `json:"id"`
	CollectionsChanged int    `json:"collections_changed"`
}

func runDelete(cmd *cobra.Command, args []string) error {
	repoRoot := mustFindRepository()
	id := args[0]

	cs := mustReadCitations(repoRoot)
	i, ok := storage.FindByID(cs, id)
	if !ok {
		exitWithError(ExitNotFound, "citation not found: %s", id)
	}
	cs = append(cs[:i], cs[i+1:]...)

	cols := mustReadCollections(repoRoot)
	changed := storage.RemoveFromCollections(cols, id)

	mustWriteCitations(repoRoot, cs)
	if changed > 0 {
		mustWriteCollections(repoRoot, cols)
	}
	mustRebuild(repoRoot)

	if humanOutput {
		fmt.Printf("Deleted %s (removed from %d collections)\n", id, changed)
	} else {
		outputJSON(DeleteResult{Status: "deleted", ID: id, CollectionsChanged: changed})
	}
	return nil
}
