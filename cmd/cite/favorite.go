package main

import (
	"fmt"
	"time"

	"github.com/mondocite/mondocite/internal/storage"
	"github.com/spf13/cobra"
)

var favoriteUnset bool

func init() {
	favoriteCmd.Flags().BoolVar(&favoriteUnset, "unset", false, "Remove the favorite mark instead")
	rootCmd.AddCommand(favoriteCmd)
}

var favoriteCmd = &cobra.Command{
	Use:   "favorite <id>",
	Short: "Mark a citation as a favorite",
	Args:  cobra.ExactArgs(1),
	RunE:  runFavorite,
}

func runFavorite(cmd *cobra.Command, args []string) error {
	repoRoot := mustFindRepository()
	id := args[0]

	cs := mustReadCitations(repoRoot)
	i, ok := storage.FindByID(cs, id)
	if !ok {
		exitWithError(ExitNotFound, "citation not found: %s", id)
	}

	cs[i].IsFavorite = !favoriteUnset
	cs[i].UpdatedAt = time.Now().UTC()

	mustWriteCitations(repoRoot, cs)
	mustRebuild(repoRoot)

	if humanOutput {
		if cs[i].IsFavorite {
			fmt.Printf("Marked %s as favorite\n", id)
		} else {
			fmt.Printf("Unmarked %s\n", id)
		}
	} else {
		outputJSON(cs[i])
	}
	return nil
}
