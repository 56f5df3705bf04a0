package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/mondocite/mondocite/internal/citation"
	"github.com/mondocite/mondocite/internal/storage"
	"github.com/spf13/cobra"
)

var collectionDescription string

func init() {
	collectionCreateCmd.Flags().StringVarP(&collectionDescription, "description", "d", "", "Collection description")

	collectionCmd.AddCommand(collectionCreateCmd)
	collectionCmd.AddCommand(collectionAddCmd)
	collectionCmd.AddCommand(collectionRemoveCmd)
	collectionCmd.AddCommand(collectionListCmd)
	collectionCmd.AddCommand(collectionDeleteCmd)
	rootCmd.AddCommand(collectionCmd)
}

var collectionCmd = &cobra.Command{
	Use:     "collection",
	Aliases: []string{"col"},
	Short:   "Group citations into named collections",
	Long: `Group citations into named collections.

Collections are referenced by ID or by name (case-insensitive).
A citation may belong to any number of collections.`,
}

var collectionCreateCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Create a collection",
	Args:  cobra.ExactArgs(1),
	RunE:  runCollectionCreate,
}

var collectionAddCmd = &cobra.Command{
	Use:   "add <collection> <id>...",
	Short: "Add citations to a collection",
	Args:  cobra.MinimumNArgs(2),
	RunE:  runCollectionAdd,
}

var collectionRemoveCmd = &cobra.Command{
	Use:   "remove <collection> <id>...",
	Short: "Remove citations from a collection",
	Args:  cobra.MinimumNArgs(2),
	RunE:  runCollectionRemove,
}

var collectionListCmd = &cobra.Command{
	Use:   "list",
	Short: "List collections",
	Args:  cobra.NoArgs,
	RunE:  runCollectionList,
}

var collectionDeleteCmd = &cobra.Command{
	Use:   "delete <collection>",
	Short: "Delete a collection (its citations are kept)",
	Args:  cobra.ExactArgs(1),
	RunE:  runCollectionDelete,
}

func runCollectionCreate(cmd *cobra.Command, args []string) error {
	repoRoot := mustFindRepository()
	name := strings.TrimSpace(args[0])
	if name == "" {
		exitWithError(ExitDataError, "collection name cannot be empty")
	}

	cols := mustReadCollections(repoRoot)
	if i, ok := storage.FindCollection(cols, name); ok && strings.EqualFold(cols[i].Name, name) {
		exitWithError(ExitDataError, "collection already exists: %s", cols[i].Name)
	}

	col := citation.Collection{
		ID:          citation.NewID(),
		Name:        name,
		Description: collectionDescription,
		CitationIDs: []string{},
		CreatedAt:   time.Now().UTC(),
	}
	cols = append(cols, col)

	mustWriteCollections(repoRoot, cols)
	mustRebuild(repoRoot)

	if humanOutput {
		fmt.Printf("Created collection %s (%s)\n", col.Name, col.ID)
	} else {
		outputJSON(col)
	}
	return nil
}

func runCollectionAdd(cmd *cobra.Command, args []string) error {
	repoRoot := mustFindRepository()
	cols := mustReadCollections(repoRoot)
	i := mustFindCollection(cols, args[0])

	cs := mustReadCitations(repoRoot)
	for _, id := range args[1:] {
		if _, ok := storage.FindByID(cs, id); !ok {
			exitWithError(ExitNotFound, "citation not found: %s", id)
		}
	}

	added := addMembers(&cols[i], args[1:])

	mustWriteCollections(repoRoot, cols)
	mustRebuild(repoRoot)

	if humanOutput {
		fmt.Printf("Added %d citations to %s\n", added, cols[i].Name)
	} else {
		outputJSON(cols[i])
	}
	return nil
}

func runCollectionRemove(cmd *cobra.Command, args []string) error {
	repoRoot := mustFindRepository()
	cols := mustReadCollections(repoRoot)
	i := mustFindCollection(cols, args[0])

	removed := removeMembers(&cols[i], args[1:])

	mustWriteCollections(repoRoot, cols)
	mustRebuild(repoRoot)

	if humanOutput {
		fmt.Printf("Removed %d citations from %s\n", removed, cols[i].Name)
	} else {
		outputJSON(cols[i])
	}
	return nil
}

func runCollectionList(cmd *cobra.Command, args []string) error {
	repoRoot := mustFindRepository()
	db := mustOpenDatabase(repoRoot)
	defer db.Close()

	cols, err := db.ListCollections()
	if err != nil {
		exitWithError(ExitError, "listing collections: %v", err)
	}

	if humanOutput {
		if len(cols) == 0 {
			fmt.Println("No collections.")
		}
		for _, col := range cols {
			fmt.Printf("%-36s  %-24s  %d citations\n", col.ID, truncateString(col.Name, 24), len(col.CitationIDs))
		}
		return nil
	}
	if cols == nil {
		cols = []citation.Collection{}
	}
	outputJSON(cols)
	return nil
}

func runCollectionDelete(cmd *cobra.Command, args []string) error {
	repoRoot := mustFindRepository()
	cols := mustReadCollections(repoRoot)
	i := mustFindCollection(cols, args[0])
	deleted := cols[i]

	cols = append(cols[:i], cols[i+1:]...)
	mustWriteCollections(repoRoot, cols)
	mustRebuild(repoRoot)

	if humanOutput {
		fmt.Printf("Deleted collection %s\n", deleted.Name)
	} else {
		outputJSON(StatusResponse{Status: "deleted", ID: deleted.ID})
	}
	return nil
}

func mustFindCollection(cols []citation.Collection, idOrName string) int {
	i, ok := storage.FindCollection(cols, idOrName)
	if !ok {
		exitWithError(ExitNotFound, "collection not found: %s", idOrName)
	}
	return i
}

// addMembers appends ids not already present, keeping insertion order.
// Returns how many were added.
func addMembers(col *citation.Collection, ids []string) int {
	added := 0
	for _, id := range ids {
		if !col.Contains(id) {
			col.CitationIDs = append(col.CitationIDs, id)
			added++
		}
	}
	return added
}

// removeMembers drops ids from the collection. Returns how many were removed.
func removeMembers(col *citation.Collection, ids []string) int {
	drop := make(map[string]bool, len(ids))
	for _, id := range ids {
		drop[id] = true
	}
	kept := make([]string, 0, len(col.CitationIDs))
	for _, id := range col.CitationIDs {
		if !drop[id] {
			kept = append(kept, id)
		}
	}
	removed := len(col.CitationIDs) - len(kept)
	col.CitationIDs = kept
	return removed
}
