package main

import (
	"github.com/mondocite/mondocite/internal/citation"
	"github.com/mondocite/mondocite/internal/storage"
	"github.com/spf13/cobra"
)

var (
	listType       string
	listYearFrom   int
	listYearTo     int
	listFavorites  bool
	listCollection string
	listTag        string
	listLimit      int

	searchLimit int
)

func init() {
	listCmd.Flags().StringVar(&listType, "type", "", "Only citations of this type (article, book, ...)")
	listCmd.Flags().IntVar(&listYearFrom, "year-from", 0, "Earliest publication year")
	listCmd.Flags().IntVar(&listYearTo, "year-to", 0, "Latest publication year")
	listCmd.Flags().BoolVar(&listFavorites, "favorites", false, "Only favorite citations")
	listCmd.Flags().StringVar(&listCollection, "collection", "", "Only citations in this collection (ID or name)")
	listCmd.Flags().StringVar(&listTag, "tag", "", "Only citations with this tag")
	listCmd.Flags().IntVarP(&listLimit, "limit", "n", DefaultListLimit, "Maximum results (0 for all)")
	rootCmd.AddCommand(listCmd)

	searchCmd.Flags().IntVarP(&searchLimit, "limit", "n", DefaultListLimit, "Maximum results")
	rootCmd.AddCommand(searchCmd)
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List citations",
	Long: `List citations, newest first.

Examples:
  cite list --type book
  cite list --favorites --year-from 2020
  cite list --collection "Thesis" --human`,
	Args: cobra.NoArgs,
	RunE: runList,
}

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Full-text search over titles, abstracts, authors and journals",
	Args:  cobra.ExactArgs(1),
	RunE:  runSearch,
}

func runList(cmd *cobra.Command, args []string) error {
	repoRoot := mustFindRepository()
	db := mustOpenDatabase(repoRoot)
	defer db.Close()

	filter := storage.ListFilter{
		Type:          listType,
		YearFrom:      listYearFrom,
		YearTo:        listYearTo,
		FavoritesOnly: listFavorites,
		Tag:           listTag,
		Limit:         listLimit,
	}
	if listCollection != "" {
		cols := mustReadCollections(repoRoot)
		i, ok := storage.FindCollection(cols, listCollection)
		if !ok {
			exitWithError(ExitNotFound, "collection not found: %s", listCollection)
		}
		filter.CollectionID = cols[i].ID
	}

	cs, err := db.List(filter)
	if err != nil {
		exitWithError(ExitError, "listing citations: %v", err)
	}
	printCitations(cs)
	return nil
}

func runSearch(cmd *cobra.Command, args []string) error {
	repoRoot := mustFindRepository()
	db := mustOpenDatabase(repoRoot)
	defer db.Close()

	cs, err := db.Search(args[0], searchLimit)
	if err != nil {
		exitWithError(ExitError, "searching: %v", err)
	}
	printCitations(cs)
	return nil
}

func printCitations(cs []citation.Citation) {
	if humanOutput {
		printCitationRows(cs)
		return
	}
	if cs == nil {
		cs = []citation.Citation{}
	}
	outputJSON(cs)
}
