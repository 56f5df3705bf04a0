package main

import (
	"fmt"
	"os"

	"github.com/mondocite/mondocite/internal/importer"
	"github.com/mondocite/mondocite/internal/storage"
	"github.com/spf13/cobra"
)

var importDryRun bool

func init() {
	importCmd.Flags().BoolVar(&importDryRun, "dry-run", false, "Show what would be imported without writing")
	rootCmd.AddCommand(importCmd)
}

var importCmd = &cobra.Command{
	Use:   "import <file.json>",
	Short: "Import citations from a JSON file",
	Long: `Import citations from a JSON file in the export shape
(a single object or an array, as written by "cite export --format json").

Entries whose id matches an existing citation replace it; others are
appended. Entries without an id get a fresh one. Numeric fields may be
strings or numbers.`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

// ImportResult represents the result of an import operation.
type ImportResult struct {
	Imported int      `json:"imported"`
	Updated  int      `json:"updated"`
	DryRun   bool     `json:"dry_run,omitempty"`
	Errors   []string `json:"errors"`
}

func runImport(cmd *cobra.Command, args []string) error {
	repoRoot := mustFindRepository()

	data, err := os.ReadFile(args[0])
	if err != nil {
		exitWithError(ExitError, "reading file: %v", err)
	}

	incoming, parseErrors := importer.ParseJSON(data)
	errMsgs := make([]string, len(parseErrors))
	for i, e := range parseErrors {
		errMsgs[i] = e.Error()
	}
	if len(incoming) == 0 && len(parseErrors) > 0 {
		if humanOutput {
			fmt.Fprintln(os.Stderr, "error: failed to parse any citations")
			for _, e := range errMsgs {
				fmt.Fprintf(os.Stderr, "  - %s\n", e)
			}
			os.Exit(ExitDataError)
		}
		exitWithError(ExitDataError, "failed to parse any citations: %s", errMsgs[0])
	}

	cs := mustReadCitations(repoRoot)
	result := ImportResult{DryRun: importDryRun, Errors: errMsgs}
	for _, c := range incoming {
		if i, ok := storage.FindByID(cs, c.ID); ok {
			c.CreatedAt = cs[i].CreatedAt
			cs[i] = c
			result.Updated++
			continue
		}
		cs = append(cs, c)
		result.Imported++
	}

	if !importDryRun {
		mustWriteCitations(repoRoot, cs)
		mustRebuild(repoRoot)
	}

	if humanOutput {
		verb := "Imported"
		if importDryRun {
			verb = "Would import"
		}
		fmt.Printf("%s %d new, %d updated citations\n", verb, result.Imported, result.Updated)
		for _, e := range errMsgs {
			fmt.Printf("  skipped: %s\n", e)
		}
	} else {
		outputJSON(result)
	}
	return nil
}
