package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/mondocite/mondocite/internal/citation"
	"github.com/mondocite/mondocite/internal/export"
	"github.com/mondocite/mondocite/internal/storage"
	"github.com/spf13/cobra"
)

var (
	exportFormat     string
	exportIDs        string
	exportCollection string
	exportOut        string
)

func init() {
	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", "", "Export format (bibtex, ris, json, csv); defaults to the library's default_format")
	exportCmd.Flags().StringVar(&exportIDs, "ids", "", "Comma-separated citation IDs to export")
	exportCmd.Flags().StringVar(&exportCollection, "collection", "", "Export the citations of a collection (ID or name)")
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "", "Write to a file instead of stdout")
	rootCmd.AddCommand(exportCmd)
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export citations to BibTeX, RIS, JSON or CSV",
	Long: `Export citations to an exchange format.

Without --ids or --collection the whole library is exported.
The exported document is written to stdout unless --out is given.

Examples:
  cite export --format bibtex > library.bib
  cite export --format ris --collection Thesis --out thesis.ris
  cite export --format csv --ids 3f2b9c1e,9a7d0c2f`,
	Args: cobra.NoArgs,
	RunE: runExport,
}

// ExportResult is the response when writing to a file.
type ExportResult struct {
	Status string        `json:"status"`
	Path   string        `json:"path"`
	Format export.Format `json:"format"`
	Count  int           `json:"count"`
}

func runExport(cmd *cobra.Command, args []string) error {
	repoRoot := mustFindRepository()
	cfg := mustLoadConfig(repoRoot)

	f := cfg.Format()
	if exportFormat != "" {
		parsed, err := export.ParseFormat(exportFormat)
		if err != nil {
			exitWithError(ExitError, "%v (valid: %v)", err, export.Formats())
		}
		f = parsed
	}

	db := mustOpenDatabase(repoRoot)
	defer db.Close()

	cs := selectForExport(db, repoRoot)

	body, err := export.RenderList(cs, f)
	if err != nil {
		exitWithError(ExitError, "exporting: %v", err)
	}
	if body != "" && !strings.HasSuffix(body, "\n") {
		body += "\n"
	}

	if exportOut == "" {
		fmt.Print(body)
		return nil
	}

	if err := os.WriteFile(exportOut, []byte(body), 0644); err != nil {
		exitWithError(ExitError, "writing %s: %v", exportOut, err)
	}
	if humanOutput {
		fmt.Printf("Exported %d citations to %s\n", len(cs), exportOut)
	} else {
		outputJSON(ExportResult{Status: "exported", Path: exportOut, Format: f, Count: len(cs)})
	}
	return nil
}

// selectForExport returns the citations named by --ids or --collection,
// or the whole library.
func selectForExport(db *storage.DB, repoRoot string) []citation.Citation {
	var ids []string
	switch {
	case exportIDs != "" && exportCollection != "":
		exitWithError(ExitError, "use either --ids or --collection, not both")
	case exportIDs != "":
		ids = splitIDs(exportIDs)
	case exportCollection != "":
		cols := mustReadCollections(repoRoot)
		i, ok := storage.FindCollection(cols, exportCollection)
		if !ok {
			exitWithError(ExitNotFound, "collection not found: %s", exportCollection)
		}
		ids = cols[i].CitationIDs
		if len(ids) == 0 {
			return []citation.Citation{}
		}
	default:
		cs, err := db.List(storage.ListFilter{})
		if err != nil {
			exitWithError(ExitError, "listing citations: %v", err)
		}
		return cs
	}

	cs, err := db.GetByIDs(ids)
	if err != nil {
		exitWithError(ExitError, "getting citations: %v", err)
	}
	if exportIDs != "" && len(cs) != len(ids) {
		exitWithError(ExitNotFound, "citations not found: %s", strings.Join(missingIDs(ids, cs), ", "))
	}
	return cs
}

// splitIDs parses a comma-separated ID list, dropping blanks and duplicates.
func splitIDs(s string) []string {
	seen := map[string]bool{}
	var ids []string
	for _, id := range strings.Split(s, ",") {
		id = strings.TrimSpace(id)
		if id != "" && !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}
	return ids
}

func missingIDs(want []string, got []citation.Citation) []string {
	have := make(map[string]bool, len(got))
	for _, c := range got {
		have[c.ID] = true
	}
	var missing []string
	for _, id := range want {
		if !have[id] {
			missing = append(missing, id)
		}
	}
	return missing
}
