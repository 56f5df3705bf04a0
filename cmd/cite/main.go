// Package main provides the cite CLI entry point.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/mondocite/mondocite/internal/citation"
	"github.com/mondocite/mondocite/internal/config"
	"github.com/mondocite/mondocite/internal/logging"
	"github.com/mondocite/mondocite/internal/storage"
	"github.com/spf13/cobra"
)

// Version is set at build time via ldflags
var Version = "dev"

// humanOutput controls whether to use human-readable output
var humanOutput bool

func main() {
	if err := rootCmd.Execute(); err != nil {
		// Print the error since we have SilenceErrors: true
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(ExitError)
	}
}

var rootCmd = &cobra.Command{
	Use:   "cite",
	Short: "Citation library and formatter",
	Long: `cite manages a library of bibliographic citations.

Core features:
  - Format citations in APA, MLA, Chicago, Harvard and IEEE styles
  - Export to BibTeX, RIS, CSV and JSON
  - Look up metadata by DOI (CrossRef), PDF or publisher landing page
  - Organize citations into collections
  - Serve the library over a JSON HTTP API

Data is stored in git-versionable JSONL with ephemeral SQLite for queries.
All commands output JSON by default; use --human for readable output.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&humanOutput, "human", false, "Use human-readable output instead of JSON")
	rootCmd.Version = Version
}

// mustFindRepository finds and validates the repository, exits on error.
// Returns the repository root path.
func mustFindRepository() string {
	start, err := config.StartDir()
	if err != nil {
		exitWithError(ExitError, "getting current directory: %v", err)
	}

	repoRoot, err := config.FindRepository(start)
	if err != nil {
		exitWithError(ExitConfigError, "%v\n\nRun 'cite init' to create a library here, or set %s.", err, config.RootEnv)
	}
	return repoRoot
}

// mustOpenDatabase opens the SQLite database, exits on error.
// The caller is responsible for calling Close() on the returned DB.
func mustOpenDatabase(repoRoot string) *storage.DB {
	if err := os.MkdirAll(config.CachePath(repoRoot), 0755); err != nil {
		exitWithError(ExitError, "creating cache directory: %v", err)
	}
	db, err := storage.OpenDB(config.DBPath(repoRoot))
	if err != nil {
		exitWithError(ExitError, "opening database: %v", err)
	}
	return db
}

// mustLoadConfig loads configuration, exits on error.
func mustLoadConfig(repoRoot string) *config.Config {
	cfg, err := config.Load(repoRoot)
	if err != nil {
		exitWithError(ExitConfigError, "loading config: %v", err)
	}
	return cfg
}

// mustReadCitations reads the citation source of truth, exits on error.
func mustReadCitations(repoRoot string) []citation.Citation {
	cs, err := storage.ReadAll(config.CitationsPath(repoRoot))
	if err != nil {
		exitWithError(ExitDataError, "reading citations: %v", err)
	}
	return cs
}

// mustReadCollections reads the collection source of truth, exits on error.
func mustReadCollections(repoRoot string) []citation.Collection {
	cols, err := storage.ReadCollections(config.CollectionsPath(repoRoot))
	if err != nil {
		exitWithError(ExitDataError, "reading collections: %v", err)
	}
	return cols
}

// mustWriteCitations replaces citations.jsonl, exits on error.
func mustWriteCitations(repoRoot string, cs []citation.Citation) {
	if err := storage.WriteAll(config.CitationsPath(repoRoot), cs); err != nil {
		exitWithError(ExitError, "writing citations: %v", err)
	}
}

// mustWriteCollections replaces collections.jsonl, exits on error.
func mustWriteCollections(repoRoot string, cols []citation.Collection) {
	if err := storage.WriteCollections(config.CollectionsPath(repoRoot), cols); err != nil {
		exitWithError(ExitError, "writing collections: %v", err)
	}
}

// mustRebuild refreshes the query cache after the JSONL files change.
func mustRebuild(repoRoot string) storage.RebuildStats {
	db := mustOpenDatabase(repoRoot)
	defer db.Close()

	stats, err := db.RebuildFromJSONL(config.CitationsPath(repoRoot), config.CollectionsPath(repoRoot))
	if err != nil {
		exitWithError(ExitDataError, "rebuilding database: %v", err)
	}
	return stats
}

// mustFindCitation looks a citation up in the cache, exits when missing.
func mustFindCitation(db *storage.DB, id string) citation.Citation {
	c, err := db.GetByID(id)
	if err != nil {
		exitWithError(ExitError, "getting citation: %v", err)
	}
	if c == nil {
		exitWithError(ExitNotFound, "citation not found: %s", id)
	}
	return *c
}

// newLogger builds the operational logger from the global config.
func newLogger() *slog.Logger {
	cfg, err := config.LoadGlobalConfig()
	if err != nil {
		exitWithError(ExitConfigError, "loading global config: %v", err)
	}
	return logging.New(cfg.LogLevel, cfg.LogFormat, os.Stderr)
}
