package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/mondocite/mondocite/internal/config"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(initCmd)
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize a new citation library",
	Long: `Initialize a new citation library in the current directory
(or $CITE_ROOT when set).

Creates:
  .mondocite/
  ├── citations.jsonl    # Empty file
  ├── collections.jsonl  # Empty file
  ├── config.json        # Default config
  ├── .gitignore         # Ignores cache/
  └── cache/             # Query database (rebuilt from JSONL)`,
	Args: cobra.NoArgs,
	RunE: runInit,
}

func runInit(cmd *cobra.Command, args []string) error {
	root := os.Getenv(config.RootEnv)
	if root == "" {
		cwd, err := os.Getwd()
		if err != nil {
			exitWithError(ExitError, "getting current directory: %v", err)
		}
		root = cwd
	}
	root = config.ExpandPath(root)

	if config.IsRepository(root) {
		exitWithError(ExitError, "directory already contains a citation library")
	}

	if err := os.MkdirAll(config.CachePath(root), 0755); err != nil {
		exitWithError(ExitError, "creating %s directory: %v", config.RepoDir, err)
	}

	for _, path := range []string{config.CitationsPath(root), config.CollectionsPath(root)} {
		f, err := os.Create(path)
		if err != nil {
			exitWithError(ExitError, "creating %s: %v", filepath.Base(path), err)
		}
		f.Close()
	}

	gitignore := filepath.Join(config.RepoPath(root), ".gitignore")
	if err := os.WriteFile(gitignore, []byte(config.CacheDir+"/\n"), 0644); err != nil {
		exitWithError(ExitError, "writing .gitignore: %v", err)
	}

	if err := config.Default().Save(root); err != nil {
		exitWithError(ExitError, "%v", err)
	}

	if humanOutput {
		fmt.Printf("Initialized citation library in %s\n", config.RepoPath(root))
	} else {
		outputJSON(StatusResponse{Status: "initialized", Path: config.RepoPath(root)})
	}
	return nil
}
